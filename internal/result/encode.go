package result

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// The dump codec writes a result tree as tagged, indented JSON. Every node
// carries an explicit kind so the original Go types survive the round trip:
// plain JSON numbers cannot distinguish int64 from float64, and cannot
// carry NaN or the infinities, so all scalars and array elements are
// encoded as strings and re-parsed by dtype on the way back in.

type node struct {
	Kind    string           `json:"kind"`
	Value   string           `json:"value,omitempty"`
	Items   []*node          `json:"items,omitempty"`
	Entries map[string]*node `json:"entries,omitempty"`
	DType   string           `json:"dtype,omitempty"`
	Shape   []int            `json:"shape,omitempty"`
	Data    []string         `json:"data,omitempty"`
}

// Encode serializes a result tree into its textual dump form.
func Encode(v Value) ([]byte, error) {
	n, err := encodeNode(v)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(n, "", "  ")
}

// Decode parses a textual dump back into the result tree it was made from.
func Decode(data []byte) (Value, error) {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("malformed result dump: %w", err)
	}
	return decodeNode(&n)
}

func encodeNode(v Value) (*node, error) {
	switch x := v.(type) {
	case bool:
		return &node{Kind: "bool", Value: strconv.FormatBool(x)}, nil
	case string:
		return &node{Kind: "string", Value: x}, nil
	case int64:
		return &node{Kind: "int", Value: strconv.FormatInt(x, 10)}, nil
	case float64:
		return &node{Kind: "float", Value: strconv.FormatFloat(x, 'g', -1, 64)}, nil
	case []Value:
		items := make([]*node, len(x))
		for i, item := range x {
			n, err := encodeNode(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = n
		}
		return &node{Kind: "list", Items: items}, nil
	case map[string]Value:
		entries := make(map[string]*node, len(x))
		for k, item := range x {
			n, err := encodeNode(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			entries[k] = n
		}
		return &node{Kind: "map", Entries: entries}, nil
	case *Array:
		return encodeArray(x), nil
	default:
		return nil, fmt.Errorf("cannot encode value of type %T", v)
	}
}

func encodeArray(a *Array) *node {
	n := a.NumElements()
	data := make([]string, n)
	for i := 0; i < n; i++ {
		switch a.dtype {
		case Float32:
			data[i] = strconv.FormatFloat(float64(a.AsFloat32()[i]), 'g', -1, 32)
		case Float64:
			data[i] = strconv.FormatFloat(a.AsFloat64()[i], 'g', -1, 64)
		case Int32:
			data[i] = strconv.FormatInt(int64(a.AsInt32()[i]), 10)
		case Int64:
			data[i] = strconv.FormatInt(a.AsInt64()[i], 10)
		case Uint8:
			data[i] = strconv.FormatUint(uint64(a.AsUint8()[i]), 10)
		case Bool:
			data[i] = strconv.FormatBool(a.AsBool()[i])
		}
	}
	return &node{Kind: "array", DType: a.dtype.String(), Shape: a.shape.Clone(), Data: data}
}

func decodeNode(n *node) (Value, error) {
	switch n.Kind {
	case "bool":
		return strconv.ParseBool(n.Value)
	case "string":
		return n.Value, nil
	case "int":
		return strconv.ParseInt(n.Value, 10, 64)
	case "float":
		return strconv.ParseFloat(n.Value, 64)
	case "list":
		items := make([]Value, len(n.Items))
		for i, item := range n.Items {
			v, err := decodeNode(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			items[i] = v
		}
		return items, nil
	case "map":
		entries := make(map[string]Value, len(n.Entries))
		for k, item := range n.Entries {
			v, err := decodeNode(item)
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			entries[k] = v
		}
		return entries, nil
	case "array":
		return decodeArray(n)
	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}
}

func decodeArray(n *node) (*Array, error) {
	dtype, err := parseDataType(n.DType)
	if err != nil {
		return nil, err
	}
	shape := Shape(n.Shape)
	a, err := newArray(shape, dtype)
	if err != nil {
		return nil, err
	}
	if len(n.Data) != a.NumElements() {
		return nil, fmt.Errorf("array data has %d elements, shape %v wants %d",
			len(n.Data), shape, a.NumElements())
	}
	for i, s := range n.Data {
		switch dtype {
		case Float32:
			f, err := strconv.ParseFloat(s, 32)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			a.AsFloat32()[i] = float32(f)
		case Float64:
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			a.AsFloat64()[i] = f
		case Int32:
			v, err := strconv.ParseInt(s, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			a.AsInt32()[i] = int32(v)
		case Int64:
			v, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			a.AsInt64()[i] = v
		case Uint8:
			v, err := strconv.ParseUint(s, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			a.AsUint8()[i] = uint8(v)
		case Bool:
			v, err := strconv.ParseBool(s)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			a.AsBool()[i] = v
		}
	}
	return a, nil
}
