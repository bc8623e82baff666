package result

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"unsafe"
)

// Array is a dense numeric array: a fixed shape, a fixed element type and a
// contiguous row-major buffer. Arrays are the numeric leaves of a result
// tree. They are snapshots of backend output and are never mutated after
// construction.
type Array struct {
	data  []byte
	shape Shape
	dtype DataType
}

func newArray(shape Shape, dtype DataType) (*Array, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shape: %w", err)
	}
	return &Array{
		data:  make([]byte, shape.NumElements()*dtype.Size()),
		shape: shape.Clone(),
		dtype: dtype,
	}, nil
}

// FromFloat32 builds a float32 array from a flat row-major slice.
func FromFloat32(data []float32, shape Shape) (*Array, error) {
	a, err := newArray(shape, Float32)
	if err != nil {
		return nil, err
	}
	if len(data) != a.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, a.NumElements())
	}
	copy(a.AsFloat32(), data)
	return a, nil
}

// FromFloat64 builds a float64 array from a flat row-major slice.
func FromFloat64(data []float64, shape Shape) (*Array, error) {
	a, err := newArray(shape, Float64)
	if err != nil {
		return nil, err
	}
	if len(data) != a.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, a.NumElements())
	}
	copy(a.AsFloat64(), data)
	return a, nil
}

// FromInt32 builds an int32 array from a flat row-major slice.
func FromInt32(data []int32, shape Shape) (*Array, error) {
	a, err := newArray(shape, Int32)
	if err != nil {
		return nil, err
	}
	if len(data) != a.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, a.NumElements())
	}
	copy(a.AsInt32(), data)
	return a, nil
}

// FromInt64 builds an int64 array from a flat row-major slice.
func FromInt64(data []int64, shape Shape) (*Array, error) {
	a, err := newArray(shape, Int64)
	if err != nil {
		return nil, err
	}
	if len(data) != a.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, a.NumElements())
	}
	copy(a.AsInt64(), data)
	return a, nil
}

// FromUint8 builds a uint8 array from a flat row-major slice.
func FromUint8(data []uint8, shape Shape) (*Array, error) {
	a, err := newArray(shape, Uint8)
	if err != nil {
		return nil, err
	}
	if len(data) != a.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, a.NumElements())
	}
	copy(a.AsUint8(), data)
	return a, nil
}

// FromBool builds a bool array from a flat row-major slice.
func FromBool(data []bool, shape Shape) (*Array, error) {
	a, err := newArray(shape, Bool)
	if err != nil {
		return nil, err
	}
	if len(data) != a.NumElements() {
		return nil, fmt.Errorf("data length %d does not match shape %v (%d elements)",
			len(data), shape, a.NumElements())
	}
	copy(a.AsBool(), data)
	return a, nil
}

// Shape returns a copy of the array dimensions.
func (a *Array) Shape() Shape { return a.shape.Clone() }

// DType returns the element type.
func (a *Array) DType() DataType { return a.dtype }

// NumElements returns the number of elements.
func (a *Array) NumElements() int { return a.shape.NumElements() }

// AsFloat32 returns the buffer viewed as []float32.
// Panics if the element type is not Float32.
func (a *Array) AsFloat32() []float32 {
	a.checkDType(Float32)
	return unsafe.Slice((*float32)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// AsFloat64 returns the buffer viewed as []float64.
func (a *Array) AsFloat64() []float64 {
	a.checkDType(Float64)
	return unsafe.Slice((*float64)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// AsInt32 returns the buffer viewed as []int32.
func (a *Array) AsInt32() []int32 {
	a.checkDType(Int32)
	return unsafe.Slice((*int32)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// AsInt64 returns the buffer viewed as []int64.
func (a *Array) AsInt64() []int64 {
	a.checkDType(Int64)
	return unsafe.Slice((*int64)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

// AsUint8 returns the buffer viewed as []uint8.
func (a *Array) AsUint8() []uint8 {
	a.checkDType(Uint8)
	return a.data
}

// AsBool returns the buffer viewed as []bool.
func (a *Array) AsBool() []bool {
	a.checkDType(Bool)
	return unsafe.Slice((*bool)(unsafe.Pointer(&a.data[0])), a.NumElements())
}

func (a *Array) checkDType(want DataType) {
	if a.dtype != want {
		panic(fmt.Sprintf("array has dtype %s, not %s", a.dtype, want))
	}
}

// floatAt returns element i as float64. Only valid for floating dtypes.
func (a *Array) floatAt(i int) float64 {
	switch a.dtype {
	case Float32:
		return float64(a.AsFloat32()[i])
	case Float64:
		return a.AsFloat64()[i]
	default:
		panic(fmt.Sprintf("floatAt on %s array", a.dtype))
	}
}

// Equal reports exact element-wise equality: same dtype, same shape and
// identical elements. Floating elements compare by value, so NaN is never
// equal to NaN.
func (a *Array) Equal(other *Array) bool {
	if other == nil || a.dtype != other.dtype || !a.shape.Equal(other.shape) {
		return false
	}
	if !a.dtype.IsFloat() {
		return bytes.Equal(a.data, other.data)
	}
	for i := 0; i < a.NumElements(); i++ {
		if a.floatAt(i) != other.floatAt(i) {
			return false
		}
	}
	return true
}

// AllClose reports tolerant element-wise agreement. Every element pair must
// satisfy |a-b| <= atol + rtol*|b|, with the receiver as reference and other
// as candidate; the formula scales by the candidate magnitude, so the check
// is directional. The tolerances apply to every element type: integral
// elements (bool counts as 0/1) take their difference in integer space, so
// zero tolerances mean exact equality and int64 values beyond float64's
// integer range are never conflated. Shape or dtype mismatch is reported as
// not-close, never as an error, so AllClose is safe to use as a soft
// equivalence predicate.
func (a *Array) AllClose(other *Array, rtol, atol float64) bool {
	if other == nil || a.dtype != other.dtype || !a.shape.Equal(other.shape) {
		return false
	}
	if a.dtype.IsFloat() {
		for i := 0; i < a.NumElements(); i++ {
			if !closeFloat(a.floatAt(i), other.floatAt(i), rtol, atol) {
				return false
			}
		}
		return true
	}
	for i := 0; i < a.NumElements(); i++ {
		if !closeInt64(a.intAt(i), other.intAt(i), rtol, atol) {
			return false
		}
	}
	return true
}

// intAt returns element i as int64. Only valid for non-floating dtypes;
// bool maps to 0/1.
func (a *Array) intAt(i int) int64 {
	switch a.dtype {
	case Int32:
		return int64(a.AsInt32()[i])
	case Int64:
		return a.AsInt64()[i]
	case Uint8:
		return int64(a.AsUint8()[i])
	case Bool:
		if a.AsBool()[i] {
			return 1
		}
		return 0
	default:
		panic(fmt.Sprintf("intAt on %s array", a.dtype))
	}
}

// closeFloat implements the standard tolerant comparison with ref on the
// left and cand on the right.
func closeFloat(ref, cand, rtol, atol float64) bool {
	return math.Abs(ref-cand) <= atol+rtol*math.Abs(cand)
}

// closeInt64 is the tolerant comparison for integral values. The difference
// is computed in uint64, which holds the magnitude of any int64 pair
// exactly; only the comparison against the bound goes through float64.
func closeInt64(ref, cand int64, rtol, atol float64) bool {
	var diff uint64
	if ref > cand {
		diff = uint64(ref) - uint64(cand)
	} else {
		diff = uint64(cand) - uint64(ref)
	}
	return float64(diff) <= atol+rtol*math.Abs(float64(cand))
}

// String returns a compact printable form, eliding large buffers.
func (a *Array) String() string {
	const maxElems = 16
	var sb strings.Builder
	fmt.Fprintf(&sb, "array(%s, shape=%v, [", a.dtype, a.shape)
	n := a.NumElements()
	shown := n
	if shown > maxElems {
		shown = maxElems
	}
	for i := 0; i < shown; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		switch a.dtype {
		case Float32, Float64:
			fmt.Fprintf(&sb, "%g", a.floatAt(i))
		case Int32:
			fmt.Fprintf(&sb, "%d", a.AsInt32()[i])
		case Int64:
			fmt.Fprintf(&sb, "%d", a.AsInt64()[i])
		case Uint8:
			fmt.Fprintf(&sb, "%d", a.AsUint8()[i])
		case Bool:
			fmt.Fprintf(&sb, "%t", a.AsBool()[i])
		}
	}
	if shown < n {
		fmt.Fprintf(&sb, " ... %d more", n-shown)
	}
	sb.WriteString("])")
	return sb.String()
}
