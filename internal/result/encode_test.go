package result

import (
	"math"
	"strings"
	"testing"
)

// TestEncodeDecodeRoundTrip verifies a nested tree survives the dump codec.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	logits, err := FromFloat32([]float32{1.5, -2.25, 0}, Shape{3})
	if err != nil {
		t.Fatalf("FromFloat32 failed: %v", err)
	}
	counts, err := FromInt64([]int64{9007199254740993, -1}, Shape{2})
	if err != nil {
		t.Fatalf("FromInt64 failed: %v", err)
	}
	tree := map[string]Value{
		"logits": logits,
		"counts": counts,
		"meta": []Value{
			"run-1",
			int64(42),
			2.718281828459045,
			true,
		},
	}

	data, err := Encode(tree)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if !Equal(tree, back) {
		t.Errorf("round trip changed the tree:\noriginal: %v\ndecoded:  %v", tree, back)
	}
}

// TestEncodeDecodeInt64Precision verifies int64 values beyond float64's
// integer range survive.
func TestEncodeDecodeInt64Precision(t *testing.T) {
	v := Value(int64(math.MaxInt64))
	data, err := Encode(v)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if back != int64(math.MaxInt64) {
		t.Errorf("got %v, want %d", back, int64(math.MaxInt64))
	}
}

// TestEncodeDecodeNonFinite verifies NaN and the infinities round-trip.
func TestEncodeDecodeNonFinite(t *testing.T) {
	arr, err := FromFloat64([]float64{math.NaN(), math.Inf(1), math.Inf(-1), 0}, Shape{4})
	if err != nil {
		t.Fatalf("FromFloat64 failed: %v", err)
	}

	data, err := Encode(arr)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	got, ok := back.(*Array)
	if !ok {
		t.Fatalf("decoded to %T, want *Array", back)
	}
	vals := got.AsFloat64()
	if !math.IsNaN(vals[0]) {
		t.Errorf("element 0 = %v, want NaN", vals[0])
	}
	if !math.IsInf(vals[1], 1) || !math.IsInf(vals[2], -1) {
		t.Errorf("infinities did not survive: %v", vals)
	}
	if vals[3] != 0 {
		t.Errorf("element 3 = %v, want 0", vals[3])
	}
}

// TestEncodeIsTextual verifies dumps stay human-readable.
func TestEncodeIsTextual(t *testing.T) {
	arr, err := FromFloat32([]float32{1.5}, Shape{1})
	if err != nil {
		t.Fatalf("FromFloat32 failed: %v", err)
	}
	data, err := Encode(map[string]Value{"x": arr})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	text := string(data)
	for _, want := range []string{`"kind"`, `"map"`, `"array"`, `"float32"`, `"1.5"`} {
		if !strings.Contains(text, want) {
			t.Errorf("dump missing %s:\n%s", want, text)
		}
	}
}

// TestEncodeRejectsUnknownTypes verifies values outside the closed leaf set
// fail instead of silently degrading.
func TestEncodeRejectsUnknownTypes(t *testing.T) {
	if _, err := Encode(struct{ X int }{1}); err == nil {
		t.Error("Encode accepted an arbitrary struct")
	}
	if _, err := Encode([]Value{int32(1)}); err == nil {
		t.Error("Encode accepted an int32 scalar (int64 is the scalar int type)")
	}
}

// TestDecodeRejectsMalformed verifies strict decoding.
func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not json", "not json"},
		{"unknown kind", `{"kind":"tensor"}`},
		{"bad int", `{"kind":"int","value":"abc"}`},
		{"bad dtype", `{"kind":"array","dtype":"complex64","shape":[1],"data":["0"]}`},
		{"data/shape mismatch", `{"kind":"array","dtype":"int32","shape":[2],"data":["1"]}`},
		{"bad element", `{"kind":"array","dtype":"int32","shape":[1],"data":["x"]}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Decode([]byte(tc.data)); err == nil {
				t.Errorf("Decode accepted %q", tc.data)
			}
		})
	}
}
