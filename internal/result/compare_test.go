package result

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFloat64(t *testing.T, data []float64, shape Shape) *Array {
	t.Helper()
	a, err := FromFloat64(data, shape)
	require.NoError(t, err)
	return a
}

func mustInt32(t *testing.T, data []int32, shape Shape) *Array {
	t.Helper()
	a, err := FromInt32(data, shape)
	require.NoError(t, err)
	return a
}

func mustInt64(t *testing.T, data []int64, shape Shape) *Array {
	t.Helper()
	a, err := FromInt64(data, shape)
	require.NoError(t, err)
	return a
}

// sampleTrees covers every node kind, nested.
func sampleTrees(t *testing.T) []Value {
	t.Helper()
	return []Value{
		true,
		"label",
		int64(7),
		3.14,
		mustFloat64(t, []float64{1, 2, 3}, Shape{3}),
		mustInt32(t, []int32{1, 2}, Shape{2}),
		[]Value{int64(1), "a", mustFloat64(t, []float64{0.5}, Shape{1})},
		map[string]Value{
			"logits": mustFloat64(t, []float64{1, 2, 3}, Shape{3}),
			"labels": []Value{"cat", "dog"},
			"count":  int64(2),
		},
	}
}

func TestSameReflexive(t *testing.T) {
	for _, tree := range sampleTrees(t) {
		same, err := Same(tree, tree, 0, 0)
		require.NoError(t, err)
		assert.True(t, same, "tree %v must compare same to itself", tree)

		same, err = Same(tree, tree, 1e-6, 1e-6)
		require.NoError(t, err)
		assert.True(t, same)
	}
}

func TestSameFloatArraysTolerant(t *testing.T) {
	a := mustFloat64(t, []float64{1, 2, 3}, Shape{3})
	b := mustFloat64(t, []float64{1, 2, 3.0000001}, Shape{3})
	c := mustFloat64(t, []float64{1, 2, 4}, Shape{3})

	same, err := Same(a, b, 1e-6, 1e-6)
	require.NoError(t, err)
	assert.True(t, same)

	same, err = Same(a, c, 1e-6, 1e-6)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestSameIntArraysExact(t *testing.T) {
	a := mustInt32(t, []int32{1, 2, 3}, Shape{3})
	b := mustInt32(t, []int32{1, 2, 4}, Shape{3})

	// The structural comparator never applies tolerances to integral arrays.
	same, err := Same(a, b, 10, 10)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestSameMaps(t *testing.T) {
	ref := map[string]Value{"a": int64(1), "b": 2.0}
	agree := map[string]Value{"b": 2.0, "a": int64(1)} // key order irrelevant
	differ := map[string]Value{"a": int64(1), "b": 3.0}

	same, err := Same(ref, agree, 0, 0)
	require.NoError(t, err)
	assert.True(t, same)

	same, err = Same(ref, differ, 0, 0)
	require.NoError(t, err)
	assert.False(t, same)

	// Different key set is a structure error, not a disagreement.
	_, err = Same(ref, map[string]Value{"a": int64(1), "c": 2.0}, 0, 0)
	assert.ErrorIs(t, err, ErrStructureMismatch)

	_, err = Same(ref, map[string]Value{"a": int64(1)}, 0, 0)
	assert.ErrorIs(t, err, ErrStructureMismatch)
}

func TestSameSequences(t *testing.T) {
	ref := []Value{int64(1), int64(2)}

	same, err := Same(ref, []Value{int64(1), int64(2)}, 0, 0)
	require.NoError(t, err)
	assert.True(t, same)

	same, err = Same(ref, []Value{int64(1), int64(3)}, 0, 0)
	require.NoError(t, err)
	assert.False(t, same)

	_, err = Same(ref, []Value{int64(1)}, 0, 0)
	assert.ErrorIs(t, err, ErrStructureMismatch)
}

func TestSameKindMismatch(t *testing.T) {
	cases := []struct {
		name      string
		ref, cand Value
	}{
		{"map vs list", map[string]Value{}, []Value{}},
		{"list vs scalar", []Value{}, int64(1)},
		{"array vs scalar", mustInt32(t, []int32{1}, Shape{1}), int64(1)},
		{"int vs float", int64(1), 1.0},
		{"string vs bool", "true", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Same(tc.ref, tc.cand, 0, 0)
			assert.ErrorIs(t, err, ErrStructureMismatch)
		})
	}
}

func TestSameArrayShapeMismatch(t *testing.T) {
	a := mustFloat64(t, []float64{1, 2}, Shape{2})
	b := mustFloat64(t, []float64{1, 2, 3}, Shape{3})
	_, err := Same(a, b, 0, 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)

	c := mustInt32(t, []int32{1, 2}, Shape{2})
	_, err = Same(a, c, 0, 0)
	assert.ErrorIs(t, err, ErrShapeMismatch, "dtype mismatch")
}

func TestSameNestedShortCircuit(t *testing.T) {
	// A mismatch deep in a nested tree surfaces without touching siblings.
	ref := map[string]Value{
		"deep": []Value{map[string]Value{"x": mustFloat64(t, []float64{1}, Shape{1})}},
		"flat": int64(5),
	}
	cand := map[string]Value{
		"deep": []Value{map[string]Value{"x": mustFloat64(t, []float64{2}, Shape{1})}},
		"flat": int64(5),
	}
	same, err := Same(ref, cand, 1e-6, 1e-6)
	require.NoError(t, err)
	assert.False(t, same)
}

func TestSameIsDirectional(t *testing.T) {
	// The tolerant bound scales by the candidate; this asymmetry is part of
	// the contract, not a bug to fix.
	a := mustFloat64(t, []float64{100}, Shape{1})
	b := mustFloat64(t, []float64{90}, Shape{1})

	sameAB, err := Same(a, b, 0.1, 0)
	require.NoError(t, err)
	sameBA, err := Same(b, a, 0.1, 0)
	require.NoError(t, err)

	assert.False(t, sameAB)
	assert.True(t, sameBA)
}

func TestCloseRecursesSoftly(t *testing.T) {
	ref := map[string]Value{"logits": mustFloat64(t, []float64{1, 2, 3}, Shape{3})}
	near := map[string]Value{"logits": mustFloat64(t, []float64{1, 2, 3.0000001}, Shape{3})}
	far := map[string]Value{"logits": mustFloat64(t, []float64{1, 2, 4}, Shape{3})}

	assert.True(t, Close(ref, near, 1e-6, 1e-6))
	assert.False(t, Close(ref, far, 1e-6, 1e-6))

	// Structural differences are soft falses, never errors.
	assert.False(t, Close(ref, []Value{}, 1e-6, 1e-6))
	assert.False(t, Close(ref, map[string]Value{"other": int64(1)}, 1e-6, 1e-6))
}

func TestCloseScalars(t *testing.T) {
	assert.True(t, Close(1.0, 1.0000001, 1e-6, 1e-6))
	assert.False(t, Close(1.0, 1.1, 1e-6, 1e-6))
	assert.True(t, Close(int64(100), int64(100), 0, 0))
	assert.False(t, Close(int64(100), int64(101), 1e-6, 1e-6))
	assert.True(t, Close(int64(100), int64(101), 0, 1), "integral scalars honor tolerances")
	assert.True(t, Close("x", "x", 0, 0))
	assert.False(t, Close("x", "y", 0, 0))
	assert.False(t, Close(true, 1.0, 10, 10), "kind mismatch is false")
}

func TestCloseIntScalarAndArrayAgree(t *testing.T) {
	// An int64 leaf must compare the same way whether it arrives as a
	// scalar or as a one-element array.
	a := mustInt64(t, []int64{10}, Shape{1})
	b := mustInt64(t, []int64{11}, Shape{1})

	assert.True(t, Close(int64(10), int64(11), 0, 1))
	assert.True(t, Close(a, b, 0, 1))

	assert.False(t, Close(int64(10), int64(11), 0, 0))
	assert.False(t, Close(a, b, 0, 0))
}

func TestCloseLargeInt64Exact(t *testing.T) {
	// float64 cannot distinguish adjacent int64 values above 2^53; the
	// comparison must, so zero tolerances stay exact at the extremes.
	big := int64(math.MaxInt64)

	assert.True(t, Close(big, big, 0, 0))
	assert.False(t, Close(big, big-1, 0, 0))
	assert.True(t, Close(big, big-1, 0, 1))
	assert.False(t, Close(int64(math.MinInt64), big, 0, 0))
}

func TestEqualExact(t *testing.T) {
	a := mustFloat64(t, []float64{1, 2, 3}, Shape{3})
	b := mustFloat64(t, []float64{1, 2, 3.0000001}, Shape{3})

	assert.True(t, Equal(a, a))
	assert.False(t, Equal(a, b), "no tolerance in the exact comparator")

	ref := []Value{int64(1), "x", true}
	assert.True(t, Equal(ref, []Value{int64(1), "x", true}))
	assert.False(t, Equal(ref, []Value{int64(1), "x", false}))
	assert.False(t, Equal(ref, []Value{int64(1), "x"}))
}
