package result

import (
	"fmt"
	"reflect"
)

// Same is the structural comparator. It walks ref and cand in lockstep and
// reports whether they agree, applying the first matching rule at each node:
//
//  1. mapping: identical key sets required, recurse per key
//  2. sequence: equal length required, recurse per index
//  3. floating array: element-wise |a-b| <= atol + rtol*|b|
//  4. non-floating array: element-wise exact equality
//  5. scalar: native equality
//
// Incompatible structure (different node kinds, key sets or lengths) is an
// error wrapping ErrStructureMismatch; arrays of differing shape or element
// type are an error wrapping ErrShapeMismatch. Results produced by the same
// exported function are expected to share one structure, so a mismatch is a
// harness bug rather than a numerical disagreement. Same never mutates its
// inputs.
//
// The tolerant formula scales by the candidate magnitude, so Same(a, b) and
// Same(b, a) can differ when rtol dominates. The reference goes first; the
// direction is part of the contract and is deliberately not symmetrized.
func Same(ref, cand Value, rtol, atol float64) (bool, error) {
	switch r := ref.(type) {
	case map[string]Value:
		c, ok := cand.(map[string]Value)
		if !ok {
			return false, kindMismatch(ref, cand)
		}
		if len(r) != len(c) {
			return false, fmt.Errorf("%w: key sets differ: %d keys vs %d keys",
				ErrStructureMismatch, len(r), len(c))
		}
		for k, rv := range r {
			cv, ok := c[k]
			if !ok {
				return false, fmt.Errorf("%w: key %q missing from candidate",
					ErrStructureMismatch, k)
			}
			same, err := Same(rv, cv, rtol, atol)
			if err != nil {
				return false, fmt.Errorf("key %q: %w", k, err)
			}
			if !same {
				return false, nil
			}
		}
		return true, nil

	case []Value:
		c, ok := cand.([]Value)
		if !ok {
			return false, kindMismatch(ref, cand)
		}
		if len(r) != len(c) {
			return false, fmt.Errorf("%w: sequence lengths differ: %d vs %d",
				ErrStructureMismatch, len(r), len(c))
		}
		for i := range r {
			same, err := Same(r[i], c[i], rtol, atol)
			if err != nil {
				return false, fmt.Errorf("index %d: %w", i, err)
			}
			if !same {
				return false, nil
			}
		}
		return true, nil

	case *Array:
		c, ok := cand.(*Array)
		if !ok {
			return false, kindMismatch(ref, cand)
		}
		if r.dtype != c.dtype || !r.shape.Equal(c.shape) {
			return false, fmt.Errorf("%w: %s%v vs %s%v",
				ErrShapeMismatch, r.dtype, r.shape, c.dtype, c.shape)
		}
		if r.dtype.IsFloat() {
			return r.AllClose(c, rtol, atol), nil
		}
		return r.Equal(c), nil

	default:
		if reflect.TypeOf(ref) != reflect.TypeOf(cand) {
			return false, kindMismatch(ref, cand)
		}
		return ref == cand, nil
	}
}

func kindMismatch(ref, cand Value) error {
	return fmt.Errorf("%w: node kinds differ: %T vs %T", ErrStructureMismatch, ref, cand)
}

// Close is the tolerant soft comparator used by the all-close assertion. It
// applies the directional |a-b| <= atol + rtol*|b| test to every numeric
// leaf (floating or integral) and exact equality to bool and string leaves.
// Any structural difference, including node kind, key set, length, shape or
// element type, reports false; Close never fails.
func Close(ref, cand Value, rtol, atol float64) bool {
	switch r := ref.(type) {
	case map[string]Value:
		c, ok := cand.(map[string]Value)
		if !ok || len(r) != len(c) {
			return false
		}
		for k, rv := range r {
			cv, ok := c[k]
			if !ok || !Close(rv, cv, rtol, atol) {
				return false
			}
		}
		return true
	case []Value:
		c, ok := cand.([]Value)
		if !ok || len(r) != len(c) {
			return false
		}
		for i := range r {
			if !Close(r[i], c[i], rtol, atol) {
				return false
			}
		}
		return true
	case *Array:
		c, ok := cand.(*Array)
		if !ok {
			return false
		}
		return r.AllClose(c, rtol, atol)
	case float64:
		c, ok := cand.(float64)
		return ok && closeFloat(r, c, rtol, atol)
	case int64:
		c, ok := cand.(int64)
		return ok && closeInt64(r, c, rtol, atol)
	default:
		return ref == cand
	}
}

// Equal is the exact soft comparator used by the all-equal assertion.
// Structural differences report false; Equal never fails.
func Equal(ref, cand Value) bool {
	switch r := ref.(type) {
	case map[string]Value:
		c, ok := cand.(map[string]Value)
		if !ok || len(r) != len(c) {
			return false
		}
		for k, rv := range r {
			cv, ok := c[k]
			if !ok || !Equal(rv, cv) {
				return false
			}
		}
		return true
	case []Value:
		c, ok := cand.([]Value)
		if !ok || len(r) != len(c) {
			return false
		}
		for i := range r {
			if !Equal(r[i], c[i]) {
				return false
			}
		}
		return true
	case *Array:
		c, ok := cand.(*Array)
		if !ok {
			return false
		}
		return r.Equal(c)
	default:
		return ref == cand
	}
}
