// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package result provides the public API for result trees: the recursively
// structured values an exported model function returns on one backend, the
// comparators that decide whether two backends agree, and the textual dump
// codec used for debug artifacts.
//
// Example:
//
//	logits, _ := result.FromFloat64([]float64{1, 2, 3}, result.Shape{3})
//	out := map[string]result.Value{"logits": logits}
//	same, err := result.Same(out, other, 1e-6, 1e-6)
package result

import (
	"github.com/born-ml/crosscheck/internal/result"
)

// Value is one node of a result tree: a scalar (bool, string, int64,
// float64), a *Array, a []Value or a map[string]Value.
type Value = result.Value

// Array is a dense numeric array with fixed shape and element type.
type Array = result.Array

// Shape represents the dimensions of a result array.
type Shape = result.Shape

// DataType represents the element type of a result array.
type DataType = result.DataType

// Element type constants.
const (
	Float32 DataType = result.Float32
	Float64 DataType = result.Float64
	Int32   DataType = result.Int32
	Int64   DataType = result.Int64
	Uint8   DataType = result.Uint8
	Bool    DataType = result.Bool
)

// Comparison errors.
var (
	ErrStructureMismatch = result.ErrStructureMismatch
	ErrShapeMismatch     = result.ErrShapeMismatch
)

// Array constructors.

// FromFloat32 builds a float32 array from a flat row-major slice.
func FromFloat32(data []float32, shape Shape) (*Array, error) {
	return result.FromFloat32(data, shape)
}

// FromFloat64 builds a float64 array from a flat row-major slice.
func FromFloat64(data []float64, shape Shape) (*Array, error) {
	return result.FromFloat64(data, shape)
}

// FromInt32 builds an int32 array from a flat row-major slice.
func FromInt32(data []int32, shape Shape) (*Array, error) {
	return result.FromInt32(data, shape)
}

// FromInt64 builds an int64 array from a flat row-major slice.
func FromInt64(data []int64, shape Shape) (*Array, error) {
	return result.FromInt64(data, shape)
}

// FromUint8 builds a uint8 array from a flat row-major slice.
func FromUint8(data []uint8, shape Shape) (*Array, error) {
	return result.FromUint8(data, shape)
}

// FromBool builds a bool array from a flat row-major slice.
func FromBool(data []bool, shape Shape) (*Array, error) {
	return result.FromBool(data, shape)
}

// Comparators.

// Same is the recursive structural comparator: floating arrays compare
// tolerantly, everything else exactly; incompatible structures are errors.
func Same(ref, cand Value, rtol, atol float64) (bool, error) {
	return result.Same(ref, cand, rtol, atol)
}

// Close is the tolerant soft comparator: every numeric leaf must satisfy
// |a-b| <= atol + rtol*|b|; structural differences report false.
func Close(ref, cand Value, rtol, atol float64) bool {
	return result.Close(ref, cand, rtol, atol)
}

// Equal is the exact soft comparator.
func Equal(ref, cand Value) bool {
	return result.Equal(ref, cand)
}

// Dump codec.

// Encode serializes a result tree into its textual dump form.
func Encode(v Value) ([]byte, error) {
	return result.Encode(v)
}

// Decode parses a textual dump back into a result tree.
func Decode(data []byte) (Value, error) {
	return result.Decode(data)
}
