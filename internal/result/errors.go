package result

import "errors"

// Common errors.
var (
	// ErrStructureMismatch signals two result trees that cannot be compared
	// node-for-node: different node kinds, key sets or sequence lengths.
	ErrStructureMismatch = errors.New("result structures are incompatible")

	// ErrShapeMismatch signals two result arrays whose shape or element
	// type differs where the comparator requires them to match.
	ErrShapeMismatch = errors.New("result array shapes are incompatible")
)
