package result

// Value is one node of a result tree. A node is one of:
//
//   - a scalar: bool, string, int64 or float64
//   - a *Array dense numeric array
//   - an ordered sequence: []Value
//   - a string-keyed mapping: map[string]Value
//
// Comparators and the dump codec are total over this closed set. Values are
// created fresh per invocation and treated as immutable afterwards.
type Value = any
