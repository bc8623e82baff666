package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/born-ml/crosscheck/internal/result"
)

// MultiResult holds one result tree per backend, keyed by backend name in
// registration order. Every entry must come from the same exported function
// invoked with the same inputs.
type MultiResult struct {
	names  []string
	values []result.Value
}

// NewMultiResult pairs backend names with their result trees.
func NewMultiResult(names []string, values []result.Value) (*MultiResult, error) {
	if len(names) != len(values) {
		return nil, fmt.Errorf("got %d names for %d results", len(names), len(values))
	}
	return &MultiResult{names: names, values: values}, nil
}

// Len returns the number of backends.
func (mr *MultiResult) Len() int { return len(mr.names) }

// Name returns the i-th backend name.
func (mr *MultiResult) Name(i int) string { return mr.names[i] }

// Value returns the i-th backend's result tree.
func (mr *MultiResult) Value(i int) result.Value { return mr.values[i] }

// Backends lists backend names in order.
func (mr *MultiResult) Backends() []string {
	out := make([]string, len(mr.names))
	copy(out, mr.names)
	return out
}

// Get returns the result tree for a backend by name.
func (mr *MultiResult) Get(name string) (result.Value, bool) {
	for i, n := range mr.names {
		if n == name {
			return mr.values[i], true
		}
	}
	return nil, false
}

// String renders every backend's result, one per line.
func (mr *MultiResult) String() string {
	var sb strings.Builder
	for i, n := range mr.names {
		fmt.Fprintf(&sb, "%s: %v\n", n, mr.values[i])
	}
	return sb.String()
}

// Report records, per backend, the names of the other backends whose result
// differed under the active equivalence rule.
type Report struct {
	names    []string
	disagree [][]string
}

// Disagreements returns the backends that disagreed with name.
func (r *Report) Disagreements(name string) []string {
	for i, n := range r.names {
		if n == name {
			return r.disagree[i]
		}
	}
	return nil
}

// String renders the report in backend order.
func (r *Report) String() string {
	parts := make([]string, len(r.names))
	for i, n := range r.names {
		parts[i] = fmt.Sprintf("%s:%v", n, r.disagree[i])
	}
	return strings.Join(parts, " ")
}

// Predicate decides whether two result trees are equivalent. It is applied
// per direction and is not assumed to be symmetric.
type Predicate func(ref, cand result.Value) bool

// collect runs a predicate over every ordered pair of distinct backends.
// Both directions of a pair are checked and recorded independently, since
// the predicate may be asymmetric; self-comparisons are skipped. A falsy
// predicate result is a soft disagreement, never an error.
func collect(mr *MultiResult, pred Predicate) (bool, *Report) {
	has := false
	disagree := make([][]string, mr.Len())
	for i := 0; i < mr.Len(); i++ {
		for j := 0; j < mr.Len(); j++ {
			if i == j {
				continue
			}
			if !pred(mr.values[i], mr.values[j]) {
				has = true
				disagree[i] = append(disagree[i], mr.names[j])
			}
		}
	}
	return has, &Report{names: mr.Backends(), disagree: disagree}
}

// collectRecursive runs the structural comparator over backend pairs. The
// loop visits pairs with j <= i, which includes the trivial i == j
// self-comparison and records each discovered disagreement on the
// higher-indexed side only; collect skips self-comparisons and records both
// directions. The two collectors keep their historical pair disciplines.
// A structural mismatch escalates to an error, since results of one
// function are expected to share a structure.
func collectRecursive(mr *MultiResult, rtol, atol float64) (bool, *Report, error) {
	has := false
	disagree := make([][]string, mr.Len())
	for i := 0; i < mr.Len(); i++ {
		for j := 0; j < mr.Len(); j++ {
			if i < j {
				continue
			}
			same, err := result.Same(mr.values[i], mr.values[j], rtol, atol)
			if err != nil {
				return false, nil, fmt.Errorf("comparing backends %q and %q: %w",
					mr.names[i], mr.names[j], err)
			}
			if !same {
				has = true
				disagree[i] = append(disagree[i], mr.names[j])
			}
		}
	}
	return has, &Report{names: mr.Backends(), disagree: disagree}, nil
}

// AssertAllClose verifies pairwise tolerant agreement across all backends
// using the array-wide comparator. On disagreement it returns a
// *DisagreementError carrying the report.
func (mr *MultiResult) AssertAllClose(rtol, atol float64) error {
	has, rep := collect(mr, func(ref, cand result.Value) bool {
		return result.Close(ref, cand, rtol, atol)
	})
	if has {
		return mr.disagreementError(rep)
	}
	return nil
}

// AssertAllEqual verifies pairwise exact agreement across all backends.
func (mr *MultiResult) AssertAllEqual() error {
	has, rep := collect(mr, result.Equal)
	if has {
		return mr.disagreementError(rep)
	}
	return nil
}

// AssertAllCloseAndEqual verifies agreement with the recursive structural
// comparator: floating arrays tolerantly, everything else exactly. This is
// the general-purpose mode for nested outputs mixing scalars and arrays.
// Structural mismatches are returned as errors, not disagreements.
func (mr *MultiResult) AssertAllCloseAndEqual(rtol, atol float64) error {
	has, rep, err := collectRecursive(mr, rtol, atol)
	if err != nil {
		return err
	}
	if has {
		return mr.disagreementError(rep)
	}
	return nil
}

// disagreementError builds the failure, rendering the first differing pair
// as a diff for diagnostics.
func (mr *MultiResult) disagreementError(rep *Report) error {
	diff := ""
	for i, names := range rep.disagree {
		if len(names) == 0 {
			continue
		}
		if other, ok := mr.Get(names[0]); ok {
			diff = cmp.Diff(mr.values[i], other)
		}
		break
	}
	return &DisagreementError{Report: rep, Results: mr, Diff: diff}
}

// Save writes each backend's raw result to <dir>/output_<backend> in the
// textual dump form. The files re-parse into the original trees via
// LoadSaved. An empty dir means no debug directory is configured and Save
// does nothing.
func (mr *MultiResult) Save(dir string) error {
	if dir == "" {
		return nil
	}
	for i, n := range mr.names {
		data, err := result.Encode(mr.values[i])
		if err != nil {
			return fmt.Errorf("encoding result for backend %q: %w", n, err)
		}
		path := filepath.Join(dir, "output_"+n)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("writing result for backend %q: %w", n, err)
		}
	}
	return nil
}

// LoadSaved reads previously saved dumps for the named backends back into a
// MultiResult, in the given order.
func LoadSaved(dir string, names []string) (*MultiResult, error) {
	values := make([]result.Value, len(names))
	for i, n := range names {
		path := filepath.Join(dir, "output_"+n)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading result for backend %q: %w", n, err)
		}
		v, err := result.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("parsing result for backend %q: %w", n, err)
		}
		values[i] = v
	}
	return NewMultiResult(names, values)
}

// TestingT is the subset of testing.TB the chaining asserter needs.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Asserter binds a MultiResult to a test so assertions can chain and fail
// the test directly on disagreement.
type Asserter struct {
	t  TestingT
	mr *MultiResult
}

// Check returns an asserter bound to t.
func (mr *MultiResult) Check(t TestingT) *Asserter {
	return &Asserter{t: t, mr: mr}
}

// AllClose fails the test unless all backends agree tolerantly.
func (a *Asserter) AllClose(rtol, atol float64) *Asserter {
	a.t.Helper()
	if err := a.mr.AssertAllClose(rtol, atol); err != nil {
		a.t.Fatalf("%v", err)
	}
	return a
}

// AllEqual fails the test unless all backends agree exactly.
func (a *Asserter) AllEqual() *Asserter {
	a.t.Helper()
	if err := a.mr.AssertAllEqual(); err != nil {
		a.t.Fatalf("%v", err)
	}
	return a
}

// AllCloseAndEqual fails the test unless all backends agree under the
// recursive structural comparator.
func (a *Asserter) AllCloseAndEqual(rtol, atol float64) *Asserter {
	a.t.Helper()
	if err := a.mr.AssertAllCloseAndEqual(rtol, atol); err != nil {
		a.t.Fatalf("%v", err)
	}
	return a
}

// Save persists the results, failing the test on error.
func (a *Asserter) Save(dir string) *Asserter {
	a.t.Helper()
	if err := a.mr.Save(dir); err != nil {
		a.t.Fatalf("%v", err)
	}
	return a
}

// Result returns the underlying MultiResult.
func (a *Asserter) Result() *MultiResult { return a.mr }
