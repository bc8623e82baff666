package check

import (
	"fmt"
	"regexp"

	"github.com/born-ml/crosscheck/internal/result"
)

// Module is one backend's instance of a model: a set of named exported
// functions over result values. Resolution goes through an explicit lookup,
// never reflection, so a missing function is always an ErrMissingExport.
type Module interface {
	// Exports lists the exported function names.
	Exports() []string
	// Invoke calls the named exported function.
	Invoke(name string, args ...result.Value) (result.Value, error)
}

// Func is an exported function implemented in-process.
type Func func(args ...result.Value) (result.Value, error)

// FuncModule is a Module backed by a map of Go functions. It serves as the
// reference-backend module and as the building block for test models.
type FuncModule struct {
	names []string
	funcs map[string]Func
}

// NewFuncModule creates an empty module.
func NewFuncModule() *FuncModule {
	return &FuncModule{funcs: map[string]Func{}}
}

// Export adds a function under name and returns the module for chaining.
// Re-exporting a name replaces the function but keeps its position.
func (m *FuncModule) Export(name string, fn Func) *FuncModule {
	if _, ok := m.funcs[name]; !ok {
		m.names = append(m.names, name)
	}
	m.funcs[name] = fn
	return m
}

// Exports lists exported function names in export order.
func (m *FuncModule) Exports() []string {
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

// Invoke calls the named function.
func (m *FuncModule) Invoke(name string, args ...result.Value) (result.Value, error) {
	fn, ok := m.funcs[name]
	if !ok {
		return nil, fmt.Errorf("%w: function %q", ErrMissingExport, name)
	}
	return fn(args...)
}

// VirtualModule is the union view over one module instantiated on several
// backends. Invoking a function through it runs the same call on every
// backend, sequentially in registration order, and collects the outputs
// into a MultiResult.
type VirtualModule struct {
	names     []string
	instances []Module
}

// NewVirtualModule builds a view over per-backend instances. Names and
// instances are parallel and ordered by backend registration.
func NewVirtualModule(names []string, instances []Module) (*VirtualModule, error) {
	if len(names) != len(instances) {
		return nil, fmt.Errorf("got %d names for %d instances", len(names), len(instances))
	}
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			return nil, fmt.Errorf("duplicate backend name %q", n)
		}
		seen[n] = true
	}
	return &VirtualModule{names: names, instances: instances}, nil
}

// Backends lists the backend names in order.
func (vm *VirtualModule) Backends() []string {
	out := make([]string, len(vm.names))
	copy(out, vm.names)
	return out
}

// Instance returns the module instance for one backend.
func (vm *VirtualModule) Instance(name string) (Module, bool) {
	for i, n := range vm.names {
		if n == name {
			return vm.instances[i], true
		}
	}
	return nil, false
}

// Select narrows the view to backends whose name matches the regular
// expression pattern, preserving order. A pattern that matches nothing is
// an ErrNoMatchingBackend.
func (vm *VirtualModule) Select(pattern string) (*VirtualModule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("bad backend pattern %q: %w", pattern, err)
	}
	var names []string
	var instances []Module
	for i, n := range vm.names {
		if re.MatchString(n) {
			names = append(names, n)
			instances = append(instances, vm.instances[i])
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %q matched none of %v", ErrNoMatchingBackend, pattern, vm.names)
	}
	return &VirtualModule{names: names, instances: instances}, nil
}

// Func resolves an exported function across every selected backend. The
// lookup happens here, at resolution time: any backend lacking the export
// fails with ErrMissingExport naming that backend.
func (vm *VirtualModule) Func(name string) (*MultiFunc, error) {
	for i, inst := range vm.instances {
		if !exports(inst, name) {
			return nil, fmt.Errorf("%w: function %q on backend %q",
				ErrMissingExport, name, vm.names[i])
		}
	}
	return &MultiFunc{name: name, vm: vm}, nil
}

func exports(m Module, name string) bool {
	for _, n := range m.Exports() {
		if n == name {
			return true
		}
	}
	return false
}

// MultiFunc is one exported function resolved across a set of backends.
type MultiFunc struct {
	name string
	vm   *VirtualModule
}

// Call invokes the function on every backend with the same arguments and
// packages the outputs into a MultiResult in backend order.
func (f *MultiFunc) Call(args ...result.Value) (*MultiResult, error) {
	values := make([]result.Value, len(f.vm.instances))
	for i, inst := range f.vm.instances {
		v, err := inst.Invoke(f.name, args...)
		if err != nil {
			return nil, fmt.Errorf("invoking %q on backend %q: %w",
				f.name, f.vm.names[i], err)
		}
		values[i] = v
	}
	return NewMultiResult(f.vm.Backends(), values)
}
