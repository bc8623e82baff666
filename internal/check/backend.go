package check

import (
	"fmt"
	"strings"
)

// BackendKind distinguishes the reference runtime from compiled-artifact
// runtimes.
type BackendKind int

// Supported backend kinds.
const (
	// Reference backends run the model source directly.
	Reference BackendKind = iota
	// Compiled backends run an artifact produced by the compile
	// collaborator, loaded through an execution engine driver.
	Compiled
)

// String returns a human-readable kind name.
func (k BackendKind) String() string {
	switch k {
	case Reference:
		return "reference"
	case Compiled:
		return "compiled"
	default:
		return "unknown"
	}
}

// Backend describes one runnable implementation of a model. Descriptors are
// immutable once registered.
type Backend struct {
	// Name uniquely identifies the backend in selections and reports.
	Name string
	// Kind says how module instances for this backend are produced.
	Kind BackendKind
	// Driver names the execution engine driver for compiled backends.
	Driver string
	// CompilerTargets is passed to the compile collaborator.
	CompilerTargets []string
}

// The registry is populated once at init and append-only afterwards; it is
// never mutated concurrently.
var (
	backendOrder []Backend
	backendIndex = map[string]int{}
)

const (
	referenceBackend = "cpu"
	// cpu_also duplicates the reference backend so that a lone reference
	// selection still compares two runs, catching initialization and
	// randomization drift between model instantiations.
	referenceTwin = "cpu_also"
)

func init() {
	mustRegister(Backend{Name: referenceBackend, Kind: Reference})
	mustRegister(Backend{Name: referenceTwin, Kind: Reference})
	mustRegister(Backend{Name: "vm_interp", Kind: Compiled, Driver: "interp", CompilerTargets: []string{"interp"}})
	mustRegister(Backend{Name: "vm_webgpu", Kind: Compiled, Driver: "webgpu", CompilerTargets: []string{"webgpu"}})
	mustRegister(Backend{Name: "vm_vulkan", Kind: Compiled, Driver: "vulkan", CompilerTargets: []string{"vulkan-*"}})
}

// RegisterBackend appends a descriptor to the registry. Registering a name
// twice is an error.
func RegisterBackend(b Backend) error {
	if b.Name == "" {
		return fmt.Errorf("backend name must not be empty")
	}
	if _, ok := backendIndex[b.Name]; ok {
		return fmt.Errorf("backend %q already registered", b.Name)
	}
	backendIndex[b.Name] = len(backendOrder)
	backendOrder = append(backendOrder, b)
	return nil
}

func mustRegister(b Backend) {
	if err := RegisterBackend(b); err != nil {
		panic(err)
	}
}

// Backends returns all registered descriptors in registration order.
func Backends() []Backend {
	out := make([]Backend, len(backendOrder))
	copy(out, backendOrder)
	return out
}

// LookupBackend returns the descriptor registered under name.
func LookupBackend(name string) (Backend, bool) {
	i, ok := backendIndex[name]
	if !ok {
		return Backend{}, false
	}
	return backendOrder[i], true
}

// ParseBackends decodes a comma-delimited list of backend names into
// descriptors, in list order.
func ParseBackends(spec string) ([]Backend, error) {
	var backends []Backend
	for _, name := range strings.Split(spec, ",") {
		name = strings.TrimSpace(name)
		b, ok := LookupBackend(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q in spec %q (registered: %s)",
				ErrUnknownBackend, name, spec, strings.Join(backendNames(), ", "))
		}
		backends = append(backends, b)
	}
	return backends, nil
}

// SelectBackends resolves a target-backend spec. An empty spec selects every
// registered backend. If the resolved selection is exactly the single
// reference backend, its duplicate is appended so there are always at least
// two backends to compare.
func SelectBackends(spec string) ([]Backend, error) {
	if spec == "" {
		return Backends(), nil
	}
	backends, err := ParseBackends(spec)
	if err != nil {
		return nil, err
	}
	if len(backends) == 1 && backends[0].Name == referenceBackend {
		twin, _ := LookupBackend(referenceTwin)
		backends = append(backends, twin)
	}
	return backends, nil
}

func backendNames() []string {
	names := make([]string, len(backendOrder))
	for i, b := range backendOrder {
		names[i] = b.Name
	}
	return names
}
