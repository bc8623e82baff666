package check

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// Compiler turns a model source into an opaque artifact for a set of
// targets. The harness never interprets the artifact bytes.
type Compiler interface {
	Compile(cctx CompileContext, src Module, exported []string, targets []string) ([]byte, error)
}

// Engine loads a compiled artifact into a runnable module for a driver.
type Engine interface {
	Load(blob []byte, driver string) (Module, error)
}

// CompileContext carries the debug settings for one compile call. It
// replaces process-wide globals: its lifetime is scoped to the Setup that
// created it.
type CompileContext struct {
	// DebugDir receives artifact dumps when non-empty.
	DebugDir string
	// ReproducerPath is where the compiler should leave a crash reproducer.
	ReproducerPath string
}

// ModuleConfig names one model to put under test.
type ModuleConfig struct {
	// Name keys the module on the harness.
	Name string
	// Ctor builds a fresh model source. Reference backends call it per
	// instance; compiled backends compile its output once.
	Ctor func() Module
	// Exported restricts compilation to these functions; empty means all.
	Exported []string
}

// Config is built explicitly by the test author and handed to Setup.
type Config struct {
	// Modules to compile and instantiate.
	Modules []ModuleConfig
	// TargetBackends is a comma-delimited backend selection; empty selects
	// every registered backend.
	TargetBackends string
	// DebugDir receives artifact and result dumps when non-empty.
	DebugDir string
	// Compiler and Engine serve the compiled backends. Both may be nil when
	// only reference backends are selected.
	Compiler Compiler
	Engine   Engine
	// Logger defaults to a no-op logger.
	Logger *zap.Logger
	// Seed feeds the harness RNG for deterministic input generation.
	Seed int64
}

// Harness holds the per-backend module instances for one test run.
// Compilation happens once, in Setup; the artifacts and instances are
// shared read-only by every test method afterwards.
type Harness struct {
	backends []Backend
	order    []string
	modules  map[string]*VirtualModule
	debugDir string
	rng      *rand.Rand
	log      *zap.Logger
}

// Setup resolves the backend selection, compiles every configured module
// for every compiled backend, instantiates per-backend modules and wires
// them into virtual modules.
func Setup(cfg Config) (*Harness, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	backends, err := SelectBackends(cfg.TargetBackends)
	if err != nil {
		return nil, err
	}
	if cfg.TargetBackends != "" {
		log.Info("using configured target backends",
			zap.String("target_backends", cfg.TargetBackends))
	}
	log.Info("selected backends", zap.Strings("backends", backendListNames(backends)))

	if cfg.DebugDir != "" {
		if err := os.MkdirAll(cfg.DebugDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating debug dir: %w", err)
		}
	}

	h := &Harness{
		backends: backends,
		modules:  map[string]*VirtualModule{},
		debugDir: cfg.DebugDir,
		rng:      rand.New(rand.NewSource(cfg.Seed)),
		log:      log,
	}

	for _, mc := range cfg.Modules {
		if mc.Name == "" || mc.Ctor == nil {
			return nil, fmt.Errorf("module config needs a name and a constructor")
		}
		if _, ok := h.modules[mc.Name]; ok {
			return nil, fmt.Errorf("duplicate module name %q", mc.Name)
		}
		vm, err := h.instantiate(cfg, mc)
		if err != nil {
			return nil, err
		}
		h.modules[mc.Name] = vm
		h.order = append(h.order, mc.Name)
	}
	return h, nil
}

func (h *Harness) instantiate(cfg Config, mc ModuleConfig) (*VirtualModule, error) {
	names := make([]string, 0, len(h.backends))
	instances := make([]Module, 0, len(h.backends))
	for _, b := range h.backends {
		var inst Module
		switch b.Kind {
		case Reference:
			inst = mc.Ctor()
		case Compiled:
			if cfg.Compiler == nil || cfg.Engine == nil {
				return nil, fmt.Errorf("backend %q needs a compiler and an engine", b.Name)
			}
			blob, err := h.compile(cfg, mc, b)
			if err != nil {
				return nil, err
			}
			inst, err = cfg.Engine.Load(blob, b.Driver)
			if err != nil {
				return nil, fmt.Errorf("loading module %q on backend %q: %w", mc.Name, b.Name, err)
			}
		default:
			return nil, fmt.Errorf("backend %q has unknown kind", b.Name)
		}
		names = append(names, b.Name)
		instances = append(instances, inst)
	}
	return NewVirtualModule(names, instances)
}

// compile invokes the compile collaborator once for one (module, backend)
// pair, dumping the source listing and the artifact when a debug dir is
// configured.
func (h *Harness) compile(cfg Config, mc ModuleConfig, b Backend) ([]byte, error) {
	src := mc.Ctor()
	flattened := flattenTargets(b.CompilerTargets)

	cctx := CompileContext{DebugDir: h.debugDir}
	if h.debugDir != "" {
		cctx.ReproducerPath = filepath.Join(h.debugDir, mc.Name+"_reproducer.txt")

		srcPath := filepath.Join(h.debugDir, fmt.Sprintf("source__%s.txt", flattened))
		listing := mc.Name + "\n" + strings.Join(src.Exports(), "\n") + "\n"
		if err := os.WriteFile(srcPath, []byte(listing), 0o644); err != nil {
			return nil, fmt.Errorf("writing source listing: %w", err)
		}
		h.log.Info("saved module source listing", zap.String("path", srcPath))
	}

	blob, err := cfg.Compiler.Compile(cctx, src, mc.Exported, b.CompilerTargets)
	if err != nil {
		return nil, &CompilationError{Module: mc.Name, Backend: b.Name, Err: err}
	}
	h.log.Info("compiled module",
		zap.String("module", mc.Name),
		zap.String("backend", b.Name),
		zap.Int("artifact_bytes", len(blob)))

	if h.debugDir != "" {
		artPath := filepath.Join(h.debugDir, fmt.Sprintf("compiled__%s.bin", flattened))
		if err := os.WriteFile(artPath, blob, 0o644); err != nil {
			return nil, fmt.Errorf("writing compiled artifact: %w", err)
		}
		h.log.Info("saved compiled artifact", zap.String("path", artPath))
	}
	return blob, nil
}

// Module returns the virtual module registered under name.
func (h *Harness) Module(name string) (*VirtualModule, bool) {
	vm, ok := h.modules[name]
	return vm, ok
}

// Modules lists configured module names in order.
func (h *Harness) Modules() []string {
	out := make([]string, len(h.order))
	copy(out, h.order)
	return out
}

// Backends returns the resolved backend selection.
func (h *Harness) Backends() []Backend {
	out := make([]Backend, len(h.backends))
	copy(out, h.backends)
	return out
}

// DebugDir returns the configured debug directory, or "".
func (h *Harness) DebugDir() string { return h.debugDir }

// Rand returns the deterministic RNG seeded from Config.Seed, for
// generating test inputs reproducibly.
func (h *Harness) Rand() *rand.Rand { return h.rng }

// SaveResults persists a MultiResult into the debug dir. It is a no-op
// when no debug dir is configured.
func (h *Harness) SaveResults(mr *MultiResult) error {
	if h.debugDir == "" {
		return nil
	}
	if err := mr.Save(h.debugDir); err != nil {
		return err
	}
	for _, n := range mr.Backends() {
		h.log.Info("saved backend result",
			zap.String("path", filepath.Join(h.debugDir, "output_"+n)))
	}
	return nil
}

var nonIdent = regexp.MustCompile(`[^0-9a-zA-Z_]+`)

// flattenTargets folds a target list into a filename-safe token.
func flattenTargets(targets []string) string {
	return nonIdent.ReplaceAllString(strings.Join(targets, "__"), "_")
}

func backendListNames(backends []Backend) []string {
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name
	}
	return names
}
