// Package check orchestrates cross-backend regression runs: it compiles a
// model for every selected backend, invokes the same exported function on
// each with identical inputs, and verifies the outputs agree.
//
// The flow mirrors a test lifecycle:
//
//	cfg := check.Config{
//	    Modules: []check.ModuleConfig{{Name: "mnist", Ctor: newMnist}},
//	    TargetBackends: "cpu,vm_interp",
//	    Compiler: comp, Engine: eng,
//	}
//	h, err := check.Setup(cfg)           // compile once, instantiate all
//	vm, _ := h.Module("mnist")
//	f, err := vm.Func("predict")         // resolve across backends
//	mr, err := f.Call(input)             // invoke everywhere, same args
//	mr.Check(t).AllCloseAndEqual(1e-6, 1e-6).Save(h.DebugDir())
//
// Execution is sequential and single-threaded: backends run one after
// another in registration order, and the compiled artifact produced in
// Setup is read-only afterwards.
package check
