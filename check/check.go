// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package check provides the public API for cross-backend regression runs:
// backend selection, per-backend module instantiation, multi-backend
// dispatch and result verification.
//
// Example:
//
//	h, err := check.Setup(check.Config{
//	    Modules:        []check.ModuleConfig{{Name: "mnist", Ctor: newMnist}},
//	    TargetBackends: "cpu,vm_interp",
//	    Compiler:       comp,
//	    Engine:         eng,
//	})
//	vm, _ := h.Module("mnist")
//	f, _ := vm.Func("predict")
//	mr, _ := f.Call(input)
//	mr.Check(t).AllCloseAndEqual(1e-6, 1e-6)
package check

import (
	"flag"

	"github.com/born-ml/crosscheck/internal/check"
)

// Backend registry and selection.

// Backend describes one runnable implementation of a model.
type Backend = check.Backend

// BackendKind distinguishes reference from compiled-artifact backends.
type BackendKind = check.BackendKind

// Backend kinds.
const (
	Reference BackendKind = check.Reference
	Compiled  BackendKind = check.Compiled
)

// RegisterBackend appends a descriptor to the process-wide registry.
func RegisterBackend(b Backend) error { return check.RegisterBackend(b) }

// Backends returns all registered descriptors in registration order.
func Backends() []Backend { return check.Backends() }

// LookupBackend returns the descriptor registered under name.
func LookupBackend(name string) (Backend, bool) { return check.LookupBackend(name) }

// ParseBackends decodes a comma-delimited list of backend names.
func ParseBackends(spec string) ([]Backend, error) { return check.ParseBackends(spec) }

// SelectBackends resolves a target-backend spec; empty selects all, and a
// lone reference backend gains its self-consistency twin.
func SelectBackends(spec string) ([]Backend, error) { return check.SelectBackends(spec) }

// Modules and dispatch.

// Module is one backend's instance of a model.
type Module = check.Module

// Func is an exported function implemented in-process.
type Func = check.Func

// FuncModule is a Module backed by a map of Go functions.
type FuncModule = check.FuncModule

// NewFuncModule creates an empty module.
func NewFuncModule() *FuncModule { return check.NewFuncModule() }

// VirtualModule is the union view over one module on several backends.
type VirtualModule = check.VirtualModule

// NewVirtualModule builds a view over per-backend instances.
func NewVirtualModule(names []string, instances []Module) (*VirtualModule, error) {
	return check.NewVirtualModule(names, instances)
}

// MultiFunc is one exported function resolved across backends.
type MultiFunc = check.MultiFunc

// Results and verification.

// MultiResult holds one result tree per backend.
type MultiResult = check.MultiResult

// NewMultiResult pairs backend names with their result trees.
func NewMultiResult(names []string, values []any) (*MultiResult, error) {
	return check.NewMultiResult(names, values)
}

// Report records per-backend disagreements.
type Report = check.Report

// Predicate decides whether two result trees are equivalent.
type Predicate = check.Predicate

// Asserter binds a MultiResult to a test for chained assertions.
type Asserter = check.Asserter

// TestingT is the subset of testing.TB the asserter needs.
type TestingT = check.TestingT

// LoadSaved reads previously saved dumps back into a MultiResult.
func LoadSaved(dir string, names []string) (*MultiResult, error) {
	return check.LoadSaved(dir, names)
}

// Harness setup.

// Compiler turns a model source into an opaque artifact.
type Compiler = check.Compiler

// Engine loads a compiled artifact into a runnable module.
type Engine = check.Engine

// CompileContext carries debug settings for one compile call.
type CompileContext = check.CompileContext

// ModuleConfig names one model to put under test.
type ModuleConfig = check.ModuleConfig

// Config is built explicitly by the test author and handed to Setup.
type Config = check.Config

// Harness holds the per-backend module instances for one test run.
type Harness = check.Harness

// Setup compiles and instantiates everything Config names.
func Setup(cfg Config) (*Harness, error) { return check.Setup(cfg) }

// Configuration surface.

// Flags holds the externally supplied configuration values.
type Flags = check.Flags

// RegisterFlags binds the harness flags onto a flag set.
func RegisterFlags(fs *flag.FlagSet) *Flags { return check.RegisterFlags(fs) }

// FileConfig is the YAML configuration file consumed by the CLI.
type FileConfig = check.FileConfig

// LoadConfigFile reads a YAML config file, rejecting unknown keys.
func LoadConfigFile(path string) (*FileConfig, error) { return check.LoadConfigFile(path) }

// Errors.

// Error values surfaced by selection, dispatch and compilation.
var (
	ErrUnknownBackend    = check.ErrUnknownBackend
	ErrNoMatchingBackend = check.ErrNoMatchingBackend
	ErrMissingExport     = check.ErrMissingExport
)

// CompilationError wraps a compile-collaborator failure.
type CompilationError = check.CompilationError

// DisagreementError carries a disagreement report and the results.
type DisagreementError = check.DisagreementError
