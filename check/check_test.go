package check_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/crosscheck/check"
	"github.com/born-ml/crosscheck/result"
)

// identityCompiler emits the target list as the artifact; the engine
// ignores it and instantiates the model directly.
type identityCompiler struct{}

func (identityCompiler) Compile(_ check.CompileContext, src check.Module, _ []string, targets []string) ([]byte, error) {
	return []byte("artifact"), nil
}

type directEngine struct {
	ctor func() check.Module
}

func (e directEngine) Load(_ []byte, _ string) (check.Module, error) {
	return e.ctor(), nil
}

func newSquareModel() check.Module {
	return check.NewFuncModule().Export("square", func(args ...result.Value) (result.Value, error) {
		in := args[0].(*result.Array)
		src := in.AsFloat64()
		out := make([]float64, len(src))
		for i, v := range src {
			out[i] = v * v
		}
		return result.FromFloat64(out, in.Shape())
	})
}

// TestPublicAPIEndToEnd drives the whole surface through the public
// wrapper package.
func TestPublicAPIEndToEnd(t *testing.T) {
	h, err := check.Setup(check.Config{
		Modules:        []check.ModuleConfig{{Name: "square", Ctor: newSquareModel}},
		TargetBackends: "cpu,cpu_also,vm_interp",
		Compiler:       identityCompiler{},
		Engine:         directEngine{ctor: newSquareModel},
	})
	require.NoError(t, err)

	vm, ok := h.Module("square")
	require.True(t, ok)

	in, err := result.FromFloat64([]float64{1, 2, 3}, result.Shape{3})
	require.NoError(t, err)

	f, err := vm.Func("square")
	require.NoError(t, err)
	mr, err := f.Call(in)
	require.NoError(t, err)

	mr.Check(t).AllClose(1e-6, 1e-6).AllEqual().AllCloseAndEqual(1e-6, 1e-6)

	out, ok := mr.Get("vm_interp")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 4, 9}, out.(*result.Array).AsFloat64())
}

// TestPublicSelection covers the selection rules through the wrapper.
func TestPublicSelection(t *testing.T) {
	backends, err := check.SelectBackends("cpu")
	require.NoError(t, err)
	require.Len(t, backends, 2)
	assert.Equal(t, "cpu_also", backends[1].Name)

	_, err = check.SelectBackends("tpu")
	assert.ErrorIs(t, err, check.ErrUnknownBackend)
}
