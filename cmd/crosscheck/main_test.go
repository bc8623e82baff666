package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/crosscheck/result"
)

func writeDump(t *testing.T, dir, backend string, data []float64) string {
	t.Helper()
	arr, err := result.FromFloat64(data, result.Shape{len(data)})
	require.NoError(t, err)
	enc, err := result.Encode(map[string]result.Value{"logits": arr})
	require.NoError(t, err)
	path := filepath.Join(dir, "output_"+backend)
	require.NoError(t, os.WriteFile(path, enc, 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBackendsCommand(t *testing.T) {
	out, err := runCLI(t, "backends")
	require.NoError(t, err)
	assert.Contains(t, out, "cpu")
	assert.Contains(t, out, "vm_interp")
	assert.Contains(t, out, "driver=interp")
}

func TestCompareCommandAgreement(t *testing.T) {
	dir := t.TempDir()
	a := writeDump(t, dir, "cpu", []float64{1, 2, 3})
	b := writeDump(t, dir, "vm_interp", []float64{1, 2, 3.0000001})

	out, err := runCLI(t, "compare", a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "all 2 backends agree")
}

func TestCompareCommandDisagreement(t *testing.T) {
	dir := t.TempDir()
	a := writeDump(t, dir, "cpu", []float64{1, 2, 3})
	b := writeDump(t, dir, "vm_interp", []float64{1, 2, 4})

	_, err := runCLI(t, "compare", a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vm_interp")
}

func TestCompareCommandConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	a := writeDump(t, dir, "cpu", []float64{100})
	b := writeDump(t, dir, "vm_interp", []float64{101})

	cfgPath := filepath.Join(dir, "crosscheck.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("rtol: 0.1\natol: 0.1\n"), 0o644))

	out, err := runCLI(t, "compare", "--config", cfgPath, a, b)
	require.NoError(t, err)
	assert.Contains(t, out, "agree")

	// Explicit flags beat the config file.
	_, err = runCLI(t, "compare", "--config", cfgPath, "--rtol", "1e-9", "--atol", "1e-9", a, b)
	require.Error(t, err)
}

func TestCompareCommandBadFilename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.txt")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0o644))

	_, err := runCLI(t, "compare", path, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output_<backend>")
}
