package runner_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/seamlab/scriptseam/internal/framework"
	"github.com/seamlab/scriptseam/internal/intercept"
	"github.com/seamlab/scriptseam/internal/runner"
)

// echoAdapter exposes a single-module "fake" library whose echo target
// returns its first positional argument.
type echoAdapter struct {
	fail   error
	closed bool
}

func (a *echoAdapter) Name() string { return "fake" }

func (a *echoAdapter) Targets() []intercept.Target {
	return []intercept.Target{
		{Name: "fake.echo", MinArgs: 1, MaxArgs: -1, Func: a.echo},
	}
}

func (a *echoAdapter) Expose(L *lua.LState, bound map[string]intercept.TargetFunc) error {
	target := a.Targets()[0]
	tbl := L.NewTable()
	tbl.RawSetString("echo", L.NewFunction(framework.BindFunc(target, bound[target.Name])))
	L.SetGlobal("fake", tbl)
	return nil
}

func (a *echoAdapter) Close() error {
	a.closed = true
	return nil
}

func (a *echoAdapter) echo(args []any, kwargs map[string]any) (any, error) {
	if a.fail != nil {
		return nil, a.fail
	}
	if len(args) == 0 {
		return nil, nil
	}
	return args[0], nil
}

func writeScript(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func interceptedRunner(t *testing.T, adapter framework.Adapter) (*runner.Runner, *intercept.Collector) {
	t.Helper()
	reg := intercept.NewRegistry()
	reg.Seal()
	collector := intercept.NewCollector()
	exec := intercept.NewExecutor(reg, collector, adapter.Name(), nil, zerolog.Nop())
	seam := intercept.NewSeam(exec, zerolog.Nop())
	return runner.New(adapter, seam, zerolog.Nop()), collector
}

func TestRunner_TopLevelScript(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.lua", `fake.echo("hi")`)

	adapter := &echoAdapter{}
	r, collector := interceptedRunner(t, adapter)

	value, err := r.Run(runner.EntryPointSpec{TargetPath: path}, nil)
	require.NoError(t, err)
	assert.Nil(t, value, "top-level scripts return no value")

	results := collector.Results()
	require.Len(t, results, 1)
	assert.Equal(t, "fake.echo", results[0].Metadata.MethodName)
	assert.Equal(t, "hi", results[0].Result)
}

func TestRunner_CallableWithArgs(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.lua", `
function add(a, b)
  return a + b
end
`)

	r, _ := interceptedRunner(t, &echoAdapter{})
	value, err := r.Run(
		runner.EntryPointSpec{TargetPath: path, CallableName: "add"},
		&runner.CallArguments{Args: []any{2, 3}},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(5), value)
}

func TestRunner_KwargsTravelAsTrailingTable(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.lua", `
function greet(name, opts)
  return name .. "/" .. opts.suffix
end
`)

	r, _ := interceptedRunner(t, &echoAdapter{})
	value, err := r.Run(
		runner.EntryPointSpec{TargetPath: path, CallableName: "greet"},
		&runner.CallArguments{
			Args:   []any{"x"},
			Kwargs: map[string]any{"suffix": "y"},
		},
	)
	require.NoError(t, err)
	assert.Equal(t, "x/y", value)
}

func TestRunner_SiblingRequire(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "helper.lua", `
local M = {}
function M.double(n)
  return n * 2
end
return M
`)
	path := writeScript(t, dir, "main.lua", `
local helper = require("helper")

function run(n)
  return helper.double(n)
end
`)

	r, _ := interceptedRunner(t, &echoAdapter{})
	value, err := r.Run(
		runner.EntryPointSpec{TargetPath: path, CallableName: "run"},
		&runner.CallArguments{Args: []any{21}},
	)
	require.NoError(t, err)
	assert.Equal(t, int64(42), value)
}

func TestRunner_MissingScript(t *testing.T) {
	r, _ := interceptedRunner(t, &echoAdapter{})
	_, err := r.Run(runner.EntryPointSpec{TargetPath: filepath.Join(t.TempDir(), "nope.lua")}, nil)

	var resErr *runner.ResolutionError
	assert.ErrorAs(t, err, &resErr)
}

func TestRunner_CallableNotAFunction(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.lua", `main = 42`)

	r, _ := interceptedRunner(t, &echoAdapter{})
	_, err := r.Run(runner.EntryPointSpec{TargetPath: path, CallableName: "main"}, nil)

	var resErr *runner.ResolutionError
	assert.ErrorAs(t, err, &resErr)
}

func TestRunner_NoIntercept(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.lua", `
function run()
  return fake.echo("direct")
end
`)

	r := runner.New(&echoAdapter{}, nil, zerolog.Nop())
	value, err := r.Run(runner.EntryPointSpec{TargetPath: path, CallableName: "run"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "direct", value)
}

// The runner never redirects the user code's streams; print output belongs
// to the user and must reach stdout.
func TestRunner_UserOutputReachesStdout(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.lua", `print("user says hi")`)

	capture := filepath.Join(dir, "stdout.txt")
	f, err := os.Create(capture)
	require.NoError(t, err)
	orig := os.Stdout
	os.Stdout = f
	_, runErr := runner.New(&echoAdapter{}, nil, zerolog.Nop()).Run(
		runner.EntryPointSpec{TargetPath: path}, nil)
	os.Stdout = orig
	require.NoError(t, f.Close())
	require.NoError(t, runErr)

	data, err := os.ReadFile(capture)
	require.NoError(t, err)
	assert.Contains(t, string(data), "user says hi")
}

func TestRunner_TargetFailurePropagates(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.lua", `fake.echo("boom")`)

	adapter := &echoAdapter{fail: errors.New("backend unavailable")}
	r, collector := interceptedRunner(t, adapter)

	_, err := r.Run(runner.EntryPointSpec{TargetPath: path}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backend unavailable")

	results := collector.Results()
	require.Len(t, results, 1)
	assert.True(t, results[0].Failed)
}

func TestRunner_PcallCatchesTargetFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "main.lua", `
function run()
  local ok = pcall(function() fake.echo("boom") end)
  return ok
end
`)

	adapter := &echoAdapter{fail: errors.New("backend unavailable")}
	r, _ := interceptedRunner(t, adapter)

	value, err := r.Run(runner.EntryPointSpec{TargetPath: path, CallableName: "run"}, nil)
	require.NoError(t, err)
	assert.Equal(t, false, value)
}
