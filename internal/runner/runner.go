// Package runner resolves, loads, and invokes user-supplied Lua code.
//
// DESIGN: One run = one fresh Lua state. The framework adapter's targets are
// installed through the seam first, then exposed into the state, then the
// user script executes; any call the script makes to an exposed function is
// already routed through the interception chain. Resolution errors surface
// before any interceptor runs.
//
// The directory containing the script is prepended to package.path so that
// sibling require()s resolve the same way they would under direct execution.
// The script search path is the only ambient state this package touches, and
// it is scoped to the run's own Lua state.
package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"

	"github.com/seamlab/scriptseam/internal/framework"
	"github.com/seamlab/scriptseam/internal/intercept"
	"github.com/seamlab/scriptseam/internal/luaconv"
)

// Runner executes entry points against a framework adapter.
type Runner struct {
	adapter framework.Adapter
	seam    *intercept.Seam // nil disables interception
	log     zerolog.Logger
}

// New creates a runner. A nil seam binds the adapter's original callables
// directly, leaving calls unobserved (--no-intercept).
func New(adapter framework.Adapter, seam *intercept.Seam, log zerolog.Logger) *Runner {
	return &Runner{adapter: adapter, seam: seam, log: log}
}

// Run loads the entry point and executes it. Without a callable name the
// script runs as a top-level program and the returned value is nil. With a
// callable name, the named global is invoked with the marshalled arguments
// and its first return value is converted back to a Go value.
func (r *Runner) Run(spec EntryPointSpec, callArgs *CallArguments) (any, error) {
	if callArgs == nil {
		callArgs = &CallArguments{}
	}
	scriptPath, err := filepath.Abs(spec.TargetPath)
	if err != nil {
		return nil, &ResolutionError{EntryPoint: spec.TargetPath, Reason: err.Error()}
	}
	info, err := os.Stat(scriptPath)
	if err != nil || info.IsDir() {
		return nil, &ResolutionError{EntryPoint: spec.TargetPath, Reason: "script file not found"}
	}

	L := lua.NewState()
	defer L.Close()

	prependPackagePath(L, filepath.Dir(scriptPath))

	if err := r.bindTargets(L); err != nil {
		return nil, err
	}

	r.log.Debug().
		Str("script", scriptPath).
		Str("callable", spec.CallableName).
		Bool("intercepted", r.seam != nil).
		Msg("running user code")

	if err := L.DoFile(scriptPath); err != nil {
		return nil, fmt.Errorf("user code failed: %w", err)
	}
	if spec.CallableName == "" {
		return nil, nil
	}

	fn, ok := L.GetGlobal(spec.CallableName).(*lua.LFunction)
	if !ok {
		return nil, &ResolutionError{
			EntryPoint: spec.TargetPath + ":" + spec.CallableName,
			Reason:     fmt.Sprintf("global %q is not a function", spec.CallableName),
		}
	}

	luaArgs := make([]lua.LValue, 0, len(callArgs.Args)+1)
	for _, a := range callArgs.Args {
		luaArgs = append(luaArgs, luaconv.ToLua(L, a))
	}
	if len(callArgs.Kwargs) > 0 {
		// Lua has no keyword arguments; they travel as a trailing table.
		luaArgs = append(luaArgs, luaconv.ToLua(L, callArgs.Kwargs))
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, luaArgs...); err != nil {
		return nil, fmt.Errorf("user code failed: %w", err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return luaconv.FromLua(ret), nil
}

// bindTargets installs the adapter's targets through the seam (when
// intercepting) and exposes the results into the Lua state.
func (r *Runner) bindTargets(L *lua.LState) error {
	bound := make(map[string]intercept.TargetFunc)
	for _, t := range r.adapter.Targets() {
		fn := t.Func
		if r.seam != nil {
			wrapped, err := r.seam.Install(t)
			if err != nil {
				return fmt.Errorf("framework %s: %w", r.adapter.Name(), err)
			}
			fn = wrapped
		}
		bound[t.Name] = fn
	}
	return r.adapter.Expose(L, bound)
}

// prependPackagePath puts dir at the front of the state's Lua search path.
func prependPackagePath(L *lua.LState, dir string) {
	pkg := L.GetGlobal("package")
	current := lua.LVAsString(L.GetField(pkg, "path"))
	prefix := filepath.Join(dir, "?.lua") + ";" + filepath.Join(dir, "?", "init.lua")
	L.SetField(pkg, "path", lua.LString(prefix+";"+current))
}
