package framework

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/seamlab/scriptseam/internal/intercept"
	"github.com/seamlab/scriptseam/internal/luaconv"
)

// BindFunc adapts a target callable into a Lua function.
//
// Calling convention: Lua arguments map to positional arguments. A trailing
// string-keyed table is lifted into the call's keyword arguments only when
// the positional count would exceed the target's declared maximum arity, so
// a table that fits the signature stays a positional argument (a request
// body, a parameter map). Variadic targets accept every argument
// positionally and never lift. A target error is raised as a Lua error, so
// user code may pcall it and the failure otherwise propagates out of the
// script unmodified.
func BindFunc(t intercept.Target, fn intercept.TargetFunc) lua.LGFunction {
	return func(L *lua.LState) int {
		top := L.GetTop()
		args := make([]any, 0, top)
		for i := 1; i <= top; i++ {
			args = append(args, luaconv.FromLua(L.Get(i)))
		}

		var kwargs map[string]any
		if t.MaxArgs >= 0 && len(args) > t.MaxArgs {
			if m, ok := args[len(args)-1].(map[string]any); ok {
				kwargs = m
				args = args[:len(args)-1]
			}
		}

		result, err := fn(args, kwargs)
		if err != nil {
			L.RaiseError("%s: %s", t.Name, err.Error())
			return 0
		}
		L.Push(luaconv.ToLua(L, result))
		return 1
	}
}

// exposeModule installs the named functions as a global table.
func exposeModule(L *lua.LState, global string, funcs map[string]lua.LGFunction) {
	tbl := L.NewTable()
	for name, fn := range funcs {
		tbl.RawSetString(name, L.NewFunction(fn))
	}
	L.SetGlobal(global, tbl)
}
