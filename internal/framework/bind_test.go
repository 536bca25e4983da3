package framework_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lua "github.com/yuin/gopher-lua"

	"github.com/seamlab/scriptseam/internal/framework"
	"github.com/seamlab/scriptseam/internal/intercept"
)

// recorder captures what a bound target receives from Lua.
type recorder struct {
	args   []any
	kwargs map[string]any
	err    error
}

func (r *recorder) call(args []any, kwargs map[string]any) (any, error) {
	r.args = args
	r.kwargs = kwargs
	return "ok", r.err
}

func bindIntoState(t *testing.T, target intercept.Target, fn intercept.TargetFunc) *lua.LState {
	t.Helper()
	L := lua.NewState()
	t.Cleanup(L.Close)
	L.SetGlobal("f", L.NewFunction(framework.BindFunc(target, fn)))
	return L
}

// A table that fits the declared arity is an ordinary positional argument,
// not an options table.
func TestBindFunc_TableWithinArityStaysPositional(t *testing.T) {
	rec := &recorder{}
	L := bindIntoState(t, intercept.Target{Name: "api.call", MinArgs: 2, MaxArgs: 2}, rec.call)

	require.NoError(t, L.DoString(`f("model", {prompt = "hi"})`))
	assert.Equal(t, []any{"model", map[string]any{"prompt": "hi"}}, rec.args)
	assert.Nil(t, rec.kwargs)
}

func TestBindFunc_ExtraTrailingTableBecomesKwargs(t *testing.T) {
	rec := &recorder{}
	L := bindIntoState(t, intercept.Target{Name: "api.call", MinArgs: 2, MaxArgs: 2}, rec.call)

	require.NoError(t, L.DoString(`f("model", "body", {trace = true})`))
	assert.Equal(t, []any{"model", "body"}, rec.args)
	assert.Equal(t, map[string]any{"trace": true}, rec.kwargs)
}

func TestBindFunc_VariadicNeverLifts(t *testing.T) {
	rec := &recorder{}
	L := bindIntoState(t, intercept.Target{Name: "db.query", MinArgs: 2, MaxArgs: -1}, rec.call)

	require.NoError(t, L.DoString(`f("dsn", "sql", {bound = 1})`))
	assert.Equal(t, []any{"dsn", "sql", map[string]any{"bound": int64(1)}}, rec.args)
	assert.Nil(t, rec.kwargs)
}

func TestBindFunc_TargetErrorIsLuaError(t *testing.T) {
	rec := &recorder{err: errors.New("backend down")}
	L := bindIntoState(t, intercept.Target{Name: "api.call", MinArgs: 0, MaxArgs: -1}, rec.call)

	require.NoError(t, L.DoString(`ok, msg = pcall(function() f() end)`))
	assert.Equal(t, lua.LFalse, L.GetGlobal("ok"))
	assert.Contains(t, lua.LVAsString(L.GetGlobal("msg")), "backend down")
}
