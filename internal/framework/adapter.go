// Package framework binds interceptable host libraries into the script
// environment.
//
// DESIGN: An Adapter owns one library surface. It declares the designated
// target functions (which feed CallMetadata.MethodName) and installs
// callables into the Lua state at configuration time. The adapter never sees
// the interception chain: the runner hands it either the seam-wrapped
// replacements or the raw originals (--no-intercept), and the adapter
// exposes whatever it is given. That hand-off is the integration contract —
// there is no rebinding of globals behind the adapter's back.
package framework

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/seamlab/scriptseam/internal/intercept"
)

// Adapter binds one host library into the script environment.
type Adapter interface {
	// Name returns the framework tag ("sqlite", "bedrock").
	Name() string

	// Targets lists the designated callables to intercept. Method names
	// must be unique within the adapter.
	Targets() []intercept.Target

	// Expose installs the bound callables into the Lua state. bound maps
	// each target's method name to the callable user code should reach.
	Expose(L *lua.LState, bound map[string]intercept.TargetFunc) error

	// Close releases adapter resources (connections, clients).
	Close() error
}
