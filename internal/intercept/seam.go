// Seam is the substitution point between user-visible target functions and
// the interception chain.
//
// DESIGN: The framework adapter hands the seam its original callables at
// configuration time and exposes only the returned replacements to user
// code. This is an explicit integration contract, not a runtime rebinding of
// a shared global: code that holds the original function is unaffected.
package intercept

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Target describes one callable a framework adapter wants intercepted.
type Target struct {
	// Name feeds CallMetadata.MethodName; unique per adapter.
	Name string

	// MinArgs/MaxArgs bound the positional arity the adapter expects.
	// MaxArgs < 0 means variadic. Calls outside the bounds still proceed,
	// with a signature warning logged (best effort, advisory only).
	MinArgs int
	MaxArgs int

	// Func is the original callable.
	Func TargetFunc
}

// Seam installs chain-routing replacements for target functions.
type Seam struct {
	exec *Executor
	log  zerolog.Logger

	mu        sync.Mutex
	installed map[string]bool
}

// NewSeam creates a seam bound to an executor.
func NewSeam(exec *Executor, log zerolog.Logger) *Seam {
	return &Seam{
		exec:      exec,
		log:       log,
		installed: make(map[string]bool),
	}
}

// Install wraps the target and returns the replacement callable. Installing
// the same method name twice returns ErrAlreadyInstalled; a target is never
// silently double-wrapped.
func (s *Seam) Install(t Target) (TargetFunc, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.installed[t.Name] {
		return nil, fmt.Errorf("install %q: %w", t.Name, ErrAlreadyInstalled)
	}
	s.installed[t.Name] = true

	return func(args []any, kwargs map[string]any) (any, error) {
		if len(args) < t.MinArgs || (t.MaxArgs >= 0 && len(args) > t.MaxArgs) {
			s.log.Warn().
				Str("method", t.Name).
				Int("got", len(args)).
				Int("min", t.MinArgs).
				Int("max", t.MaxArgs).
				Msg("call signature does not match target declaration")
		}
		return s.exec.Execute(t.Name, t.Func, args, kwargs)
	}, nil
}

// Installed reports whether a replacement for the method name exists.
func (s *Seam) Installed(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.installed[name]
}
