// Registry manages interceptor registration and priority ordering.
//
// DESIGN: Registration is write-once-then-read-only. Plugins register during
// the startup discovery step, single-threaded, then Seal() freezes the
// registry and precomputes the per-framework execution order. Calls routed
// afterwards read the precomputed slices without locking.
package intercept

import (
	"fmt"
	"sort"
	"sync"
)

// FrameworkAny registers an interceptor for every framework tag.
const FrameworkAny = ""

// Registration binds an interceptor to a priority and a framework tag.
type Registration struct {
	Interceptor Interceptor
	Priority    int
	Framework   string

	seq int // registration order, breaks priority ties
}

// Registry holds all interceptor registrations for a process.
type Registry struct {
	mu      sync.Mutex
	regs    []Registration
	sealed  bool
	ordered map[string][]Registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds an interceptor with the given priority and framework tag.
// Higher priorities run earlier; equal priorities run in registration order.
// Registering the same (framework, name) pair twice is a no-op. Registering
// after Seal returns ErrRegistrySealed.
func (r *Registry) Register(i Interceptor, priority int, framework string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return fmt.Errorf("register %q: %w", i.Name(), ErrRegistrySealed)
	}
	for _, reg := range r.regs {
		if reg.Framework == framework && reg.Interceptor.Name() == i.Name() {
			return nil
		}
	}
	r.regs = append(r.regs, Registration{
		Interceptor: i,
		Priority:    priority,
		Framework:   framework,
		seq:         len(r.regs),
	})
	return nil
}

// Seal freezes the registry and precomputes the execution order for every
// framework tag seen so far. Must be called after the discovery step
// completes and before the first call is routed.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		return
	}
	r.sealed = true

	r.ordered = make(map[string][]Registration)
	for _, reg := range r.regs {
		if reg.Framework == FrameworkAny {
			continue
		}
		if _, ok := r.ordered[reg.Framework]; !ok {
			r.ordered[reg.Framework] = r.orderedLocked(reg.Framework)
		}
	}
	// FrameworkAny-only registrations still need a fallback order.
	r.ordered[FrameworkAny] = r.orderedLocked(FrameworkAny)
}

// Ordered returns the interceptors that apply to the given framework tag,
// sorted by descending priority with registration order breaking ties.
// Interceptors registered under FrameworkAny apply to every framework.
func (r *Registry) Ordered(framework string) []Registration {
	r.mu.Lock()
	if r.sealed {
		r.mu.Unlock()
		if regs, ok := r.ordered[framework]; ok {
			return regs
		}
		return r.ordered[FrameworkAny]
	}
	defer r.mu.Unlock()
	return r.orderedLocked(framework)
}

// Len returns the number of registrations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.regs)
}

func (r *Registry) orderedLocked(framework string) []Registration {
	matched := make([]Registration, 0, len(r.regs))
	for _, reg := range r.regs {
		if reg.Framework == FrameworkAny || reg.Framework == framework {
			matched = append(matched, reg)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Priority != matched[j].Priority {
			return matched[i].Priority > matched[j].Priority
		}
		return matched[i].seq < matched[j].seq
	})
	return matched
}
