// Registry manages framework adapter construction.
//
// DESIGN: Thread-safe map of framework name -> factory. Built-in adapters
// are registered at startup; an unknown name fails with the list of
// available frameworks.
package framework

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/seamlab/scriptseam/internal/config"
)

// Factory builds a configured adapter.
type Factory func(cfg config.FrameworksConfig, log zerolog.Logger) (Adapter, error)

// Registry maps framework names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a registry with all built-in adapters.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.Register("sqlite", func(cfg config.FrameworksConfig, log zerolog.Logger) (Adapter, error) {
		return NewSQLite(log), nil
	})
	r.Register("bedrock", func(cfg config.FrameworksConfig, log zerolog.Logger) (Adapter, error) {
		return NewBedrock(cfg.Bedrock, log)
	})

	return r
}

// Register adds a factory under the given framework name.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// New builds the named adapter.
func (r *Registry) New(name string, cfg config.FrameworksConfig, log zerolog.Logger) (Adapter, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown framework %q, available: %s", name, strings.Join(r.Names(), ", "))
	}
	return f(cfg, log)
}

// Names returns the registered framework names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
