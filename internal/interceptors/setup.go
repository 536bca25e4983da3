// Package interceptors contains the built-in interceptor plugins and their
// discovery step.
//
// DESIGN: Plugins are registered explicitly from a configured identifier
// list, in one single-threaded pass at startup, before the registry is
// sealed and any call is routed. Each built-in carries a fixed priority so
// independently enabled plugins compose deterministically:
//
//	dry_run     100  terminate before anything else can dispatch
//	inject       75  rewrite arguments before extraction sees them
//	extract      50  record the (final) arguments
//	token_count  10  annotate, lowest precedence
package interceptors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/seamlab/scriptseam/internal/intercept"
)

// builtin couples a constructor with its registration parameters.
type builtin struct {
	priority  int
	framework string
	build     func(log zerolog.Logger) intercept.Interceptor
}

var builtins = map[string]builtin{
	"dry_run": {
		priority:  100,
		framework: intercept.FrameworkAny,
		build:     func(log zerolog.Logger) intercept.Interceptor { return &DryRun{log: log} },
	},
	"inject": {
		priority:  75,
		framework: intercept.FrameworkAny,
		build:     func(log zerolog.Logger) intercept.Interceptor { return &Inject{log: log} },
	},
	"extract": {
		priority:  50,
		framework: intercept.FrameworkAny,
		build:     func(log zerolog.Logger) intercept.Interceptor { return &Extract{} },
	},
	"token_count": {
		priority:  10,
		framework: "bedrock",
		build:     func(log zerolog.Logger) intercept.Interceptor { return &TokenCount{log: log} },
	},
}

// Names returns the available built-in identifiers, for error messages and
// help text.
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Setup registers the named built-ins into the registry. Unknown identifiers
// fail the discovery step; duplicates are harmless (registration is
// idempotent per identity).
func Setup(reg *intercept.Registry, names []string, log zerolog.Logger) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		b, ok := builtins[name]
		if !ok {
			return fmt.Errorf("unknown interceptor %q, available: %s", name, strings.Join(Names(), ", "))
		}
		if err := reg.Register(b.build(log), b.priority, b.framework); err != nil {
			return err
		}
		log.Debug().Str("interceptor", name).Int("priority", b.priority).Msg("registered interceptor")
	}
	return nil
}
