package interceptors

import (
	"strconv"

	"github.com/rs/zerolog"

	"github.com/seamlab/scriptseam/internal/intercept"
)

// Inject rewrites call arguments from the interceptor arguments before
// dispatch, e.g. redirecting every db.query onto an in-memory database:
//
//	{"inject": {"db.query": {"0": ":memory:"}}}
//
// Keys under a method are positional indexes when numeric and keyword names
// otherwise. Calls whose method has no rule are declined.
type Inject struct {
	log zerolog.Logger
}

// Name implements intercept.Interceptor.
func (in *Inject) Name() string { return "inject" }

// InterceptCall implements intercept.CallInterceptor.
func (in *Inject) InterceptCall(meta *intercept.CallMetadata) *intercept.CallMetadata {
	spec, ok := meta.InterceptorArgs["inject"].(map[string]any)
	if !ok {
		return nil
	}
	rules, ok := spec[meta.MethodName].(map[string]any)
	if !ok {
		return nil
	}

	for key, value := range rules {
		if idx, err := strconv.Atoi(key); err == nil {
			if idx >= 0 && idx < len(meta.Args) {
				meta.Args[idx] = value
				in.log.Debug().Str("method", meta.MethodName).Int("index", idx).Msg("injected positional argument")
			}
			continue
		}
		if meta.Kwargs == nil {
			meta.Kwargs = make(map[string]any)
		}
		meta.Kwargs[key] = value
		in.log.Debug().Str("method", meta.MethodName).Str("kwarg", key).Msg("injected keyword argument")
	}
	return nil
}
