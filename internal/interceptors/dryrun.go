package interceptors

import (
	"github.com/rs/zerolog"

	"github.com/seamlab/scriptseam/internal/intercept"
)

// DryRun terminates every intercepted call so the real function never
// executes. The substitute result is looked up in the interceptor arguments:
// "dry_run_results" maps method names to results, "dry_run_result" applies
// to all methods; without either, a canned marker object is used.
type DryRun struct {
	log zerolog.Logger
}

// Name implements intercept.Interceptor.
func (d *DryRun) Name() string { return "dry_run" }

// InterceptCall implements intercept.CallInterceptor.
func (d *DryRun) InterceptCall(meta *intercept.CallMetadata) *intercept.CallMetadata {
	result := any(map[string]any{
		"dry_run": true,
		"method":  meta.MethodName,
	})
	if perMethod, ok := meta.InterceptorArgs["dry_run_results"].(map[string]any); ok {
		if r, ok := perMethod[meta.MethodName]; ok {
			result = r
		}
	} else if r, ok := meta.InterceptorArgs["dry_run_result"]; ok {
		result = r
	}

	meta.ExtraData["dry_run"] = true
	meta.Terminate(result)
	d.log.Info().Str("method", meta.MethodName).Msg("dry run, call terminated")
	return nil
}
