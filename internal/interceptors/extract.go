package interceptors

import (
	"fmt"

	"github.com/seamlab/scriptseam/internal/intercept"
)

// Extract records the call's final arguments pre-call and a result summary
// post-call into the metadata scratchpad, where the collector, telemetry,
// and downstream hooks can read them. It never modifies the call.
type Extract struct{}

// Name implements intercept.Interceptor.
func (x *Extract) Name() string { return "extract" }

// InterceptCall implements intercept.CallInterceptor.
func (x *Extract) InterceptCall(meta *intercept.CallMetadata) *intercept.CallMetadata {
	args := make([]any, len(meta.Args))
	copy(args, meta.Args)
	meta.ExtraData["extracted_call"] = map[string]any{
		"method": meta.MethodName,
		"args":   args,
	}
	return nil
}

// InterceptResult implements intercept.ResultInterceptor.
func (x *Extract) InterceptResult(result any, meta *intercept.CallMetadata) (any, *intercept.CallMetadata) {
	summary := map[string]any{"type": fmt.Sprintf("%T", result)}
	if rows, ok := result.([]any); ok {
		summary["count"] = len(rows)
	}
	meta.ExtraData["extracted_result"] = summary
	return result, nil
}
