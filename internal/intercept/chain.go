// Package intercept implements the call interception pipeline.
//
// DESIGN: A priority-ordered chain of independently registered interceptors
// runs around every call to a seam-wrapped target function:
//
//  1. Build fresh CallMetadata from the real call's arguments.
//  2. PRECALL: run each CallInterceptor in priority order. Hooks mutate the
//     metadata, return a replacement, or decline (nil). A terminating hook
//     stops the phase; the real function is never invoked.
//  3. CALLING: invoke the real function with the (possibly rewritten)
//     arguments. An error propagates unmodified; no post-call phase runs.
//  4. POSTCALL: run each ResultInterceptor in priority order; hooks may
//     replace the result.
//  5. Record an ExecutionResult and return the final result to the caller.
//
// FLOW: runner loads user script -> script calls an exposed host function ->
// Seam routes the call here -> chain consults the Registry -> Collector
// records the outcome.
//
// The executor is reentrant: all call-scoped state lives in the per-call
// CallMetadata, so independent goroutines may drive calls concurrently.
package intercept

import (
	"github.com/rs/zerolog"
)

// TargetFunc is the calling convention shared by real target functions and
// their seam-installed replacements.
type TargetFunc func(args []any, kwargs map[string]any) (any, error)

// Executor runs the pre-call/post-call protocol around one framework's
// target functions.
type Executor struct {
	registry        *Registry
	collector       *Collector
	framework       string
	interceptorArgs map[string]any
	log             zerolog.Logger
}

// NewExecutor creates an executor bound to a sealed registry and a collector.
// interceptorArgs is the opaque per-run interceptor configuration; it is
// attached to every call's metadata.
func NewExecutor(registry *Registry, collector *Collector, framework string, interceptorArgs map[string]any, log zerolog.Logger) *Executor {
	return &Executor{
		registry:        registry,
		collector:       collector,
		framework:       framework,
		interceptorArgs: interceptorArgs,
		log:             log,
	}
}

// Execute routes one call through the interception chain and dispatches to
// target unless a pre-call hook terminates the call first.
func (e *Executor) Execute(methodName string, target TargetFunc, args []any, kwargs map[string]any) (any, error) {
	callID := e.collector.NextCallID()
	meta := NewCallMetadata(methodName, args, kwargs, e.interceptorArgs)
	regs := e.registry.Ordered(e.framework)

	// PRECALL
	for _, reg := range regs {
		hook, ok := reg.Interceptor.(CallInterceptor)
		if !ok {
			continue
		}
		if next := hook.InterceptCall(meta); next != nil {
			meta = next
		}
		if meta.ShouldTerminate {
			e.log.Debug().
				Uint64("call_id", callID).
				Str("method", methodName).
				Str("interceptor", reg.Interceptor.Name()).
				Msg("call terminated by interceptor")
			e.collector.Record(ExecutionResult{
				CallID:     callID,
				Metadata:   meta.snapshot(),
				Result:     meta.TerminationResult,
				Terminated: true,
			})
			return meta.TerminationResult, nil
		}
	}

	// CALLING
	result, err := target(meta.Args, meta.Kwargs)
	if err != nil {
		e.log.Debug().
			Uint64("call_id", callID).
			Str("method", methodName).
			Err(err).
			Msg("intercepted call failed")
		e.collector.Record(ExecutionResult{
			CallID:   callID,
			Metadata: meta.snapshot(),
			Failed:   true,
			Error:    err.Error(),
		})
		return nil, err
	}

	// POSTCALL
	for _, reg := range regs {
		hook, ok := reg.Interceptor.(ResultInterceptor)
		if !ok {
			continue
		}
		newResult, next := hook.InterceptResult(result, meta)
		result = newResult
		if next != nil {
			meta = next
		}
	}

	e.collector.Record(ExecutionResult{
		CallID:   callID,
		Metadata: meta.snapshot(),
		Result:   result,
	})
	return result, nil
}
