package intercept

// Interceptor is the identity every registered plugin carries. The two hook
// phases are optional interfaces: a plugin participates in a phase by
// implementing CallInterceptor and/or ResultInterceptor. A plugin that
// implements neither is registered but never consulted.
type Interceptor interface {
	// Name returns a stable identifier, unique per framework tag.
	Name() string
}

// CallInterceptor is the pre-call hook. It runs before the real function,
// in priority order.
//
// The hook may mutate meta in place, or return a replacement instance which
// becomes current for all later hooks and for the dispatch itself. Returning
// nil is the explicit decline signal: the chain proceeds with meta unchanged.
// Setting meta.ShouldTerminate stops the pre-call phase immediately and the
// call completes with meta.TerminationResult.
type CallInterceptor interface {
	Interceptor
	InterceptCall(meta *CallMetadata) *CallMetadata
}

// ResultInterceptor is the post-call hook. It runs after a successful real
// call, in priority order, and never runs for terminated or failed calls.
//
// The returned value replaces the call result for later hooks and for the
// original caller; a hook that declines returns result unchanged. A non-nil
// returned metadata replaces the current instance, as in the pre-call phase.
type ResultInterceptor interface {
	Interceptor
	InterceptResult(result any, meta *CallMetadata) (any, *CallMetadata)
}
