package intercept

import (
	"fmt"
	"sort"
	"strings"
)

// CallMetadata carries everything known about one intercepted call.
// It is the single source of truth for the call: every hook in the chain
// observes the latest instance, either because a hook mutated it in place or
// because a hook returned a replacement.
type CallMetadata struct {
	// MethodName identifies which target signature this call matches.
	// Relevant when an adapter registers more than one target.
	MethodName string `json:"method_name"`

	// Args and Kwargs are the call arguments. Replace or modify them to
	// rewrite the call before dispatch.
	Args   []any          `json:"args"`
	Kwargs map[string]any `json:"kwargs,omitempty"`

	// ExtraData is a scratchpad for interceptors: data stored here by an
	// earlier hook is visible to every later hook and ends up in the
	// recorded ExecutionResult. The framework never clears it.
	ExtraData map[string]any `json:"extra_data,omitempty"`

	// InterceptorArgs is the opaque per-run interceptor configuration,
	// shared by every call of the run.
	InterceptorArgs map[string]any `json:"interceptor_args,omitempty"`

	// ShouldTerminate short-circuits the call: no further pre-call hooks
	// run, the real function is never invoked, and TerminationResult
	// becomes the call's result.
	ShouldTerminate   bool `json:"should_terminate"`
	TerminationResult any  `json:"termination_result,omitempty"`
}

// NewCallMetadata builds the metadata for a fresh call with a zeroed
// ExtraData scratchpad.
func NewCallMetadata(methodName string, args []any, kwargs map[string]any, interceptorArgs map[string]any) *CallMetadata {
	return &CallMetadata{
		MethodName:      methodName,
		Args:            args,
		Kwargs:          kwargs,
		ExtraData:       make(map[string]any),
		InterceptorArgs: interceptorArgs,
	}
}

// Clone creates a shallow copy of the metadata. Hooks that want to hand a
// replacement instance downstream should clone first so ExtraData is carried
// over.
func (m *CallMetadata) Clone() *CallMetadata {
	c := *m
	return &c
}

// snapshot copies the metadata with its own ExtraData map, so a stored
// record cannot be altered through a retained reference to the live call's
// scratchpad.
func (m *CallMetadata) snapshot() *CallMetadata {
	c := *m
	c.ExtraData = make(map[string]any, len(m.ExtraData))
	for k, v := range m.ExtraData {
		c.ExtraData[k] = v
	}
	return &c
}

// Terminate marks the call for termination with the given substitute result.
func (m *CallMetadata) Terminate(result any) {
	m.ShouldTerminate = true
	m.TerminationResult = result
}

// String renders the call in invocation form for logs.
func (m *CallMetadata) String() string {
	parts := make([]string, 0, len(m.Args)+len(m.Kwargs))
	for _, a := range m.Args {
		parts = append(parts, fmt.Sprintf("%v", a))
	}
	keys := make([]string, 0, len(m.Kwargs))
	for k := range m.Kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m.Kwargs[k]))
	}
	return fmt.Sprintf("%s(%s)", m.MethodName, strings.Join(parts, ", "))
}
