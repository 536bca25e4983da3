package runner

import "fmt"

// ResolutionError reports an entry point that could not be located or whose
// callable does not exist. Fatal; raised before any interceptor runs.
type ResolutionError struct {
	EntryPoint string
	Reason     string
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve entry point %q: %s", e.EntryPoint, e.Reason)
}

// ArgumentError reports a malformed external argument value. Fatal; raised
// before invocation.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid entry point arguments: %s", e.Reason)
}
