package intercept

import "errors"

var (
	// ErrAlreadyInstalled is returned when a seam replacement for the same
	// method name is installed twice.
	ErrAlreadyInstalled = errors.New("target already installed")

	// ErrRegistrySealed is returned when registering after the discovery
	// step has completed.
	ErrRegistrySealed = errors.New("interceptor registry is sealed")
)
