// Framework adapter configuration.
package config

import (
	"fmt"
	"time"
)

// FrameworksConfig groups per-adapter settings. Adapters without settings
// (sqlite) have no section.
type FrameworksConfig struct {
	Bedrock BedrockConfig `yaml:"bedrock"`
}

// BedrockConfig configures the Bedrock runtime adapter.
type BedrockConfig struct {
	Region   string        `yaml:"region"`   // AWS region, default us-east-1
	Endpoint string        `yaml:"endpoint"` // Override for the runtime endpoint
	Timeout  time.Duration `yaml:"timeout"`  // HTTP timeout, default 2m
	SkipSign bool          `yaml:"skip_sign"` // Skip SigV4 signing (local emulators only)
}

// Validate checks adapter settings.
func (f *FrameworksConfig) Validate() error {
	if f.Bedrock.Timeout < 0 {
		return fmt.Errorf("bedrock: timeout must not be negative")
	}
	return nil
}
