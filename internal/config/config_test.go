package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamlab/scriptseam/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "sqlite", cfg.Run.Framework)
	assert.Equal(t, []string{"extract"}, cfg.Run.Plugins)
	assert.Equal(t, "info", cfg.Monitoring.LogLevel)
}

func TestLoadFromBytes_LayersOverDefaults(t *testing.T) {
	cfg, err := config.LoadFromBytes([]byte(`
run:
  framework: bedrock
  plugins: [dry_run, extract]
monitoring:
  log_level: debug
frameworks:
  bedrock:
    region: eu-west-1
    timeout: 30s
`))
	require.NoError(t, err)
	assert.Equal(t, "bedrock", cfg.Run.Framework)
	assert.Equal(t, []string{"dry_run", "extract"}, cfg.Run.Plugins)
	assert.Equal(t, "debug", cfg.Monitoring.LogLevel)
	assert.Equal(t, "eu-west-1", cfg.Frameworks.Bedrock.Region)
	assert.Equal(t, 30*time.Second, cfg.Frameworks.Bedrock.Timeout)

	// untouched sections keep their defaults
	assert.Equal(t, "auto", cfg.Monitoring.LogFormat)
}

func TestLoadFromBytes_EnvExpansion(t *testing.T) {
	t.Setenv("SEAM_TEST_REGION", "ap-southeast-2")
	cfg, err := config.LoadFromBytes([]byte(`
frameworks:
  bedrock:
    region: ${SEAM_TEST_REGION}
    endpoint: ${SEAM_TEST_MISSING:-http://localhost:8080}
`))
	require.NoError(t, err)
	assert.Equal(t, "ap-southeast-2", cfg.Frameworks.Bedrock.Region)
	assert.Equal(t, "http://localhost:8080", cfg.Frameworks.Bedrock.Endpoint)
}

func TestLoadFromBytes_Invalid(t *testing.T) {
	cases := map[string]string{
		"bad yaml":         "run: [unbalanced",
		"bad log level":    "monitoring:\n  log_level: loud",
		"bad log format":   "monitoring:\n  log_format: xml",
		"empty framework":  "run:\n  framework: ''",
		"negative timeout": "frameworks:\n  bedrock:\n    timeout: -1s",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.LoadFromBytes([]byte(raw))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("/nonexistent/scriptseam.yaml")
	assert.ErrorContains(t, err, "failed to read config file")
}
