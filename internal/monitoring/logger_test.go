package monitoring_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/seamlab/scriptseam/internal/monitoring"
)

func TestNewLogger_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.log")
	logger := monitoring.NewLogger(monitoring.LoggerConfig{
		Level:  "debug",
		Format: "json",
		Output: path,
	})

	logger.Info().Str("component", "test").Msg("hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", gjson.GetBytes(data, "message").String())
	assert.Equal(t, "test", gjson.GetBytes(data, "component").String())
}

func TestNewLogger_Levels(t *testing.T) {
	logger := monitoring.NewLogger(monitoring.LoggerConfig{Level: "warn", Format: "json"})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	// unknown level falls back to info
	logger = monitoring.NewLogger(monitoring.LoggerConfig{Level: "shouting", Format: "json"})
	assert.Equal(t, zerolog.InfoLevel, logger.GetLevel())
}
