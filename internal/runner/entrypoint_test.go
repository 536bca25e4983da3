package runner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamlab/scriptseam/internal/runner"
)

func TestParseEntryPoint_PlainScript(t *testing.T) {
	spec, err := runner.ParseEntryPoint("./code.lua")
	require.NoError(t, err)
	assert.Equal(t, "./code.lua", spec.TargetPath)
	assert.Empty(t, spec.CallableName)
}

func TestParseEntryPoint_ExtensionAdded(t *testing.T) {
	spec, err := runner.ParseEntryPoint("scripts/job")
	require.NoError(t, err)
	assert.Equal(t, "scripts/job.lua", spec.TargetPath)
}

func TestParseEntryPoint_Callable(t *testing.T) {
	spec, err := runner.ParseEntryPoint("./code:main")
	require.NoError(t, err)
	assert.Equal(t, "./code.lua", spec.TargetPath)
	assert.Equal(t, "main", spec.CallableName)
}

func TestParseEntryPoint_BackslashSeparators(t *testing.T) {
	spec, err := runner.ParseEntryPoint(`scripts\sub\job:run`)
	require.NoError(t, err)
	assert.Equal(t, "scripts/sub/job.lua", spec.TargetPath)
	assert.Equal(t, "run", spec.CallableName)
}

func TestParseEntryPoint_Rejections(t *testing.T) {
	for _, bad := range []string{
		"",
		"scripts/",
		"code:main:extra",
		":main",
	} {
		_, err := runner.ParseEntryPoint(bad)
		var resErr *runner.ResolutionError
		assert.ErrorAs(t, err, &resErr, "descriptor %q must be rejected", bad)
	}
}
