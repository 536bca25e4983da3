package runner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seamlab/scriptseam/internal/runner"
)

func TestMarshalArguments_Empty(t *testing.T) {
	for _, raw := range []string{"", "   "} {
		got, err := runner.MarshalArguments(raw)
		require.NoError(t, err)
		assert.Empty(t, got.Args)
		assert.Empty(t, got.Kwargs)
	}
}

func TestMarshalArguments_Array(t *testing.T) {
	got, err := runner.MarshalArguments(`[1, 2, 3]`)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2), float64(3)}, got.Args)
	assert.Empty(t, got.Kwargs)
}

func TestMarshalArguments_ObjectBecomesKwargs(t *testing.T) {
	got, err := runner.MarshalArguments(`{"a": 1, "b": "two"}`)
	require.NoError(t, err)
	assert.Empty(t, got.Args)
	assert.Equal(t, map[string]any{"a": float64(1), "b": "two"}, got.Kwargs)
}

func TestMarshalArguments_ExplicitForm(t *testing.T) {
	got, err := runner.MarshalArguments(`{"args": [1, 2], "kwargs": {"b": 3}}`)
	require.NoError(t, err)
	assert.Equal(t, []any{float64(1), float64(2)}, got.Args)
	assert.Equal(t, map[string]any{"b": float64(3)}, got.Kwargs)
}

func TestMarshalArguments_ExplicitFormPartial(t *testing.T) {
	got, err := runner.MarshalArguments(`{"kwargs": {"b": 3}}`)
	require.NoError(t, err)
	assert.Empty(t, got.Args)
	assert.Equal(t, map[string]any{"b": float64(3)}, got.Kwargs)
}

func TestMarshalArguments_Scalar(t *testing.T) {
	got, err := runner.MarshalArguments(`"solo"`)
	require.NoError(t, err)
	assert.Equal(t, []any{"solo"}, got.Args)
}

func TestMarshalArguments_MalformedShapes(t *testing.T) {
	for _, raw := range []string{
		`{"args": "not an array"}`,
		`{"kwargs": [1, 2]}`,
		`{invalid json`,
	} {
		_, err := runner.MarshalArguments(raw)
		var argErr *runner.ArgumentError
		assert.ErrorAs(t, err, &argErr, "input %q must be rejected", raw)
	}
}

// A key named like "args" alongside a normal key is ordinary kwargs, not the
// explicit form.
func TestMarshalArguments_MixedKeysAreKwargs(t *testing.T) {
	got, err := runner.MarshalArguments(`{"args": [1], "other": 2}`)
	require.NoError(t, err)
	assert.Empty(t, got.Args)
	assert.Equal(t, map[string]any{"args": []any{float64(1)}, "other": float64(2)}, got.Kwargs)
}
