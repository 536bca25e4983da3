package runner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/sjson"
)

// WriteResult writes the entry point's return value to path when the value
// is a plain JSON-compatible shape. Returns whether a file was written.
// Non-serializable values are skipped silently, matching the contract that
// no file is written rather than a partial one.
func WriteResult(path, runID string, value any, callCount int) (bool, error) {
	if value == nil || !plainJSON(value) {
		return false, nil
	}

	out := []byte(`{}`)
	out, _ = sjson.SetBytes(out, "run_id", runID)
	out, _ = sjson.SetBytes(out, "calls", callCount)
	out, err := sjson.SetBytes(out, "result", value)
	if err != nil {
		return false, fmt.Errorf("serialize result: %w", err)
	}
	out = append(out, '\n')

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return false, err
		}
	}
	if err := os.WriteFile(path, out, 0600); err != nil {
		return false, err
	}
	return true, nil
}

// plainJSON reports whether v is built only from JSON-compatible shapes:
// null, booleans, numbers, strings, arrays, and string-keyed objects.
func plainJSON(v any) bool {
	switch val := v.(type) {
	case nil, bool, int, int64, uint64, float32, float64, string:
		return true
	case []any:
		for _, item := range val {
			if !plainJSON(item) {
				return false
			}
		}
		return true
	case map[string]any:
		for _, item := range val {
			if !plainJSON(item) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
