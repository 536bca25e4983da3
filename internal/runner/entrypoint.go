package runner

import (
	"path"
	"strings"
)

// EntryPointSpec names the script to run and, optionally, a callable in it.
type EntryPointSpec struct {
	// TargetPath is the script file, always with a .lua extension.
	TargetPath string

	// CallableName is the global function to invoke after the script has
	// been loaded. Empty means run the script as a top-level program.
	CallableName string
}

// ParseEntryPoint parses descriptors of the form "path/to/script.lua" or
// "path/to/script:callable". The .lua extension may be omitted; backslash
// separators are accepted. Only the final path segment may carry a callable,
// and at most one.
func ParseEntryPoint(s string) (EntryPointSpec, error) {
	normalized := strings.ReplaceAll(s, "\\", "/")
	if normalized == "" {
		return EntryPointSpec{}, &ResolutionError{EntryPoint: s, Reason: "empty descriptor"}
	}

	dir, last := path.Split(normalized)
	if last == "" {
		return EntryPointSpec{}, &ResolutionError{EntryPoint: s, Reason: "descriptor names a directory"}
	}
	if strings.Count(last, ":") > 1 {
		return EntryPointSpec{}, &ResolutionError{EntryPoint: s, Reason: "more than one ':' in the final segment"}
	}

	file, callable, _ := strings.Cut(last, ":")
	if file == "" {
		return EntryPointSpec{}, &ResolutionError{EntryPoint: s, Reason: "missing script name"}
	}
	if !strings.HasSuffix(file, ".lua") {
		file += ".lua"
	}

	return EntryPointSpec{
		TargetPath:   dir + file,
		CallableName: callable,
	}, nil
}
