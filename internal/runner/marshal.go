// Argument marshalling: maps one externally supplied JSON value onto the
// positional and keyword arguments of the entry point callable.
//
// DESIGN (shape rules):
//   - array                          -> positional arguments, in order
//   - object with only args/kwargs   -> explicit form; "args" must be an
//     array, "kwargs" an object
//   - any other object               -> keyword arguments, one per key
//   - bare scalar                    -> single positional argument
//   - absent/empty                   -> no arguments
package runner

import (
	"strings"

	"github.com/tidwall/gjson"
)

// CallArguments is the marshalled form handed to the entry point callable.
type CallArguments struct {
	Args   []any
	Kwargs map[string]any
}

// MarshalArguments parses a raw JSON string into call arguments. Malformed
// shapes fail with an ArgumentError before any invocation.
func MarshalArguments(raw string) (*CallArguments, error) {
	if strings.TrimSpace(raw) == "" {
		return &CallArguments{}, nil
	}
	if !gjson.Valid(raw) {
		return nil, &ArgumentError{Reason: "not valid JSON"}
	}

	v := gjson.Parse(raw)
	switch {
	case v.IsArray():
		return &CallArguments{Args: toSlice(v)}, nil

	case v.IsObject():
		fields := v.Map()
		if len(fields) > 0 && onlyArgKeys(fields) {
			return marshalExplicit(v)
		}
		kwargs := make(map[string]any, len(fields))
		for k, field := range fields {
			kwargs[k] = field.Value()
		}
		return &CallArguments{Kwargs: kwargs}, nil

	default:
		// single scalar becomes a single positional argument
		return &CallArguments{Args: []any{v.Value()}}, nil
	}
}

// marshalExplicit handles the {"args": [...], "kwargs": {...}} form.
func marshalExplicit(v gjson.Result) (*CallArguments, error) {
	out := &CallArguments{}

	if args := v.Get("args"); args.Exists() {
		if !args.IsArray() {
			return nil, &ArgumentError{Reason: `"args" must be an array`}
		}
		out.Args = toSlice(args)
	}
	if kwargs := v.Get("kwargs"); kwargs.Exists() {
		if !kwargs.IsObject() {
			return nil, &ArgumentError{Reason: `"kwargs" must be an object`}
		}
		out.Kwargs = make(map[string]any)
		for k, field := range kwargs.Map() {
			out.Kwargs[k] = field.Value()
		}
	}
	return out, nil
}

func onlyArgKeys(fields map[string]gjson.Result) bool {
	for k := range fields {
		if k != "args" && k != "kwargs" {
			return false
		}
	}
	return true
}

func toSlice(v gjson.Result) []any {
	items := v.Array()
	out := make([]any, 0, len(items))
	for _, item := range items {
		out = append(out, item.Value())
	}
	return out
}
