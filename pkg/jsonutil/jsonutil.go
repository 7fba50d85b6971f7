// Package jsonutil formats and compares the JSON blobs wayfinder persists:
// navigator state, host snapshots and screen mementos.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// PrettyJSON indents s for display. Invalid JSON is returned unchanged.
func PrettyJSON(s string) string {
	var obj any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return s
	}
	pretty, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return s
	}
	return string(pretty)
}

// Change kinds reported by ComputeJSONDiff.
const (
	DiffAdd    = "add"
	DiffUpdate = "update"
	DiffDelete = "delete"
)

// JSONDiff is one difference between two documents. Path uses dots for
// object keys and brackets for array indices, e.g. "tabs_back_stack[0].screen".
type JSONDiff struct {
	Path     string `json:"path"`
	Type     string `json:"type"`
	OldValue string `json:"old_value,omitempty"`
	NewValue string `json:"new_value,omitempty"`
}

// ComputeJSONDiff compares two JSON documents. An empty string counts as an
// empty object. Objects and arrays are compared element by element; arrays
// by index, so an entry pushed on top of a back stack shows up as a shift.
func ComputeJSONDiff(oldJSON, newJSON string) ([]JSONDiff, error) {
	oldVal, err := parse(oldJSON)
	if err != nil {
		return nil, fmt.Errorf("parsing old JSON: %w", err)
	}
	newVal, err := parse(newJSON)
	if err != nil {
		return nil, fmt.Errorf("parsing new JSON: %w", err)
	}
	return diffValues("", oldVal, newVal, nil), nil
}

func parse(s string) (any, error) {
	if s == "" {
		return map[string]any{}, nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func diffValues(path string, oldVal, newVal any, diffs []JSONDiff) []JSONDiff {
	switch o := oldVal.(type) {
	case map[string]any:
		if n, ok := newVal.(map[string]any); ok {
			return diffObjects(path, o, n, diffs)
		}
	case []any:
		if n, ok := newVal.([]any); ok {
			return diffArrays(path, o, n, diffs)
		}
	}
	oldStr, newStr := encode(oldVal), encode(newVal)
	if oldStr == newStr {
		return diffs
	}
	return append(diffs, JSONDiff{Path: path, Type: DiffUpdate, OldValue: oldStr, NewValue: newStr})
}

func diffObjects(prefix string, oldMap, newMap map[string]any, diffs []JSONDiff) []JSONDiff {
	keys := make([]string, 0, len(oldMap)+len(newMap))
	for k := range oldMap {
		keys = append(keys, k)
	}
	for k := range newMap {
		if _, ok := oldMap[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		oldVal, inOld := oldMap[k]
		newVal, inNew := newMap[k]
		switch {
		case !inOld:
			diffs = append(diffs, JSONDiff{Path: path, Type: DiffAdd, NewValue: encode(newVal)})
		case !inNew:
			diffs = append(diffs, JSONDiff{Path: path, Type: DiffDelete, OldValue: encode(oldVal)})
		default:
			diffs = diffValues(path, oldVal, newVal, diffs)
		}
	}
	return diffs
}

func diffArrays(prefix string, oldArr, newArr []any, diffs []JSONDiff) []JSONDiff {
	for i := 0; i < max(len(oldArr), len(newArr)); i++ {
		path := prefix + "[" + strconv.Itoa(i) + "]"
		switch {
		case i >= len(oldArr):
			diffs = append(diffs, JSONDiff{Path: path, Type: DiffAdd, NewValue: encode(newArr[i])})
		case i >= len(newArr):
			diffs = append(diffs, JSONDiff{Path: path, Type: DiffDelete, OldValue: encode(oldArr[i])})
		default:
			diffs = diffValues(path, oldArr[i], newArr[i], diffs)
		}
	}
	return diffs
}

func encode(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

// TruncateString shortens s to at most maxLen runes, ending in "..." when
// anything was cut.
func TruncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:max(maxLen, 0)])
	}
	return string(r[:maxLen-3]) + "..."
}
