package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeJSONDiff(t *testing.T) {
	old := `{"tabs_back_stack":[{"screen":"home"}],"cursor":1}`
	cur := `{"tabs_back_stack":[{"screen":"item"},{"screen":"home"}],"query":"map"}`

	diffs, err := ComputeJSONDiff(old, cur)
	require.NoError(t, err)
	assert.Equal(t, []JSONDiff{
		{Path: "cursor", Type: DiffDelete, OldValue: "1"},
		{Path: "query", Type: DiffAdd, NewValue: `"map"`},
		{Path: "tabs_back_stack[0].screen", Type: DiffUpdate, OldValue: `"home"`, NewValue: `"item"`},
		{Path: "tabs_back_stack[1]", Type: DiffAdd, NewValue: `{"screen":"home"}`},
	}, diffs)
}

func TestComputeJSONDiffEmptyAndInvalid(t *testing.T) {
	diffs, err := ComputeJSONDiff("", `{}`)
	require.NoError(t, err)
	assert.Empty(t, diffs)

	diffs, err = ComputeJSONDiff(`{"a":{"b":1}}`, `{"a":[1]}`)
	require.NoError(t, err)
	assert.Equal(t, []JSONDiff{{Path: "a", Type: DiffUpdate, OldValue: `{"b":1}`, NewValue: "[1]"}}, diffs)

	_, err = ComputeJSONDiff(`{`, `{}`)
	assert.Error(t, err)
}

func TestPrettyJSON(t *testing.T) {
	assert.Equal(t, "{\n  \"a\": 1\n}", PrettyJSON(`{"a":1}`))
	assert.Equal(t, "not json", PrettyJSON("not json"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "astro...", TruncateString("astrolabe compass", 8))
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
	assert.Equal(t, "☆☆...", TruncateString("☆☆☆☆☆☆", 5))
}
