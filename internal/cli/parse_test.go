package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand_Text(t *testing.T) {
	out, _, err := execute(t, "parse", "?a=1&b=hello+world")
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=hello+world\n2 value(s)\n  \"a\" = \"1\"\n  \"b\" = \"hello world\"\n", out)
}

func TestParseCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "parse", "?a=1&b=2")
	require.NoError(t, err)
	assert.Equal(t,
		`{"status":"ok","data":{"query":"a=1&b=2","size":2,"entries":[{"key":"a","value":"1"},{"key":"b","value":"2"}]},"trace_id":"trace-test"}`+"\n",
		out)
}

func TestParseCommand_Edits(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		query string
	}{
		{"bare keys", []string{"a&b&c"}, "a=&b=&c="},
		{"skip bare", []string{"a&b=1&c", "--skip-bare"}, "b=1"},
		{"sort", []string{"c=4&a=2&b=3&a=1", "--sort"}, "a=2&a=1&b=3&c=4"},
		{"delete", []string{"id=xx&id=yy&id=zz&test=true", "--delete", "id"}, "test=true"},
		{"delete missing", []string{"a=1", "--delete", "z"}, "a=1"},
		{"set keeps position", []string{"a=1&b=2&a=3", "--set", "a=x"}, "a=x&b=2"},
		{"set value with equals", []string{"a=1", "--set", "b=x=y"}, "a=1&b=x%3Dy"},
		{"append", []string{"a=1", "--append", "a=2", "--append", "b=3"}, "a=1&a=2&b=3"},
		{
			"edit order is delete set append sort",
			[]string{"b=1&a=1", "--append", "a=3", "--set", "a=2", "--delete", "b", "--sort", "--append", "0=z"},
			"0=z&a=2&a=3",
		},
		{"comma stays in value", []string{"", "--append", "list=1,2"}, "list=1%2C2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--format", "json", "parse"}, tt.args...)
			out, _, err := execute(t, args...)
			require.NoError(t, err)

			var resp struct {
				Data ParseResult `json:"data"`
			}
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			assert.Equal(t, tt.query, resp.Data.Query)
		})
	}
}

func TestParseCommand_MalformedEscape(t *testing.T) {
	out, _, err := execute(t, "--format", "json", "parse", "a=%zz")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeDecode, resp.Error.Code)
	assert.Equal(t, map[string]any{"input": "%zz", "offset": float64(0)}, resp.Error.Details)
	assert.Equal(t, testTraceID, resp.TraceID)
}

func TestParseCommand_InvalidPairFlag(t *testing.T) {
	out, _, err := execute(t, "parse", "a=1", "--set", "novalue")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E102]")
	assert.Contains(t, out, `invalid pair "novalue"`)
}

func TestParseCommand_MissingArgs(t *testing.T) {
	_, _, err := execute(t, "parse")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}
