package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/searchparams/internal/params"
)

func TestAssertionError_Format(t *testing.T) {
	err := &AssertionError{
		Type:     "get",
		Expected: `get("a") = "1"`,
		Actual:   "absent",
		Trace: []TraceEvent{
			{Seq: 1, Op: OpConstruct, Input: InputQuery, Query: "b=2", Size: 1},
			{Seq: 2, Op: OpSet, Key: "c", Value: "x", Query: "b=2&c=x", Size: 2},
			{Seq: 3, Op: OpConstruct, Error: ErrorMalformedEscape},
		},
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: get\n")
	assert.Contains(t, msg, `  Expected: get("a") = "1"`)
	assert.Contains(t, msg, "  Actual: absent")
	assert.Contains(t, msg, `  [1] construct -> "b=2"`)
	assert.Contains(t, msg, `  [2] set "c" "x" -> "b=2&c=x"`)
	assert.Contains(t, msg, "  [3] construct -> error malformed_escape")
}

func TestAssertionError_NoTrace(t *testing.T) {
	msg := (&AssertionError{Type: "size", Expected: "1", Actual: "2"}).Error()
	assert.NotContains(t, msg, "Full trace")
}

func TestEvaluateExpect(t *testing.T) {
	p, err := params.Parse("a=1&b=2&a=3")
	require.NoError(t, err)

	tests := []struct {
		name   string
		expect Expect
		failed []string
	}{
		{
			name: "all pass",
			expect: Expect{
				String: strPtr("a=1&a=3&b=2"),
				Size:   intPtr(3),
				Get:    map[string]string{"a": "1", "b": "2"},
				GetAll: map[string][]string{"a": {"1", "3"}, "z": {}},
				Has:    map[string]bool{"a": true, "z": false},
				Absent: []string{"z"},
				Keys:   []string{"a", "a", "b"},
				Values: []string{"1", "3", "2"},
				Names:  []string{"a", "b"},
			},
		},
		{
			name:   "string mismatch",
			expect: Expect{String: strPtr("a=1")},
			failed: []string{"string"},
		},
		{
			name:   "get on absent key",
			expect: Expect{Get: map[string]string{"z": ""}},
			failed: []string{"get"},
		},
		{
			name:   "get_all order matters",
			expect: Expect{GetAll: map[string][]string{"a": {"3", "1"}}},
			failed: []string{"get_all"},
		},
		{
			name:   "absent on present key",
			expect: Expect{Absent: []string{"b"}},
			failed: []string{"absent"},
		},
		{
			name:   "keys and names differ",
			expect: Expect{Keys: []string{"a", "b"}, Names: []string{"a", "a", "b"}},
			failed: []string{"names", "keys"},
		},
		{
			name:   "sorted key order within a field",
			expect: Expect{Has: map[string]bool{"b": false, "a": false}},
			failed: []string{`has("a")`, `has("b")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateExpect(p, tt.expect, nil)
			require.Len(t, errs, len(tt.failed), "errors: %v", errs)
			for i, want := range tt.failed {
				assert.Contains(t, errs[i], want)
			}
		})
	}
}
