package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func valueNode(t *testing.T, src string) yaml.Node {
	t.Helper()
	var doc yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return *doc.Content[0]
}

func TestRun_MinimalScenario(t *testing.T) {
	scenario := &Scenario{
		Name:        "minimal",
		Description: "Minimal test scenario",
		Input:       InputSpec{Query: strPtr("?a=1&b=2")},
		Expect:      Expect{String: strPtr("a=1&b=2"), Size: intPtr(2)},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "a=1&b=2", result.Final)

	require.Len(t, result.Trace, 1)
	assert.Equal(t, TraceEvent{Seq: 1, Op: OpConstruct, Input: InputQuery, Query: "a=1&b=2", Size: 2}, result.Trace[0])
}

func TestRun_StepsAreTraced(t *testing.T) {
	scenario := &Scenario{
		Name:        "steps",
		Description: "Every step is traced",
		Input:       InputSpec{Empty: true},
		Steps: []Step{
			{Op: OpAppend, Key: strPtr("a"), Value: valueNode(t, "1")},
			{Op: OpAppend, Key: strPtr("b"), Value: valueNode(t, "[1, 2]")},
			{Op: OpSet, Key: strPtr("a"), Value: valueNode(t, "null")},
			{Op: OpDelete, Key: strPtr("b")},
			{Op: OpSort},
		},
		Expect: Expect{String: strPtr("a=null")},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)

	require.Len(t, result.Trace, 6)
	for i, event := range result.Trace {
		assert.Equal(t, int64(i+1), event.Seq)
	}
	assert.Equal(t, TraceEvent{Seq: 2, Op: OpAppend, Key: "a", Value: "1", Query: "a=1", Size: 1}, result.Trace[1])
	assert.Equal(t, TraceEvent{Seq: 3, Op: OpAppend, Key: "b", Value: "[1,2]", Query: "a=1&b=%5B1%2C2%5D", Size: 2}, result.Trace[2])
	assert.Equal(t, TraceEvent{Seq: 4, Op: OpSet, Key: "a", Value: "null", Query: "a=null&b=%5B1%2C2%5D", Size: 2}, result.Trace[3])
	assert.Equal(t, TraceEvent{Seq: 5, Op: OpDelete, Key: "b", Query: "a=null", Size: 1}, result.Trace[4])
	assert.Equal(t, TraceEvent{Seq: 6, Op: OpSort, Query: "a=null", Size: 1}, result.Trace[5])
}

func TestRun_Deterministic(t *testing.T) {
	scenario := &Scenario{
		Name:        "deterministic",
		Description: "Same scenario, same trace",
		Input:       InputSpec{Query: strPtr("b=1&a=2")},
		Steps:       []Step{{Op: OpSort}, {Op: OpClone}},
		Expect:      Expect{String: strPtr("a=2&b=1")},
	}

	h := New(nil)
	first, err := h.Run(scenario)
	require.NoError(t, err)
	second, err := h.Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
	assert.Equal(t, int64(3), second.Trace[2].Seq)
}

func TestRun_SequenceRestartsPerRun(t *testing.T) {
	long := &Scenario{
		Name:        "long",
		Description: "Several steps",
		Input:       InputSpec{Query: strPtr("a=1")},
		Steps:       []Step{{Op: OpSort}, {Op: OpSort}, {Op: OpClone}},
		Expect:      Expect{Size: intPtr(1)},
	}
	failing := &Scenario{
		Name:        "failing_construct",
		Description: "Construction fails",
		Input:       InputSpec{Query: strPtr("a=%zz")},
		Expect:      Expect{Error: ErrorMalformedEscape},
	}

	h := New(nil)
	first, err := h.Run(long)
	require.NoError(t, err)
	require.Len(t, first.Trace, 4)
	assert.Equal(t, int64(4), first.Trace[3].Seq)

	second, err := h.Run(failing)
	require.NoError(t, err)
	require.Len(t, second.Trace, 1)
	assert.Equal(t, int64(1), second.Trace[0].Seq)
	assert.True(t, second.Pass, second.Errors)

	third, err := h.Run(long)
	require.NoError(t, err)
	assert.Equal(t, first.Trace, third.Trace)
}

func TestRun_ExpectationFailures(t *testing.T) {
	scenario := &Scenario{
		Name:        "failing",
		Description: "Every expectation is wrong",
		Input:       InputSpec{Query: strPtr("a=1&a=2")},
		Expect: Expect{
			String: strPtr("a=1"),
			Size:   intPtr(1),
			Get:    map[string]string{"a": "2", "b": "x"},
			GetAll: map[string][]string{"a": {"2", "1"}},
			Has:    map[string]bool{"a": false},
			Absent: []string{"a"},
			Keys:   []string{"a"},
			Values: []string{"1"},
			Names:  []string{"b"},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Len(t, result.Errors, 10)
	assert.Contains(t, result.Errors[0], "Assertion failed: string")
	assert.Contains(t, result.Errors[0], "Full trace:")
	assert.Contains(t, result.Errors[0], `[1] construct -> "a=1&a=2"`)
}

func TestRun_ConstructionErrors(t *testing.T) {
	tests := []struct {
		name      string
		input     InputSpec
		expect    string
		pass      bool
		traceKind string
	}{
		{"malformed escape expected", InputSpec{Query: strPtr("a=%2")}, ErrorMalformedEscape, true, ErrorMalformedEscape},
		{"invalid pair expected", InputSpec{Pairs: [][]any{{"a"}}}, ErrorInvalidPair, true, ErrorInvalidPair},
		{"wrong kind expected", InputSpec{Query: strPtr("%zz")}, ErrorInvalidPair, false, ErrorMalformedEscape},
		{"unexpected failure", InputSpec{Query: strPtr("%zz")}, "", false, ErrorMalformedEscape},
		{"expected failure did not happen", InputSpec{Query: strPtr("a=1")}, ErrorMalformedEscape, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expect := Expect{Error: tt.expect}
			if tt.expect == "" {
				expect.Size = intPtr(0)
			}
			result, err := Run(&Scenario{Name: "construct", Description: "d", Input: tt.input, Expect: expect})
			require.NoError(t, err)
			assert.Equal(t, tt.pass, result.Pass, result.Errors)
			require.Len(t, result.Trace, 1)
			assert.Equal(t, tt.traceKind, result.Trace[0].Error)
		})
	}
}

func TestRun_ConstructionErrorReportsOffset(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "offset",
		Description: "d",
		Input:       InputSpec{Query: strPtr("a=x%zz")},
		Expect:      Expect{Size: intPtr(1)},
	})
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], `malformed_escape at offset 1 of "x%zz"`)
}

func TestRun_InvalidScenario(t *testing.T) {
	_, err := Run(&Scenario{
		Name:    "bad",
		Options: ScenarioOptions{Coercion: "xml"},
		Input:   InputSpec{Empty: true},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "options")

	_, err = Run(&Scenario{Name: "no_input"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one shape required")

	_, err = Run(&Scenario{
		Name:  "bad_step",
		Input: InputSpec{Empty: true},
		Steps: []Step{{Op: "pop"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `steps[0]: unknown op "pop"`)
}

func TestRun_OptionsApply(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "join",
		Description: "d",
		Options:     ScenarioOptions{Coercion: "join", BareKeys: "skip"},
		Input:       InputSpec{Query: strPtr("a&b=1")},
		Steps:       []Step{{Op: OpAppend, Key: strPtr("c"), Value: valueNode(t, "[1, 2]")}},
		Expect:      Expect{String: strPtr("b=1&c=1%2C2")},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)

	// Reparse keeps the store's policies.
	result, err = Run(&Scenario{
		Name:        "reparse",
		Description: "d",
		Options:     ScenarioOptions{BareKeys: "skip"},
		Input:       InputSpec{Query: strPtr("a=1")},
		Steps: []Step{
			{Op: OpReparse},
			{Op: OpAppend, Key: strPtr("b"), Value: valueNode(t, "{y: 1, x: 2}")},
		},
		Expect: Expect{Get: map[string]string{"b": `{"y":1,"x":2}`}},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_CloneIsIndependent(t *testing.T) {
	h := New(nil)
	scenario := &Scenario{
		Name:        "clone",
		Description: "d",
		Input:       InputSpec{Query: strPtr("a=1")},
		Steps: []Step{
			{Op: OpClone},
			{Op: OpAppend, Key: strPtr("a"), Value: valueNode(t, "2")},
		},
		Expect: Expect{GetAll: map[string][]string{"a": {"1", "2"}}},
	}
	result, err := h.Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
	assert.Equal(t, "a=1", result.Trace[1].Query)
	assert.Equal(t, "a=1&a=2", result.Trace[2].Query)
}

func TestRun_LogsSteps(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	_, err := New(logger).Run(&Scenario{
		Name:        "logged",
		Description: "d",
		Input:       InputSpec{Query: strPtr("b=1")},
		Steps:       []Step{{Op: OpSort}},
		Expect:      Expect{Size: intPtr(1)},
	})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "store constructed")
	assert.Contains(t, out, "step applied")
	assert.Contains(t, out, "op=sort")
	assert.Contains(t, out, "scenario finished")
}

func TestRun_ExampleScenarios(t *testing.T) {
	scenarios, err := LoadScenarios("testdata/scenarios", "")
	require.NoError(t, err)

	for _, scenario := range scenarios {
		t.Run(scenario.Name, func(t *testing.T) {
			result, err := Run(scenario)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}
