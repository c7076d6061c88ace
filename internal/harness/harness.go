package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/roach88/searchparams/internal/docload"
	"github.com/roach88/searchparams/internal/params"
)

// Harness runs scenarios against fresh stores. Trace sequence numbers are
// per run, so traces are reproducible.
type Harness struct {
	logger *slog.Logger
}

// New creates a harness. A nil logger discards all output.
func New(logger *slog.Logger) *Harness {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Harness{logger: logger}
}

// Run executes a scenario with a silent harness.
func Run(scenario *Scenario) (*Result, error) {
	return New(nil).Run(scenario)
}

// Run executes a test scenario and returns the result.
//
// Every run numbers its trace from 1, so the same scenario always produces
// the same trace. A returned error means the scenario itself is unusable; a
// failing expectation is reported through Result.Pass and Result.Errors.
//
// Execution flow:
// 1. Build the store from the scenario input
// 2. Apply steps in order, tracing each one
// 3. Evaluate the expect block against the final store
func (h *Harness) Run(scenario *Scenario) (*Result, error) {
	opts, err := scenario.Options.resolve()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: options: %w", scenario.Name, err)
	}

	in, kind, err := buildInput(scenario.Input)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	p, constructErr := params.From(in, params.WithOptions(opts))

	event := TraceEvent{Seq: result.nextSeq(), Op: OpConstruct, Input: kind}
	if constructErr != nil {
		event.Error = errorKind(constructErr)
	} else {
		event.Query = p.String()
		event.Size = p.Size()
	}
	result.AddTrace(event)

	h.logger.Debug("store constructed",
		"scenario", scenario.Name,
		"input", kind,
		"query", event.Query,
		"error", event.Error,
	)

	if constructErr != nil {
		checkConstructError(result, scenario.Expect, constructErr)
		return result, nil
	}
	if scenario.Expect.Error != "" {
		result.AddError((&AssertionError{
			Type:     "error",
			Expected: fmt.Sprintf("construction to fail with %s", scenario.Expect.Error),
			Actual:   fmt.Sprintf("constructed %q", p.String()),
			Trace:    result.Trace,
		}).Error())
		return result, nil
	}

	for i, step := range scenario.Steps {
		p, err = h.applyStep(p, step, result)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: steps[%d]: %w", scenario.Name, i, err)
		}
	}

	result.Final = p.String()
	for _, msg := range EvaluateExpect(p, scenario.Expect, result.Trace) {
		result.AddError(msg)
	}

	h.logger.Debug("scenario finished",
		"scenario", scenario.Name,
		"pass", result.Pass,
		"final", result.Final,
	)
	return result, nil
}

// applyStep applies one step and traces it. Clone and reparse replace the
// store the remaining steps operate on.
func (h *Harness) applyStep(p *params.Params, step Step, result *Result) (*params.Params, error) {
	event := TraceEvent{Op: step.Op}
	if step.Key != nil {
		event.Key = *step.Key
	}

	switch step.Op {
	case OpAppend, OpSet:
		value, err := stepValue(step)
		if err != nil {
			return nil, err
		}
		event.Value = p.Options().Coercion.Text(value)
		if step.Op == OpAppend {
			p.Append(event.Key, value)
		} else {
			p.Set(event.Key, value)
		}
	case OpDelete:
		p.Delete(event.Key)
	case OpSort:
		p.Sort()
	case OpClone:
		p = p.Clone()
	case OpReparse:
		next, err := params.FromStore(p, params.WithOptions(p.Options()))
		if err != nil {
			return nil, fmt.Errorf("reparse %q: %w", p.String(), err)
		}
		p = next
	default:
		return nil, fmt.Errorf("unknown op %q", step.Op)
	}

	event.Seq = result.nextSeq()
	event.Query = p.String()
	event.Size = p.Size()
	result.AddTrace(event)

	h.logger.Debug("step applied",
		"seq", event.Seq,
		"op", event.Op,
		"key", event.Key,
		"value", event.Value,
		"query", event.Query,
	)
	return p, nil
}

// buildInput converts the scenario input to a params.Input.
func buildInput(spec InputSpec) (params.Input, string, error) {
	kinds := spec.Kinds()
	if len(kinds) != 1 {
		return nil, "", fmt.Errorf("input: exactly one shape required, got %v", kinds)
	}

	switch kind := kinds[0]; kind {
	case InputQuery:
		return params.Query(*spec.Query), kind, nil
	case InputMapping:
		return params.Mapping(spec.Mapping), kind, nil
	case InputOrdered:
		pairs, err := docload.FromYAMLNode(&spec.Ordered)
		if err != nil {
			return nil, "", fmt.Errorf("input.ordered: %w", err)
		}
		return pairs, kind, nil
	case InputPairs:
		return params.PairSequence(spec.Pairs), kind, nil
	default:
		return nil, InputEmpty, nil
	}
}

// stepValue decodes a step value. Mappings keep their document order.
func stepValue(step Step) (any, error) {
	node := &step.Value
	if node.Kind == 0 {
		return nil, nil
	}
	if node.Kind == yaml.MappingNode {
		return docload.FromYAMLNode(node)
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode value: %w", err)
	}
	return v, nil
}

// errorKind maps a construction error to its scenario error kind.
func errorKind(err error) string {
	switch {
	case params.IsMalformedEscape(err):
		return ErrorMalformedEscape
	case params.IsInvalidPair(err):
		return ErrorInvalidPair
	default:
		return "unknown"
	}
}

func checkConstructError(result *Result, expect Expect, err error) {
	kind := errorKind(err)
	if expect.Error == kind {
		return
	}

	expected := "construction to succeed"
	if expect.Error != "" {
		expected = fmt.Sprintf("construction to fail with %s", expect.Error)
	}
	var perr *params.ParseError
	actual := fmt.Sprintf("%s: %v", kind, err)
	if errors.As(err, &perr) {
		actual = fmt.Sprintf("%s at offset %d of %q", kind, perr.Offset, perr.Input)
	}
	result.AddError((&AssertionError{
		Type:     "error",
		Expected: expected,
		Actual:   actual,
		Trace:    result.Trace,
	}).Error())
}
