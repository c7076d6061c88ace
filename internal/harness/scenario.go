package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/searchparams/internal/params"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Options selects the store's coercion and bare-key policies.
	Options ScenarioOptions `yaml:"options,omitempty"`

	// Input is the construction input. Exactly one shape must be set.
	Input InputSpec `yaml:"input"`

	// Steps are applied in order after construction.
	Steps []Step `yaml:"steps,omitempty"`

	// Expect is checked against the final store.
	Expect Expect `yaml:"expect"`
}

// ScenarioOptions mirrors params.Options in scenario files.
type ScenarioOptions struct {
	Coercion string `yaml:"coercion,omitempty"`
	BareKeys string `yaml:"bare_keys,omitempty"`
}

// InputSpec holds one construction input shape.
type InputSpec struct {
	Query   *string        `yaml:"query,omitempty"`
	Mapping map[string]any `yaml:"mapping,omitempty"`
	Ordered yaml.Node      `yaml:"ordered,omitempty"`
	Pairs   [][]any        `yaml:"pairs,omitempty"`
	Empty   bool           `yaml:"empty,omitempty"`
}

// Input kinds, as recorded in the construct trace event.
const (
	InputQuery   = "query"
	InputMapping = "mapping"
	InputOrdered = "ordered"
	InputPairs   = "pairs"
	InputEmpty   = "empty"
)

// Kinds lists the input shapes that are set.
func (in InputSpec) Kinds() []string {
	var kinds []string
	if in.Query != nil {
		kinds = append(kinds, InputQuery)
	}
	if in.Mapping != nil {
		kinds = append(kinds, InputMapping)
	}
	if in.Ordered.Kind != 0 {
		kinds = append(kinds, InputOrdered)
	}
	if in.Pairs != nil {
		kinds = append(kinds, InputPairs)
	}
	if in.Empty {
		kinds = append(kinds, InputEmpty)
	}
	return kinds
}

// Step is one mutation applied to the store.
type Step struct {
	// Op is one of the Op* constants.
	Op string `yaml:"op"`

	// Key is required by append, set and delete.
	Key *string `yaml:"key,omitempty"`

	// Value is required by append and set. It is coerced with the
	// scenario's policy; a YAML mapping keeps its document order.
	Value yaml.Node `yaml:"value,omitempty"`
}

// HasValue reports whether the step gave a value, including an explicit null.
func (s Step) HasValue() bool {
	return s.Value.Kind != 0
}

// Step op constants.
const (
	OpAppend  = "append"
	OpSet     = "set"
	OpDelete  = "delete"
	OpSort    = "sort"
	OpClone   = "clone"
	OpReparse = "reparse"
)

// Expect lists checks on the final store. Unset fields are not checked.
type Expect struct {
	String *string             `yaml:"string,omitempty"`
	Size   *int                `yaml:"size,omitempty"`
	Get    map[string]string   `yaml:"get,omitempty"`
	GetAll map[string][]string `yaml:"get_all,omitempty"`
	Has    map[string]bool     `yaml:"has,omitempty"`
	Absent []string            `yaml:"absent,omitempty"`
	Keys   []string            `yaml:"keys,omitempty"`
	Values []string            `yaml:"values,omitempty"`
	Names  []string            `yaml:"names,omitempty"`

	// Error requires construction to fail with the given kind.
	Error string `yaml:"error,omitempty"`
}

// Expected construction error kinds.
const (
	ErrorMalformedEscape = "malformed_escape"
	ErrorInvalidPair     = "invalid_pair"
)

func (e Expect) empty() bool {
	return e.String == nil && e.Size == nil && e.Get == nil && e.GetAll == nil &&
		e.Has == nil && e.Absent == nil && e.Keys == nil && e.Values == nil &&
		e.Names == nil && e.Error == ""
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "get-all:" vs "get_all:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadScenarios loads every .yaml and .yml file in dir, sorted by file name.
// A non-empty filter is a filepath.Match pattern on scenario names.
func LoadScenarios(dir, filter string) ([]*Scenario, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".yaml", ".yml":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	slices.Sort(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	seen := make(map[string]string, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if prev, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate scenario name %q (also in %s)", path, s.Name, prev)
		}
		seen[s.Name] = path
		if filter != "" {
			if ok, _ := filepath.Match(filter, s.Name); !ok {
				continue
			}
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := s.Options.resolve(); err != nil {
		return fmt.Errorf("options: %w", err)
	}

	switch kinds := s.Input.Kinds(); len(kinds) {
	case 0:
		return fmt.Errorf("input: one of query, mapping, ordered, pairs or empty is required")
	case 1:
		if kinds[0] == InputOrdered && s.Input.Ordered.Kind != yaml.MappingNode {
			return fmt.Errorf("input.ordered: must be a mapping")
		}
	default:
		return fmt.Errorf("input: exactly one shape allowed, got %v", kinds)
	}

	for i, step := range s.Steps {
		if err := validateStep(i, step); err != nil {
			return err
		}
	}

	if s.Expect.empty() {
		return fmt.Errorf("expect: at least one check is required")
	}

	switch s.Expect.Error {
	case "":
	case ErrorMalformedEscape, ErrorInvalidPair:
		if len(s.Steps) > 0 {
			return fmt.Errorf("expect.error: steps cannot follow a failing construction")
		}
	default:
		return fmt.Errorf("expect.error: unknown kind %q: must be one of [%s %s]",
			s.Expect.Error, ErrorMalformedEscape, ErrorInvalidPair)
	}

	return nil
}

// validateStep validates a single step based on its op.
func validateStep(index int, step Step) error {
	switch step.Op {
	case "":
		return fmt.Errorf("steps[%d]: op is required", index)
	case OpAppend, OpSet:
		if step.Key == nil {
			return fmt.Errorf("steps[%d]: key is required for %s", index, step.Op)
		}
		if !step.HasValue() {
			return fmt.Errorf("steps[%d]: value is required for %s", index, step.Op)
		}
	case OpDelete:
		if step.Key == nil {
			return fmt.Errorf("steps[%d]: key is required for delete", index)
		}
		if step.HasValue() {
			return fmt.Errorf("steps[%d]: delete takes no value", index)
		}
	case OpSort, OpClone, OpReparse:
		if step.Key != nil || step.HasValue() {
			return fmt.Errorf("steps[%d]: %s takes no key or value", index, step.Op)
		}
	default:
		return fmt.Errorf("steps[%d]: unknown op %q", index, step.Op)
	}
	return nil
}

// resolve converts scenario options to store options.
func (o ScenarioOptions) resolve() (params.Options, error) {
	coercion, err := params.ParseCoercionPolicy(o.Coercion)
	if err != nil {
		return params.Options{}, err
	}
	bare, err := params.ParseBareKeyPolicy(o.BareKeys)
	if err != nil {
		return params.Options{}, err
	}
	return params.Options{Coercion: coercion, BareKeys: bare}, nil
}
