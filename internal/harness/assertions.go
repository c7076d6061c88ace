package harness

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/roach88/searchparams/internal/params"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Expect field that failed
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s", event.Seq, event.Op)
			if event.hasKey() {
				fmt.Fprintf(&buf, " %q", event.Key)
			}
			if event.hasValue() {
				fmt.Fprintf(&buf, " %q", event.Value)
			}
			if event.Error != "" {
				fmt.Fprintf(&buf, " -> error %s\n", event.Error)
				continue
			}
			fmt.Fprintf(&buf, " -> %q\n", event.Query)
		}
	}

	return buf.String()
}

// EvaluateExpect checks the final store against every set field of expect.
// Returns a slice of error messages for failed checks, in field order and,
// within a field, in sorted key order.
func EvaluateExpect(p *params.Params, expect Expect, trace []TraceEvent) []string {
	var errs []string
	fail := func(typ, expected, actual string) {
		errs = append(errs, (&AssertionError{
			Type:     typ,
			Expected: expected,
			Actual:   actual,
			Trace:    trace,
		}).Error())
	}

	if expect.String != nil {
		if got := p.String(); got != *expect.String {
			fail("string", fmt.Sprintf("%q", *expect.String), fmt.Sprintf("%q", got))
		}
	}

	if expect.Size != nil {
		if got := p.Size(); got != *expect.Size {
			fail("size", fmt.Sprint(*expect.Size), fmt.Sprint(got))
		}
	}

	if expect.Names != nil {
		if got := p.Names(); !slices.Equal(got, expect.Names) {
			fail("names", fmt.Sprintf("%q", expect.Names), fmt.Sprintf("%q", got))
		}
	}

	if expect.Keys != nil {
		if got := collect(p.Keys()); !slices.Equal(got, expect.Keys) {
			fail("keys", fmt.Sprintf("%q", expect.Keys), fmt.Sprintf("%q", got))
		}
	}

	if expect.Values != nil {
		if got := collect(p.Values()); !slices.Equal(got, expect.Values) {
			fail("values", fmt.Sprintf("%q", expect.Values), fmt.Sprintf("%q", got))
		}
	}

	for _, key := range sortedKeys(expect.Get) {
		want := expect.Get[key]
		got, ok := p.Get(key)
		switch {
		case !ok:
			fail("get", fmt.Sprintf("get(%q) = %q", key, want), "absent")
		case got != want:
			fail("get", fmt.Sprintf("get(%q) = %q", key, want), fmt.Sprintf("%q", got))
		}
	}

	for _, key := range sortedKeys(expect.GetAll) {
		want := expect.GetAll[key]
		if got := p.GetAll(key); !slices.Equal(got, want) {
			fail("get_all", fmt.Sprintf("get_all(%q) = %q", key, want), fmt.Sprintf("%q", got))
		}
	}

	for _, key := range sortedKeys(expect.Has) {
		want := expect.Has[key]
		if got := p.Has(key); got != want {
			fail("has", fmt.Sprintf("has(%q) = %t", key, want), fmt.Sprint(got))
		}
	}

	for _, key := range expect.Absent {
		_, ok := p.Get(key)
		all := p.GetAll(key)
		if ok || len(all) != 0 || p.Has(key) {
			fail("absent", fmt.Sprintf("%q to be absent", key), fmt.Sprintf("values %q", all))
		}
	}

	return errs
}

func collect(it *params.Iterator[string]) []string {
	out := make([]string, 0, it.Len())
	for v := range it.Seq() {
		out = append(out, v)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
