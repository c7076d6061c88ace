// Package harness runs conformance scenarios against the params store.
//
// A scenario builds a store from one input shape, applies a list of
// mutation steps, and checks the final store against an expect block.
// Every construction and step is recorded as a trace event numbered from 1
// within its run, so traces can be compared against golden files byte for
// byte.
//
// # Scenario Format
//
//	name: sort_keeps_value_order
//	description: "sort orders keys and keeps per-key value order"
//	options:
//	  coercion: json        # json | join
//	  bare_keys: empty      # empty | skip
//	input:
//	  query: "c=4&a=2&b=3&a=1"
//	steps:
//	  - op: sort
//	expect:
//	  string: "a=2&a=1&b=3&c=4"
//	  size: 4
//	  get: {a: "2"}
//	  get_all: {a: ["2", "1"]}
//
// Exactly one input is given:
//
//   - query: a raw query string, with or without '?'
//   - mapping: a YAML mapping, enumerated in UTF-16 key order
//   - ordered: a YAML mapping, enumerated in document order
//   - pairs: a list of [key, value] lists
//   - empty: true
//
// Steps are append, set, delete, sort, clone and reparse. A scenario whose
// construction must fail sets expect.error to malformed_escape or
// invalid_pair and has no steps.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/sort.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if !result.Pass {
//	    for _, msg := range result.Errors {
//	        log.Println(msg)
//	    }
//	}
package harness
