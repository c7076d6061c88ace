// Package params implements an ordered, multi-valued query-string container
// with the semantics of the WHATWG URLSearchParams interface.
//
// A Params value maps each key to an ordered list of string values. Key
// insertion order is preserved and is observable through String and the
// iterators until Sort is called. Values are always strings: anything else is
// coerced to text when it enters the store, following the store's
// CoercionPolicy.
//
// # Wire format
//
// String and Parse use the application/x-www-form-urlencoded profile of the
// browser implementation:
//
//	key=value&key=value2&other=x+y
//
// Spaces encode as '+', and '!', '\'', '(', ')' and '~' are always
// percent-encoded. See Encode and Decode.
//
// # Construction
//
// Input is a sealed sum type resolved once at the boundary:
//
//	p, err := params.Parse("?a=1&b=2")                       // Query
//	p, err := params.From(params.Mapping{"a": true})          // Mapping
//	p, err := params.From(params.Pairs{{Key: "a", Value: 1}}) // ordered mapping
//	p, err := params.From(params.PairSequence{{"a", "1"}})    // sequence of pairs
//	q, err := params.FromStore(p)                            // independent copy
//	p := params.New()                                        // empty
//
// Construction either fully succeeds or returns a nil store and an error.
//
// # Iteration
//
// Keys, Values and Entries return single-use iterators over a snapshot taken
// when they are called. All returns a range-over-func sequence:
//
//	for key, value := range p.All() {
//	    fmt.Println(key, value)
//	}
//
// A *Params is not safe for concurrent mutation.
package params
