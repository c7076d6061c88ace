package params

import (
	"fmt"

	"github.com/roach88/searchparams/internal/canonical"
)

// Input is a sealed interface over the accepted construction shapes.
// Only Query, Mapping, Pairs, PairSequence and StoreLike implement it;
// a nil Input builds an empty store.
type Input interface {
	input() // Sealed - only these types implement it
}

// Query is a raw query string, with or without a leading '?'.
type Query string

func (Query) input() {}

// Mapping is an unordered key/value mapping. Because Go maps have no order,
// keys are enumerated in UTF-16 code-unit order, the order Sort produces.
type Mapping map[string]any

func (Mapping) input() {}

// Pair is one key/value entry of an ordered mapping.
type Pair struct {
	Key   string
	Value any
}

// P is a shorthand for Pair.
// Example: params.Pairs{params.P("a", 1), params.P("b", true)}
func P(key string, value any) Pair {
	return Pair{Key: key, Value: value}
}

// Pairs is an ordered key/value mapping, enumerated in slice order.
// Pairs nested inside a value keep their order when coerced to JSON text.
type Pairs []Pair

func (Pairs) input() {}

// Members implements canonical.Ordered.
func (ps Pairs) Members() []canonical.Member {
	members := make([]canonical.Member, len(ps))
	for i, p := range ps {
		members[i] = canonical.Member{Key: p.Key, Value: p.Value}
	}
	return members
}

// PairSequence is a list of [key, value] elements. Every element must have
// exactly two items; keys and values are coerced to text.
type PairSequence [][]any

func (PairSequence) input() {}

// StoreLike wraps any value whose String method yields a query string,
// including *Params. The new store is built by parsing that string, so it
// never aliases the source.
type StoreLike struct {
	Source fmt.Stringer
}

func (StoreLike) input() {}

// validate checks every element before any of them is inserted.
func (seq PairSequence) validate(policy CoercionPolicy) error {
	for i, pair := range seq {
		if len(pair) != 2 {
			return &ParseError{
				Code:   CodeInvalidPair,
				Input:  policy.Text([]any(pair)),
				Offset: i,
				Err:    fmt.Errorf("%w: element %d has %d items", ErrInvalidPair, i, len(pair)),
			}
		}
	}
	return nil
}
