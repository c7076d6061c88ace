package params

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/searchparams/internal/canonical"
)

// Params is an ordered multimap of query-string keys to string values.
//
// The zero value is not usable; construct with New, From, Parse or FromStore.
// A *Params has reference semantics: every holder of the pointer observes
// every mutation. Use Clone or FromStore for an independent copy.
type Params struct {
	order  []string            // distinct keys, insertion order
	values map[string][]string // key -> values, arrival order
	opts   Options
}

// New creates an empty store.
func New(opts ...Option) *Params {
	return &Params{
		order:  []string{},
		values: make(map[string][]string),
		opts:   buildOptions(opts),
	}
}

// From builds a store from one input shape. A nil input builds an empty
// store. On error the returned store is nil; no partial state escapes.
func From(in Input, opts ...Option) (*Params, error) {
	p := New(opts...)
	if err := p.load(in); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse builds a store from a query string.
//
//	p, _ := params.Parse("?a=1&b=2")
//	p.String() // "a=1&b=2"
func Parse(query string, opts ...Option) (*Params, error) {
	return From(Query(query), opts...)
}

// FromStore builds an independent store by serializing src and parsing the
// result.
func FromStore(src fmt.Stringer, opts ...Option) (*Params, error) {
	return From(StoreLike{Source: src}, opts...)
}

// Clone returns an independent copy with the same options.
func (p *Params) Clone() *Params {
	c := &Params{
		order:  slices.Clone(p.order),
		values: make(map[string][]string, len(p.values)),
		opts:   p.opts,
	}
	for k, vs := range p.values {
		c.values[k] = slices.Clone(vs)
	}
	return c
}

// Options returns the options the store was built with.
func (p *Params) Options() Options {
	return p.opts
}

func (p *Params) load(in Input) error {
	switch src := in.(type) {
	case nil:
		return nil
	case Query:
		return p.parseQuery(string(src))
	case Mapping:
		keys := make([]string, 0, len(src))
		for k := range src {
			keys = append(keys, k)
		}
		canonical.SortUTF16(keys)
		for _, k := range keys {
			p.Append(k, src[k])
		}
		return nil
	case Pairs:
		for _, pair := range src {
			p.Append(pair.Key, pair.Value)
		}
		return nil
	case PairSequence:
		if err := src.validate(p.opts.Coercion); err != nil {
			return err
		}
		for _, pair := range src {
			p.Append(p.opts.Coercion.Text(pair[0]), pair[1])
		}
		return nil
	case StoreLike:
		if src.Source == nil {
			return nil
		}
		return p.parseQuery(src.Source.String())
	default:
		return fmt.Errorf("unsupported input type %T", in)
	}
}

// parseQuery decodes every pair before inserting any of them. Raw invalid
// UTF-8 becomes U+FFFD; only bytes produced by %XX escapes can fail decoding.
func (p *Params) parseQuery(query string) error {
	query = wellFormed(strings.TrimPrefix(query, "?"))
	if query == "" {
		return nil
	}

	type decoded struct{ key, value string }
	var pairs []decoded
	for _, raw := range strings.Split(query, "&") {
		if raw == "" {
			continue
		}
		rawKey, rawValue, hasEq := strings.Cut(raw, "=")
		if !hasEq && p.opts.BareKeys == BareKeySkip {
			continue
		}
		key, err := Decode(rawKey)
		if err != nil {
			return fmt.Errorf("decode key: %w", err)
		}
		value, err := Decode(rawValue)
		if err != nil {
			return fmt.Errorf("decode value: %w", err)
		}
		pairs = append(pairs, decoded{key: key, value: value})
	}

	for _, d := range pairs {
		p.Append(d.key, d.value)
	}
	return nil
}

// Keys passed to the methods below go through the same UTF-8 repair as
// stored text, so a key with invalid bytes finds the entry it created.

// Append adds value to the end of key's values. A new key goes to the end of
// the key order.
func (p *Params) Append(key string, value any) {
	key = wellFormed(key)
	text := p.opts.Coercion.Text(value)
	if vs, ok := p.values[key]; ok {
		p.values[key] = append(vs, text)
		return
	}
	p.order = append(p.order, key)
	p.values[key] = []string{text}
}

// Set replaces all of key's values with value. A new key goes to the end of
// the key order; an existing key keeps its position.
func (p *Params) Set(key string, value any) {
	key = wellFormed(key)
	text := p.opts.Coercion.Text(value)
	if _, ok := p.values[key]; !ok {
		p.order = append(p.order, key)
	}
	p.values[key] = []string{text}
}

// Delete removes key and all of its values. Deleting an absent key is a
// no-op.
func (p *Params) Delete(key string) {
	key = wellFormed(key)
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	if i := slices.Index(p.order, key); i >= 0 {
		p.order = slices.Delete(p.order, i, i+1)
	}
}

// Get returns the first value of key. ok is false when key is absent.
func (p *Params) Get(key string) (value string, ok bool) {
	vs, ok := p.values[wellFormed(key)]
	if !ok {
		return "", false
	}
	return vs[0], true
}

// GetAll returns a copy of all values of key, or an empty slice.
func (p *Params) GetAll(key string) []string {
	vs, ok := p.values[wellFormed(key)]
	if !ok {
		return []string{}
	}
	return slices.Clone(vs)
}

// Has reports whether key is present.
func (p *Params) Has(key string) bool {
	_, ok := p.values[wellFormed(key)]
	return ok
}

// Size returns the total number of values across all keys.
func (p *Params) Size() int {
	n := 0
	for _, vs := range p.values {
		n += len(vs)
	}
	return n
}

// Names returns the distinct keys in current order.
func (p *Params) Names() []string {
	return slices.Clone(p.order)
}

// Sort orders keys by UTF-16 code units of the raw key text. Each key keeps
// its values in arrival order.
func (p *Params) Sort() {
	canonical.SortUTF16(p.order)
}

// String serializes the store as a query string without a leading '?'.
// A nil or empty store serializes to "".
func (p *Params) String() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	for _, key := range p.order {
		name := Encode(key)
		for _, v := range p.values[key] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(name)
			b.WriteByte('=')
			b.WriteString(Encode(v))
		}
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (p *Params) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The store's contents
// are replaced only if text parses.
func (p *Params) UnmarshalText(text []byte) error {
	opts := DefaultOptions
	if p.values != nil {
		opts = p.opts
	}
	parsed, err := Parse(string(text), WithOptions(opts))
	if err != nil {
		return err
	}
	*p = *parsed
	return nil
}
