package params

import "fmt"

// BareKeyPolicy decides what happens to a query pair without '='.
type BareKeyPolicy int

const (
	// BareKeyEmpty records the pair as a key with an empty value:
	// "a&b" parses to a="" and b="".
	BareKeyEmpty BareKeyPolicy = iota

	// BareKeySkip drops the pair.
	BareKeySkip
)

// String returns the policy name used in scenario files and CLI flags.
func (p BareKeyPolicy) String() string {
	switch p {
	case BareKeyEmpty:
		return "empty"
	case BareKeySkip:
		return "skip"
	default:
		return fmt.Sprintf("BareKeyPolicy(%d)", int(p))
	}
}

// ParseBareKeyPolicy maps "empty" or "skip" to a policy. The empty string
// selects the default.
func ParseBareKeyPolicy(s string) (BareKeyPolicy, error) {
	switch s {
	case "", "empty":
		return BareKeyEmpty, nil
	case "skip":
		return BareKeySkip, nil
	default:
		return 0, fmt.Errorf("unknown bare key policy %q: must be one of [empty skip]", s)
	}
}

// Options configures a store. The zero value is DefaultOptions.
type Options struct {
	// Coercion converts non-string values to text on the way in.
	Coercion CoercionPolicy

	// BareKeys decides how "key" without "=" is parsed.
	BareKeys BareKeyPolicy
}

// DefaultOptions used by New, From and Parse.
var DefaultOptions = Options{
	Coercion: CoerceJSON,
	BareKeys: BareKeyEmpty,
}

// Option mutates Options during construction.
type Option func(*Options)

// WithCoercion selects the coercion policy.
func WithCoercion(p CoercionPolicy) Option {
	return func(o *Options) { o.Coercion = p }
}

// WithBareKeys selects the bare key policy.
func WithBareKeys(p BareKeyPolicy) Option {
	return func(o *Options) { o.BareKeys = p }
}

// WithOptions replaces all options at once.
func WithOptions(opts Options) Option {
	return func(o *Options) { *o = opts }
}

func buildOptions(opts []Option) Options {
	o := DefaultOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
