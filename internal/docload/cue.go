package docload

import (
	"encoding/json"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/searchparams/internal/params"
)

func loadCUE(data []byte) (params.Pairs, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "failed to compile CUE", Err: err}
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "CUE document is not concrete", Err: err}
	}
	if value.Kind() != cue.StructKind {
		return nil, &LoadError{Code: ErrCodeNotMapping, Message: fmt.Sprintf("top level must be a struct, got %v", value.Kind())}
	}

	v, err := cueValue(value)
	if err != nil {
		return nil, err
	}
	return v.(params.Pairs), nil
}

// cueValue converts a concrete CUE value. Struct fields keep declaration
// order.
func cueValue(v cue.Value) (any, error) {
	switch v.Kind() {
	case cue.NullKind:
		return nil, nil
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		if n, err := v.Int64(); err == nil {
			return n, nil
		}
		// Out of int64 range: keep the exact decimal text.
		b, err := v.MarshalJSON()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: "encoding large integer", Err: err}
		}
		return json.Number(b), nil
	case cue.FloatKind, cue.NumberKind:
		return v.Float64()
	case cue.StringKind:
		return v.String()
	case cue.BytesKind:
		b, err := v.Bytes()
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: "iterating struct fields", Err: err}
		}
		pairs := params.Pairs{}
		for iter.Next() {
			val, err := cueValue(iter.Value())
			if err != nil {
				return nil, fmt.Errorf("%s: %w", iter.Label(), err)
			}
			pairs = append(pairs, params.P(iter.Label(), val))
		}
		return pairs, nil
	case cue.ListKind:
		items, err := v.List()
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParseFailed, Message: "iterating list", Err: err}
		}
		list := []any{}
		for items.Next() {
			val, err := cueValue(items.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	default:
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("unsupported CUE kind %v", v.Kind())}
	}
}
