package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/searchparams/internal/canonical"
)

// CoercionPolicy converts non-string values to the text a store keeps.
// Strings are always stored unchanged.
type CoercionPolicy int

const (
	// CoerceJSON renders values the way JSON.stringify does:
	// true -> "true", nil -> "null", []any{} -> "[]",
	// map[string]any{"f": "g"} -> `{"f":"g"}`.
	CoerceJSON CoercionPolicy = iota

	// CoerceJoin renders values the way String(value) does:
	// []any{1, 2} -> "1,2", nil elements -> "", objects -> "[object Object]".
	CoerceJoin
)

// String returns the policy name used in scenario files and CLI flags.
func (p CoercionPolicy) String() string {
	switch p {
	case CoerceJSON:
		return "json"
	case CoerceJoin:
		return "join"
	default:
		return fmt.Sprintf("CoercionPolicy(%d)", int(p))
	}
}

// ParseCoercionPolicy maps "json" or "join" to a policy. The empty string
// selects the default.
func ParseCoercionPolicy(s string) (CoercionPolicy, error) {
	switch s {
	case "", "json":
		return CoerceJSON, nil
	case "join":
		return CoerceJoin, nil
	default:
		return 0, fmt.Errorf("unknown coercion policy %q: must be one of [json join]", s)
	}
}

// Text converts v to stored text. It never fails, and invalid UTF-8 in the
// result becomes U+FFFD.
func (p CoercionPolicy) Text(v any) string {
	if s, ok := v.(string); ok {
		return wellFormed(s)
	}
	if p == CoerceJoin {
		return wellFormed(joinText(v))
	}
	return wellFormed(jsonText(v))
}

// jsonText tries, in order: the canonical renderer, an encoding/json round
// trip for structs and typed collections, fmt.Stringer, and fmt.Sprint.
func jsonText(v any) string {
	if s, err := canonical.MarshalString(v); err == nil {
		return s
	}
	if generic, err := toGeneric(v); err == nil {
		if s, err := canonical.MarshalString(generic); err == nil {
			return s
		}
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}

// toGeneric converts v into nil/bool/string/json.Number/[]any/map[string]any
// via encoding/json, keeping number text exact.
func toGeneric(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func joinText(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return canonical.FormatNumber(val, 64)
	case float32:
		return canonical.FormatNumber(float64(val), 32)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(val)
	case json.Number:
		return val.String()
	case []any:
		return joinElements(len(val), func(i int) any { return val[i] })
	case []string:
		return strings.Join(val, ",")
	case map[string]any, map[string]string, canonical.Ordered:
		return "[object Object]"
	case fmt.Stringer:
		return val.String()
	default:
		// Typed slices and structs: reduce to generic values first.
		if generic, err := toGeneric(val); err == nil {
			return joinText(generic)
		}
		return fmt.Sprint(val)
	}
}

// joinElements mirrors Array.prototype.join: nil elements become "".
func joinElements(n int, at func(int) any) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		if elem := at(i); elem != nil {
			parts[i] = joinText(elem)
		}
	}
	return strings.Join(parts, ",")
}
