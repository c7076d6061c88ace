package docload

import (
	"github.com/BurntSushi/toml"

	"github.com/roach88/searchparams/internal/canonical"
	"github.com/roach88/searchparams/internal/params"
)

func loadTOML(data []byte) (params.Pairs, error) {
	var raw map[string]any
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "failed to parse TOML", Err: err}
	}
	return tomlTable(raw, md.Keys(), nil), nil
}

// tomlTable orders the members of table by their first appearance in keys.
// Members missing from keys (none expected) follow in UTF-16 order.
func tomlTable(table map[string]any, keys []toml.Key, prefix toml.Key) params.Pairs {
	pairs := make(params.Pairs, 0, len(table))
	seen := make(map[string]bool, len(table))

	for _, key := range keys {
		if len(key) != len(prefix)+1 || !hasPrefix(key, prefix) {
			continue
		}
		name := key[len(prefix)]
		v, ok := table[name]
		if !ok || seen[name] {
			continue
		}
		seen[name] = true
		pairs = append(pairs, params.P(name, tomlValue(v, keys, key)))
	}

	var rest []string
	for name := range table {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	canonical.SortUTF16(rest)
	for _, name := range rest {
		pairs = append(pairs, params.P(name, tomlValue(table[name], keys, append(prefix[:len(prefix):len(prefix)], name))))
	}
	return pairs
}

func tomlValue(v any, keys []toml.Key, path toml.Key) any {
	switch val := v.(type) {
	case map[string]any:
		return tomlTable(val, keys, path)
	case []map[string]any:
		// Arrays of tables have no per-element key order in MetaData.
		list := make([]any, len(val))
		for i, t := range val {
			list[i] = map[string]any(t)
		}
		return list
	default:
		return v
	}
}

func hasPrefix(key, prefix toml.Key) bool {
	for i := range prefix {
		if key[i] != prefix[i] {
			return false
		}
	}
	return true
}
