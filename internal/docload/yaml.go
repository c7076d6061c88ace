package docload

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/searchparams/internal/params"
)

func loadYAML(data []byte) (params.Pairs, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return params.Pairs{}, nil
		}
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: "failed to parse YAML", Err: err}
	}
	return FromYAMLNode(&doc)
}

// FromYAMLNode converts a mapping node (or a document wrapping one) into
// ordered pairs.
func FromYAMLNode(n *yaml.Node) (params.Pairs, error) {
	if n == nil {
		return params.Pairs{}, nil
	}
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return params.Pairs{}, nil
		}
		n = n.Content[0]
	}
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return nil, &LoadError{
			Code:    ErrCodeNotMapping,
			Message: fmt.Sprintf("line %d: top level must be a mapping", n.Line),
		}
	}

	v, err := yamlValue(n)
	if err != nil {
		return nil, err
	}
	return v.(params.Pairs), nil
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		pairs := make(params.Pairs, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, &LoadError{
					Code:    ErrCodeParseFailed,
					Message: fmt.Sprintf("line %d: mapping keys must be scalars", k.Line),
				}
			}
			val, err := yamlValue(v)
			if err != nil {
				return nil, err
			}
			pairs = append(pairs, params.P(k.Value, val))
		}
		return pairs, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			val, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, val)
		}
		return list, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, &LoadError{
				Code:    ErrCodeParseFailed,
				Message: fmt.Sprintf("line %d: bad scalar %q", n.Line, n.Value),
				Err:     err,
			}
		}
		return v, nil
	default:
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("line %d: unexpected node kind %d", n.Line, n.Kind)}
	}
}
