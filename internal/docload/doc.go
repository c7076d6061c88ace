// Package docload reads key/value mapping documents and turns them into
// ordered params.Pairs, keeping the key order written in the document.
//
// Supported formats, chosen by file extension:
//
//	.yaml .yml  gopkg.in/yaml.v3 node tree
//	.json       parsed as YAML (JSON is a YAML subset)
//	.toml       github.com/BurntSushi/toml, order from MetaData.Keys
//	.cue        cuelang.org/go, fields in declaration order
//
// The top level must be a mapping. Nested mappings become nested
// params.Pairs so that JSON coercion of a nested value keeps document order:
//
//	# filters.yaml
//	q: hello world
//	page: 2
//	range: {to: 10, from: 1}
//
// loads as
//
//	params.Pairs{
//	    {Key: "q", Value: "hello world"},
//	    {Key: "page", Value: 2},
//	    {Key: "range", Value: params.Pairs{{Key: "to", Value: 10}, {Key: "from", Value: 1}}},
//	}
//
// and serializes to q=hello+world&page=2&range=%7B%22to%22%3A10%2C%22from%22%3A1%7D.
package docload
