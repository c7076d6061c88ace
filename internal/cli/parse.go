package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/searchparams/internal/params"
)

// ParseOptions holds flags for the parse command.
type ParseOptions struct {
	*RootOptions
	Delete   []string // keys to delete
	Set      []string // key=value pairs to set
	Append   []string // key=value pairs to append
	Sort     bool
	SkipBare bool
}

// EntryResult is one key/value pair of a store.
type EntryResult struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ParseResult describes a store after parsing and edits.
type ParseResult struct {
	Query   string        `json:"query"`
	Size    int           `json:"size"`
	Entries []EntryResult `json:"entries"`
}

func (r ParseResult) renderText(f *OutputFormatter) {
	fmt.Fprintln(f.Writer, r.Query)
	fmt.Fprintf(f.Writer, "%d value(s)\n", r.Size)
	for _, e := range r.Entries {
		fmt.Fprintf(f.Writer, "  %s = %q\n", f.Key(fmt.Sprintf("%q", e.Key)), e.Value)
	}
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ParseOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "parse <query>",
		Short: "Parse a query string and print its canonical form",
		Long: `Parse a query string, optionally edit it, and print the canonical
serialization with every key/value entry.

Edits apply in a fixed order: --delete, then --set, then --append, then --sort.

Exit codes:
  0 - Parsed
  2 - Malformed percent escape or bad --set/--append pair

Examples:
  searchparams parse "?a=1&b=2"
  searchparams parse "c=4&a=2&b=3&a=1" --sort
  searchparams parse "id=1&id=2&x=y" --delete id --append id=3
  searchparams parse "a&b=1" --skip-bare --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Delete, "delete", nil, "delete a key (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "set key=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Append, "append", nil, "append key=value (repeatable)")
	cmd.Flags().BoolVar(&opts.Sort, "sort", false, "sort keys by UTF-16 code units")
	cmd.Flags().BoolVar(&opts.SkipBare, "skip-bare", false, "drop pairs without '=' instead of recording an empty value")

	return cmd
}

func runParse(opts *ParseOptions, query string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	log := opts.logger(cmd.ErrOrStderr())

	bare := params.BareKeyEmpty
	if opts.SkipBare {
		bare = params.BareKeySkip
	}

	p, err := params.Parse(query, params.WithBareKeys(bare))
	if err != nil {
		return decodeFailure(formatter, err)
	}
	log.Debug("parsed query", "query", query, "size", p.Size(), "bare_keys", bare.String())

	for _, key := range opts.Delete {
		p.Delete(key)
		log.Debug("deleted key", "key", key)
	}

	for _, pair := range opts.Set {
		key, value, err := splitPair(pair)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidPair, err.Error(), map[string]string{"flag": "set", "pair": pair}, err)
		}
		p.Set(key, value)
		log.Debug("set key", "key", key, "value", value)
	}

	for _, pair := range opts.Append {
		key, value, err := splitPair(pair)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeInvalidPair, err.Error(), map[string]string{"flag": "append", "pair": pair}, err)
		}
		p.Append(key, value)
		log.Debug("appended value", "key", key, "value", value)
	}

	if opts.Sort {
		p.Sort()
	}

	return formatter.Success(newParseResult(p))
}

func newParseResult(p *params.Params) ParseResult {
	it := p.Entries()
	result := ParseResult{
		Query:   p.String(),
		Size:    p.Size(),
		Entries: make([]EntryResult, 0, it.Len()),
	}
	for e := range it.Seq() {
		result.Entries = append(result.Entries, EntryResult{Key: e.Key, Value: e.Value})
	}
	return result
}

// splitPair splits key=value at the first '='.
func splitPair(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok {
		return "", "", fmt.Errorf("invalid pair %q: want key=value", s)
	}
	return key, value, nil
}

// decodeFailure reports a malformed percent escape.
func decodeFailure(formatter *OutputFormatter, err error) error {
	var details map[string]any
	var perr *params.ParseError
	if errors.As(err, &perr) {
		details = map[string]any{"input": perr.Input, "offset": perr.Offset}
	}
	return formatter.Fail(ExitCommandError, ErrCodeDecode, err.Error(), details, err)
}
