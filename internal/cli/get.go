package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/searchparams/internal/params"
)

// GetOptions holds flags for the get command.
type GetOptions struct {
	*RootOptions
	All bool
}

// GetResult holds the values found for a key.
type GetResult struct {
	Key    string   `json:"key"`
	Value  string   `json:"value"`            // first value
	Values []string `json:"values,omitempty"` // every value, with --all
}

func (r GetResult) renderText(f *OutputFormatter) {
	if r.Values == nil {
		fmt.Fprintln(f.Writer, r.Value)
		return
	}
	for _, v := range r.Values {
		fmt.Fprintln(f.Writer, v)
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "get <query> <key>",
		Short: "Print the value of a key",
		Long: `Parse a query string and print the first value of key, or every
value with --all.

Exit codes:
  0 - Key present
  1 - Key absent (E201)
  2 - Malformed percent escape (E101)

Examples:
  searchparams get "a=1&a=2" a
  searchparams get "a=1&a=2" a --all`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.All, "all", false, "print every value of the key")

	return cmd
}

func runGet(opts *GetOptions, query, key string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	p, err := params.Parse(query)
	if err != nil {
		return decodeFailure(formatter, err)
	}

	value, ok := p.Get(key)
	if !ok {
		return formatter.Fail(ExitFailure, ErrCodeAbsentKey, fmt.Sprintf("key %q not found", key), map[string]any{"names": p.Names()}, nil)
	}

	result := GetResult{Key: key, Value: value}
	if opts.All {
		result.Values = p.GetAll(key)
	}
	return formatter.Success(result)
}
