package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/searchparams/internal/params"
)

// DecodeResult holds the decoded text.
type DecodeResult struct {
	Input   string `json:"input"`
	Decoded string `json:"decoded"`
}

func (r DecodeResult) renderText(f *OutputFormatter) {
	fmt.Fprintln(f.Writer, r.Decoded)
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <text>",
		Short: "Decode form-encoded text",
		Long: `Decode form-encoded text: '+' becomes a space and %XX escapes are
decoded as UTF-8.

Exit codes:
  0 - Decoded
  2 - Malformed percent escape or invalid UTF-8 (E101)

Examples:
  searchparams decode "hello+world%21"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDecode(opts *RootOptions, text string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	decoded, err := params.Decode(text)
	if err != nil {
		opts.logger(cmd.ErrOrStderr()).Debug("decode failed", "input", text, "error", err)
		return decodeFailure(formatter, err)
	}

	return formatter.Success(DecodeResult{Input: text, Decoded: decoded})
}
