package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/searchparams/internal/docload"
	"github.com/roach88/searchparams/internal/params"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Sort   bool
	Coerce string // "json" | "join"
}

// BuildResult holds the query string built from a document.
type BuildResult struct {
	Source string `json:"source"`
	Query  string `json:"query"`
	Size   int    `json:"size"`
}

func (r BuildResult) renderText(f *OutputFormatter) {
	fmt.Fprintln(f.Writer, r.Query)
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Build a query string from a mapping document",
		Long: `Load a YAML, JSON, TOML or CUE mapping document and serialize it as a
query string. Keys keep document order. Non-string values are coerced with
--coerce: "json" renders them like JSON.stringify, "join" like String(value).

Exit codes:
  0 - Built
  2 - File not found (E002) or unreadable document (E001)

Examples:
  searchparams build filters.yaml
  searchparams build filters.toml --sort
  searchparams build filters.cue --coerce join`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Sort, "sort", false, "sort keys by UTF-16 code units")
	cmd.Flags().StringVar(&opts.Coerce, "coerce", "json", "coercion for non-string values (json|join)")

	return cmd
}

func runBuild(opts *BuildOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	log := opts.logger(cmd.ErrOrStderr())

	coercion, err := params.ParseCoercionPolicy(opts.Coerce)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil, err)
	}

	pairs, err := docload.LoadFile(path)
	if err != nil {
		code := ErrCodeGeneric
		details := map[string]string{"path": path}
		var le *docload.LoadError
		if errors.As(err, &le) {
			details["reason"] = string(le.Code)
			if le.Code == docload.ErrCodeNotFound {
				code = ErrCodeNotFound
			}
		}
		return formatter.Fail(ExitCommandError, code, err.Error(), details, err)
	}
	log.Debug("loaded document", "path", path, "keys", len(pairs))

	p, err := params.From(pairs, params.WithCoercion(coercion))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err.Error(), nil, err)
	}
	if opts.Sort {
		p.Sort()
	}

	return formatter.Success(BuildResult{
		Source: path,
		Query:  p.String(),
		Size:   p.Size(),
	})
}
