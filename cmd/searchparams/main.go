// searchparams is the CLI for parsing, editing and serializing URL query strings.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/searchparams/internal/cli"
)

var (
	run    = func() error { return cli.Execute() }
	osExit = os.Exit
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		osExit(cli.GetExitCode(err))
	}
}
