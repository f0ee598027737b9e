// Command numcheck runs numeric string parsing regression suites.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/numcheck/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "numcheck: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
