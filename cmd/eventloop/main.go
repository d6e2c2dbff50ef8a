// Command eventloop runs dispatch scenarios and inspects event journals.
package main

import (
	"fmt"
	"os"

	"github.com/watershed117/eventloop/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
