// Command ls-sunclock shows Roman sun time in the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/litescript/ls-sunclock/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
