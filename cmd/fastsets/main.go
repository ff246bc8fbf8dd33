// Command fastsets computes images of sets under a domain transform described
// in a YAML document.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hupe1980/fastsets/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	// Command errors were already reported by the formatter.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
