package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rshade/coinfocus/internal/cli"
	"github.com/rshade/coinfocus/pkg/version"
)

func main() {
	os.Exit(extractExitCode(run()))
}

func run() error {
	root := cli.NewRootCmd(version.GetVersion())
	root.SilenceErrors = true
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// extractExitCode maps err to a process exit status: 0 for nil, the embedded
// code for a cli.ExitError, and 1 otherwise.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
