// Package app runs the gdbridge command tree and maps the outcome to a
// process exit code.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gdbridge/internal/cli"
)

// Execute runs the CLI with the given args and streams. Returns the
// process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rt := &cli.Runtime{Stdout: stdout, Stderr: stderr}
	rootCmd := cli.NewRootCommand(rt)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "error: %v\n", err)
		}
		return 1
	}
	return 0
}
