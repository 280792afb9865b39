package mextract

import (
	"context"
	"os"
	"os/exec"
)

// An Indexer builds a coordinate index over one finished output file.
type Indexer func(ctx context.Context, path string) error

// TabixAllc indexes a position sorted, compressed allc table with
// tabix. Column 1 holds the chromosome and column 2 the position.
func TabixAllc(ctx context.Context, path string) error {
	cmd := exec.CommandContext(
		ctx,
		"tabix",
		"-f", "-b", "2", "-e", "2", "-s", "1",
		path,
	)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
