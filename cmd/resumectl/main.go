// Command resumectl edits a local resume working copy and saves it to the API.
package main

import (
	"fmt"
	"os"

	"resume-builder/internal/shared/config"
	"resume-builder/internal/shared/telemetry"
)

func main() {
	// Keep stdout for command output.
	telemetry.SetOutput(os.Stderr)

	app := &cli{cfg: config.Load(), out: os.Stdout, errOut: os.Stderr}
	if err := newRootCmd(app).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
