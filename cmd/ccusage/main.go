// Package main provides the ccusage CLI application.
//
// ccusage analyzes Claude Code usage logs and reports token counts
// and costs by day, week, month, session, and 5-hour billing block.
package main

import (
	"fmt"
	"os"
)

// version is set during build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
