// Package main is the entry point for hilite.
package main

import (
	"fmt"
	"os"

	"github.com/dshills/hilite/internal/cli"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	v := fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	if err := cli.Execute(v); err != nil {
		os.Exit(1)
	}
}
