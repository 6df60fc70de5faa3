package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/custodia-labs/notionexport/internal/adapters/driving/cli"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	os.Exit(run())
}

func run() int {
	err := cli.Execute()
	if err == nil {
		return 0
	}

	fmt.Fprintln(os.Stderr, "Error:", err)

	var coded interface{ ExitCode() int }
	if errors.As(err, &coded) {
		return coded.ExitCode()
	}
	// Failures before a run starts (bad flags, config, auth) abort.
	return 2
}
