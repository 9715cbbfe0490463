package main

import (
	"os"

	"github.com/luminary-labs/donoriq/internal/adapters/driving/cli"
)

func main() {
	// Cobra prints the error itself; just pick the exit code.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
