// Package main is the entry point for the operator-pricing CLI.
package main

import (
	"os"

	"operator-pricing/cmd/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
