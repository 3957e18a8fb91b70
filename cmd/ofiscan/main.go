// Package main is the entry point for the ofiscan CLI.
package main

import (
	"os"

	"github.com/ofiscan/ofiscan/cmd/ofiscan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
