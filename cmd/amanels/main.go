// Package main provides the entry point for the amanels CLI.
package main

import (
	"os"

	"github.com/Aman-CERP/amanels/cmd/amanels/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
