// Package main provides the tabreport command-line interface.
package main

import (
	"os"

	"github.com/inkline-labs/tabreport/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
