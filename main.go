// ABOUTME: Entry point for the medquery CLI
// ABOUTME: Terminal client for the MedQuery medical-information portal

package main

import (
	"fmt"
	"os"

	"github.com/medquery/medquery-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
