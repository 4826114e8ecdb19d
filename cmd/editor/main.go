package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "editor",
	Short: "Floor plan editing service",
	Long: `editor serves the plan editing core over HTTP: snapping, wall split and
merge, and pointer-driven edit sessions backed by a sqlite plan store.
The normalize command runs the same wall topology passes over a plan file.`,
	Version: "0.1.0",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
