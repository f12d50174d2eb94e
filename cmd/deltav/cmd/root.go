// Package cmd provides the command-line interface for DeltaV.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "deltav",
	Short: "DeltaV CLI tool runs discrete-event simulations and serves " +
		"their state for inspection.",
	Long: `DeltaV CLI tool runs discrete-event simulations built on the ` +
		`DeltaV kernel. Currently, it supports running a model with ` +
		`recording, tracing, and a monitoring server.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
