package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "smcsim",
	Short: "smcsim drives the secure memory controller's testable properties",
	Long: `smcsim wires a secure memory controller to a fixed-latency backing ` +
		`store and a synthetic CPU driver, then runs the scenarios from the ` +
		`controller's testable-properties section through a real event-driven ` +
		`engine, reporting which ones hold.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
}
