package main

import (
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Destroy all provisioning state",
	Long: `Reset deletes the stage ledger, the journal and the state directory.

The next plain invocation behaves like a first-ever run: a fresh ledger
with a single seed record, starting at stage 1. Unrecoverable.`,
	RunE: runReset,
}

func init() {
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, _ []string) error {
	return newApp(cmd.OutOrStdout()).Reset()
}
