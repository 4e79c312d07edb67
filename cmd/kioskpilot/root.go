package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/kioskpilot/internal/app"
	"github.com/felixgeelhaar/kioskpilot/internal/domain/runner"
)

var (
	// Global flags
	stateDir   string
	configPath string
	yesFlag    bool
	resetFlag  bool
)

var rootCmd = &cobra.Command{
	Use:   "kioskpilot",
	Short: "Provision a single-board computer into a kiosk appliance",
	Long: `Kioskpilot drives a staged, reboot-interrupted provisioning sequence
that turns a stock Raspberry-Pi-class install into a dedicated web kiosk.

Invoke it with no arguments to run or resume provisioning. Progress is
recorded in an append-only stage ledger, so after each reboot the same
invocation continues exactly where it left off, never repeating a
completed stage.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
	RunE:          runProvision,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", app.DefaultStateDir, "provisioning state directory")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", app.DefaultConfigPath, "path to kiosk.yaml")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "auto-confirm the reboot gate")
	rootCmd.Flags().BoolVar(&resetFlag, "reset", false, "destroy all provisioning state and exit")

	rootCmd.AddCommand(versionCmd)
}

// newApp assembles the application from the global flags. Swappable for
// tests.
var newApp = func(out io.Writer) *app.Kioskpilot {
	return app.New(out,
		app.WithStateDir(stateDir),
		app.WithConfigPath(configPath),
		app.WithConfirm(confirmReboot),
	)
}

func runProvision(cmd *cobra.Command, _ []string) error {
	application := newApp(cmd.OutOrStdout())

	if resetFlag {
		return application.Reset()
	}

	return application.Provision(cmd.Context())
}

// formatError returns a user-facing error message. Engine errors carry a
// code and suggestion; anything else is printed as-is.
func formatError(err error) string {
	if ue := runner.GetUserError(err); ue != nil {
		return ue.Format()
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
