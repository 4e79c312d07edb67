package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the stage ledger history",
	Long: `Status renders every ledger record: one line per stage attempt with
its timestamp and outcome. The last line is the record that decides where
the next invocation resumes.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	dimmedStyle = lipgloss.NewStyle().Faint(true)
)

func runStatus(cmd *cobra.Command, _ []string) error {
	records, err := newApp(cmd.OutOrStdout()).History()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, dimmedStyle.Render("No provisioning state. Run kioskpilot to begin."))
		return nil
	}

	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%-25s %-8s %s", "TIME", "STAGE", "OUTCOME")))
	for _, r := range records {
		outcome := okStyle.Render(r.Outcome)
		if !r.Success() {
			outcome = failedStyle.Render(r.Outcome)
		}
		fmt.Fprintf(out, "%-25s %-8d %s\n", r.Timestamp.Format(time.RFC3339), r.Stage, outcome)
	}

	last := records[len(records)-1]
	switch {
	case !last.Success():
		fmt.Fprintln(out, failedStyle.Render(fmt.Sprintf("Stage %d failed; fix the cause and reset to retry.", last.Stage)))
	default:
		fmt.Fprintln(out, dimmedStyle.Render(fmt.Sprintf("Next invocation resumes at stage %d.", len(records))))
	}
	return nil
}
