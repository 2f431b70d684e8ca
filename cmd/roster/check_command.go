package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"roster/internal/faults"
	"roster/internal/store"
)

type checkResult struct {
	Location string            `json:"location"`
	Lines    int               `json:"lines"`
	Accepted int               `json:"accepted"`
	Skipped  []store.LineIssue `json:"skipped"`
}

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report records the loader rejected",
		Long:  "Load the roster and list every record that was skipped, with its line number and reason. Exits non-zero when any record was skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRoster(cmd, false, func(s *rosterSession) error {
				if err := s.manager.LoadErr(); err != nil {
					return err
				}
				result := checkResult{
					Location: s.store.Location(),
					Lines:    s.report.Lines,
					Accepted: len(s.report.Students),
					Skipped:  s.report.Skipped,
				}
				if result.Skipped == nil {
					result.Skipped = []store.LineIssue{}
				}

				out := cmd.OutOrStdout()
				if ctx.jsonOutput() {
					if err := writeJSON(out, result); err != nil {
						return err
					}
				} else {
					colorize := colorEnabled(s.cfg, out)
					fmt.Fprintf(out, "Roster check: %s\n", result.Location)
					fmt.Fprintln(out, renderStatusLine("Records read", statusInfo, strconv.Itoa(result.Lines), colorize))
					fmt.Fprintln(out, renderStatusLine("Accepted", statusOK, strconv.Itoa(result.Accepted), colorize))
					if len(result.Skipped) == 0 {
						fmt.Fprintln(out, renderStatusLine("Skipped", statusOK, "none", colorize))
					}
					for _, issue := range result.Skipped {
						label := fmt.Sprintf("Line %d", issue.Line)
						fmt.Fprintln(out, renderStatusLine(label, statusWarn, fmt.Sprintf("%s (%q)", issue.Reason, issue.Raw), colorize))
					}
				}

				if n := len(result.Skipped); n > 0 {
					return fmt.Errorf("%w: %d invalid record(s) in %s", faults.ErrValidation, n, result.Location)
				}
				return nil
			})
		},
	}
}
