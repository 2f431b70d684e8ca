package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"roster/internal/config"
	"roster/internal/faults"
	"roster/internal/store"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var backend string
	var target string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the roster into another backend",
		Long:  "Copy every valid record from the configured store into a text file or SQLite database. Skipped records are not copied.",
		RunE: func(cmd *cobra.Command, args []string) error {
			backend = strings.ToLower(strings.TrimSpace(backend))
			if backend != config.BackendText && backend != config.BackendSQLite {
				return fmt.Errorf("%w: --backend must be %q or %q", faults.ErrValidation, config.BackendText, config.BackendSQLite)
			}
			path, err := config.ExpandPath(strings.TrimSpace(target))
			if err != nil {
				return err
			}
			if path == "" {
				return fmt.Errorf("%w: --path is required", faults.ErrValidation)
			}

			return ctx.withRoster(cmd, false, func(s *rosterSession) error {
				if path == s.store.Location() {
					return fmt.Errorf("%w: export target is the active store %s", faults.ErrValidation, path)
				}

				var dst store.Store
				if backend == config.BackendSQLite {
					db, err := store.OpenSQLite(cmd.Context(), path, s.logger)
					if err != nil {
						return err
					}
					dst = db
				} else {
					dst = store.NewTextFile(path, s.logger)
				}
				defer dst.Close()

				report, err := store.Export(cmd.Context(), s.store, dst)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if ctx.jsonOutput() {
					return writeJSON(out, map[string]any{
						"backend":  backend,
						"path":     path,
						"exported": len(report.Students),
						"skipped":  len(report.Skipped),
					})
				}
				fmt.Fprintf(out, "Exported %d student(s) to %s (%s)\n", len(report.Students), path, backend)
				if len(report.Skipped) > 0 {
					fmt.Fprintf(out, "Skipped %d invalid record(s); run `roster check` for details\n", len(report.Skipped))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendSQLite, "Target backend: text or sqlite")
	cmd.Flags().StringVar(&target, "path", "", "Target file path")
	return cmd
}
