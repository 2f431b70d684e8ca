package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"roster/internal/faults"
	"roster/internal/roster"
	"roster/internal/student"
)

func parseIDArg(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: invalid student ID %q", faults.ErrValidation, raw)
	}
	return id, nil
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var sortFlag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every student with totals and grades",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRoster(cmd, false, func(s *rosterSession) error {
				keyName := sortFlag
				if strings.TrimSpace(keyName) == "" {
					keyName = s.cfg.Display.DefaultSort
				}
				key, err := roster.ParseSortKey(keyName)
				if err != nil {
					return err
				}
				students, err := roster.Sorted(s.manager.Students(), key)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if ctx.jsonOutput() {
					return writeJSON(out, newStudentViews(students))
				}
				if len(students) == 0 {
					fmt.Fprintln(out, "No students on the roster")
					return nil
				}
				fmt.Fprint(out, renderStudentTable(students, 0, colorEnabled(s.cfg, out)))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&sortFlag, "sort", "s", "", "Sort by id, name, or percentage (default from config)")
	return cmd
}

func newShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one student's marks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withRoster(cmd, false, func(s *rosterSession) error {
				rec, err := s.manager.Get(id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				return writeStudent(out, rec, ctx.jsonOutput(), colorEnabled(s.cfg, out))
			})
		},
	}
}

// markFlags binds the per-field flags shared by add and edit.
type markFlags struct {
	id    string
	name  string
	mark1 string
	mark2 string
	mark3 string
	exam  string
}

func (f *markFlags) register(cmd *cobra.Command, withID bool) {
	if withID {
		cmd.Flags().StringVar(&f.id, "id", "", "Student ID (1000-9999)")
	}
	cmd.Flags().StringVar(&f.name, "name", "", "Student name")
	cmd.Flags().StringVar(&f.mark1, "mark1", "", "Coursework mark 1 (0-20)")
	cmd.Flags().StringVar(&f.mark2, "mark2", "", "Coursework mark 2 (0-20)")
	cmd.Flags().StringVar(&f.mark3, "mark3", "", "Coursework mark 3 (0-20)")
	cmd.Flags().StringVar(&f.exam, "exam", "", "Exam mark (0-100)")
}

// overlay copies every flag the user set onto in.
func (f *markFlags) overlay(cmd *cobra.Command, in roster.Input) roster.Input {
	set := func(name string, value string, target *string) {
		if cmd.Flags().Changed(name) {
			*target = value
		}
	}
	set("name", f.name, &in.Name)
	set("mark1", f.mark1, &in.Mark1)
	set("mark2", f.mark2, &in.Mark2)
	set("mark3", f.mark3, &in.Mark3)
	set("exam", f.exam, &in.Exam)
	return in
}

func newAddCommand(ctx *commandContext) *cobra.Command {
	var flags markFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a student",
		Example: "  roster add --id 1003 --name \"Cy Young\" --mark1 15 --mark2 14 --mark3 18 --exam 72",
		RunE: func(cmd *cobra.Command, args []string) error {
			in := roster.Input{
				ID:    flags.id,
				Name:  flags.name,
				Mark1: flags.mark1,
				Mark2: flags.mark2,
				Mark3: flags.mark3,
				Exam:  flags.exam,
			}
			return ctx.withRoster(cmd, true, func(s *rosterSession) error {
				added, err := s.manager.Add(cmd.Context(), in)
				if err != nil && added.ID == 0 {
					return err
				}
				out := cmd.OutOrStdout()
				if !ctx.jsonOutput() {
					fmt.Fprintf(out, "Added student %d (%s)\n", added.ID, added.Name)
				}
				if writeErr := writeStudent(out, added, ctx.jsonOutput(), colorEnabled(s.cfg, out)); writeErr != nil {
					return writeErr
				}
				return err
			})
		},
	}

	flags.register(cmd, true)
	return cmd
}

func newEditCommand(ctx *commandContext) *cobra.Command {
	var flags markFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a student's name or marks",
		Long:  "Change a student's name or marks. Fields without a flag keep their current value; the ID cannot change.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withRoster(cmd, true, func(s *rosterSession) error {
				current, err := s.manager.Get(id)
				if err != nil {
					return err
				}
				updated, err := s.manager.Edit(cmd.Context(), id, flags.overlay(cmd, roster.InputFor(current)))
				if err != nil && updated.ID == 0 {
					return err
				}
				out := cmd.OutOrStdout()
				if !ctx.jsonOutput() {
					fmt.Fprintf(out, "Updated student %d\n", updated.ID)
				}
				if writeErr := writeStudent(out, updated, ctx.jsonOutput(), colorEnabled(s.cfg, out)); writeErr != nil {
					return writeErr
				}
				return err
			})
		},
	}

	flags.register(cmd, false)
	return cmd
}

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}
			return ctx.withRoster(cmd, true, func(s *rosterSession) error {
				rec, err := s.manager.Get(id)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !yes {
					fmt.Fprintf(out, "Delete student %d (%s)? [y/N]: ", rec.ID, rec.Name)
					answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if !isYes(answer) {
						fmt.Fprintln(out, "Delete cancelled")
						return nil
					}
				}
				removed, err := s.manager.Delete(cmd.Context(), id)
				if err != nil && removed.ID == 0 {
					return err
				}
				if ctx.jsonOutput() {
					if writeErr := writeJSON(out, newStudentView(removed)); writeErr != nil {
						return writeErr
					}
				} else {
					fmt.Fprintf(out, "Deleted student %d (%s)\n", removed.ID, removed.Name)
				}
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")
	return cmd
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func newExtremumCommand(ctx *commandContext, dir roster.Direction) *cobra.Command {
	return &cobra.Command{
		Use:   dir.String(),
		Short: fmt.Sprintf("Show the student with the %s percentage", dir),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRoster(cmd, false, func(s *rosterSession) error {
				rec, err := s.manager.Extremum(dir)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				return writeStudent(out, rec, ctx.jsonOutput(), colorEnabled(s.cfg, out))
			})
		},
	}
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize class performance",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRoster(cmd, false, func(s *rosterSession) error {
				stats := s.manager.Statistics()
				out := cmd.OutOrStdout()
				if ctx.jsonOutput() {
					return writeJSON(out, stats)
				}
				if stats.Count == 0 {
					fmt.Fprintln(out, "No students on the roster")
					return nil
				}
				fmt.Fprint(out, renderStats(stats, colorEnabled(s.cfg, out)))
				return nil
			})
		},
	}
}

func renderStats(stats roster.Stats, colorize bool) string {
	rows := [][]string{
		{"Students", strconv.Itoa(stats.Count)},
		{"Average", formatPercent(stats.Average)},
		{"Highest", formatPercent(stats.Highest)},
		{"Lowest", formatPercent(stats.Lowest)},
		{"Pass rate", formatPercent(stats.PassRate)},
	}
	for _, g := range student.Grades() {
		rows = append(rows, []string{"Grade " + renderGrade(g, colorize), strconv.Itoa(stats.Distribution[g])})
	}
	return renderTable(statsColumns, rows, "")
}
