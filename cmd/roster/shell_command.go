package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"roster/internal/faults"
	"roster/internal/roster"
	"roster/internal/student"
)

const shellHelp = `Commands:
  list                 show every student in the current order
  sort <key>           reorder by id, name, or percentage; kept after changes
  select <id>          make a student current
  view                 show the current student
  add                  add a student (prompts for each field)
  edit [id]            change a student; blank answers keep the old value
  delete [id]          remove a student after confirmation
  highest | lowest     select and show the best or worst percentage
  stats                class summary
  save                 write the roster again
  help                 this text
  quit                 leave the shell`

func newShellCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Work with the roster interactively",
		Long:  "Open the roster for an interactive session. The writer lock is held until the shell exits.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withRoster(cmd, true, func(s *rosterSession) error {
				sh := &shell{
					ctx:      cmd.Context(),
					in:       bufio.NewScanner(cmd.InOrStdin()),
					out:      cmd.OutOrStdout(),
					manager:  s.manager,
					colorize: colorEnabled(s.cfg, cmd.OutOrStdout()),
				}
				return sh.run()
			})
		},
	}
}

type shell struct {
	ctx      context.Context
	in       *bufio.Scanner
	out      io.Writer
	manager  *roster.Manager
	colorize bool

	confirmQuit bool
}

var errQuit = errors.New("quit")

func (sh *shell) run() error {
	fmt.Fprintf(sh.out, "Loaded %d student(s). Type help for commands.\n", sh.manager.Len())
	for {
		line, ok := sh.prompt("roster> ")
		if !ok {
			fmt.Fprintln(sh.out)
			return sh.finish()
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		err := sh.dispatch(strings.ToLower(fields[0]), fields[1:])
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}
	}
}

func (sh *shell) dispatch(name string, args []string) error {
	if !isQuit(name) {
		sh.confirmQuit = false
	}
	switch name {
	case "help", "?":
		fmt.Fprintln(sh.out, shellHelp)
		return nil
	case "list", "ls":
		return sh.list()
	case "sort":
		if len(args) != 1 {
			return errors.New("usage: sort <id|name|percentage>")
		}
		key, err := roster.ParseSortKey(args[0])
		if err != nil {
			return err
		}
		if err := sh.manager.Sort(key); err != nil {
			return err
		}
		return sh.list()
	case "select":
		if len(args) != 1 {
			return errors.New("usage: select <id>")
		}
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		if err := sh.manager.Select(id); err != nil {
			return err
		}
		return sh.view()
	case "view", "show":
		return sh.view()
	case "add":
		return sh.add()
	case "edit":
		return sh.withTarget(args, sh.edit)
	case "delete", "rm":
		return sh.withTarget(args, sh.delete)
	case "highest":
		return sh.extremum(roster.Highest)
	case "lowest":
		return sh.extremum(roster.Lowest)
	case "stats":
		stats := sh.manager.Statistics()
		if stats.Count == 0 {
			return faults.ErrEmpty
		}
		fmt.Fprint(sh.out, renderStats(stats, sh.colorize))
		return nil
	case "save":
		if err := sh.manager.Save(sh.ctx); err != nil {
			return err
		}
		fmt.Fprintf(sh.out, "Saved %d student(s)\n", sh.manager.Len())
		return nil
	case "quit", "exit", "q":
		return sh.quit()
	default:
		return fmt.Errorf("unknown command %q (type help)", name)
	}
}

func (sh *shell) prompt(label string) (string, bool) {
	fmt.Fprint(sh.out, label)
	if !sh.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(sh.in.Text()), true
}

func (sh *shell) list() error {
	students := sh.manager.Students()
	if len(students) == 0 {
		fmt.Fprintln(sh.out, "No students on the roster")
		return nil
	}
	selectedID := 0
	if sel, ok := sh.manager.Selected(); ok {
		selectedID = sel.ID
	}
	fmt.Fprint(sh.out, renderStudentTable(students, selectedID, sh.colorize))
	return nil
}

func (sh *shell) view() error {
	sel, ok := sh.manager.Selected()
	if !ok {
		return errors.New("no student selected (use select <id>)")
	}
	fmt.Fprint(sh.out, renderStudentDetail(sel, sh.colorize))
	return nil
}

// extremum shows the best or worst record and makes it current.
func (sh *shell) extremum(dir roster.Direction) error {
	rec, err := sh.manager.Extremum(dir)
	if err != nil {
		return err
	}
	if err := sh.manager.Select(rec.ID); err != nil {
		return err
	}
	fmt.Fprint(sh.out, renderStudentDetail(rec, sh.colorize))
	return nil
}

// withTarget resolves an optional ID argument, falling back to the selection.
func (sh *shell) withTarget(args []string, fn func(student.Student) error) error {
	if len(args) > 0 {
		id, err := parseIDArg(args[0])
		if err != nil {
			return err
		}
		rec, err := sh.manager.Get(id)
		if err != nil {
			return err
		}
		return fn(rec)
	}
	sel, ok := sh.manager.Selected()
	if !ok {
		return errors.New("no student selected (give an ID or use select <id>)")
	}
	return fn(sel)
}

func (sh *shell) add() error {
	var in roster.Input
	fields := []struct {
		label  string
		target *string
	}{
		{"Student ID", &in.ID},
		{"Name", &in.Name},
		{"Coursework 1", &in.Mark1},
		{"Coursework 2", &in.Mark2},
		{"Coursework 3", &in.Mark3},
		{"Exam", &in.Exam},
	}
	for _, f := range fields {
		value, ok := sh.prompt(f.label + ": ")
		if !ok {
			return errors.New("input closed")
		}
		*f.target = value
	}

	added, err := sh.manager.Add(sh.ctx, in)
	if added.ID != 0 {
		fmt.Fprintf(sh.out, "Added student %d (%s)\n", added.ID, added.Name)
	}
	return err
}

func (sh *shell) edit(current student.Student) error {
	in := roster.InputFor(current)
	fields := []struct {
		label  string
		target *string
	}{
		{"Name", &in.Name},
		{"Coursework 1", &in.Mark1},
		{"Coursework 2", &in.Mark2},
		{"Coursework 3", &in.Mark3},
		{"Exam", &in.Exam},
	}
	fmt.Fprintf(sh.out, "Editing student %d (ID cannot change)\n", current.ID)
	for _, f := range fields {
		value, ok := sh.prompt(fmt.Sprintf("%s [%s]: ", f.label, *f.target))
		if !ok {
			return errors.New("input closed")
		}
		if value != "" {
			*f.target = value
		}
	}

	updated, err := sh.manager.Edit(sh.ctx, current.ID, in)
	if updated.ID != 0 {
		fmt.Fprintf(sh.out, "Updated student %d\n", updated.ID)
	}
	return err
}

func (sh *shell) delete(rec student.Student) error {
	answer, ok := sh.prompt(fmt.Sprintf("Delete student %d (%s)? [y/N]: ", rec.ID, rec.Name))
	if !ok || !isYes(answer) {
		fmt.Fprintln(sh.out, "Delete cancelled")
		return nil
	}
	removed, err := sh.manager.Delete(sh.ctx, rec.ID)
	if removed.ID != 0 {
		fmt.Fprintf(sh.out, "Deleted student %d (%s)\n", removed.ID, removed.Name)
	}
	return err
}

func isQuit(name string) bool {
	return name == "quit" || name == "exit" || name == "q"
}

// quit saves pending changes first. If that fails the user must quit twice.
func (sh *shell) quit() error {
	if !sh.manager.Dirty() || sh.confirmQuit {
		return errQuit
	}
	if err := sh.manager.Save(sh.ctx); err != nil {
		sh.confirmQuit = true
		return fmt.Errorf("%w; type quit again to discard unsaved changes", err)
	}
	return errQuit
}

// finish handles end of input: pending changes get one last save attempt.
func (sh *shell) finish() error {
	if !sh.manager.Dirty() {
		return nil
	}
	return sh.manager.Save(sh.ctx)
}
