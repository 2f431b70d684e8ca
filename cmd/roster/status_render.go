package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"roster/internal/config"
	"roster/internal/student"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 18
	statusIndent     = "  "
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := statusKindLabel(kind)
	if message != "" {
		statusText = fmt.Sprintf("[%s] %s", statusText, message)
	} else {
		statusText = fmt.Sprintf("[%s]", statusText)
	}
	base := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind statusKind) string {
	switch kind {
	case statusOK:
		return ansiGreen
	case statusWarn:
		return ansiYellow
	case statusError:
		return ansiRed
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func gradeColor(g student.Grade) string {
	switch g {
	case student.GradeA:
		return ansiGreen
	case student.GradeB, student.GradeC:
		return ansiBlue
	case student.GradeD:
		return ansiYellow
	default:
		return ansiRed
	}
}

func renderGrade(g student.Grade, colorize bool) string {
	if !colorize {
		return string(g)
	}
	return gradeColor(g) + string(g) + ansiReset
}

// colorEnabled applies the display.color setting to writer.
func colorEnabled(cfg *config.Config, writer io.Writer) bool {
	if cfg == nil {
		return shouldColorize(writer)
	}
	switch cfg.Display.Color {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return shouldColorize(writer)
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
