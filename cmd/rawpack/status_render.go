package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"rawpack/internal/walker"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// consoleReporter prints one line per file as the walk progresses.
type consoleReporter struct {
	out      io.Writer
	colorize bool
}

func newConsoleReporter(out io.Writer, colorize bool) *consoleReporter {
	return &consoleReporter{out: out, colorize: colorize}
}

func (c *consoleReporter) Report(r walker.Result) {
	fmt.Fprintln(c.out, renderResultLine(r, c.colorize))
}

func renderResultLine(r walker.Result, colorize bool) string {
	var line string
	switch r.Outcome {
	case walker.OutcomeCreated:
		line = fmt.Sprintf("created %s", r.Target)
	case walker.OutcomeExists:
		line = fmt.Sprintf("exists  %s", r.Target)
		if r.Source == r.Target {
			line += " (packaged file)"
		}
	default:
		reason := "unknown error"
		if r.Err != nil {
			reason = r.Err.Error()
		}
		line = fmt.Sprintf("failed  %s: %s", r.Source, reason)
	}
	if colorize {
		if color := outcomeColor(r.Outcome); color != "" {
			return color + line + ansiReset
		}
	}
	return line
}

func outcomeColor(outcome walker.Outcome) string {
	switch outcome {
	case walker.OutcomeCreated:
		return ansiGreen
	case walker.OutcomeExists:
		return ansiBlue
	case walker.OutcomeFailed:
		return ansiRed
	default:
		return ""
	}
}

func passFailLabel(passed bool, colorize bool) string {
	label, color := "FAIL", ansiRed
	if passed {
		label, color = "OK", ansiGreen
	}
	if colorize {
		return color + label + ansiReset
	}
	return label
}

func warnLine(message string, colorize bool) string {
	if colorize {
		return ansiYellow + message + ansiReset
	}
	return message
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
