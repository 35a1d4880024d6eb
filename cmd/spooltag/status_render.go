package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"spooltag/internal/engine"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiBlue   = "\x1b[34m"
	ansiFaint  = "\x1b[2m"
	labelWidth = 14
)

// statusPrinter renders engine status messages one per line. Confirmation
// refreshes report from timer goroutines, hence the mutex.
type statusPrinter struct {
	mu       sync.Mutex
	out      io.Writer
	colorize bool
}

func newStatusPrinter(out io.Writer) *statusPrinter {
	return &statusPrinter{out: out, colorize: shouldColorize(out)}
}

func (p *statusPrinter) Show(kind engine.StatusKind, message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, renderStatusLine(kind, message, p.colorize))
}

func renderStatusLine(kind engine.StatusKind, message string, colorize bool) string {
	base := fmt.Sprintf("[%s] %s", statusKindLabel(kind), message)
	if colorize {
		if color := statusKindColor(kind); color != "" {
			return color + base + ansiReset
		}
	}
	return base
}

func statusKindLabel(kind engine.StatusKind) string {
	switch kind {
	case engine.StatusSuccess:
		return "OK"
	case engine.StatusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindColor(kind engine.StatusKind) string {
	switch kind {
	case engine.StatusSuccess:
		return ansiGreen
	case engine.StatusError:
		return ansiRed
	case engine.StatusInfo:
		return ansiBlue
	default:
		return ""
	}
}

func renderSectionHeader(title string, colorize bool) []string {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if colorize {
		line = ansiBlue + line + ansiReset
		rule = ansiBlue + rule + ansiReset
	}
	return []string{line, rule}
}

// renderField prints one "label: value" row; empty values are skipped.
func renderField(label, value string) (string, bool) {
	if strings.TrimSpace(value) == "" {
		return "", false
	}
	return fmt.Sprintf("  %-*s %s", labelWidth, label+":", value), true
}

func renderNote(note string, colorize bool) string {
	if colorize {
		return "  " + ansiFaint + note + ansiReset
	}
	return "  " + note
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
