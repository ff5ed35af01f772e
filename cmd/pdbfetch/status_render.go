package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"pdbfetch/internal/fetcher"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
)

const (
	ansiReset  = "\x1b[0m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const statusLabelWidth = 10

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	base := fmt.Sprintf("%-*s [%s] %s", statusLabelWidth, label+":", statusKindLabel(kind), message)
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
	case statusInfo:
		return ansiBlue
	default:
		return ""
	}
}

// statusReporter prints one status line per fetcher event.
type statusReporter struct {
	out      io.Writer
	colorize bool
}

func newStatusReporter(out io.Writer) *statusReporter {
	return &statusReporter{out: out, colorize: shouldColorize(out)}
}

func (r *statusReporter) Report(e fetcher.Event) {
	kind, message := describeEvent(e)
	label := e.ID
	if label == "" {
		label = e.Input
	}
	fmt.Fprintln(r.out, renderStatusLine(label, kind, message, r.colorize))
}

func describeEvent(e fetcher.Event) (statusKind, string) {
	switch e.Kind {
	case fetcher.EventStart:
		return statusInfo, "processing"
	case fetcher.EventSkip:
		return statusInfo, "already cached at " + e.Path
	case fetcher.EventDownload:
		return statusInfo, "downloading " + e.URL
	case fetcher.EventDone:
		return statusOK, fmt.Sprintf("stored %s (%s)", e.Path, formatBytes(e.Bytes))
	case fetcher.EventFailed:
		return statusWarn, fmt.Sprintf("failed: %v", e.Err)
	default:
		return statusInfo, e.Kind.String()
	}
}

func shouldColorize(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
