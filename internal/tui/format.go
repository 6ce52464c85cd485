package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Truncate shortens a plain (non-styled) string to maxLen, appending "…"
// if truncated.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen == 1 {
		return "…"
	}
	return string(runes[:maxLen-1]) + "…"
}

// TruncateStyled shortens a string that may contain ANSI escape sequences.
func TruncateStyled(s string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= maxLen {
		return s
	}
	return ansi.Truncate(s, maxLen, "")
}

// FormatRate renders a bytes-per-second value like "1.2MB/s".
func FormatRate(bytesPerSec float64) string {
	return FormatBytes(bytesPerSec) + "/s"
}

// FormatBytes renders a byte count with a binary-ish 1000 step, matching
// what `docker stats` shows.
func FormatBytes(n float64) string {
	switch {
	case n >= 1e9:
		return fmt.Sprintf("%.1fGB", n/1e9)
	case n >= 1e6:
		return fmt.Sprintf("%.1fMB", n/1e6)
	case n >= 1e3:
		return fmt.Sprintf("%.1fkB", n/1e3)
	default:
		return fmt.Sprintf("%.0fB", n)
	}
}

// FormatPercent renders a usage percentage with one decimal.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}
