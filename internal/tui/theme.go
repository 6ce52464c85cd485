// Package tui renders engine snapshots as full terminal frames.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/okvist/fleettop/internal/dash"
)

// Theme holds all colors used by the renderer. Views reference theme
// fields, never raw color values.
type Theme struct {
	Accent   lipgloss.Color // titles, selection accents
	Muted    lipgloss.Color // headers, footers, dim text
	Healthy  lipgloss.Color // running containers, low usage
	Warning  lipgloss.Color // medium usage
	Critical lipgloss.Color // high usage, dead containers
	Selected lipgloss.Color // selected-row background
}

// DefaultTheme returns the default ANSI theme so the dashboard inherits
// the terminal's palette.
func DefaultTheme() Theme {
	return Theme{
		Accent:   lipgloss.Color("14"),
		Muted:    lipgloss.Color("8"),
		Healthy:  lipgloss.Color("10"),
		Warning:  lipgloss.Color("11"),
		Critical: lipgloss.Color("9"),
		Selected: lipgloss.Color("8"),
	}
}

// ThemeFromConfig applies non-empty overrides onto the default theme.
func ThemeFromConfig(cfg dash.ThemeConfig) Theme {
	t := DefaultTheme()
	apply := func(dst *lipgloss.Color, v string) {
		if v != "" {
			*dst = lipgloss.Color(v)
		}
	}
	apply(&t.Accent, cfg.Accent)
	apply(&t.Muted, cfg.Muted)
	apply(&t.Healthy, cfg.Healthy)
	apply(&t.Warning, cfg.Warning)
	apply(&t.Critical, cfg.Critical)
	apply(&t.Selected, cfg.Selected)
	return t
}

// UsageColor returns green/yellow/red based on a usage percentage.
func (t Theme) UsageColor(percent float64) lipgloss.Color {
	switch {
	case percent >= 80:
		return t.Critical
	case percent >= 60:
		return t.Warning
	default:
		return t.Healthy
	}
}

// StatusColor returns a color for a container status string. Listing
// statuses are human readable ("Up 2 hours"), inspect statuses are bare
// state words; both are matched by prefix.
func (t Theme) StatusColor(status string) lipgloss.Color {
	switch {
	case hasAnyPrefix(status, "Up", "running"):
		return t.Healthy
	case hasAnyPrefix(status, "Restarting", "restarting"):
		return t.Warning
	case hasAnyPrefix(status, "Exited", "exited", "Dead", "dead"):
		return t.Critical
	default:
		return t.Muted
	}
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}
