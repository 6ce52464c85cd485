package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/okvist/fleettop/internal/dash"
)

// logChrome is the number of non-log lines in the log view (title and
// footer), used to size the scroll viewport.
const logChrome = 2

// listChrome is title, column header and footer in the list view.
const listChrome = 3

// Renderer draws snapshots to a raw-mode terminal. It re-queries the
// terminal size on every frame, so a Resize event only needs to force a
// redraw.
type Renderer struct {
	out    *os.File
	theme  Theme
	width  int
	height int
}

// NewRenderer creates a renderer writing to out.
func NewRenderer(out *os.File, theme Theme) *Renderer {
	return &Renderer{out: out, theme: theme, width: 80, height: 24}
}

// Draw renders one full frame.
func (r *Renderer) Draw(s *dash.Snapshot) {
	if w, h, err := term.GetSize(int(r.out.Fd())); err == nil && w > 0 && h > 0 {
		r.width, r.height = w, h
	}
	fmt.Fprint(r.out, "\x1b[H"+RenderFrame(s, r.width, r.height, r.theme))
}

// LogViewport reports how many log lines fit on screen.
func (r *Renderer) LogViewport() int {
	v := r.height - logChrome
	if v < 1 {
		v = 1
	}
	return v
}

// RenderFrame builds a complete frame of exactly height lines. Every line
// ends with an erase-to-end-of-line so stale content never bleeds through
// without repainting the whole screen.
func RenderFrame(s *dash.Snapshot, width, height int, theme Theme) string {
	var lines []string
	if s.View == dash.ViewLogView {
		lines = logLines(s, width, height, theme)
	} else {
		lines = listLines(s, width, height, theme)
	}

	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	var b strings.Builder
	for i, l := range lines {
		b.WriteString(TruncateStyled(l, width))
		b.WriteString("\x1b[K")
		if i < len(lines)-1 {
			b.WriteString("\r\n")
		}
	}
	return b.String()
}

func listLines(s *dash.Snapshot, width, height int, theme Theme) []string {
	title := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	lines := make([]string, 0, height)
	lines = append(lines, title.Render(fmt.Sprintf(" fleettop · %d containers", len(s.Rows))))

	hostW := 0
	if s.MultiHost {
		hostW = 14
	}
	// id(12) + cpu(7) + mem(7) + rx(9) + tx(9) + status(16) + separators.
	nameW := width - 12 - 7 - 7 - 9 - 9 - 16 - hostW - 8
	if nameW < 8 {
		nameW = 8
	}

	header := fmt.Sprintf(" %-12s %-*s ", "ID", nameW, "NAME")
	if s.MultiHost {
		header += fmt.Sprintf("%-14s ", "HOST")
	}
	header += fmt.Sprintf("%7s %7s %9s %9s  %s", "CPU", "MEM", "RX/s", "TX/s", "STATUS")
	lines = append(lines, muted.Render(header))

	visible := height - listChrome
	if visible < 1 {
		visible = 1
	}
	// Keep the selected row on screen.
	start := 0
	if s.Selection >= visible {
		start = s.Selection - visible + 1
	}

	for i := start; i < len(s.Rows) && i < start+visible; i++ {
		row := s.Rows[i]
		plain := fmt.Sprintf(" %-12s %-*s ", row.ID, nameW, Truncate(row.Name, nameW))
		if s.MultiHost {
			plain += fmt.Sprintf("%-14s ", Truncate(row.Host, 14))
		}
		stats := row.Stats
		plain += fmt.Sprintf("%7s %7s %9s %9s  %s",
			FormatPercent(stats.CPUPercent),
			FormatPercent(stats.MemoryPercent),
			FormatRate(stats.NetRxRate),
			FormatRate(stats.NetTxRate),
			row.Status)

		if i == s.Selection {
			lines = append(lines, lipgloss.NewStyle().Reverse(true).Render(Truncate(plain, width)))
			continue
		}
		styled := colorizeRow(plain, row, theme)
		lines = append(lines, styled)
	}

	footer := muted.Render(" j/k select · enter logs · q quit")
	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	return append(lines, footer)
}

// colorizeRow recolors only the usage and status cells; everything else
// stays default foreground so the table reads calmly.
func colorizeRow(plain string, row dash.Row, theme Theme) string {
	cpu := FormatPercent(row.Stats.CPUPercent)
	mem := FormatPercent(row.Stats.MemoryPercent)

	out := plain
	out = replaceLast(out, cpu, lipgloss.NewStyle().Foreground(theme.UsageColor(row.Stats.CPUPercent)).Render(cpu))
	out = replaceLast(out, mem, lipgloss.NewStyle().Foreground(theme.UsageColor(row.Stats.MemoryPercent)).Render(mem))
	if row.Status != "" {
		out = replaceLast(out, row.Status, lipgloss.NewStyle().Foreground(theme.StatusColor(row.Status)).Render(row.Status))
	}
	return out
}

// replaceLast replaces the last occurrence of old in s.
func replaceLast(s, old, repl string) string {
	i := strings.LastIndex(s, old)
	if i < 0 {
		return s
	}
	return s[:i] + repl + s[i+len(old):]
}

func logLines(s *dash.Snapshot, width, height int, theme Theme) []string {
	title := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	muted := lipgloss.NewStyle().Foreground(theme.Muted)

	lines := make([]string, 0, height)
	lines = append(lines, title.Render(fmt.Sprintf(" logs · %s @ %s", s.LogName, s.LogKey.HostID)))

	viewport := height - logChrome
	if viewport < 1 {
		viewport = 1
	}
	start := s.Scroll
	if start > len(s.LogLines) {
		start = len(s.LogLines)
	}
	end := start + viewport
	if end > len(s.LogLines) {
		end = len(s.LogLines)
	}

	for _, entry := range s.LogLines[start:end] {
		ts := muted.Render(entry.Timestamp.Format("15:04:05"))
		lines = append(lines, " "+ts+" "+entry.Message)
	}

	pos := fmt.Sprintf("%d-%d/%d", start+1, end, len(s.LogLines))
	if len(s.LogLines) == 0 {
		pos = "0/0"
	}
	mode := "paused"
	if s.Follow {
		mode = "follow"
	}
	footer := muted.Render(fmt.Sprintf(" u/d scroll · esc back · q quit · %s · %s", pos, mode))
	for len(lines) < height-1 {
		lines = append(lines, "")
	}
	return append(lines, footer)
}
