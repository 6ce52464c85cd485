package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/okvist/fleettop/internal/dash"
)

func listSnapshot(multiHost bool) *dash.Snapshot {
	rows := []dash.Row{
		{
			Key: dash.ContainerKey{HostID: "local", ContainerID: "aaa111aaa111"},
			ID:  "aaa111aaa111", Name: "api", Host: "local", Status: "Up 2 hours",
			Stats: dash.ContainerStats{CPUPercent: 12.3, MemoryPercent: 45.6, NetRxRate: 1500, NetTxRate: 200},
		},
		{
			Key: dash.ContainerKey{HostID: "prod-1", ContainerID: "bbb222bbb222"},
			ID:  "bbb222bbb222", Name: "web", Host: "prod-1", Status: "Up 5 minutes",
		},
	}
	return &dash.Snapshot{Rows: rows, Selection: 0, MultiHost: multiHost}
}

// plainFrame renders and strips styling so tests assert on content.
func plainFrame(t *testing.T, s *dash.Snapshot, width, height int) []string {
	t.Helper()
	frame := RenderFrame(s, width, height, DefaultTheme())
	return strings.Split(ansi.Strip(frame), "\r\n")
}

func TestRenderFrameDimensions(t *testing.T) {
	lines := plainFrame(t, listSnapshot(false), 100, 24)
	if len(lines) != 24 {
		t.Fatalf("frame has %d lines, want 24", len(lines))
	}
}

func TestRenderContainerList(t *testing.T) {
	lines := plainFrame(t, listSnapshot(false), 120, 24)

	if !strings.Contains(lines[0], "fleettop · 2 containers") {
		t.Errorf("title = %q", lines[0])
	}
	if !strings.Contains(lines[1], "ID") || !strings.Contains(lines[1], "CPU") {
		t.Errorf("header = %q", lines[1])
	}
	if strings.Contains(lines[1], "HOST") {
		t.Error("single-host frame should not have a HOST column")
	}

	frame := strings.Join(lines, "\n")
	for _, want := range []string{"aaa111aaa111", "api", "12.3%", "45.6%", "1.5kB/s", "Up 2 hours", "web"} {
		if !strings.Contains(frame, want) {
			t.Errorf("frame missing %q", want)
		}
	}
	if !strings.Contains(lines[23], "q quit") {
		t.Errorf("footer = %q", lines[23])
	}
}

func TestRenderMultiHostColumn(t *testing.T) {
	lines := plainFrame(t, listSnapshot(true), 120, 24)
	if !strings.Contains(lines[1], "HOST") {
		t.Errorf("header = %q, want HOST column", lines[1])
	}
	frame := strings.Join(lines, "\n")
	if !strings.Contains(frame, "prod-1") {
		t.Error("frame missing host id")
	}
}

func TestRenderEmptyList(t *testing.T) {
	lines := plainFrame(t, &dash.Snapshot{Selection: -1}, 80, 10)
	if !strings.Contains(lines[0], "0 containers") {
		t.Errorf("title = %q", lines[0])
	}
	if len(lines) != 10 {
		t.Fatalf("frame has %d lines, want 10", len(lines))
	}
}

func TestRenderListScrollsToSelection(t *testing.T) {
	rows := make([]dash.Row, 30)
	for i := range rows {
		name := string(rune('a'+i%26)) + "-svc"
		rows[i] = dash.Row{ID: "id", Name: name, Status: "Up"}
	}
	rows[29].Name = "zz-last"
	s := &dash.Snapshot{Rows: rows, Selection: 29}

	frame := strings.Join(plainFrame(t, s, 120, 10), "\n")
	if !strings.Contains(frame, "zz-last") {
		t.Error("selected row scrolled out of view")
	}
}

func TestRenderLogView(t *testing.T) {
	ts := time.Date(2026, 8, 29, 9, 30, 15, 0, time.UTC)
	s := &dash.Snapshot{
		View:    dash.ViewLogView,
		LogKey:  dash.ContainerKey{HostID: "prod-1", ContainerID: "aaa"},
		LogName: "api",
		LogLines: []dash.LogEntry{
			{Timestamp: ts, Message: "listening on :8080"},
			{Timestamp: ts.Add(time.Second), Message: "request served"},
		},
		Scroll: 0,
		Follow: true,
	}

	lines := plainFrame(t, s, 100, 12)
	if !strings.Contains(lines[0], "logs · api @ prod-1") {
		t.Errorf("title = %q", lines[0])
	}
	frame := strings.Join(lines, "\n")
	if !strings.Contains(frame, "09:30:15") || !strings.Contains(frame, "listening on :8080") {
		t.Error("frame missing log entry")
	}
	if !strings.Contains(lines[11], "1-2/2") || !strings.Contains(lines[11], "follow") {
		t.Errorf("footer = %q", lines[11])
	}
}

func TestRenderLogViewWindow(t *testing.T) {
	entries := make([]dash.LogEntry, 20)
	for i := range entries {
		entries[i] = dash.LogEntry{Message: "line-" + string(rune('a'+i))}
	}
	s := &dash.Snapshot{
		View:     dash.ViewLogView,
		LogName:  "api",
		LogLines: entries,
		Scroll:   5,
	}

	// Height 7 leaves a 5-line viewport: entries 5..9.
	frame := strings.Join(plainFrame(t, s, 100, 7), "\n")
	if !strings.Contains(frame, "line-f") || !strings.Contains(frame, "line-j") {
		t.Error("window missing expected entries")
	}
	if strings.Contains(frame, "line-e") || strings.Contains(frame, "line-k") {
		t.Error("window leaked entries outside the scroll range")
	}
	if !strings.Contains(frame, "6-10/20") {
		t.Errorf("position indicator missing: %q", frame)
	}
	if !strings.Contains(frame, "paused") {
		t.Error("paused indicator missing")
	}
}

func TestRenderEmptyLogView(t *testing.T) {
	s := &dash.Snapshot{View: dash.ViewLogView, LogName: "api", Follow: true}
	frame := strings.Join(plainFrame(t, s, 80, 10), "\n")
	if !strings.Contains(frame, "0/0") {
		t.Error("empty log view should show 0/0")
	}
}
