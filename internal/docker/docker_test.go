package docker

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

func TestHostID(t *testing.T) {
	tests := []struct {
		spec string
		want string
	}{
		{"", "local"},
		{"local", "local"},
		{"unix:///var/run/docker.sock", "local"},
		{"npipe:////./pipe/docker_engine", "local"},
		{"tcp://10.0.0.5:2375", "10.0.0.5:2375"},
		{"tcp://prod-1.internal:2376", "prod-1.internal:2376"},
	}

	for _, tt := range tests {
		if got := HostID(tt.spec); got != tt.want {
			t.Errorf("HostID(%q) = %q, want %q", tt.spec, got, tt.want)
		}
	}
}

func TestConnectRejectsUnknownScheme(t *testing.T) {
	if _, err := Connect("ssh://user@host"); err == nil {
		t.Fatal("ssh spec should be rejected")
	}
	if _, err := Connect("10.0.0.5:2375"); err == nil {
		t.Fatal("bare host:port should be rejected")
	}
}

func TestToSample(t *testing.T) {
	read := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	raw := &container.StatsResponse{
		Read: read,
		CPUStats: container.CPUStats{
			CPUUsage:    container.CPUUsage{TotalUsage: 1_500_000_000},
			SystemUsage: 2_000_000_000,
			OnlineCPUs:  4,
		},
		PreCPUStats: container.CPUStats{
			CPUUsage:    container.CPUUsage{TotalUsage: 1_000_000_000},
			SystemUsage: 1_000_000_000,
		},
		MemoryStats: container.MemoryStats{Usage: 512, Limit: 1024},
		Networks: map[string]container.NetworkStats{
			"eth0": {RxBytes: 100, TxBytes: 10},
			"eth1": {RxBytes: 50, TxBytes: 5},
		},
	}

	s := toSample(raw)
	if s.CPUTotal != 1_500_000_000 || s.PreCPUTotal != 1_000_000_000 {
		t.Errorf("cpu totals = %d/%d", s.CPUTotal, s.PreCPUTotal)
	}
	if s.SystemUsage != 2_000_000_000 || s.PreSystemUsage != 1_000_000_000 {
		t.Errorf("system usage = %d/%d", s.SystemUsage, s.PreSystemUsage)
	}
	if s.OnlineCPUs != 4 {
		t.Errorf("online cpus = %d", s.OnlineCPUs)
	}
	if s.MemUsage != 512 || s.MemLimit != 1024 {
		t.Errorf("memory = %d/%d", s.MemUsage, s.MemLimit)
	}
	if s.RxBytes != 150 || s.TxBytes != 15 {
		t.Errorf("net counters = %d/%d, want interfaces summed", s.RxBytes, s.TxBytes)
	}
	if !s.Read.Equal(read) {
		t.Errorf("read = %v", s.Read)
	}
}

func TestDemuxLines(t *testing.T) {
	var mux bytes.Buffer
	stdout := stdcopy.NewStdWriter(&mux, stdcopy.Stdout)
	stderr := stdcopy.NewStdWriter(&mux, stdcopy.Stderr)
	stdout.Write([]byte("2025-10-28T12:34:56Z out line\n"))
	stderr.Write([]byte("2025-10-28T12:34:57Z err line\n"))
	stdout.Write([]byte("2025-10-28T12:34:58Z another\n"))

	out := make(chan string, 8)
	if err := demuxLines(context.Background(), &mux, out); err != nil {
		t.Fatal(err)
	}
	close(out)

	var got []string
	for line := range out {
		got = append(got, line)
	}
	want := []string{
		"2025-10-28T12:34:56Z out line",
		"2025-10-28T12:34:57Z err line",
		"2025-10-28T12:34:58Z another",
	}
	if len(got) != len(want) {
		t.Fatalf("lines = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDemuxLinesEmptyStream(t *testing.T) {
	out := make(chan string, 1)
	if err := demuxLines(context.Background(), bytes.NewReader(nil), out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("lines = %d, want 0", len(out))
	}
}

func TestContainerName(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"/web"}, "web"},
		{[]string{"/web", "/web-alias"}, "web"},
		{[]string{"web"}, "web"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := containerName(tt.names); got != tt.want {
			t.Errorf("containerName(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}
