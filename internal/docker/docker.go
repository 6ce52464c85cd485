// Package docker adapts the Docker Engine API to the runtime client
// interface the engine consumes.
package docker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/events"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"

	"github.com/okvist/fleettop/internal/dash"
)

// maxLogLine bounds a single scanned log line.
const maxLogLine = 64 * 1024

// SDK implements dash.Client against a real Docker daemon.
type SDK struct {
	cli *client.Client
}

// Connect opens a Docker client for the given host spec: "local" (or
// empty) uses the standard environment resolution, otherwise the spec
// must be a unix://, tcp:// or npipe:// endpoint.
func Connect(spec string) (*SDK, error) {
	opts := []client.Opt{client.WithAPIVersionNegotiation()}
	switch {
	case spec == "" || spec == "local":
		opts = append(opts, client.FromEnv)
	case strings.HasPrefix(spec, "unix://"),
		strings.HasPrefix(spec, "tcp://"),
		strings.HasPrefix(spec, "npipe://"):
		opts = append(opts, client.WithHost(spec))
	default:
		return nil, fmt.Errorf("invalid host spec %q: use \"local\", \"unix://path\" or \"tcp://host:port\"", spec)
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("docker client: %w", err)
	}
	return &SDK{cli: cli}, nil
}

// Close closes the underlying client.
func (s *SDK) Close() error {
	return s.cli.Close()
}

// HostID derives a short display identity from a host spec: "local" for
// the local daemon and unix sockets, host:port for TCP endpoints.
func HostID(spec string) string {
	switch {
	case spec == "" || spec == "local", strings.HasPrefix(spec, "unix://"), strings.HasPrefix(spec, "npipe://"):
		return "local"
	case strings.HasPrefix(spec, "tcp://"):
		return strings.TrimPrefix(spec, "tcp://")
	default:
		return spec
	}
}

// ListRunning lists running containers with truncated IDs and cleaned names.
func (s *SDK) ListRunning(ctx context.Context) ([]dash.ContainerSummary, error) {
	list, err := s.cli.ContainerList(ctx, container.ListOptions{All: false})
	if err != nil {
		return nil, fmt.Errorf("container list: %w", err)
	}

	out := make([]dash.ContainerSummary, 0, len(list))
	for _, c := range list {
		out = append(out, dash.ContainerSummary{
			ID:     dash.TruncateID(c.ID),
			Name:   containerName(c.Names),
			Status: c.Status,
		})
	}
	return out, nil
}

// Inspect returns name and status for one container.
func (s *SDK) Inspect(ctx context.Context, id string) (dash.ContainerDetails, error) {
	info, err := s.cli.ContainerInspect(ctx, id)
	if err != nil {
		return dash.ContainerDetails{}, fmt.Errorf("inspect %s: %w", id, err)
	}
	d := dash.ContainerDetails{Name: strings.TrimPrefix(info.Name, "/")}
	if info.State != nil {
		d.Status = string(info.State.Status)
	}
	return d, nil
}

// Lifecycle subscribes to container start/die/stop events.
func (s *SDK) Lifecycle(ctx context.Context) (<-chan dash.LifecycleEvent, <-chan error) {
	f := filters.NewArgs(
		filters.Arg("type", "container"),
		filters.Arg("event", "start"),
		filters.Arg("event", "die"),
		filters.Arg("event", "stop"),
	)
	msgs, errs := s.cli.Events(ctx, events.ListOptions{Filters: f})

	out := make(chan dash.LifecycleEvent)
	errOut := make(chan error, 1)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-errs:
				errOut <- err
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- dash.LifecycleEvent{
					Action:      string(msg.Action),
					ContainerID: msg.Actor.ID,
				}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, errOut
}

// StreamStats opens the container's streaming stats sequence and decodes
// each JSON snapshot into a flat sample.
func (s *SDK) StreamStats(ctx context.Context, id string) (<-chan dash.StatsSample, <-chan error) {
	out := make(chan dash.StatsSample)
	errOut := make(chan error, 1)

	resp, err := s.cli.ContainerStats(ctx, id, true)
	if err != nil {
		errOut <- fmt.Errorf("container stats %s: %w", id, err)
		close(out)
		return out, errOut
	}

	// The response body is not context-aware; closing it unblocks the
	// decoder when the stream is cancelled.
	go func() {
		<-ctx.Done()
		resp.Body.Close()
	}()

	go func() {
		defer close(out)
		dec := json.NewDecoder(resp.Body)
		for {
			var raw container.StatsResponse
			if err := dec.Decode(&raw); err != nil {
				if err != io.EOF && ctx.Err() == nil {
					errOut <- err
				}
				return
			}
			select {
			case out <- toSample(&raw):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errOut
}

// toSample flattens a stats response into the fields the engine uses.
func toSample(raw *container.StatsResponse) dash.StatsSample {
	s := dash.StatsSample{
		CPUTotal:       raw.CPUStats.CPUUsage.TotalUsage,
		PreCPUTotal:    raw.PreCPUStats.CPUUsage.TotalUsage,
		SystemUsage:    raw.CPUStats.SystemUsage,
		PreSystemUsage: raw.PreCPUStats.SystemUsage,
		OnlineCPUs:     raw.CPUStats.OnlineCPUs,
		MemUsage:       raw.MemoryStats.Usage,
		MemLimit:       raw.MemoryStats.Limit,
		Read:           raw.Read,
	}
	for _, n := range raw.Networks {
		s.RxBytes += n.RxBytes
		s.TxBytes += n.TxBytes
	}
	return s
}

// StreamLogs follows the container's stdout and stderr with a line
// backfill, demuxing Docker's multiplexed frames into raw text lines.
func (s *SDK) StreamLogs(ctx context.Context, id string, tail int) (<-chan string, <-chan error) {
	out := make(chan string)
	errOut := make(chan error, 1)

	logs, err := s.cli.ContainerLogs(ctx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Follow:     true,
		Tail:       fmt.Sprintf("%d", tail),
		Timestamps: true,
	})
	if err != nil {
		errOut <- fmt.Errorf("container logs %s: %w", id, err)
		close(out)
		return out, errOut
	}

	go func() {
		<-ctx.Done()
		logs.Close()
	}()

	go func() {
		defer close(out)
		if err := demuxLines(ctx, logs, out); err != nil && ctx.Err() == nil {
			errOut <- err
		}
	}()
	return out, errOut
}

// demuxLines strips Docker's 8-byte stream headers and feeds whole lines
// to out. Both streams are written to one pipe: StdCopy processes frames
// sequentially, so arrival order is preserved.
func demuxLines(ctx context.Context, logs io.Reader, out chan<- string) error {
	pr, pw := io.Pipe()
	go func() {
		_, err := stdcopy.StdCopy(pw, pw, logs)
		pw.CloseWithError(err)
	}()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, maxLogLine), maxLogLine)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return scanner.Err()
}

// containerName picks the primary name from a listing entry, stripping
// the leading slash Docker prepends.
func containerName(names []string) string {
	if len(names) == 0 {
		return ""
	}
	return strings.TrimPrefix(names[0], "/")
}
