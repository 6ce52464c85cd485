package dash

import (
	"context"
	"log/slog"
	"time"
)

// resubscribeDelay is the fixed pause before reopening a failed lifecycle
// stream. No exponential backoff: the monitor is long-lived and expected
// to recover whenever the host becomes reachable again.
const resubscribeDelay = time.Second

// HostMonitor maintains the set of live containers for one host and keeps
// their stat streamers in sync with reality. The streamer map is owned by
// the monitor goroutine alone, so spawn/cancel never race.
type HostMonitor struct {
	hostID     string
	client     Client
	bus        *Bus
	retryDelay time.Duration

	streamers map[string]context.CancelFunc
}

// NewHostMonitor creates a monitor for one configured host.
func NewHostMonitor(hostID string, client Client, bus *Bus) *HostMonitor {
	return &HostMonitor{
		hostID:     hostID,
		client:     client,
		bus:        bus,
		retryDelay: resubscribeDelay,
		streamers:  make(map[string]context.CancelFunc),
	}
}

// Run fetches the initial container set, then consumes lifecycle events
// until ctx is cancelled, resubscribing after a fixed delay whenever the
// event stream errors or ends.
func (m *HostMonitor) Run(ctx context.Context) {
	defer m.stopAll()

	m.snapshot(ctx)

	for {
		err := m.watch(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			slog.Warn("lifecycle stream error, resubscribing", "host", m.hostID, "error", err)
		} else {
			slog.Info("lifecycle stream closed, resubscribing", "host", m.hostID)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.retryDelay):
		}
	}
}

// snapshot lists running containers, emits one InitialSnapshot batch, and
// starts a stat streamer per container. A failed list is non-fatal: the
// host simply contributes nothing until containers appear via events.
func (m *HostMonitor) snapshot(ctx context.Context) {
	list, err := m.client.ListRunning(ctx)
	if err != nil {
		slog.Warn("container list failed, host contributes no containers", "host", m.hostID, "error", err)
		return
	}

	containers := make([]*Container, 0, len(list))
	for _, c := range list {
		containers = append(containers, &Container{
			ID:     c.ID,
			Name:   c.Name,
			Status: c.Status,
			HostID: m.hostID,
		})
	}
	m.bus.Post(InitialSnapshot{HostID: m.hostID, Containers: containers})

	for _, c := range list {
		m.spawn(ctx, c.ID)
	}
}

func (m *HostMonitor) watch(ctx context.Context) error {
	events, errs := m.client.Lifecycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errs:
			return err
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			m.handle(ctx, ev)
		}
	}
}

func (m *HostMonitor) handle(ctx context.Context, ev LifecycleEvent) {
	id := TruncateID(ev.ContainerID)

	switch ev.Action {
	case "start":
		// Duplicate starts for a tracked id must not double-spawn.
		if _, tracked := m.streamers[id]; tracked {
			return
		}
		details, err := m.client.Inspect(ctx, id)
		if err != nil {
			slog.Warn("inspect failed for started container", "host", m.hostID, "container", id, "error", err)
			return
		}
		m.bus.Post(ContainerCreated{Container: &Container{
			ID:     id,
			Name:   details.Name,
			Status: details.Status,
			HostID: m.hostID,
		}})
		m.spawn(ctx, id)

	case "die", "stop":
		cancel, tracked := m.streamers[id]
		if !tracked {
			return
		}
		cancel()
		delete(m.streamers, id)
		m.bus.Post(ContainerDestroyed{Key: ContainerKey{HostID: m.hostID, ContainerID: id}})
	}
}

func (m *HostMonitor) spawn(ctx context.Context, id string) {
	if _, tracked := m.streamers[id]; tracked {
		return
	}
	streamCtx, cancel := context.WithCancel(ctx)
	m.streamers[id] = cancel

	ss := NewStatStreamer(m.client, ContainerKey{HostID: m.hostID, ContainerID: id}, m.bus)
	go ss.Run(streamCtx)
}

func (m *HostMonitor) stopAll() {
	for id, cancel := range m.streamers {
		cancel()
		delete(m.streamers, id)
	}
}
