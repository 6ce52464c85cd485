package dash

import (
	"context"
	"sort"
)

// View identifies which screen is active.
type View int

const (
	ViewContainerList View = iota
	ViewLogView
)

// StartLogFunc starts a log streamer for the given container and returns
// its cancel func, or nil when no stream could be started (for example an
// unknown host). The reducer treats nil as "nothing to cancel later".
type StartLogFunc func(ContainerKey) context.CancelFunc

// State is the application state, owned exclusively by the goroutine that
// calls Apply. Every producer communicates with it only through events,
// so no locking is needed anywhere.
type State struct {
	registry map[ContainerKey]*Container

	// sorted is always exactly the key set of registry, ordered by
	// (hostID, name). Maintained incrementally; fully sorted only on
	// initial bulk load.
	sorted []ContainerKey

	// selection indexes sorted; -1 iff the registry is empty.
	selection int

	view   View
	logKey ContainerKey

	logLines []LogEntry
	hasLog   bool
	scroll   int
	follow   bool

	cancelLog context.CancelFunc
	startLog  StartLogFunc

	quit bool
}

// NewState creates an empty state. startLog is invoked when the user
// enters the log view; it may be nil in tests that never do.
func NewState(startLog StartLogFunc) *State {
	return &State{
		registry:  make(map[ContainerKey]*Container),
		selection: -1,
		startLog:  startLog,
	}
}

// Quitting reports whether a Quit event has been applied.
func (s *State) Quitting() bool { return s.quit }

// Apply folds one event into the state and reports whether the change
// needs an immediate redraw rather than waiting for the next throttled
// frame. Events referencing unknown keys are no-ops: orderings across
// producers are unspecified, so stragglers and stale events must be
// absorbed silently.
func (s *State) Apply(ev Event) bool {
	switch ev := ev.(type) {
	case InitialSnapshot:
		return s.applySnapshot(ev)
	case ContainerCreated:
		return s.applyCreated(ev.Container)
	case ContainerDestroyed:
		return s.applyDestroyed(ev.Key)
	case ContainerStat:
		if c, ok := s.registry[ev.Key]; ok {
			c.Stats = ev.Stats
		}
		return false
	case LogLine:
		if s.hasLog && s.logKey == ev.Key {
			s.logLines = append(s.logLines, ev.Entry)
			return true
		}
		return false
	case Command:
		return s.applyCommand(ev)
	}
	return false
}

func (s *State) applySnapshot(ev InitialSnapshot) bool {
	for _, c := range ev.Containers {
		key := c.Key()
		if _, exists := s.registry[key]; !exists {
			s.sorted = append(s.sorted, key)
		}
		s.registry[key] = c
	}

	// The one full sort; later arrivals insert incrementally.
	sort.Slice(s.sorted, func(i, j int) bool {
		a, b := s.registry[s.sorted[i]], s.registry[s.sorted[j]]
		if a.HostID != b.HostID {
			return a.HostID < b.HostID
		}
		return a.Name < b.Name
	})

	if len(s.registry) > 0 {
		s.selection = 0
	}
	return true
}

func (s *State) applyCreated(c *Container) bool {
	key := c.Key()
	if _, exists := s.registry[key]; exists {
		// Already tracked (racy duplicate start): refresh the record but
		// keep the ordering untouched.
		s.registry[key] = c
		return true
	}
	s.registry[key] = c

	pos := sort.Search(len(s.sorted), func(i int) bool {
		probe := s.registry[s.sorted[i]]
		if probe.HostID != c.HostID {
			return probe.HostID > c.HostID
		}
		return probe.Name >= c.Name
	})
	s.sorted = append(s.sorted, ContainerKey{})
	copy(s.sorted[pos+1:], s.sorted[pos:])
	s.sorted[pos] = key

	if len(s.registry) == 1 {
		s.selection = 0
	}
	return true
}

func (s *State) applyDestroyed(key ContainerKey) bool {
	if _, ok := s.registry[key]; !ok {
		return true
	}
	delete(s.registry, key)
	for i, k := range s.sorted {
		if k == key {
			s.sorted = append(s.sorted[:i], s.sorted[i+1:]...)
			break
		}
	}

	if len(s.registry) == 0 {
		s.selection = -1
	} else if s.selection >= len(s.sorted) {
		s.selection = len(s.sorted) - 1
	}
	return true
}

func (s *State) applyCommand(cmd Command) bool {
	switch cmd {
	case SelectPrevious:
		if s.view != ViewContainerList || len(s.sorted) == 0 {
			return false
		}
		if s.selection > 0 {
			s.selection--
		}
		return true

	case SelectNext:
		if s.view != ViewContainerList || len(s.sorted) == 0 {
			return false
		}
		if s.selection < len(s.sorted)-1 {
			s.selection++
		}
		return true

	case EnterPressed:
		return s.enterLogView()

	case ExitLogView:
		return s.exitLogView()

	case ScrollUp:
		if s.view != ViewLogView {
			return false
		}
		if s.scroll > 0 {
			s.scroll--
			s.follow = false
			return true
		}
		return false

	case ScrollDown:
		if s.view != ViewLogView || !s.hasLog {
			return false
		}
		// Clamping and follow recomputation happen at render time,
		// where the viewport height is known.
		s.scroll++
		return true

	case Resize:
		return true

	case Quit:
		s.quit = true
		return false
	}
	return false
}

func (s *State) enterLogView() bool {
	if s.view != ViewContainerList {
		return false
	}
	if s.selection < 0 || s.selection >= len(s.sorted) {
		return false
	}
	key := s.sorted[s.selection]

	s.stopLogTask()

	s.view = ViewLogView
	s.logKey = key
	s.logLines = nil
	s.hasLog = true
	s.scroll = 0
	s.follow = true

	if s.startLog != nil {
		s.cancelLog = s.startLog(key)
	}
	return true
}

func (s *State) exitLogView() bool {
	if s.view != ViewLogView {
		return false
	}
	s.stopLogTask()
	s.logLines = nil
	s.hasLog = false
	s.view = ViewContainerList
	return true
}

// stopLogTask cancels the active log streamer, if any. Cancellation never
// blocks; any event the streamer already queued is absorbed by the key
// check in the LogLine case.
func (s *State) stopLogTask() {
	if s.cancelLog != nil {
		s.cancelLog()
		s.cancelLog = nil
	}
}

// ClampScroll pins the scroll offset against the current log length and
// viewport height and recomputes follow mode. The draw loop calls it just
// before rendering, which is the first point where the viewport height is
// known.
func (s *State) ClampScroll(viewport int) {
	if s.view != ViewLogView {
		return
	}
	if viewport < 0 {
		viewport = 0
	}
	max := len(s.logLines) - viewport
	if max < 0 {
		max = 0
	}
	if s.follow || s.scroll >= max {
		s.scroll = max
		s.follow = true
	}
}

// Row is one rendered container line.
type Row struct {
	Key    ContainerKey
	ID     string
	Name   string
	Host   string
	Status string
	Stats  ContainerStats
}

// Snapshot is the read-only view handed to the renderer each frame.
type Snapshot struct {
	Rows      []Row
	Selection int // -1 when empty
	MultiHost bool

	View     View
	LogKey   ContainerKey
	LogName  string
	LogLines []LogEntry
	Scroll   int
	Follow   bool
}

// Snapshot builds the render view from the current state.
func (s *State) Snapshot() *Snapshot {
	snap := &Snapshot{
		Rows:      make([]Row, 0, len(s.sorted)),
		Selection: s.selection,
		View:      s.view,
	}

	hosts := make(map[string]struct{})
	for _, key := range s.sorted {
		c := s.registry[key]
		hosts[c.HostID] = struct{}{}
		snap.Rows = append(snap.Rows, Row{
			Key:    key,
			ID:     c.ID,
			Name:   c.Name,
			Host:   c.HostID,
			Status: c.Status,
			Stats:  c.Stats,
		})
	}
	snap.MultiHost = len(hosts) > 1

	if s.view == ViewLogView {
		snap.LogKey = s.logKey
		snap.LogName = s.logKey.ContainerID
		if c, ok := s.registry[s.logKey]; ok {
			snap.LogName = c.Name
		}
		snap.LogLines = s.logLines
		snap.Scroll = s.scroll
		snap.Follow = s.follow
	}
	return snap
}
