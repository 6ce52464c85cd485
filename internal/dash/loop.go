package dash

import "time"

// drawInterval throttles redraws driven by non-forcing events: bursts of
// stat updates collapse into one frame, while structural changes redraw
// immediately.
const drawInterval = 500 * time.Millisecond

// Renderer turns a state snapshot into a terminal frame. It also reports
// how many log lines fit on screen so the reducer can clamp scrolling.
type Renderer interface {
	Draw(*Snapshot)
	LogViewport() int
}

// Loop is the outer single-threaded loop: wait for the next event with a
// timeout, drain everything already queued, then decide whether to draw.
// It is the only goroutine that touches State.
type Loop struct {
	bus      *Bus
	state    *State
	renderer Renderer
	interval time.Duration
}

// NewLoop wires the reducer loop.
func NewLoop(bus *Bus, state *State, renderer Renderer) *Loop {
	return &Loop{bus: bus, state: state, renderer: renderer, interval: drawInterval}
}

// Run processes events until a Quit event arrives or the bus closes.
func (l *Loop) Run() {
	lastDraw := time.Now()

	for !l.state.Quitting() {
		force := l.pump()
		if l.state.Quitting() {
			return
		}

		if force || time.Since(lastDraw) >= l.interval {
			l.state.ClampScroll(l.renderer.LogViewport())
			l.renderer.Draw(l.state.Snapshot())
			lastDraw = time.Now()
		}
	}
}

// pump blocks up to the draw interval for one event, then drains every
// queued event without blocking. Returns whether any applied event forced
// a redraw.
func (l *Loop) pump() bool {
	timer := time.NewTimer(l.interval)
	defer timer.Stop()

	var force bool
	select {
	case ev, ok := <-l.bus.C():
		if !ok {
			l.state.quit = true
			return false
		}
		force = l.state.Apply(ev)
	case <-timer.C:
		return false
	}

	for {
		select {
		case ev, ok := <-l.bus.C():
			if !ok {
				l.state.quit = true
				return force
			}
			force = l.state.Apply(ev) || force
		default:
			return force
		}
	}
}
