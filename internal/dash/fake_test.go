package dash

import (
	"context"
	"testing"
	"time"
)

// fakeClient implements Client with injectable behavior per method.
// Unset stream methods return nil channels, which block forever in the
// consumer's select and let ctx cancellation win.
type fakeClient struct {
	listFn      func(ctx context.Context) ([]ContainerSummary, error)
	inspectFn   func(ctx context.Context, id string) (ContainerDetails, error)
	lifecycleFn func(ctx context.Context) (<-chan LifecycleEvent, <-chan error)
	statsFn     func(ctx context.Context, id string) (<-chan StatsSample, <-chan error)
	logsFn      func(ctx context.Context, id string, tail int) (<-chan string, <-chan error)
}

func (f *fakeClient) ListRunning(ctx context.Context) ([]ContainerSummary, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeClient) Inspect(ctx context.Context, id string) (ContainerDetails, error) {
	if f.inspectFn == nil {
		return ContainerDetails{}, nil
	}
	return f.inspectFn(ctx, id)
}

func (f *fakeClient) Lifecycle(ctx context.Context) (<-chan LifecycleEvent, <-chan error) {
	if f.lifecycleFn == nil {
		return nil, nil
	}
	return f.lifecycleFn(ctx)
}

func (f *fakeClient) StreamStats(ctx context.Context, id string) (<-chan StatsSample, <-chan error) {
	if f.statsFn == nil {
		return nil, nil
	}
	return f.statsFn(ctx, id)
}

func (f *fakeClient) StreamLogs(ctx context.Context, id string, tail int) (<-chan string, <-chan error) {
	if f.logsFn == nil {
		return nil, nil
	}
	return f.logsFn(ctx, id, tail)
}

// waitEvent receives the next event from the bus or fails the test.
func waitEvent(t *testing.T, bus *Bus) Event {
	t.Helper()
	select {
	case ev := <-bus.C():
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

// expectNoEvent asserts the bus stays quiet for a short window.
func expectNoEvent(t *testing.T, bus *Bus) {
	t.Helper()
	select {
	case ev := <-bus.C():
		t.Fatalf("unexpected event %T: %+v", ev, ev)
	case <-time.After(100 * time.Millisecond):
	}
}
