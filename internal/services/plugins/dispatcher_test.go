package plugins

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/JosiasAurel/scrapbook-v2/internal/bus"
	"github.com/JosiasAurel/scrapbook-v2/internal/config"
)

func runDispatcher(t *testing.T, b *bus.Bus, cfg config.PluginsConfig) chan Result {
	t.Helper()
	results := make(chan Result, 16)
	d := New(b, cfg, zerolog.Nop())
	d.Observe(func(r Result) { results <- r })

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = d.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("dispatcher did not shut down")
		}
	})
	// Give the dispatcher a moment to take its subscriptions.
	time.Sleep(20 * time.Millisecond)
	return results
}

func waitResult(t *testing.T, results chan Result) Result {
	t.Helper()
	select {
	case r := <-results:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("no plugin result")
		return Result{}
	}
}

func TestDispatcherDeliversEventAndReadsResponse(t *testing.T) {
	b := bus.New()
	results := runDispatcher(t, b, config.PluginsConfig{
		TimeoutMs: 5000,
		Registry: map[string][]string{
			"createPost": {`read line; echo "got: $line"`},
		},
	})

	b.Publish(bus.Event{Type: "createPost", Key: "p1", Data: map[string]string{"id": "p1"}})

	r := waitResult(t, results)
	if r.Err != nil {
		t.Fatalf("invocation failed: %v", r.Err)
	}
	if r.Key != "p1" || r.EventType != "createPost" {
		t.Fatalf("wrong result envelope: %+v", r)
	}
	want := `got: {"eventType":"createPost","data":{"id":"p1"}}`
	if r.Response != want {
		t.Fatalf("response = %q, want %q", r.Response, want)
	}
}

func TestDispatcherFansOutToAllCommands(t *testing.T) {
	b := bus.New()
	results := runDispatcher(t, b, config.PluginsConfig{
		TimeoutMs: 5000,
		Registry: map[string][]string{
			"reactToPost": {`echo one`, `echo two`},
		},
	})

	b.Publish(bus.Event{Type: "reactToPost", Key: "r1", Data: nil})

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		r := waitResult(t, results)
		if r.Err != nil {
			t.Fatalf("invocation failed: %v", r.Err)
		}
		seen[r.Response] = true
	}
	if !seen["one"] || !seen["two"] {
		t.Fatalf("missing fan-out responses: %v", seen)
	}
}

func TestDispatcherReportsCommandFailure(t *testing.T) {
	b := bus.New()
	results := runDispatcher(t, b, config.PluginsConfig{
		TimeoutMs: 5000,
		Registry: map[string][]string{
			"createPost": {`exit 3`},
		},
	})

	b.Publish(bus.Event{Type: "createPost", Key: "p1", Data: nil})

	r := waitResult(t, results)
	if r.Err == nil {
		t.Fatal("expected error for nonzero exit")
	}
}

func TestDispatcherKillsSlowPlugin(t *testing.T) {
	b := bus.New()
	results := runDispatcher(t, b, config.PluginsConfig{
		TimeoutMs: 100,
		Registry: map[string][]string{
			"createPost": {`sleep 30`},
		},
	})

	b.Publish(bus.Event{Type: "createPost", Key: "p1", Data: nil})

	r := waitResult(t, results)
	if !errors.Is(r.Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", r.Err)
	}
	if r.Elapsed >= 10*time.Second {
		t.Fatalf("plugin was not killed promptly: %v", r.Elapsed)
	}
}

func TestDispatcherIgnoresUnregisteredEvents(t *testing.T) {
	b := bus.New()
	results := runDispatcher(t, b, config.PluginsConfig{
		TimeoutMs: 5000,
		Registry: map[string][]string{
			"createPost": {`echo hi`},
		},
	})

	b.Publish(bus.Event{Type: "somethingElse", Key: "x", Data: nil})

	select {
	case r := <-results:
		t.Fatalf("unexpected invocation: %+v", r)
	case <-time.After(200 * time.Millisecond):
	}
}
