package plugins

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/JosiasAurel/scrapbook-v2/internal/bus"
	"github.com/JosiasAurel/scrapbook-v2/internal/config"
)

const defaultTimeout = 30 * time.Second

// Dispatcher subscribes to the event types named in the registry and fans
// each event out to that type's plugin commands, one isolated process per
// invocation.
type Dispatcher struct {
	bus     *bus.Bus
	cfg     config.PluginsConfig
	logger  zerolog.Logger
	observe func(Result)

	wg sync.WaitGroup
}

// New builds a dispatcher. It does nothing until Run is called.
func New(b *bus.Bus, cfg config.PluginsConfig, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{bus: b, cfg: cfg, logger: logger}
}

// Observe installs a callback invoked with every plugin result, after
// logging. Must be set before Run.
func (d *Dispatcher) Observe(fn func(Result)) {
	d.observe = fn
}

func (d *Dispatcher) timeout() time.Duration {
	if d.cfg.TimeoutMs > 0 {
		return time.Duration(d.cfg.TimeoutMs) * time.Millisecond
	}
	return defaultTimeout
}

// Run consumes events until ctx is cancelled, then waits for in-flight
// plugin processes to finish or hit their deadline.
func (d *Dispatcher) Run(ctx context.Context) error {
	var loops sync.WaitGroup
	subs := make([]*bus.Subscription, 0, len(d.cfg.Registry))
	for eventType, commands := range d.cfg.Registry {
		if len(commands) == 0 {
			continue
		}
		sub := d.bus.Subscribe(eventType)
		subs = append(subs, sub)
		loops.Add(1)
		go func(sub *bus.Subscription, commands []string) {
			defer loops.Done()
			d.consume(ctx, sub, commands)
		}(sub, commands)
	}

	<-ctx.Done()
	for _, sub := range subs {
		sub.Close()
	}
	loops.Wait()
	d.wg.Wait()
	return nil
}

func (d *Dispatcher) consume(ctx context.Context, sub *bus.Subscription, commands []string) {
	for {
		evt, err := sub.Next(ctx)
		if err != nil {
			return
		}
		for _, command := range commands {
			d.wg.Add(1)
			go func(command string, evt bus.Event) {
				defer d.wg.Done()
				d.report(invoke(context.WithoutCancel(ctx), command, evt, d.timeout()))
			}(command, evt)
		}
	}
}

func (d *Dispatcher) report(res Result) {
	ev := d.logger.Debug()
	if res.Err != nil {
		ev = d.logger.Warn().Err(res.Err)
	}
	ev.Str("eventType", res.EventType).
		Str("command", res.Command).
		Str("key", res.Key).
		Str("response", res.Response).
		Dur("elapsed", res.Elapsed).
		Msg("plugin invocation finished")
	if d.observe != nil {
		d.observe(res)
	}
}
