package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jacobpatterson1549/tennis-scorer/server/log"
	"github.com/jacobpatterson1549/tennis-scorer/server/runner"
)

type (
	// Outbox buffers events and publishes them on a separate goroutine so games are not slowed by slow publishers.
	Outbox struct {
		OutboxConfig
		events chan Event
		runner runner.Runner
	}

	// OutboxConfig contains the settings of an Outbox.
	OutboxConfig struct {
		// Log is used to report dropped events and publish failures.
		Log log.Logger
		// Publisher receives the buffered events.
		Publisher Publisher
		// Size is the number of events that can be buffered before new events are dropped.
		Size int
		// FlushTimeout is how long buffered events can take to be published after the outbox is stopped.
		// The default flush timeout is used if it is zero.
		FlushTimeout time.Duration
	}
)

const defaultFlushTimeout = 5 * time.Second

// NewOutbox creates an Outbox from the config.
func (cfg OutboxConfig) NewOutbox() (*Outbox, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating outbox: validation: %w", err)
	}
	if cfg.FlushTimeout == 0 {
		cfg.FlushTimeout = defaultFlushTimeout
	}
	o := Outbox{
		OutboxConfig: cfg,
		events:       make(chan Event, cfg.Size),
		runner: runner.Runner{
			Name: "event outbox",
		},
	}
	return &o, nil
}

func (cfg OutboxConfig) validate() error {
	switch {
	case cfg.Log == nil:
		return fmt.Errorf("log required")
	case cfg.Publisher == nil:
		return fmt.Errorf("publisher required")
	case cfg.Size <= 0:
		return fmt.Errorf("positive size required")
	case cfg.FlushTimeout < 0:
		return fmt.Errorf("flush timeout cannot be negative")
	}
	return nil
}

// Publish adds the event to the buffer without blocking.  The event is dropped if the buffer is full.
func (o *Outbox) Publish(ctx context.Context, e Event) error {
	select {
	case o.events <- e:
	default:
		o.Log.Printf("event outbox full, dropping %v event for game %v", e.Type, e.GameID)
	}
	return nil
}

// Run publishes buffered events until the context is done.
// Events still in the buffer when the context is done are flushed before the WaitGroup is released.
func (o *Outbox) Run(ctx context.Context, wg *sync.WaitGroup) error {
	if err := o.runner.Start(); err != nil {
		return fmt.Errorf("running outbox: %w", err)
	}
	wg.Add(1)
	go o.runSync(ctx, wg)
	return nil
}

func (o *Outbox) runSync(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer o.runner.Stop()
	for {
		select {
		case <-ctx.Done():
			o.flush(ctx)
			return
		case e := <-o.events:
			o.publish(ctx, e)
		}
	}
}

// flush publishes the buffered events with a new context that times out after the flush timeout.
// Events still buffered when the timeout passes are dropped.
func (o *Outbox) flush(ctx context.Context) {
	ctx, cancelFunc := context.WithTimeout(context.WithoutCancel(ctx), o.FlushTimeout)
	defer cancelFunc()
	for {
		if err := ctx.Err(); err != nil {
			o.Log.Printf("event outbox flush stopped with %v events buffered: %v", len(o.events), err)
			return
		}
		select {
		case e := <-o.events:
			o.publish(ctx, e)
		default:
			return
		}
	}
}

func (o *Outbox) publish(ctx context.Context, e Event) {
	if err := o.Publisher.Publish(ctx, e); err != nil {
		o.Log.Printf("publishing buffered %v event for game %v: %v", e.Type, e.GameID, err)
	}
}
