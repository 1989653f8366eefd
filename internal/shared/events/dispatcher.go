package events

import (
	"context"
	"errors"
	"sync"
)

// Handler reacts to one delivered event.
type Handler func(ctx context.Context, event Event) error

// Dispatcher delivers events to in-process handlers registered per type.
// It stands in for the broker when none is configured, so consumers such as
// the rating aggregator still run.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{handlers: map[Type][]Handler{}}
}

// Subscribe registers h for events of type t.
func (d *Dispatcher) Subscribe(t Type, h Handler) {
	if h == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[t] = append(d.handlers[t], h)
}

// Publish runs every handler for the event type synchronously and joins their errors.
func (d *Dispatcher) Publish(ctx context.Context, event Event) error {
	d.mu.RLock()
	handlers := append([]Handler(nil), d.handlers[event.Type]...)
	d.mu.RUnlock()
	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Fanout publishes to each publisher in turn.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, event Event) error {
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
