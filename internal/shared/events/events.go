// Package events defines the integration events emitted after orders and
// reviews change, and the publisher port adapters implement.
package events

import (
	"context"
	"sync"
	"time"
)

// Type names an integration event.
type Type string

const (
	OrderPlaced        Type = "order.placed"
	OrderStatusChanged Type = "order.status_changed"
	ReviewSubmitted    Type = "review.submitted"
	ReviewApproved     Type = "review.approved"
	ReviewRetracted    Type = "review.retracted"
)

// Event is the JSON envelope written to the event stream. ReplacedRating is
// the score an approval supersedes in dish ratings.
type Event struct {
	Type           Type      `json:"type"`
	OrderID        string    `json:"orderId,omitempty"`
	Status         string    `json:"status,omitempty"`
	PrevStatus     string    `json:"previousStatus,omitempty"`
	ReviewID       string    `json:"reviewId,omitempty"`
	Rating         int       `json:"rating,omitempty"`
	ReplacedRating int       `json:"replacedRating,omitempty"`
	DishIDs        []string  `json:"dishIds,omitempty"`
	Total          string    `json:"total,omitempty"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Key returns the partition key: the aggregate the event belongs to.
func (e Event) Key() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.ReviewID
}

// Publisher delivers events to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards every event. Used when no broker is configured.
var Noop Publisher = noopPublisher{}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, Event) error { return nil }

// Recorder keeps published events in memory; handy in tests.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Publish(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

// OfType filters the recorded events.
func (r *Recorder) OfType(t Type) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
