package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Status is the position of an order in its delivery lifecycle.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusPreparing  Status = "PREPARING"
	StatusDelivering Status = "DELIVERING"
	StatusDelivered  Status = "DELIVERED"
)

var (
	ErrInvalidStatus     = errors.New("order status is invalid")
	ErrInvalidTransition = errors.New("order status transition is not allowed")
)

// lifecycle lists the states in the only order they may be visited.
var lifecycle = []Status{StatusPending, StatusConfirmed, StatusPreparing, StatusDelivering, StatusDelivered}

// Statuses returns the lifecycle in order.
func Statuses() []Status {
	return append([]Status(nil), lifecycle...)
}

// ParseStatus accepts any casing and surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if candidate.rank() < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
	}
	return candidate, nil
}

func (s Status) rank() int {
	for i, known := range lifecycle {
		if s == known {
			return i
		}
	}
	return -1
}

// Valid reports whether s is one of the lifecycle states.
func (s Status) Valid() bool { return s.rank() >= 0 }

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool { return s == StatusDelivered }

// CanTransitionTo allows any forward move, including skipping steps.
// Staying in the same state is allowed and treated as a no-op by callers.
func (s Status) CanTransitionTo(next Status) bool {
	from, to := s.rank(), next.rank()
	if from < 0 || to < 0 {
		return false
	}
	return to >= from
}

// Next returns the single step the delivery crew may take from s.
func (s Status) Next() (Status, bool) {
	switch s {
	case StatusPreparing:
		return StatusDelivering, true
	case StatusDelivering:
		return StatusDelivered, true
	default:
		return "", false
	}
}

// InDeliveryQueue reports whether the delivery crew sees the order.
func (s Status) InDeliveryQueue() bool {
	return s == StatusPreparing || s == StatusDelivering
}

// TransitionError describes a rejected status change.
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
