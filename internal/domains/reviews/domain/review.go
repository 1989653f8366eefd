package domain

import (
	"errors"
	"strings"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

var (
	ErrOrderRequired  = errors.New("review requires an order")
	ErrRatingRequired = errors.New("review rating is required")
	ErrInvalidRating  = errors.New("review rating must be between 1 and 5")
)

// Review is customer feedback on one order, shown publicly once approved.
// AppliedRating is the score currently counted in dish ratings: 0 until the
// review is first approved, and unchanged by edits until they are approved.
type Review struct {
	ID            string
	OrderID       string
	CustomerName  string
	CustomerCity  string
	Rating        int
	Comment       string
	IsApproved    bool
	AppliedRating int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Approval is the outcome of approving a review. Changed is false when the
// review was already approved; Replaced is the score an earlier approval
// counted, 0 when none.
type Approval struct {
	Review   *Review
	Changed  bool
	Replaced int
}

// Submission is a review as posted by a customer. A nil rating means the
// field was missing or unparseable.
type Submission struct {
	OrderID      string
	CustomerName string
	CustomerCity string
	Rating       *int
	Comment      string
}

// Validate checks the submission and trims its text fields.
func (s *Submission) Validate() error {
	s.OrderID = strings.TrimSpace(s.OrderID)
	s.CustomerName = strings.TrimSpace(s.CustomerName)
	s.CustomerCity = strings.TrimSpace(s.CustomerCity)
	s.Comment = strings.TrimSpace(s.Comment)
	if s.OrderID == "" {
		return ErrOrderRequired
	}
	if s.Rating == nil {
		return ErrRatingRequired
	}
	if *s.Rating < MinRating || *s.Rating > MaxRating {
		return ErrInvalidRating
	}
	return nil
}

// Replace overwrites the review with a new submission. Any edit needs to be
// moderated again.
func (r *Review) Replace(s Submission) {
	r.OrderID = s.OrderID
	r.CustomerName = s.CustomerName
	r.CustomerCity = s.CustomerCity
	r.Rating = *s.Rating
	r.Comment = s.Comment
	r.IsApproved = false
}

// NewReview builds an unapproved review from a validated submission.
func NewReview(s Submission) *Review {
	r := &Review{}
	r.Replace(s)
	return r
}
