package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrDishNameRequired     = errors.New("dish name is required")
	ErrDishCategoryRequired = errors.New("dish category is required")
	ErrNegativePrice        = errors.New("dish price must not be negative")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
)

// Dish is a sellable catalog item.
type Dish struct {
	ID          string
	Name        string
	NameAr      string
	Description string
	Price       decimal.Decimal
	Image       string
	Portions    []string
	IsAvailable bool
	IsPopular   bool
	Rating      float64
	Reviews     int
	CategoryID  string
	Category    *Category
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate enforces the invariants shared by create and update.
func (d *Dish) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.CategoryID = strings.TrimSpace(d.CategoryID)
	if d.Name == "" {
		return ErrDishNameRequired
	}
	if d.CategoryID == "" {
		return ErrDishCategoryRequired
	}
	if d.Price.IsNegative() {
		return ErrNegativePrice
	}
	d.Portions = NormalizePortions(d.Portions)
	return nil
}

// DishPatch carries a partial update; nil fields are left untouched.
type DishPatch struct {
	Name        *string
	NameAr      *string
	Description *string
	Price       *decimal.Decimal
	Image       *string
	Portions    []string
	SetPortions bool
	IsAvailable *bool
	IsPopular   *bool
	Rating      *float64
	Reviews     *int
	CategoryID  *string
}

// Apply copies the supplied fields onto the dish and re-validates it.
func (d *Dish) Apply(p DishPatch) error {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.NameAr != nil {
		d.NameAr = *p.NameAr
	}
	if p.Description != nil {
		d.Description = *p.Description
	}
	if p.Price != nil {
		d.Price = *p.Price
	}
	if p.Image != nil {
		d.Image = *p.Image
	}
	if p.SetPortions {
		d.Portions = p.Portions
	}
	if p.IsAvailable != nil {
		d.IsAvailable = *p.IsAvailable
	}
	if p.IsPopular != nil {
		d.IsPopular = *p.IsPopular
	}
	if p.Rating != nil {
		d.Rating = *p.Rating
	}
	if p.Reviews != nil {
		d.Reviews = *p.Reviews
	}
	if p.CategoryID != nil {
		d.CategoryID = *p.CategoryID
	}
	return d.Validate()
}

// RatingChange moves one review's score in a dish aggregate. A zero score
// means none: Added alone counts a new review, Removed alone drops one and
// both together replace a score that was already counted.
type RatingChange struct {
	Removed int
	Added   int
}

func validScore(score int) bool {
	return score == 0 || (score >= 1 && score <= 5)
}

// Validate rejects empty changes and scores outside 1..5.
func (c RatingChange) Validate() error {
	if c.Removed == 0 && c.Added == 0 {
		return ErrInvalidRating
	}
	if !validScore(c.Removed) || !validScore(c.Added) {
		return ErrInvalidRating
	}
	return nil
}

// AdjustRating applies the change to the running average. Removing from a
// dish without reviews leaves the aggregate untouched for that part.
func (d *Dish) AdjustRating(change RatingChange) error {
	if err := change.Validate(); err != nil {
		return err
	}
	total := d.Rating * float64(d.Reviews)
	count := d.Reviews
	if change.Removed != 0 && count > 0 {
		total -= float64(change.Removed)
		count--
	}
	if change.Added != 0 {
		total += float64(change.Added)
		count++
	}
	if count <= 0 {
		d.Rating, d.Reviews = 0, 0
		return nil
	}
	d.Reviews = count
	d.Rating = total / float64(count)
	return nil
}

// NormalizePortions trims labels and drops empty ones, keeping order.
func NormalizePortions(portions []string) []string {
	out := make([]string, 0, len(portions))
	for _, p := range portions {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitPortions accepts the comma separated form the back office submits.
func SplitPortions(raw string) []string {
	return NormalizePortions(strings.Split(raw, ","))
}

// SortOrder selects how dish listings are ordered.
type SortOrder string

const (
	SortPopular   SortOrder = ""
	SortPriceLow  SortOrder = "price-low"
	SortPriceHigh SortOrder = "price-high"
	SortRating    SortOrder = "rating"
)

// ParseSortOrder maps unknown values to the default popularity order.
func ParseSortOrder(raw string) SortOrder {
	switch SortOrder(strings.TrimSpace(raw)) {
	case SortPriceLow:
		return SortPriceLow
	case SortPriceHigh:
		return SortPriceHigh
	case SortRating:
		return SortRating
	default:
		return SortPopular
	}
}

// DishFilter narrows dish listings.
type DishFilter struct {
	CategorySlug string
	Search       string
	Sort         SortOrder
}

// MatchesSearch reports whether the dish name or description contains the search term.
// Category filtering is resolved by the caller.
func (f DishFilter) MatchesSearch(d *Dish) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(d.Name), term) ||
		strings.Contains(strings.ToLower(d.Description), term)
}
