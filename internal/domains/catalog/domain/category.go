package domain

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	ErrCategoryNameRequired = errors.New("category name is required")
	ErrInvalidSlug          = errors.New("category slug must contain letters or digits")
)

// Category groups dishes in the catalog. Dishes reference categories; a
// category never owns its dishes.
type Category struct {
	ID        string
	Name      string
	NameAr    string
	Slug      string
	DishCount int64
}

// Validate trims fields and derives the slug from the name when absent.
func (c *Category) Validate() error {
	c.Name = strings.TrimSpace(c.Name)
	c.NameAr = strings.TrimSpace(c.NameAr)
	if c.Name == "" {
		return ErrCategoryNameRequired
	}
	source := c.Slug
	if strings.TrimSpace(source) == "" {
		source = c.Name
	}
	c.Slug = Slugify(source)
	if c.Slug == "" {
		return ErrInvalidSlug
	}
	return nil
}

// Slugify lower-cases, strips accents and joins words with hyphens:
// "Salades & Entrées" becomes "salades-entrees".
func Slugify(value string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range norm.NFD.String(strings.ToLower(value)) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
		default:
			pendingDash = true
		}
	}
	return b.String()
}
