package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultFirstName is used when an order arrives without a first name.
const DefaultFirstName = "Client"

// guestEmailDomain marks placeholder addresses generated for anonymous orders.
const guestEmailDomain = "guest.local"

var (
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrEmailRequired = errors.New("email is required")
)

// Customer is a person who placed an order or registered explicitly.
type Customer struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Contact carries the profile fields a caller submits with an order or a
// registration. Empty fields mean "not supplied".
type Contact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// Normalize trims every field and lower-cases the email.
func (c Contact) Normalize() Contact {
	return Contact{
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		Phone:     strings.TrimSpace(c.Phone),
		Address:   strings.TrimSpace(c.Address),
	}
}

// ValidateEmail accepts an empty email; a supplied one must look like an address.
func (c Contact) ValidateEmail() error {
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	return nil
}

// NewCustomer builds a customer from a contact, applying defaults for
// missing fields.
func NewCustomer(contact Contact) (*Customer, error) {
	contact = contact.Normalize()
	if contact.Email == "" {
		return nil, ErrEmailRequired
	}
	if err := contact.ValidateEmail(); err != nil {
		return nil, err
	}
	firstName := contact.FirstName
	if firstName == "" {
		firstName = DefaultFirstName
	}
	return &Customer{
		FirstName: firstName,
		LastName:  contact.LastName,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Address:   contact.Address,
	}, nil
}

// Merge folds newly supplied non-empty fields into the stored record.
// The email is the identity and never changes.
func (c *Customer) Merge(update Contact) {
	update = update.Normalize()
	if update.FirstName != "" {
		c.FirstName = update.FirstName
	}
	if update.LastName != "" {
		c.LastName = update.LastName
	}
	if update.Phone != "" {
		c.Phone = update.Phone
	}
	if update.Address != "" {
		c.Address = update.Address
	}
}

// GuestEmail returns a fresh placeholder address. Two guests never share one,
// so anonymous orders are never merged into the same customer.
func GuestEmail() string {
	return "guest_" + uuid.NewString() + "@" + guestEmailDomain
}

// IsGuest reports whether the customer was created from an anonymous order.
func (c *Customer) IsGuest() bool {
	return strings.HasSuffix(c.Email, "@"+guestEmailDomain)
}

// FullName joins first and last name.
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}
