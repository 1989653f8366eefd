package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

var (
	ErrNameRequired    = errors.New("contact name is required")
	ErrEmailRequired   = errors.New("contact email is required")
	ErrInvalidEmail    = errors.New("contact email is invalid")
	ErrMessageRequired = errors.New("message body is required")
)

// Message is a contact form submission.
type Message struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Subject   string
	Body      string
	IsRead    bool
	CreatedAt time.Time
}

// Validate trims the submission and checks required fields.
func (m *Message) Validate() error {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.Phone = strings.TrimSpace(m.Phone)
	m.Subject = strings.TrimSpace(m.Subject)
	m.Body = strings.TrimSpace(m.Body)
	switch {
	case m.Name == "":
		return ErrNameRequired
	case m.Email == "":
		return ErrEmailRequired
	case m.Body == "":
		return ErrMessageRequired
	}
	if _, err := mail.ParseAddress(m.Email); err != nil {
		return ErrInvalidEmail
	}
	return nil
}
