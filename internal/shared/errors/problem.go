// Package errors provides RFC 7807 Problem Details for HTTP APIs.
package errors

import (
	"fmt"
	"net/http"
)

// ProblemDetail represents an RFC 7807 Problem Details response.
// See: https://www.rfc-editor.org/rfc/rfc7807
//
// Message is serialized as the "error" member so storefront clients that only
// read {error: "..."} keep working.
type ProblemDetail struct {
	Type       string         `json:"type"`
	Title      string         `json:"title"`
	Status     int            `json:"status"`
	Message    string         `json:"error"`
	Detail     string         `json:"detail,omitempty"`
	Instance   string         `json:"instance,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// Error implements the error interface.
func (p ProblemDetail) Error() string {
	if p.Detail != "" {
		return fmt.Sprintf("%s: %s", p.Title, p.Detail)
	}
	return p.Title
}

// WithMessage returns a copy carrying the user-facing message.
func (p ProblemDetail) WithMessage(message string) ProblemDetail {
	p.Message = message
	return p
}

// WithDetail returns a copy with the given detail message.
func (p ProblemDetail) WithDetail(detail string) ProblemDetail {
	p.Detail = detail
	return p
}

// WithInstance returns a copy with the given instance URI.
func (p ProblemDetail) WithInstance(instance string) ProblemDetail {
	p.Instance = instance
	return p
}

// WithExtension returns a copy with an additional extension property.
func (p ProblemDetail) WithExtension(key string, value any) ProblemDetail {
	if p.Extensions == nil {
		p.Extensions = make(map[string]any)
	}
	p.Extensions[key] = value
	return p
}

// Common problem types as URI references.
const (
	TypeValidation   = "/problems/validation-error"
	TypeNotFound     = "/problems/not-found"
	TypeConflict     = "/problems/conflict"
	TypeInternal     = "/problems/internal-error"
	TypeUnauthorized = "/problems/unauthorized"
	TypeBadRequest   = "/problems/bad-request"
	TypeRateLimited  = "/problems/rate-limited"
)

// Pre-defined problem templates. Messages default to French because that is
// what the storefront and back office display verbatim.
var (
	ErrNotFound = ProblemDetail{
		Type:    TypeNotFound,
		Title:   "Resource Not Found",
		Status:  http.StatusNotFound,
		Message: "Ressource introuvable",
	}

	ErrValidation = ProblemDetail{
		Type:    TypeValidation,
		Title:   "Validation Error",
		Status:  http.StatusBadRequest,
		Message: "Données invalides",
	}

	ErrBadRequest = ProblemDetail{
		Type:    TypeBadRequest,
		Title:   "Bad Request",
		Status:  http.StatusBadRequest,
		Message: "Requête invalide",
	}

	ErrConflict = ProblemDetail{
		Type:    TypeConflict,
		Title:   "Conflict",
		Status:  http.StatusConflict,
		Message: "Conflit avec l'état actuel",
	}

	// ErrInternal never carries the underlying error; callers log it instead.
	ErrInternal = ProblemDetail{
		Type:    TypeInternal,
		Title:   "Internal Server Error",
		Status:  http.StatusInternalServerError,
		Message: "Une erreur est survenue, veuillez réessayer",
	}

	ErrUnauthorized = ProblemDetail{
		Type:    TypeUnauthorized,
		Title:   "Unauthorized",
		Status:  http.StatusUnauthorized,
		Message: "Authentification requise",
	}

	ErrTooManyRequests = ProblemDetail{
		Type:    TypeRateLimited,
		Title:   "Too Many Requests",
		Status:  http.StatusTooManyRequests,
		Message: "Trop de requêtes, veuillez patienter",
	}
)

// NewValidationProblem creates a validation error with field-level details.
func NewValidationProblem(message string, fieldErrors map[string]string) ProblemDetail {
	problem := ErrValidation.WithMessage(message)
	if len(fieldErrors) > 0 {
		problem = problem.WithExtension("fields", fieldErrors)
	}
	return problem
}

// NewNotFoundProblem creates a not found error for a specific resource.
func NewNotFoundProblem(message, resourceType string, identifier any) ProblemDetail {
	return ErrNotFound.
		WithMessage(message).
		WithDetail(fmt.Sprintf("%s with identifier '%v' not found", resourceType, identifier)).
		WithExtension("resourceType", resourceType).
		WithExtension("identifier", identifier)
}
