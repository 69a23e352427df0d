package customerror

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
)

type CustomError interface {
	Error() string
	GetHTTPCode() int
}

type UniqueViolationError struct {
	httpCode int
	message  string
}

func NewUniqueViolationError(msg string) *UniqueViolationError {
	return &UniqueViolationError{httpCode: http.StatusUnprocessableEntity, message: msg}
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation: %s", e.message)
}

func (e *UniqueViolationError) GetHTTPCode() int {
	return e.httpCode
}

type CommonPGError struct {
	httpCode int
	message  string
}

func NewCommonPGError(msg string) *CommonPGError {
	return &CommonPGError{httpCode: http.StatusInternalServerError, message: msg}
}

func (e *CommonPGError) Error() string {
	return e.message
}

func (e *CommonPGError) GetHTTPCode() int {
	return e.httpCode
}

// ValidationError carries per-field messages for a rejected request body.
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

func NewFieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

func (e *ValidationError) GetHTTPCode() int {
	return http.StatusBadRequest
}

type AuthenticationError struct {
	message string
}

func NewAuthenticationError(msg string) *AuthenticationError {
	return &AuthenticationError{message: msg}
}

func (e *AuthenticationError) Error() string {
	return e.message
}

func (e *AuthenticationError) GetHTTPCode() int {
	return http.StatusUnauthorized
}

type AuthorizationError struct {
	Role      string
	Operation string
}

func NewAuthorizationError(role, operation string) *AuthorizationError {
	return &AuthorizationError{Role: role, Operation: operation}
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %q is not allowed to %s", e.Role, e.Operation)
}

func (e *AuthorizationError) GetHTTPCode() int {
	return http.StatusForbidden
}

type NotFoundError struct {
	Entity string
	ID     string
}

func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

func (e *NotFoundError) GetHTTPCode() int {
	return http.StatusNotFound
}

// ConflictError covers requests that are well formed but clash with the
// current state of a resource: stale or expired quotes, paid orders.
type ConflictError struct {
	message string
}

func NewConflictError(msg string) *ConflictError {
	return &ConflictError{message: msg}
}

func (e *ConflictError) Error() string {
	return e.message
}

func (e *ConflictError) GetHTTPCode() int {
	return http.StatusConflict
}

type QuoteExpiredError struct {
	QuoteID string
}

func (e *QuoteExpiredError) Error() string {
	return fmt.Sprintf("quote %s has expired", e.QuoteID)
}

func (e *QuoteExpiredError) GetHTTPCode() int {
	return http.StatusConflict
}

// StaleQuoteError is returned when an order references a quote that has
// since been superseded by a newer one.
type StaleQuoteError struct {
	QuoteID  string
	LatestID string
}

func (e *StaleQuoteError) Error() string {
	return fmt.Sprintf("quote %s is not the latest quote (%s)", e.QuoteID, e.LatestID)
}

func (e *StaleQuoteError) GetHTTPCode() int {
	return http.StatusConflict
}
