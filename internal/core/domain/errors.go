package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a client-visible error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "MKV-CMD-4001")
	Message string // Human-readable message
	Details string // Optional additional details
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Is matches any DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Command Errors (CMD)
// ============================================================================

var (
	// ErrEmptyCommand indicates a request array with no elements.
	ErrEmptyCommand = NewDomainError("MKV-CMD-4000", "empty command")

	// ErrUnknownCommand indicates a command name outside the supported set.
	ErrUnknownCommand = NewDomainError("MKV-CMD-4001", "unknown command")

	// ErrWrongArity indicates the wrong number of arguments for a known command.
	ErrWrongArity = NewDomainError("MKV-CMD-4002", "wrong number of arguments")

	// ErrInvalidRequest indicates a request frame that is not an array of strings.
	ErrInvalidRequest = NewDomainError("MKV-CMD-4003", "invalid request")
)

// ============================================================================
// Connection Errors (CONN, RATE)
// ============================================================================

var (
	// ErrRateLimited indicates the connection exceeded its command rate.
	ErrRateLimited = NewDomainError("MKV-RATE-4290", "rate limit exceeded")

	// ErrTooManyClients indicates the server is at its connection limit.
	ErrTooManyClients = NewDomainError("MKV-CONN-5030", "max number of clients reached")

	// ErrProtocolLimit indicates a frame exceeded the protocol limits.
	ErrProtocolLimit = NewDomainError("MKV-CONN-4130", "protocol limit exceeded")
)

// ============================================================================
// System Errors (SYS)
// ============================================================================

var (
	// ErrInternal indicates an unexpected server-side failure.
	ErrInternal = NewDomainError("MKV-SYS-5000", "internal server error")
)
