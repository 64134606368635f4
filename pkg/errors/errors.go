package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork      ErrorType = "network"
	ErrorTypeThrottling   ErrorType = "throttling"
	ErrorTypeAuth         ErrorType = "auth"
	ErrorTypeInvalidInput ErrorType = "invalid_input"
	ErrorTypeParsing      ErrorType = "parsing"
	ErrorTypeNotFound     ErrorType = "not_found"
	ErrorTypeServerError  ErrorType = "server_error"
	ErrorTypeUnknown      ErrorType = "unknown"
)

// Error represents a collaborator failure with type information
type Error struct {
	Type    ErrorType
	Message string
	// Code is the remote error code (e.g. ThrottlingException), empty for local errors
	Code string
	Err  error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s error", e.Type)
	if e.Code != "" {
		msg += fmt.Sprintf(" (%s)", e.Code)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error
func New(t ErrorType, message string, err error) *Error {
	return &Error{Type: t, Message: message, Err: err}
}

// IsRetryable checks if an error type should be retried
func IsRetryable(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeNetwork, ErrorTypeThrottling, ErrorTypeServerError:
		return true
	case ErrorTypeAuth, ErrorTypeNotFound, ErrorTypeParsing, ErrorTypeInvalidInput:
		return false
	default:
		return false
	}
}

// TypeOf returns the type of the first *Error in err's chain, or ErrorTypeUnknown
func TypeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeUnknown
}

// FetchError is returned when a page could not be fetched after all retries.
// It aborts the whole invoice run.
type FetchError struct {
	Page     int
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("fetch page %d failed after %d attempt(s): %v", e.Page, e.Attempts, e.Err)
	}
	return fmt.Sprintf("fetch page %d failed: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err carries a *FetchError
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// WarningType classifies recoverable problems that are logged but never returned
type WarningType string

const (
	WarningFieldExtraction WarningType = "field_extraction"
	WarningDateParse       WarningType = "date_parse"
	WarningPostExtraction  WarningType = "post_extraction"
)

// Warning describes a recoverable extraction problem
type Warning struct {
	Type WarningType
	// Page is the 1-based page number, 0 when not page-scoped
	Page int
	// Subject identifies what failed: a block id, a field name, a raw date string
	Subject string
	Message string
}

func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("%s warning on page %d (%s): %s", w.Type, w.Page, w.Subject, w.Message)
	}
	return fmt.Sprintf("%s warning (%s): %s", w.Type, w.Subject, w.Message)
}

// Fields renders the warning as structured log fields
func (w Warning) Fields() map[string]interface{} {
	fields := map[string]interface{}{
		"warning": string(w.Type),
		"subject": w.Subject,
		"message": w.Message,
	}
	if w.Page > 0 {
		fields["page_number"] = w.Page
	}
	return fields
}
