package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	// Kinds surfaced by the fetch layer
	ErrorTypeRemote            ErrorType = "remote"
	ErrorTypeProgramming       ErrorType = "programming"
	ErrorTypeInvalidInstrument ErrorType = "invalid_instrument"

	// Transport kinds, wrapped as remote by the mission capability
	ErrorTypeNetwork     ErrorType = "network"
	ErrorTypeRateLimit   ErrorType = "rate_limit"
	ErrorTypeParsing     ErrorType = "parsing"
	ErrorTypeNotFound    ErrorType = "not_found"
	ErrorTypeServerError ErrorType = "server_error"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// ErrSkippingFile reports that a fetch found nothing new to download.
// It is informational and not a failure.
var ErrSkippingFile = stderrors.New("skipping file: nothing new to download")

// Error represents a fetch error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, msg)
	}
	return fmt.Sprintf("%s error: %s", e.Type, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Remote wraps a transport or decode failure from the catalog endpoint.
// An error that is already remote is returned unchanged.
func Remote(err error) error {
	if err == nil {
		return nil
	}
	if IsType(err, ErrorTypeRemote) {
		return err
	}
	return &Error{Type: ErrorTypeRemote, Err: err}
}

// Programming reports a violated internal invariant.
func Programming(format string, args ...any) error {
	return &Error{Type: ErrorTypeProgramming, Message: fmt.Sprintf(format, args...)}
}

// InvalidInstrument reports an instrument code missing from the mission's map.
func InvalidInstrument(code string) error {
	return &Error{Type: ErrorTypeInvalidInstrument, Message: fmt.Sprintf("invalid camera instrument %q", code)}
}

// IsType reports whether any error in err's chain is an *Error of type t.
func IsType(err error, t ErrorType) bool {
	var e *Error
	for err != nil {
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Type == t {
			return true
		}
		err = e.Err
	}
	return false
}

// IsStatusError checks if an HTTP status code should be reported as a failure
func IsStatusError(statusCode int) bool {
	return statusCode < 200 || statusCode >= 300
}

// TypeForStatus maps an HTTP status code to an error type
func TypeForStatus(statusCode int) ErrorType {
	switch {
	case statusCode == 0:
		return ErrorTypeNetwork
	case statusCode == 429:
		return ErrorTypeRateLimit
	case statusCode == 404:
		return ErrorTypeNotFound
	case statusCode >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}
