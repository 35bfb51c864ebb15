package chatsite

import (
	"errors"
	"fmt"
)

// Application error codes.
// Transport layers map these to protocol-specific statuses.
const (
	EINVALID     = "invalid"     // validation failed or required input missing
	ENOTFOUND    = "not_found"   // entity does not exist
	EUNAVAILABLE = "unavailable" // a required provider is not configured
	EUPSTREAM    = "upstream"    // an external provider returned an error
	EINTERNAL    = "internal"    // internal error
)

// Error represents an application error. Errors carry a machine-readable
// code and a human-readable message.
type Error struct {
	// Machine-readable error code.
	Code string

	// Human-readable error message.
	Message string
}

// Error implements the error interface. Not used by the application
// otherwise; messages for end users come from ErrorMessage.
func (e *Error) Error() string {
	return fmt.Sprintf("chatsite error: code=%s message=%s", e.Code, e.Message)
}

// ErrorCode unwraps an application error and returns its code.
// Non-application errors always return EINTERNAL.
func ErrorCode(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Code
	}
	return EINTERNAL
}

// ErrorMessage unwraps an application error and returns its message.
// Non-application errors always return "Internal error.".
func ErrorMessage(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return "Internal error."
}

// Errorf is a helper function to return an Error with a given code and
// formatted message.
func Errorf(code string, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}
