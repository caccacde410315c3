package types

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrCodeNetworkFailure  ErrorCode = "NETWORK_FAILURE"
	ErrCodeEmptyResult     ErrorCode = "EMPTY_RESULT"
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
)

// Error carries a code that callers match with errors.Is against the
// sentinels below.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

var (
	ErrNetworkFailure  = &Error{Code: ErrCodeNetworkFailure, Message: "network failure"}
	ErrEmptyResult     = &Error{Code: ErrCodeEmptyResult, Message: "no results"}
	ErrInvalidArgument = &Error{Code: ErrCodeInvalidArgument, Message: "invalid argument"}
)

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func InvalidArgument(format string, args ...any) error {
	return &Error{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf(format, args...)}
}

// NetworkFailure wraps a transport or remote failure with the message shown to users.
func NetworkFailure(message string, err error) error {
	return &Error{Code: ErrCodeNetworkFailure, Message: message, Err: err}
}

func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// MessageOf returns the user facing message of a coded error, or err.Error().
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// ErrRemoteUnsuccessful marks a response the remote flagged as unsuccessful,
// as opposed to a transport failure.
var ErrRemoteUnsuccessful = errors.New("remote reported an unsuccessful search")
