// Package yaerrors provides a custom error type with additional functionality like
// error codes, wrapping, and unwrapping. It is designed to be used in applications
// where detailed error handling and tracing are required.
// The custom error type implements the standard error interface and provides
// additional methods for error handling and tracing.
// It allows for wrapping errors with additional context and retrieving the original
// error message.
package yaerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/pixelcanvas/pixels/internal/yalogger"
)

type Error interface {
	error
	Wrap(msg string) Error
	WrapWithLog(msg string, log yalogger.Logger) Error
	Code() int
	Error() string
	Unwrap() error
	UnwrapLastError() string
}

const (
	codeSeparate  = " | "
	errorSeparate = " -> "
)

// Minimal error implementation for Error interface.
type yaError struct {
	code      int
	cause     error
	traceback string
}

// FromError wraps an existing error with an HTTP status code and a message.
func FromError(code int, cause error, wrap string) Error {
	return &yaError{
		code:      code,
		cause:     cause,
		traceback: fmt.Sprintf("%s: %v", wrap, cause),
	}
}

// FromErrorWithLog wraps an existing error and logs the resulting message immediately.
func FromErrorWithLog(code int, cause error, wrap string, log yalogger.Logger) Error {
	msg := fmt.Sprintf("%s: %v", wrap, cause)
	log.Error(msg)

	return &yaError{
		code:      code,
		cause:     cause,
		traceback: msg,
	}
}

// FromString builds a new Error from a plain message with a custom code.
func FromString(code int, msg string) Error {
	return &yaError{
		code:      code,
		cause:     errors.New(msg), //nolint:err113
		traceback: msg,
	}
}

// FromStringWithLog builds a new Error from a plain message and logs it immediately.
func FromStringWithLog(code int, msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return &yaError{
		code:      code,
		cause:     errors.New(msg), //nolint:err113
		traceback: msg,
	}
}

func (e *yaError) Error() string {
	safetyCheck(&e)

	return fmt.Sprintf("%d%s%s", e.code, codeSeparate, e.traceback)
}

func (e *yaError) Unwrap() error {
	safetyCheck(&e)

	return e.cause
}

// UnwrapLastError returns the outermost traceback segment, i.e. the message
// of the most recent Wrap (or the original message if never wrapped).
func (e *yaError) UnwrapLastError() string {
	safetyCheck(&e)

	traceback := []byte(e.traceback)

	end := strings.Index(e.traceback, errorSeparate)
	if end == -1 {
		return e.traceback
	}

	return string(traceback[:end])
}

// Wrap adds a message to the error traceback, providing additional context.
// It is highly recommended to use this method each time the error is returned
// to a higher level in the call stack.
func (e *yaError) Wrap(msg string) Error {
	safetyCheck(&e)
	e.traceback = fmt.Sprintf("%s%s%s", msg, errorSeparate, e.traceback)

	return e
}

// WrapWithLog wraps the error and logs the resulting message immediately.
func (e *yaError) WrapWithLog(msg string, log yalogger.Logger) Error {
	log.Error(msg)

	return e.Wrap(msg)
}

func (e *yaError) Code() int {
	safetyCheck(&e)

	return e.code
}

// safetyCheck guards against a nil receiver by substituting a teapot error,
// since a nil *yaError would otherwise panic on any method call.
func safetyCheck(err **yaError) {
	if *err == nil {
		*err = &yaError{
			code:      http.StatusTeapot,
			cause:     ErrTeapot,
			traceback: ErrTeapot.Error(),
		}
	}
}
