package errors

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for the command pipeline
const (
	// General errors
	ErrUnknown        ErrorCode = "UNKNOWN"
	ErrInternal       ErrorCode = "INTERNAL"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrAlreadyExists  ErrorCode = "ALREADY_EXISTS"
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// Invocation errors
	ErrConfig  ErrorCode = "CONFIG"
	ErrUsage   ErrorCode = "USAGE"
	ErrCommand ErrorCode = "COMMAND"
)

// kindNames is what users see in front of a reported error.
var kindNames = map[ErrorCode]string{
	ErrUnknown:        "Error",
	ErrInternal:       "InternalError",
	ErrInvalidInput:   "InvalidInput",
	ErrAlreadyExists:  "AlreadyExists",
	ErrNotFound:       "NotFound",
	ErrNotImplemented: "NotImplemented",
	ErrConfig:         "ConfigError",
	ErrUsage:          "UsageError",
	ErrCommand:        "CommandError",
}

// CommanderError represents a structured error with code and details
type CommanderError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CommanderError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CommanderError) Unwrap() error {
	return e.Wrapped
}

// Is matches any CommanderError carrying the same code
func (e *CommanderError) Is(target error) bool {
	var targetErr *CommanderError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CommanderError with the given code and message
func New(code ErrorCode, message string) *CommanderError {
	return &CommanderError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CommanderError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CommanderError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with a CommanderError. A nil err yields nil.
func Wrap(err error, code ErrorCode, message string) *CommanderError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CommanderError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *CommanderError) WithDetail(key string, value interface{}) *CommanderError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cmdErr *CommanderError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CommanderError
func GetErrorCode(err error) ErrorCode {
	var cmdErr *CommanderError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CommanderError
func GetErrorDetails(err error) map[string]interface{} {
	var cmdErr *CommanderError
	if errors.As(err, &cmdErr) {
		return cmdErr.Details
	}
	return nil
}

// KindName returns the user-facing kind of err, e.g. "ConfigError".
func KindName(err error) string {
	if name, ok := kindNames[GetErrorCode(err)]; ok {
		return name
	}
	return kindNames[ErrUnknown]
}

// Summary renders the message chain of err without code prefixes.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var parts []string
	for err != nil {
		var cmdErr *CommanderError
		if !errors.As(err, &cmdErr) {
			parts = append(parts, err.Error())
			break
		}
		if cmdErr.Message != "" {
			parts = append(parts, cmdErr.Message)
		}
		err = cmdErr.Wrapped
	}
	return strings.Join(parts, ": ")
}

// TracebackError carries an error that must reach the host unhandled,
// together with the stack at the point it was intercepted.
type TracebackError struct {
	Err   error
	Stack []byte
}

func (e *TracebackError) Error() string { return e.Err.Error() }

func (e *TracebackError) Unwrap() error { return e.Err }

// Traceback wraps err for propagation, capturing the current stack.
func Traceback(err error) *TracebackError {
	if err == nil {
		return nil
	}
	return &TracebackError{Err: err, Stack: debug.Stack()}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool { return errors.As(err, target) }
