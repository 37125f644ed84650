package errdef

import (
	"context"
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	CodeUnknown    Code = "unknown"
	CodeHTTP       Code = "http"
	CodeDecode     Code = "decode"
	CodeCanceled   Code = "canceled"
	CodeConfig     Code = "config"
	CodeFilesystem Code = "filesystem"
	CodeHistory    Code = "history"
	CodeQuery      Code = "query"
	CodeUI         Code = "ui"
)

type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return ""
	case e.Err != nil && e.Message != "":
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Wrap annotates an existing error with an error code and optional message,
// returning nil when the original error is nil.
func Wrap(code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := ""
	if format != "" {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: ensureCode(code), Message: msg, Err: err}
}

// New creates a formatted error with the supplied code.
func New(code Code, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &Error{Code: ensureCode(code), Message: msg}
}

// WrapContext wraps err with code unless ctx itself is done, in which case
// CodeCanceled is used. Transport timeouts that merely look like deadline
// errors keep code.
func WrapContext(ctx context.Context, code Code, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if IsContextErr(ctx, err) {
		code = CodeCanceled
	}
	return Wrap(code, err, format, args...)
}

// IsContextErr reports whether err happened while ctx was done. The error's
// own chain is not consulted: http.Client.Timeout failures match
// context.DeadlineExceeded without any caller having given up.
func IsContextErr(ctx context.Context, err error) bool {
	return err != nil && ctx != nil && ctx.Err() != nil
}

// CodeOf extracts the error code from the wrapped error value.
func CodeOf(err error) Code {
	var e *Error
	if stdErrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// Is reports whether the supplied error carries the target error code.
func Is(err error, code Code) bool {
	if err == nil {
		return false
	}
	var e *Error
	if stdErrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// Message returns the error string or empty when the error is nil.
func Message(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func ensureCode(code Code) Code {
	if code == "" {
		return CodeUnknown
	}
	return code
}
