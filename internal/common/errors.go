package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Error codes carried by AppError.
const (
	CodeUnreadableSource = "UNREADABLE_SOURCE"
	CodeConfig           = "CONFIG_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeExport           = "EXPORT_ERROR"
)

// Common application errors
var (
	ErrUnreadableSource = errors.New("unreadable source")
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("resource not found")
	ErrExport           = errors.New("export failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UnreadableSourceError reports a document the PDF layer could not open or
// that has no pages. It matches both ErrUnreadableSource and cause.
func UnreadableSourceError(name string, cause error) *AppError {
	return NewAppError(CodeUnreadableSource, name, errors.Join(ErrUnreadableSource, cause))
}

func InvalidInputErrorf(format string, args ...any) *AppError {
	return NewAppError(CodeInvalidInput, fmt.Sprintf(format, args...), ErrInvalidInput)
}

func ExportError(message string, cause error) *AppError {
	return NewAppError(CodeExport, message, errors.Join(ErrExport, cause))
}

// IsUnreadableSource reports whether err marks an unreadable input document.
func IsUnreadableSource(err error) bool {
	return errors.Is(err, ErrUnreadableSource)
}
