package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"edadash/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context. The code of an inner AppError
// is kept; otherwise the code is derived from the domain error kind.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    GetCode(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// WithCode adds an error code to an existing error
func WithCode(code string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    code,
			Message: appErr.Message,
			Cause:   appErr.Cause,
		}
	}
	return &AppError{
		Code:    code,
		Message: err.Error(),
		Cause:   err,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetCode returns the code of the outermost AppError, or maps a domain error
// kind to its code. Anything else is INTERNAL_ERROR.
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	switch {
	case core.IsInvalidInput(err):
		return CodeInvalidInput
	case core.IsResourceUnavailable(err):
		return CodeResourceUnavailable
	case core.IsReportGenerationFailed(err):
		return CodeReportFailed
	case core.IsNotFoundError(err):
		return CodeNotFound
	}
	return CodeInternalError
}

// Predefined error codes
const (
	CodeConfigInvalid       = "CONFIG_INVALID"
	CodeDatabaseError       = "DATABASE_ERROR"
	CodeNotFound            = "NOT_FOUND"
	CodeInternalError       = "INTERNAL_ERROR"
	CodeInvalidInput        = "INVALID_INPUT"
	CodeResourceUnavailable = "RESOURCE_UNAVAILABLE"
	CodeReportFailed        = "REPORT_FAILED"
	CodeUploadTooLarge      = "UPLOAD_TOO_LARGE"
)

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func DatabaseError(message string, cause error) *AppError {
	return &AppError{Code: CodeDatabaseError, Message: message, Cause: cause}
}

func NotFound(resource string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func UploadTooLarge(limitMB int) *AppError {
	return New(CodeUploadTooLarge, fmt.Sprintf("file exceeds the %d MB upload limit", limitMB))
}

// HTTPStatus maps an error to the status code the dashboard responds with
func HTTPStatus(err error) int {
	switch GetCode(err) {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	case CodeNotFound:
		return http.StatusNotFound
	case CodeResourceUnavailable:
		return http.StatusServiceUnavailable
	case CodeReportFailed:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// UserGuidance returns the hint shown under the error banner
func UserGuidance(err error) string {
	switch GetCode(err) {
	case CodeInvalidInput:
		return "Please make sure your file is a valid CSV or Excel (.xlsx) file with a header row."
	case CodeUploadTooLarge:
		return "Try a smaller extract of the dataset."
	case CodeNotFound:
		return "The report may have been cleaned up. Generate it again."
	case CodeResourceUnavailable:
		return "No local port could be reserved for the viewer. Try launching it again."
	case CodeReportFailed:
		return "The analysis could not be completed for this data. Check the selected target column and column types."
	}
	return "An unexpected error occurred."
}
