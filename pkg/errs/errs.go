package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable codes surfaced as the GraphQL `code` extension.
const (
	CodeBadRequest          = "BAD_REQUEST"
	CodeValidation          = "VALIDATION_ERROR"
	CodeUnauthorized        = "UNAUTHENTICATED"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeForbidden           = "FORBIDDEN"
	CodeNotFound            = "NOT_FOUND"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeConflict            = "CONFLICT"
	CodeTooManyRequests     = "TOO_MANY_REQUESTS"
	CodeInternal            = "INTERNAL_SERVER_ERROR"
	CodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	CodeRecordNotFound      = "RECORD_NOT_FOUND"
	CodeUniqueViolation     = "UNIQUE_CONSTRAINT_VIOLATION"
	CodeForeignKeyViolation = "FOREIGN_KEY_CONSTRAINT_FAILED"
	CodeNullViolation       = "NULL_CONSTRAINT_VIOLATION"
	CodeCheckViolation      = "CHECK_CONSTRAINT_FAILED"
	CodeValueTooLong        = "VALUE_TOO_LONG"
	CodeValueOutOfRange     = "VALUE_OUT_OF_RANGE"
	CodeInvalidValue        = "INVALID_VALUE"
	CodeTableNotFound       = "TABLE_NOT_FOUND"
	CodeColumnNotFound      = "COLUMN_NOT_FOUND"
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeTransactionConflict = "TRANSACTION_CONFLICT"
	CodeTransactionFailed   = "TRANSACTION_FAILED"
	CodeOperationTimeout    = "OPERATION_TIMEOUT"
	CodeDatabaseAuthFailed  = "DATABASE_AUTH_FAILED"
	CodeDatabaseUnreachable = "DATABASE_UNREACHABLE"
	CodeDatabaseTimeout     = "DATABASE_TIMEOUT"
	CodeDatabaseNotFound    = "DATABASE_NOT_FOUND"
	CodePoolTimeout         = "CONNECTION_POOL_TIMEOUT"
	CodeUnknownDatabase     = "UNKNOWN_DATABASE_ERROR"
)

// AppError is the single error type that crosses the API boundary.
type AppError struct {
	StatusCode int
	Code       string
	Message    string
	Field      string // offending input or column, when known
	Cause      error  // kept for logs, never rendered to clients
}

func New(statusCode int, code, message string) *AppError {
	return &AppError{StatusCode: statusCode, Code: code, Message: message}
}

func (e *AppError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (field: %s)", e.Message, e.Field)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Extensions satisfies graphql-go's ExtendedError so the code travels with the GraphQL error.
func (e *AppError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{
		"code":       e.Code,
		"statusCode": e.StatusCode,
	}
	if e.Field != "" {
		ext["field"] = e.Field
	}
	return ext
}

// WithField returns a copy carrying the offending field name.
func (e *AppError) WithField(field string) *AppError {
	cp := *e
	cp.Field = field
	return &cp
}

// WithCause returns a copy wrapping the underlying error.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, CodeBadRequest, message)
}

func Validation(field, message string) *AppError {
	return &AppError{StatusCode: http.StatusBadRequest, Code: CodeValidation, Message: message, Field: field}
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, CodeUnauthorized, message)
}

func InvalidCredentials() *AppError {
	return New(http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password")
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, CodeForbidden, message)
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, CodeNotFound, message)
}

func MethodNotAllowed(message string) *AppError {
	return New(http.StatusMethodNotAllowed, CodeMethodNotAllowed, message)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, CodeConflict, message)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, CodeTooManyRequests, message)
}

func Internal(message string, cause error) *AppError {
	return &AppError{StatusCode: http.StatusInternalServerError, Code: CodeInternal, Message: message, Cause: cause}
}

func ServiceUnavailable(message string, cause error) *AppError {
	return &AppError{StatusCode: http.StatusServiceUnavailable, Code: CodeServiceUnavailable, Message: message, Cause: cause}
}

// As extracts an *AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func statusOf(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return 0
}

func IsBadRequest(err error) bool {
	return statusOf(err) == http.StatusBadRequest
}

func IsUnauthorized(err error) bool {
	return statusOf(err) == http.StatusUnauthorized
}

func IsForbidden(err error) bool {
	return statusOf(err) == http.StatusForbidden
}

func IsNotFound(err error) bool {
	return statusOf(err) == http.StatusNotFound
}

func IsConflict(err error) bool {
	return statusOf(err) == http.StatusConflict
}

func IsUnavailable(err error) bool {
	return statusOf(err) == http.StatusServiceUnavailable
}

// Resolve converts any error into an *AppError exactly once. Errors that are
// already classified pass through; everything else goes through the database
// mapping, which falls back to a generic 500.
func Resolve(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return FromDatabase(err)
}
