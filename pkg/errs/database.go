package errs

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"net/http"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type sqlState struct {
	status  int
	code    string
	message string
}

// SQLSTATE classes and codes the API knows how to explain. Anything else is
// reported as an unknown database error with the code embedded.
var sqlStates = map[string]sqlState{
	"28000": {http.StatusServiceUnavailable, CodeDatabaseAuthFailed, "Authentication failed against the database server"},
	"28P01": {http.StatusServiceUnavailable, CodeDatabaseAuthFailed, "Authentication failed against the database server"},
	"3D000": {http.StatusServiceUnavailable, CodeDatabaseNotFound, "Database does not exist on the database server"},
	"08000": {http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Cannot reach the database server"},
	"08001": {http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Cannot reach the database server"},
	"08003": {http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Database connection does not exist"},
	"08004": {http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Database server rejected the connection"},
	"08006": {http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Database connection failure"},
	"08P01": {http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Database protocol violation"},
	"57P01": {http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Database server is shutting down"},
	"57P02": {http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Database server is shutting down"},
	"57P03": {http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Database server is not accepting connections"},
	"53300": {http.StatusServiceUnavailable, CodePoolTimeout, "Too many connections to the database server"},
	"57014": {http.StatusRequestTimeout, CodeOperationTimeout, "Database operation timed out"},
	"55P03": {http.StatusConflict, CodeTransactionConflict, "Could not obtain a lock on the requested rows"},
	"40001": {http.StatusConflict, CodeTransactionConflict, "Transaction failed due to a write conflict or a deadlock, please retry"},
	"40P01": {http.StatusConflict, CodeTransactionConflict, "Transaction failed due to a write conflict or a deadlock, please retry"},
	"23503": {http.StatusBadRequest, CodeForeignKeyViolation, "Foreign key constraint failed"},
	"23502": {http.StatusBadRequest, CodeNullViolation, "Null constraint violation"},
	"23514": {http.StatusBadRequest, CodeCheckViolation, "Check constraint failed"},
	"22001": {http.StatusBadRequest, CodeValueTooLong, "The provided value is too long for the column"},
	"22003": {http.StatusBadRequest, CodeValueOutOfRange, "The provided value is out of range for the column"},
	"22P02": {http.StatusBadRequest, CodeInvalidValue, "The provided value has an invalid format"},
	"22007": {http.StatusBadRequest, CodeInvalidValue, "The provided date/time value is invalid"},
	"22008": {http.StatusBadRequest, CodeInvalidValue, "The provided date/time value is out of range"},
	"22023": {http.StatusBadRequest, CodeInvalidValue, "Invalid parameter value"},
	"42P01": {http.StatusNotFound, CodeTableNotFound, "The table does not exist in the current database"},
	"42703": {http.StatusNotFound, CodeColumnNotFound, "The column does not exist in the current database"},
	"42501": {http.StatusForbidden, CodeAccessDenied, "Insufficient privileges for the database operation"},
}

var (
	pgKeyDetail      = regexp.MustCompile(`Key \(([^)]+)\)=`)
	sqliteConstraint = regexp.MustCompile(`(UNIQUE|NOT NULL|CHECK) constraint failed: ([\w., ]+)`)
)

// FromDatabase maps ORM and driver errors onto the API taxonomy. It never
// returns nil for a non-nil error.
func FromDatabase(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fromPgError(pgErr).WithCause(err)
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, sql.ErrNoRows):
		return New(http.StatusNotFound, CodeRecordNotFound, "Record not found").WithCause(err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return New(http.StatusConflict, CodeUniqueViolation, "A record with these values already exists").WithCause(err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return New(http.StatusBadRequest, CodeForeignKeyViolation, "Foreign key constraint failed").WithCause(err)
	case errors.Is(err, gorm.ErrInvalidData), errors.Is(err, gorm.ErrInvalidField), errors.Is(err, gorm.ErrInvalidValue):
		return New(http.StatusBadRequest, CodeInvalidValue, "The provided data is invalid").WithCause(err)
	case errors.Is(err, sql.ErrTxDone), errors.Is(err, gorm.ErrInvalidTransaction):
		return New(http.StatusInternalServerError, CodeTransactionFailed, "The transaction could not be completed").WithCause(err)
	case errors.Is(err, context.DeadlineExceeded), pgconn.Timeout(err):
		return New(http.StatusRequestTimeout, CodeOperationTimeout, "Database operation timed out").WithCause(err)
	case errors.Is(err, context.Canceled):
		return New(http.StatusRequestTimeout, CodeOperationTimeout, "Database operation was cancelled").WithCause(err)
	case errors.Is(err, driver.ErrBadConn), errors.Is(err, sql.ErrConnDone):
		return New(http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Cannot reach the database server").WithCause(err)
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return New(http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Cannot reach the database server").WithCause(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return New(http.StatusServiceUnavailable, CodeDatabaseTimeout, "Timed out connecting to the database server").WithCause(err)
		}
		return New(http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Cannot reach the database server").WithCause(err)
	}

	if mapped := fromMessage(err.Error()); mapped != nil {
		return mapped.WithCause(err)
	}

	return Internal("Internal server error", err)
}

func fromPgError(pgErr *pgconn.PgError) *AppError {
	if pgErr.Code == "23505" {
		field := uniqueField(pgErr)
		return &AppError{
			StatusCode: http.StatusConflict,
			Code:       CodeUniqueViolation,
			Message:    fmt.Sprintf("A record with this %s already exists", field),
			Field:      field,
		}
	}

	state, ok := sqlStates[pgErr.Code]
	if !ok {
		return &AppError{
			StatusCode: http.StatusInternalServerError,
			Code:       CodeUnknownDatabase,
			Message:    fmt.Sprintf("Unhandled database error (code %s)", pgErr.Code),
		}
	}

	appErr := New(state.status, state.code, state.message)
	switch {
	case pgErr.ColumnName != "":
		appErr.Field = pgErr.ColumnName
	case pgErr.Code == "23503":
		appErr.Field = keyColumns(pgErr.Detail, pgErr.ConstraintName)
	}
	if appErr.Field != "" {
		appErr.Message = fmt.Sprintf("%s on the field: %s", appErr.Message, appErr.Field)
	}
	return appErr
}

func uniqueField(pgErr *pgconn.PgError) string {
	if field := keyColumns(pgErr.Detail, ""); field != "" {
		return field
	}
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "value"
}

// keyColumns pulls "slug" out of details such as `Key (slug)=(hello) already exists.`
func keyColumns(detail, fallback string) string {
	if m := pgKeyDetail.FindStringSubmatch(detail); len(m) == 2 {
		return m[1]
	}
	return fallback
}

// fromMessage recognises drivers that only report constraint failures as text
// (sqlite) and pooled connection failures that lost their type on the way up.
func fromMessage(msg string) *AppError {
	if m := sqliteConstraint.FindStringSubmatch(msg); len(m) == 3 {
		field := stripTables(m[2])
		switch m[1] {
		case "UNIQUE":
			return &AppError{
				StatusCode: http.StatusConflict,
				Code:       CodeUniqueViolation,
				Message:    fmt.Sprintf("A record with this %s already exists", field),
				Field:      field,
			}
		case "NOT NULL":
			return &AppError{
				StatusCode: http.StatusBadRequest,
				Code:       CodeNullViolation,
				Message:    fmt.Sprintf("Null constraint violation on the field: %s", field),
				Field:      field,
			}
		default:
			return New(http.StatusBadRequest, CodeCheckViolation, "Check constraint failed")
		}
	}

	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "foreign key constraint failed"), strings.Contains(lower, "violates foreign key constraint"):
		return New(http.StatusBadRequest, CodeForeignKeyViolation, "Foreign key constraint failed")
	case strings.Contains(lower, "duplicate key"):
		return New(http.StatusConflict, CodeUniqueViolation, "A record with these values already exists")
	case strings.Contains(lower, "connection refused"), strings.Contains(lower, "no such host"):
		return New(http.StatusServiceUnavailable, CodeDatabaseUnreachable, "Cannot reach the database server")
	case strings.Contains(lower, "database is locked"):
		return New(http.StatusConflict, CodeTransactionConflict, "Transaction failed due to a write conflict or a deadlock, please retry")
	}
	return nil
}

func stripTables(columns string) string {
	parts := strings.Split(columns, ",")
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if idx := strings.LastIndex(p, "."); idx >= 0 {
			p = p[idx+1:]
		}
		parts[i] = p
	}
	return strings.Join(parts, ", ")
}
