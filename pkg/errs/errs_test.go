package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAppError_ExtensionsCarryCode(t *testing.T) {
	err := Validation("title", "Title must be between 5-200 characters")

	ext := err.Extensions()
	assert.Equal(t, CodeValidation, ext["code"])
	assert.Equal(t, http.StatusBadRequest, ext["statusCode"])
	assert.Equal(t, "title", ext["field"])
	assert.Contains(t, err.Error(), "field: title")
}

func TestAppError_CheckersSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("loading post: %w", NotFound("Post not found"))

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
	assert.True(t, IsConflict(Conflict("dup")))
	assert.True(t, IsForbidden(Forbidden("no")))
	assert.True(t, IsUnauthorized(Unauthorized("login")))
	assert.True(t, IsBadRequest(BadRequest("bad")))
}

func TestResolve_PassesClassifiedErrorsThrough(t *testing.T) {
	original := Forbidden("You can only modify your own posts")
	assert.Same(t, original, Resolve(original))
	assert.Nil(t, Resolve(nil))
}

func TestResolve_UnknownErrorsDoNotLeak(t *testing.T) {
	appErr := Resolve(errors.New("pq: relation \"secret_table\" leaked stack"))

	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, CodeInternal, appErr.Code)
	assert.Equal(t, "Internal server error", appErr.Message)
	assert.Error(t, appErr.Cause)
}

func TestFromDatabase_GormSentinels(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", gorm.ErrRecordNotFound, http.StatusNotFound, CodeRecordNotFound},
		{"duplicate", gorm.ErrDuplicatedKey, http.StatusConflict, CodeUniqueViolation},
		{"foreign key", gorm.ErrForeignKeyViolated, http.StatusBadRequest, CodeForeignKeyViolation},
		{"deadline", context.DeadlineExceeded, http.StatusRequestTimeout, CodeOperationTimeout},
		{"wrapped not found", fmt.Errorf("find: %w", gorm.ErrRecordNotFound), http.StatusNotFound, CodeRecordNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appErr := FromDatabase(tc.err)
			require.NotNil(t, appErr)
			assert.Equal(t, tc.status, appErr.StatusCode)
			assert.Equal(t, tc.code, appErr.Code)
			assert.ErrorIs(t, appErr, tc.err)
		})
	}
}

func TestFromDatabase_PostgresUniqueViolationSurfacesField(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:           "23505",
		Detail:         "Key (slug)=(hello-world) already exists.",
		ConstraintName: "idx_posts_slug",
	}

	appErr := FromDatabase(fmt.Errorf("create post: %w", pgErr))

	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
	assert.Equal(t, CodeUniqueViolation, appErr.Code)
	assert.Equal(t, "slug", appErr.Field)
	assert.Equal(t, "A record with this slug already exists", appErr.Message)
}

func TestFromDatabase_PostgresCodeTable(t *testing.T) {
	cases := []struct {
		code   string
		status int
		mapped string
	}{
		{"28P01", http.StatusServiceUnavailable, CodeDatabaseAuthFailed},
		{"08006", http.StatusServiceUnavailable, CodeDatabaseUnreachable},
		{"3D000", http.StatusServiceUnavailable, CodeDatabaseNotFound},
		{"53300", http.StatusServiceUnavailable, CodePoolTimeout},
		{"57014", http.StatusRequestTimeout, CodeOperationTimeout},
		{"40P01", http.StatusConflict, CodeTransactionConflict},
		{"23503", http.StatusBadRequest, CodeForeignKeyViolation},
		{"23502", http.StatusBadRequest, CodeNullViolation},
		{"22001", http.StatusBadRequest, CodeValueTooLong},
		{"42P01", http.StatusNotFound, CodeTableNotFound},
		{"42501", http.StatusForbidden, CodeAccessDenied},
	}

	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			appErr := FromDatabase(&pgconn.PgError{Code: tc.code})
			assert.Equal(t, tc.status, appErr.StatusCode)
			assert.Equal(t, tc.mapped, appErr.Code)
		})
	}
}

func TestFromDatabase_NullViolationNamesColumn(t *testing.T) {
	appErr := FromDatabase(&pgconn.PgError{Code: "23502", ColumnName: "title"})

	assert.Equal(t, "title", appErr.Field)
	assert.Equal(t, "Null constraint violation on the field: title", appErr.Message)
}

func TestFromDatabase_UnknownCodeIsEmbedded(t *testing.T) {
	appErr := FromDatabase(&pgconn.PgError{Code: "XX001", Message: "data corrupted"})

	assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)
	assert.Equal(t, CodeUnknownDatabase, appErr.Code)
	assert.Contains(t, appErr.Message, "XX001")
	assert.NotContains(t, appErr.Message, "corrupted")
}

func TestFromDatabase_SqliteMessages(t *testing.T) {
	unique := FromDatabase(errors.New("UNIQUE constraint failed: posts.slug"))
	assert.Equal(t, http.StatusConflict, unique.StatusCode)
	assert.Equal(t, "slug", unique.Field)

	composite := FromDatabase(errors.New("UNIQUE constraint failed: likes.user_id, likes.post_id"))
	assert.Equal(t, "user_id, post_id", composite.Field)

	notNull := FromDatabase(errors.New("NOT NULL constraint failed: posts.title"))
	assert.Equal(t, http.StatusBadRequest, notNull.StatusCode)
	assert.Equal(t, CodeNullViolation, notNull.Code)

	fk := FromDatabase(errors.New("FOREIGN KEY constraint failed"))
	assert.Equal(t, CodeForeignKeyViolation, fk.Code)
}

func TestFromDatabase_ConnectionRefused(t *testing.T) {
	appErr := FromDatabase(errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))

	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode)
	assert.Equal(t, CodeDatabaseUnreachable, appErr.Code)
	assert.True(t, IsUnavailable(appErr))
}
