package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PhucHuuDang/GraphQL/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const cookieName = "devs.session_token"

type MockSessionResolver struct {
	mock.Mock
}

func (m *MockSessionResolver) ResolveSession(ctx context.Context, token string) (*Identity, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Identity), args.Error(1)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func quietLogger() *logger.Logger {
	return logger.NewWithOptions(logger.Options{Writer: io.Discard})
}

func sessionRouter(resolver SessionResolver) *gin.Engine {
	router := setupTestRouter()
	router.Use(SessionMiddleware(resolver, cookieName, quietLogger()))
	router.GET("/test", func(c *gin.Context) {
		id, ok := IdentityFrom(c.Request.Context())
		if !ok {
			c.JSON(http.StatusOK, gin.H{"user_id": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "gin_user_id": c.GetString("user_id")})
	})
	return router
}

func TestSessionMiddleware_Cookie(t *testing.T) {
	resolver := new(MockSessionResolver)
	resolver.On("ResolveSession", "tok-1").Return(&Identity{UserID: "user-123", Role: "USER"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "tok-1"})

	sessionRouter(resolver).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-123"`)
	assert.Contains(t, w.Body.String(), `"gin_user_id":"user-123"`)
	resolver.AssertExpectations(t)
}

func TestSessionMiddleware_BearerToken(t *testing.T) {
	resolver := new(MockSessionResolver)
	resolver.On("ResolveSession", "tok-2").Return(&Identity{UserID: "user-456"}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer tok-2")

	sessionRouter(resolver).ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"user_id":"user-456"`)
}

func TestSessionMiddleware_NoTokenPassesThrough(t *testing.T) {
	resolver := new(MockSessionResolver)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "InvalidFormat token")

	sessionRouter(resolver).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)
	resolver.AssertNotCalled(t, "ResolveSession", mock.Anything)
}

func TestSessionMiddleware_UnknownTokenIsAnonymous(t *testing.T) {
	resolver := new(MockSessionResolver)
	resolver.On("ResolveSession", "expired").Return(nil, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer expired")

	sessionRouter(resolver).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":""`)
}

func TestSessionMiddleware_ResolverErrorIsAnonymous(t *testing.T) {
	resolver := new(MockSessionResolver)
	resolver.On("ResolveSession", "tok").Return(nil, errors.New("db down"))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	req.Header.Set("Authorization", "Bearer tok")

	sessionRouter(resolver).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuth(t *testing.T) {
	resolver := new(MockSessionResolver)
	resolver.On("ResolveSession", "tok").Return(&Identity{UserID: "user-1"}, nil)

	router := setupTestRouter()
	router.Use(SessionMiddleware(resolver, cookieName, quietLogger()), RequireAuth())
	router.GET("/private", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/private", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/private", nil)
	req.Header.Set("Authorization", "Bearer tok")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}
