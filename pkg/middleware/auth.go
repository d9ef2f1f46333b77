package middleware

import (
	"context"
	"strings"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/response"

	"github.com/gin-gonic/gin"
)

// Identity is the authenticated caller attached to a request.
type Identity struct {
	UserID    string
	Role      string
	SessionID string
	Token     string
}

// SessionResolver looks up the identity behind a session token. It returns
// nil without error for unknown or expired tokens.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*Identity, error)
}

type identityKey struct{}
type tokenKey struct{}

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}

// SessionTokenFrom returns the raw token presented by the caller, even when it
// did not resolve to a session.
func SessionTokenFrom(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// SessionMiddleware resolves the session cookie or bearer token into an
// Identity. It never rejects a request; guards decide what needs a login.
func SessionMiddleware(resolver SessionResolver, cookieName string, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c, cookieName)
		if token == "" {
			c.Next()
			return
		}

		ctx := context.WithValue(c.Request.Context(), tokenKey{}, token)
		identity, err := resolver.ResolveSession(ctx, token)
		if err != nil {
			log.Warn("session lookup failed: %v", err)
		}
		if identity != nil {
			ctx = WithIdentity(ctx, identity)
			c.Set("user_id", identity.UserID)
			c.Set("user_role", identity.Role)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireAuth rejects requests without a resolved identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := IdentityFrom(c.Request.Context()); !ok {
			response.WriteError(c, errs.Unauthorized("Authentication required"))
			return
		}
		c.Next()
	}
}

func sessionToken(c *gin.Context, cookieName string) string {
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
