package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"

	"github.com/gin-gonic/gin"
)

// SessionCookie writes the session token cookie.
type SessionCookie struct {
	Name       string
	Production bool
}

func (s SessionCookie) Set(c *gin.Context, token string, expiresAt time.Time) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	http.SetCookie(c.Writer, s.cookie(token, maxAge, expiresAt))
}

func (s SessionCookie) Clear(c *gin.Context) {
	http.SetCookie(c.Writer, s.cookie("", -1, time.Unix(0, 0)))
}

func (s SessionCookie) cookie(value string, maxAge int, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     s.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.Production {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteStrictMode
	}
	return cookie
}

// clientIPHeaders are consulted in order, and only for requests arriving
// from a trusted proxy.
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// TrustProxies makes the engine honor client IP headers from the given proxy
// addresses or CIDRs. With none, the socket address is always used.
func TrustProxies(r *gin.Engine, proxies []string) error {
	r.ForwardedByClientIP = true
	r.RemoteIPHeaders = clientIPHeaders
	return r.SetTrustedProxies(proxies)
}

// ClientIP resolves the caller's address through the engine's proxy trust
// settings. X-Forwarded-For is read right to left, skipping trusted hops.
func ClientIP(c *gin.Context) string {
	return strings.TrimPrefix(c.ClientIP(), "::ffff:")
}

// ViewerID identifies a viewer for view counting: an explicit guest
// identifier when given, the client IP otherwise.
func ViewerID(c *gin.Context, identifier string) string {
	if identifier = strings.TrimSpace(identifier); identifier != "" {
		return "guest:" + identifier
	}
	return "ip:" + ClientIP(c)
}

func Client(c *gin.Context) entity.ClientInfo {
	return entity.ClientInfo{IPAddress: ClientIP(c), UserAgent: c.Request.UserAgent()}
}
