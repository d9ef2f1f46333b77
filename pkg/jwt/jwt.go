// Package jwt signs the short-lived state parameter carried through OAuth
// redirects.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	issuer          = "blog-api"
	DefaultStateTTL = 10 * time.Minute
)

var ErrInvalidState = errors.New("invalid oauth state")

type StateClaims struct {
	Provider    string `json:"provider"`
	Nonce       string `json:"nonce"`
	CallbackURL string `json:"callbackUrl,omitempty"`
	jwt.RegisteredClaims
}

type Service struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewService(secretKey string) *Service {
	return &Service{secretKey: []byte(secretKey), ttl: DefaultStateTTL, now: time.Now}
}

// GenerateState signs the provider, the verification nonce and the URL the
// user returns to after login.
func (s *Service) GenerateState(provider, nonce, callbackURL string) (string, error) {
	now := s.now()
	claims := StateClaims{
		Provider:    provider,
		Nonce:       nonce,
		CallbackURL: callbackURL,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// ValidateState checks signature, expiry and that the state was issued for
// provider.
func (s *Service) ValidateState(tokenString, provider string) (*StateClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &StateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	claims, ok := token.Claims.(*StateClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidState
	}
	if claims.Provider != provider {
		return nil, fmt.Errorf("%w: issued for %q", ErrInvalidState, claims.Provider)
	}
	if claims.Nonce == "" {
		return nil, fmt.Errorf("%w: missing nonce", ErrInvalidState)
	}
	return claims, nil
}
