package entity

import "time"

type Role string

const (
	RoleUser      Role = "USER"
	RoleAdmin     Role = "ADMIN"
	RoleModerator Role = "MODERATOR"
)

// Privileged roles publish without review and moderate other posts.
func (r Role) Privileged() bool {
	return r == RoleAdmin || r == RoleModerator
}

type User struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Email         *string           `json:"email"`
	EmailVerified bool              `json:"emailVerified"`
	Image         string            `json:"image"`
	Bio           string            `json:"bio"`
	Designation   string            `json:"designation"`
	Role          Role              `json:"role"`
	IsActive      bool              `json:"isActive"`
	IsVerified    bool              `json:"isVerified"`
	IsDeleted     bool              `json:"isDeleted"`
	IsSuspended   bool              `json:"isSuspended"`
	IsLocked      bool              `json:"isLocked"`
	IsExpired     bool              `json:"isExpired"`
	IsBlocked     bool              `json:"isBlocked"`
	SocialLinks   map[string]string `json:"socialLinks"`
	Posts         []Post            `json:"posts,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
}

// SignInBlocker returns the reason the account may not sign in, or "".
func (u *User) SignInBlocker() string {
	switch {
	case u.IsDeleted:
		return "This account has been deleted"
	case u.IsBlocked:
		return "This account has been blocked"
	case u.IsSuspended:
		return "This account has been suspended"
	case u.IsLocked:
		return "This account is locked"
	case u.IsExpired:
		return "This account has expired"
	case !u.IsActive:
		return "This account is inactive"
	}
	return ""
}

// Account is a login method linked to a user. Tokens and password hashes
// never leave the persistence layer through this type.
type Account struct {
	ID                   string     `json:"id"`
	AccountID            string     `json:"accountId"`
	ProviderID           string     `json:"providerId"`
	UserID               string     `json:"userId"`
	Scope                string     `json:"scope"`
	AccessTokenExpiresAt *time.Time `json:"accessTokenExpiresAt"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// Credential carries secrets for account creation and sign-in checks.
type Credential struct {
	Account
	PasswordHash string
	AccessToken  string
	RefreshToken string
}

type Session struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Verification struct {
	ID         string
	Identifier string
	Value      string
	ExpiresAt  time.Time
}

// ClientInfo describes the HTTP client a session is issued to.
type ClientInfo struct {
	IPAddress string
	UserAgent string
}

// Actor is the signed-in user performing an operation.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) Privileged() bool { return a.Role.Privileged() }
