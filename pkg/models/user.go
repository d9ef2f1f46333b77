package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser      UserRole = "USER"
	RoleAdmin     UserRole = "ADMIN"
	RoleModerator UserRole = "MODERATOR"
)

// User doubles as the author profile: posts reference users.id.
type User struct {
	ID            string            `gorm:"type:uuid;primary_key" json:"id"`
	Name          string            `gorm:"type:varchar(120);not null" json:"name"`
	Email         *string           `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	EmailVerified bool              `gorm:"not null;default:false" json:"emailVerified"`
	Image         string            `gorm:"type:varchar(500)" json:"image"`
	Bio           string            `gorm:"type:text" json:"bio"`
	Designation   string            `gorm:"type:varchar(120)" json:"designation"`
	Role          UserRole          `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive      bool              `gorm:"not null" json:"isActive"`
	IsVerified    bool              `gorm:"not null;default:false" json:"isVerified"`
	IsSuspended   bool              `gorm:"not null;default:false" json:"isSuspended"`
	IsLocked      bool              `gorm:"not null;default:false" json:"isLocked"`
	IsExpired     bool              `gorm:"not null;default:false" json:"isExpired"`
	IsBlocked     bool              `gorm:"not null;default:false" json:"isBlocked"`
	SocialLinks   datatypes.JSONMap `json:"socialLinks"`
	SoftDelete
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Sessions []Session `gorm:"foreignKey:UserID" json:"-"`
	Accounts []Account `gorm:"foreignKey:UserID" json:"-"`
	Posts    []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

func (u *User) GetID() string { return u.ID }

// CanSignIn reports whether any status flag blocks authentication.
func (u *User) CanSignIn() bool {
	return u.IsActive && !u.IsDeleted && !u.IsSuspended && !u.IsLocked && !u.IsExpired && !u.IsBlocked
}
