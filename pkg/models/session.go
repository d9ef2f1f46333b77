package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Session struct {
	ID        string    `gorm:"type:uuid;primary_key" json:"id"`
	Token     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expiresAt"`
	IPAddress string    `gorm:"type:varchar(64)" json:"ipAddress"`
	UserAgent string    `gorm:"type:text" json:"userAgent"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

func (s *Session) GetID() string { return s.ID }

func (s *Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// Verification holds short-lived values keyed by identifier, such as the PKCE
// verifier of a pending OAuth login.
type Verification struct {
	ID         string    `gorm:"type:uuid;primary_key" json:"id"`
	Identifier string    `gorm:"type:varchar(255);not null;index" json:"identifier"`
	Value      string    `gorm:"type:text;not null" json:"value"`
	ExpiresAt  time.Time `gorm:"not null" json:"expiresAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (v *Verification) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}

func (v *Verification) GetID() string { return v.ID }
