package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ProviderCredential = "credential"
	ProviderGitHub     = "github"
)

// Account links a user to a login provider. Credential accounts carry the
// bcrypt hash in Password; OAuth accounts carry provider tokens.
type Account struct {
	ID                    string     `gorm:"type:uuid;primary_key" json:"id"`
	AccountID             string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_accounts_provider_account" json:"accountId"`
	ProviderID            string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_accounts_provider_account" json:"providerId"`
	UserID                string     `gorm:"type:uuid;not null;index" json:"userId"`
	AccessToken           *string    `gorm:"type:text" json:"-"`
	RefreshToken          *string    `gorm:"type:text" json:"-"`
	IDToken               *string    `gorm:"type:text" json:"-"`
	AccessTokenExpiresAt  *time.Time `json:"accessTokenExpiresAt"`
	RefreshTokenExpiresAt *time.Time `json:"refreshTokenExpiresAt"`
	Scope                 string     `gorm:"type:varchar(255)" json:"scope"`
	Password              *string    `gorm:"type:varchar(255)" json:"-"`
	CreatedAt             time.Time  `json:"createdAt"`
	UpdatedAt             time.Time  `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

func (a *Account) GetID() string { return a.ID }
