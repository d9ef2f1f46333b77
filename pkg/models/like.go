package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Like is toggled rather than flagged: unliking soft-deletes the row through
// gorm's DeletedAt and liking again restores it, so (user, post) stays unique.
type Like struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post" json:"userId"`
	PostID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_likes_user_post;index" json:"postId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Foreign keys
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

func (l *Like) GetID() string { return l.ID }
