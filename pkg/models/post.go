package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PostStatus string

const (
	StatusDraft       PostStatus = "DRAFT"
	StatusPending     PostStatus = "PENDING"
	StatusApproved    PostStatus = "APPROVED"
	StatusRejected    PostStatus = "REJECTED"
	StatusPublished   PostStatus = "PUBLISHED"
	StatusUnpublished PostStatus = "UNPUBLISHED"
)

type Post struct {
	ID          string                      `gorm:"type:uuid;primary_key" json:"id"`
	Title       string                      `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Description string                      `gorm:"type:text" json:"description"`
	Content     datatypes.JSON              `json:"content"`
	MainImage   string                      `gorm:"type:varchar(500)" json:"mainImage"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	Status      PostStatus                  `gorm:"type:varchar(20);not null;default:'DRAFT';index" json:"status"`
	IsPublished bool                        `gorm:"not null;default:false;index" json:"isPublished"`
	IsPriority  bool                        `gorm:"not null;default:false" json:"isPriority"`
	IsPinned    bool                        `gorm:"not null;default:false" json:"isPinned"`
	Views       int                         `gorm:"not null;default:0" json:"views"`

	// Read-only aggregates, filled when a query selects them.
	LikeCount    int `gorm:"->;-:migration" json:"likeCount"`
	CommentCount int `gorm:"->;-:migration" json:"commentCount"`

	AuthorID   string    `gorm:"type:uuid;not null;index" json:"authorId"`
	Author     *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	CategoryID *string   `gorm:"type:uuid;index" json:"categoryId"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`

	PublishedAt          *time.Time `json:"publishedAt"`
	SubmittedForReviewAt *time.Time `json:"submittedForReviewAt"`
	ModeratedAt          *time.Time `json:"moderatedAt"`
	SoftDelete
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Comments []Comment `gorm:"foreignKey:PostID" json:"comments,omitempty"`
	Likes    []Like    `gorm:"foreignKey:PostID" json:"likes,omitempty"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	return nil
}

func (p *Post) GetID() string { return p.ID }

type Comment struct {
	ID      string `gorm:"type:uuid;primary_key" json:"id"`
	Content string `gorm:"type:text;not null" json:"content"`
	UserID  string `gorm:"type:uuid;not null;index" json:"userId"`
	PostID  string `gorm:"type:uuid;not null;index" json:"postId"`
	SoftDelete
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	Post *Post `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

func (c *Comment) GetID() string { return c.ID }
