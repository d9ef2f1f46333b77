package entity

import (
	"encoding/json"
	"time"
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

var PostStatuses = []PostStatus{
	StatusDraft,
	StatusPending,
	StatusApproved,
	StatusRejected,
	StatusPublished,
	StatusUnpublished,
}

func (s PostStatus) Valid() bool {
	for _, v := range PostStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Post struct {
	ID                   string          `json:"id"`
	Title                string          `json:"title"`
	Slug                 string          `json:"slug"`
	Description          string          `json:"description"`
	Content              json.RawMessage `json:"content"`
	MainImage            string          `json:"mainImage"`
	Tags                 []string        `json:"tags"`
	Status               PostStatus      `json:"status"`
	IsPublished          bool            `json:"isPublished"`
	IsPriority           bool            `json:"isPriority"`
	IsPinned             bool            `json:"isPinned"`
	IsDeleted            bool            `json:"isDeleted"`
	Views                int             `json:"views"`
	LikeCount            int             `json:"likeCount"`
	CommentCount         int             `json:"commentCount"`
	AuthorID             string          `json:"authorId"`
	Author               *User           `json:"author"`
	CategoryID           *string         `json:"categoryId"`
	Category             *Category       `json:"category"`
	PublishedAt          *time.Time      `json:"publishedAt"`
	SubmittedForReviewAt *time.Time      `json:"submittedForReviewAt"`
	ModeratedAt          *time.Time      `json:"moderatedAt"`
	DeletedAt            *time.Time      `json:"deletedAt"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// PostPatch lists the columns an update touches; nil fields are left alone.
type PostPatch struct {
	Title                *string
	Slug                 *string
	Description          *string
	Content              json.RawMessage
	MainImage            *string
	Tags                 []string
	CategoryID           *string
	Status               *PostStatus
	IsPublished          *bool
	IsPriority           *bool
	IsPinned             *bool
	PublishedAt          *time.Time
	SubmittedForReviewAt *time.Time
	ModeratedAt          *time.Time
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"userId"`
	PostID    string    `json:"postId"`
	User      *User     `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type LikeResult struct {
	PostID    string `json:"postId"`
	Liked     bool   `json:"liked"`
	LikeCount int64  `json:"likeCount"`
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
