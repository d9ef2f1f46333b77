package queue

import "time"

// PostEvent is the payload of post.* events.
type PostEvent struct {
	PostID     string    `json:"postId"`
	AuthorID   string    `json:"authorId"`
	Title      string    `json:"title"`
	Slug       string    `json:"slug"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}
