package entity

import (
	"fmt"
	"strings"
)

const (
	DefaultPage          = 1
	DefaultLimit         = 10
	MaxLimit             = 100
	DefaultPriorityLimit = 10
)

// sortColumns maps API sort keys to post columns.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
	"views":       "views",
	"title":       "title",
}

type PostFilters struct {
	Search      string      `json:"search"`
	CategoryID  string      `json:"categoryId"`
	AuthorID    string      `json:"authorId"`
	Tags        []string    `json:"tags"`
	Status      *PostStatus `json:"status"`
	IsPublished *bool       `json:"isPublished"`
	IsPriority  *bool       `json:"isPriority"`
	SortBy      string      `json:"sortBy"`
	SortOrder   string      `json:"sortOrder"`
	Page        int         `json:"page"`
	Limit       int         `json:"limit"`
}

// Normalize fills defaults and rejects unknown sort keys and statuses.
func (f *PostFilters) Normalize() error {
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.Limit == 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.SortBy == "" {
		f.SortBy = "createdAt"
	}
	if _, ok := sortColumns[f.SortBy]; !ok {
		return fmt.Errorf("sortBy must be one of createdAt, updatedAt, publishedAt, views, title")
	}
	f.SortOrder = strings.ToLower(f.SortOrder)
	if f.SortOrder == "" {
		f.SortOrder = "desc"
	}
	if f.SortOrder != "asc" && f.SortOrder != "desc" {
		return fmt.Errorf("sortOrder must be asc or desc")
	}
	if f.Status != nil && !f.Status.Valid() {
		return fmt.Errorf("unknown status %q", *f.Status)
	}
	f.Search = strings.TrimSpace(f.Search)
	return nil
}

// SortColumn is the column for SortBy. Call Normalize first.
func (f PostFilters) SortColumn() string {
	return sortColumns[f.SortBy]
}

func (f PostFilters) Descending() bool {
	return f.SortOrder != "asc"
}
