package repository

import (
	"fmt"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
)

type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) Validate() error {
	if p.Page < 1 {
		return errs.Validation("page", fmt.Sprintf("page must be at least 1, got %d", p.Page))
	}
	if p.Limit < 1 {
		return errs.Validation("limit", fmt.Sprintf("limit must be at least 1, got %d", p.Limit))
	}
	return nil
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// NewMeta derives page counts from a total. limit must be positive.
func NewMeta(total int64, page, limit int) Meta {
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return Meta{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

type Page[T any] struct {
	Data []T `json:"data"`
	Meta Meta `json:"meta"`
}

func (p *Page[T]) Items() interface{}      { return p.Data }
func (p *Page[T]) Pagination() interface{} { return p.Meta }

// MapPage converts the rows of a page while keeping its metadata.
func MapPage[T, U any](p *Page[T], fn func(*T) U) *Page[U] {
	out := &Page[U]{Data: make([]U, len(p.Data)), Meta: p.Meta}
	for i := range p.Data {
		out.Data[i] = fn(&p.Data[i])
	}
	return out
}

type BulkResult struct {
	Count       int      `json:"count"`
	AffectedIDs []string `json:"affectedIds"`
}
