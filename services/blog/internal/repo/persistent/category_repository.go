package persistent

import (
	"context"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/models"
	"github.com/PhucHuuDang/GraphQL/pkg/repository"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	UpsertByName(ctx context.Context, categories []entity.Category) (*repository.BulkResult, error)
	List(ctx context.Context) ([]entity.Category, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type categoryRepository struct {
	categories *repository.Repository[models.Category]
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{categories: repository.New[models.Category](db)}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	m := &models.Category{Name: category.Name, Description: category.Description}
	if _, err := r.categories.Create(ctx, m); err != nil {
		return err
	}
	*category = *ToCategoryEntity(m)
	return nil
}

// UpsertByName creates missing categories in one transaction. Existing ones
// only have their description replaced when a new one is given.
func (r *categoryRepository) UpsertByName(ctx context.Context, categories []entity.Category) (*repository.BulkResult, error) {
	now := time.Now()
	inputs := make([]repository.UpsertInput[models.Category], len(categories))
	for i, c := range categories {
		update := map[string]interface{}{"updated_at": now}
		if c.Description != "" {
			update["description"] = c.Description
		}
		inputs[i] = repository.UpsertInput[models.Category]{
			Where:  repository.NewQuery[models.Category]().Eq("name", c.Name),
			Create: &models.Category{Name: c.Name, Description: c.Description},
			Update: update,
		}
	}

	rows, err := r.categories.BulkUpsert(ctx, inputs)
	if err != nil {
		return nil, err
	}

	res := &repository.BulkResult{Count: len(rows), AffectedIDs: make([]string, 0, len(rows))}
	for _, row := range rows {
		res.AffectedIDs = append(res.AffectedIDs, row.ID)
	}
	return res, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	ms, err := r.categories.FindAll(ctx, repository.NewQuery[models.Category]().OrderBy("name", false))
	if err != nil {
		return nil, err
	}

	out := make([]entity.Category, len(ms))
	for i := range ms {
		out[i] = *ToCategoryEntity(&ms[i])
	}
	return out, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id string) (bool, error) {
	return r.categories.Exists(ctx, repository.NewQuery[models.Category]().Eq("id", id))
}
