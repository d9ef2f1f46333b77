package usecase

import (
	"context"
	"strings"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/repository"
	"github.com/PhucHuuDang/GraphQL/pkg/validation"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/repo/persistent"
)

type CategoryUseCase interface {
	CreateCategory(ctx context.Context, in entity.CreateCategoryInput) (*entity.Category, error)
	CreateCategories(ctx context.Context, names []string) (*repository.BulkResult, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
}

type categoryUseCase struct {
	categoryRepo persistent.CategoryRepository
}

func NewCategoryUseCase(categoryRepo persistent.CategoryRepository) CategoryUseCase {
	return &categoryUseCase{categoryRepo: categoryRepo}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, in entity.CreateCategoryInput) (*entity.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	category := &entity.Category{Name: in.Name, Description: in.Description}
	if err := uc.categoryRepo.Create(ctx, category); err != nil {
		if errs.IsConflict(err) {
			return nil, errs.Conflict("Category " + in.Name + " already exists").WithField("name")
		}
		return nil, err
	}
	return category, nil
}

// CreateCategories upserts categories by name. Blank and repeated names are
// skipped.
func (uc *categoryUseCase) CreateCategories(ctx context.Context, names []string) (*repository.BulkResult, error) {
	seen := make(map[string]bool, len(names))
	categories := make([]entity.Category, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || seen[name] {
			continue
		}
		if err := validation.Struct(entity.CreateCategoryInput{Name: name}); err != nil {
			return nil, err
		}
		seen[name] = true
		categories = append(categories, entity.Category{Name: name})
	}
	if len(categories) == 0 {
		return nil, errs.Validation("names", "at least one category name is required")
	}
	return uc.categoryRepo.UpsertByName(ctx, categories)
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return uc.categoryRepo.List(ctx)
}
