package persistent

import (
	"context"
	"errors"

	"github.com/PhucHuuDang/GraphQL/pkg/database"
	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/models"
	"github.com/PhucHuuDang/GraphQL/pkg/repository"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"

	"gorm.io/gorm"
)

var searchFields = []string{"title", "description"}

const postAggregates = "posts.*, " +
	"(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id AND likes.deleted_at IS NULL) AS like_count, " +
	"(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND NOT comments.is_deleted) AS comment_count"

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Post, error)
	SlugExists(ctx context.Context, slug, excludeID string) (bool, error)
	List(ctx context.Context, filters entity.PostFilters) (*repository.Page[entity.Post], error)
	Search(ctx context.Context, term string, page, limit int) (*repository.Page[entity.Post], error)
	ListActive(ctx context.Context) ([]entity.Post, error)
	ListPriority(ctx context.Context, limit int) ([]entity.Post, error)
	ListByAuthor(ctx context.Context, authorID string) ([]entity.Post, error)
	Update(ctx context.Context, id string, patch entity.PostPatch) (*entity.Post, error)
	SoftDelete(ctx context.Context, id string) (*entity.Post, error)
	Restore(ctx context.Context, id string) (*entity.Post, error)
	IncrementViews(ctx context.Context, id string) (*entity.Post, error)
	ToggleLike(ctx context.Context, userID, postID string) (bool, int64, error)
	AddComment(ctx context.Context, comment *entity.Comment) error
	ListComments(ctx context.Context, postID string, page, limit int) (*repository.Page[entity.Comment], error)
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type postRepository struct {
	db       *gorm.DB
	posts    *repository.Repository[models.Post]
	comments *repository.Repository[models.Comment]
}

func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{
		db:       db,
		posts:    repository.New[models.Post](db),
		comments: repository.New[models.Comment](db),
	}
}

// detailed selects the like/comment aggregates and loads relations.
func detailed() repository.Query[models.Post] {
	return repository.NewQuery[models.Post]().
		Select(postAggregates).
		Preload("Author").
		Preload("Category")
}

func (r *postRepository) Create(ctx context.Context, post *entity.Post) error {
	m := ToPostModel(post)
	if _, err := r.posts.Create(ctx, m); err != nil {
		return err
	}

	created, err := r.GetByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*post = *created
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	m, err := r.posts.FindByID(ctx, id, detailed())
	if err != nil {
		return nil, err
	}
	return ToPostEntity(m), nil
}

func (r *postRepository) GetBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	m, err := r.posts.FindOne(ctx, detailed().Eq("slug", slug))
	if err != nil {
		return nil, err
	}
	return ToPostEntity(m), nil
}

func (r *postRepository) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	q := repository.NewQuery[models.Post]().Eq("slug", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	return r.posts.Exists(ctx, q)
}

func (r *postRepository) List(ctx context.Context, f entity.PostFilters) (*repository.Page[entity.Post], error) {
	q := detailed().Active()

	if f.CategoryID != "" {
		q = q.Eq("category_id", f.CategoryID)
	}
	if f.AuthorID != "" {
		q = q.Eq("author_id", f.AuthorID)
	}
	if f.Status != nil {
		q = q.Eq("status", string(*f.Status))
	}
	if f.IsPublished != nil {
		q = q.Eq("is_published", *f.IsPublished)
	}
	if f.IsPriority != nil {
		q = q.Eq("is_priority", *f.IsPriority)
	}
	if len(f.Tags) > 0 {
		q = q.Scope(r.tagsAnyOf(f.Tags))
	}
	q = q.OrderBy(f.SortColumn(), f.Descending())

	page, err := r.posts.SearchPaginated(ctx, f.Search, searchFields, q, repository.PageParams{Page: f.Page, Limit: f.Limit})
	if err != nil {
		return nil, err
	}
	return repository.MapPage(page, func(m *models.Post) entity.Post { return *ToPostEntity(m) }), nil
}

// tagsAnyOf matches posts carrying at least one of tags.
func (r *postRepository) tagsAnyOf(tags []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db.Dialector.Name() == "sqlite" {
			return db.Where("EXISTS (SELECT 1 FROM json_each(posts.tags) WHERE json_each.value IN ?)", tags)
		}
		return db.Where("EXISTS (SELECT 1 FROM jsonb_array_elements_text(posts.tags) AS t(tag) WHERE t.tag IN ?)", tags)
	}
}

func (r *postRepository) Search(ctx context.Context, term string, page, limit int) (*repository.Page[entity.Post], error) {
	q := detailed().Active().OrderBy("created_at", true)
	res, err := r.posts.SearchPaginated(ctx, term, searchFields, q, repository.PageParams{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	return repository.MapPage(res, func(m *models.Post) entity.Post { return *ToPostEntity(m) }), nil
}

func (r *postRepository) ListActive(ctx context.Context) ([]entity.Post, error) {
	ms, err := r.posts.FindAllActive(ctx, detailed().OrderBy("created_at", true))
	if err != nil {
		return nil, err
	}
	return ToPostEntities(ms), nil
}

func (r *postRepository) ListPriority(ctx context.Context, limit int) ([]entity.Post, error) {
	q := detailed().Active().
		Eq("is_priority", true).
		Eq("is_published", true).
		OrderBy("is_pinned", true).
		OrderBy("published_at", true).
		Limit(limit)

	ms, err := r.posts.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}
	return ToPostEntities(ms), nil
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID string) ([]entity.Post, error) {
	q := repository.NewQuery[models.Post]().
		Select(postAggregates).
		Preload("Category").
		Active().
		Eq("author_id", authorID).
		OrderBy("created_at", true)

	ms, err := r.posts.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}
	return ToPostEntities(ms), nil
}

func (r *postRepository) Update(ctx context.Context, id string, patch entity.PostPatch) (*entity.Post, error) {
	if _, err := r.posts.Update(ctx, id, postPatchColumns(patch)); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) SoftDelete(ctx context.Context, id string) (*entity.Post, error) {
	m, err := r.posts.SoftDelete(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPostEntity(m), nil
}

func (r *postRepository) Restore(ctx context.Context, id string) (*entity.Post, error) {
	if _, err := r.posts.Restore(ctx, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *postRepository) IncrementViews(ctx context.Context, id string) (*entity.Post, error) {
	if _, err := r.posts.Increment(ctx, id, "views", 1); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// ToggleLike likes the post, or unlikes it when the user already does. An
// unliked row is soft-deleted and revived on the next like.
func (r *postRepository) ToggleLike(ctx context.Context, userID, postID string) (bool, int64, error) {
	var (
		liked bool
		count int64
	)
	err := r.Transaction(ctx, func(ctx context.Context) error {
		tx := database.Conn(ctx, r.db)

		var existing models.Like
		err := tx.Unscoped().Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			liked = true
			if err := tx.Create(&models.Like{UserID: userID, PostID: postID}).Error; err != nil {
				return errs.FromDatabase(err)
			}
		case err != nil:
			return errs.FromDatabase(err)
		case existing.DeletedAt.Valid:
			liked = true
			if err := tx.Unscoped().Model(&existing).Update("deleted_at", nil).Error; err != nil {
				return errs.FromDatabase(err)
			}
		default:
			if err := tx.Delete(&existing).Error; err != nil {
				return errs.FromDatabase(err)
			}
		}

		if err := tx.Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error; err != nil {
			return errs.FromDatabase(err)
		}
		return nil
	})
	return liked, count, err
}

func (r *postRepository) AddComment(ctx context.Context, comment *entity.Comment) error {
	m := &models.Comment{Content: comment.Content, UserID: comment.UserID, PostID: comment.PostID}
	if _, err := r.comments.Create(ctx, m); err != nil {
		return err
	}

	created, err := r.comments.FindByIDOrFail(ctx, m.ID, repository.NewQuery[models.Comment]().Preload("User"))
	if err != nil {
		return err
	}
	*comment = ToCommentEntity(created)
	return nil
}

func (r *postRepository) ListComments(ctx context.Context, postID string, page, limit int) (*repository.Page[entity.Comment], error) {
	q := repository.NewQuery[models.Comment]().
		Active().
		Eq("post_id", postID).
		Preload("User").
		OrderBy("created_at", false)

	res, err := r.comments.FindManyPaginated(ctx, q, repository.PageParams{Page: page, Limit: limit})
	if err != nil {
		return nil, err
	}
	return repository.MapPage(res, ToCommentEntity), nil
}

func (r *postRepository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.posts.Transaction(ctx, fn)
}
