package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/cache"
	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/queue"
	"github.com/PhucHuuDang/GraphQL/pkg/repository"
	"github.com/PhucHuuDang/GraphQL/pkg/validation"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/repo/persistent"
)

const (
	viewDedupeTTL    = time.Hour
	maxCommentLength = 2000
)

type PostUseCase interface {
	CreatePost(ctx context.Context, actor entity.Actor, in entity.CreatePostInput) (*entity.Post, error)
	UpdatePost(ctx context.Context, actor entity.Actor, id string, in entity.UpdatePostInput) (*entity.Post, error)
	DeletePost(ctx context.Context, actor entity.Actor, id string) (*entity.Post, error)
	RestorePost(ctx context.Context, actor entity.Actor, id string) (*entity.Post, error)
	GetPost(ctx context.Context, id string) (*entity.Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*entity.Post, error)
	ListPosts(ctx context.Context, filters entity.PostFilters) (*repository.Page[entity.Post], error)
	MyPosts(ctx context.Context, actor entity.Actor, filters entity.PostFilters) (*repository.Page[entity.Post], error)
	PublishedPosts(ctx context.Context, filters entity.PostFilters) (*repository.Page[entity.Post], error)
	PriorityPosts(ctx context.Context, limit int) ([]entity.Post, error)
	SearchPosts(ctx context.Context, term string, page, limit int) (*repository.Page[entity.Post], error)
	AllPosts(ctx context.Context) ([]entity.Post, error)
	IncrementViews(ctx context.Context, id, viewer string) (*entity.Post, error)
	ModeratePost(ctx context.Context, actor entity.Actor, id string, status entity.PostStatus) (*entity.Post, error)
	ToggleLike(ctx context.Context, actor entity.Actor, postID string) (*entity.LikeResult, error)
	AddComment(ctx context.Context, actor entity.Actor, postID, content string) (*entity.Comment, error)
	ListComments(ctx context.Context, postID string, page, limit int) (*repository.Page[entity.Comment], error)
}

type postUseCase struct {
	postRepo     persistent.PostRepository
	categoryRepo persistent.CategoryRepository
	cache        cache.Cache
	publisher    queue.Publisher
	logger       *logger.Logger
	now          func() time.Time
}

func NewPostUseCase(
	postRepo persistent.PostRepository,
	categoryRepo persistent.CategoryRepository,
	cache cache.Cache,
	publisher queue.Publisher,
	logger *logger.Logger,
) PostUseCase {
	return &postUseCase{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		cache:        cache,
		publisher:    publisher,
		logger:       logger,
		now:          time.Now,
	}
}

func (uc *postUseCase) CreatePost(ctx context.Context, actor entity.Actor, in entity.CreatePostInput) (*entity.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	slug, err := uc.availableSlug(ctx, in.Title, "")
	if err != nil {
		return nil, err
	}
	if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	t := entity.ResolvePublish(entity.StatusDraft, in.IsPublished, actor.Privileged(), uc.now())
	post := &entity.Post{
		Title:                strings.TrimSpace(in.Title),
		Slug:                 slug,
		Description:          in.Description,
		Content:              in.Content,
		MainImage:            in.MainImage,
		Tags:                 in.Tags,
		Status:               t.Status,
		IsPublished:          t.IsPublished,
		IsPriority:           in.IsPriority,
		IsPinned:             in.IsPinned,
		AuthorID:             actor.UserID,
		CategoryID:           emptyToNil(in.CategoryID),
		PublishedAt:          t.PublishedAt,
		SubmittedForReviewAt: t.SubmittedForReviewAt,
	}

	if err := uc.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	uc.logger.Info("Post %s created by %s with status %s", post.ID, actor.UserID, post.Status)
	uc.announce(ctx, post)
	return post, nil
}

func (uc *postUseCase) UpdatePost(ctx context.Context, actor entity.Actor, id string, in entity.UpdatePostInput) (*entity.Post, error) {
	if in.Empty() {
		return nil, errs.BadRequest("no fields to update")
	}
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	post, err := uc.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	patch := entity.PostPatch{
		Description: in.Description,
		Content:     in.Content,
		MainImage:   in.MainImage,
		Tags:        in.Tags,
		IsPriority:  in.IsPriority,
		IsPinned:    in.IsPinned,
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		patch.Title = &title
		if slug := entity.Slugify(title); slug != post.Slug {
			slug, err = uc.availableSlug(ctx, title, post.ID)
			if err != nil {
				return nil, err
			}
			patch.Slug = &slug
		}
	}

	if in.CategoryID != nil {
		if err := uc.checkCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		patch.CategoryID = in.CategoryID
	}

	if in.IsPublished != nil {
		t := entity.ResolvePublish(post.Status, *in.IsPublished, actor.Privileged(), uc.now())
		if t.Changed {
			patch.Status = &t.Status
			patch.IsPublished = &t.IsPublished
			patch.PublishedAt = t.PublishedAt
			patch.SubmittedForReviewAt = t.SubmittedForReviewAt
		}
	}

	updated, err := uc.postRepo.Update(ctx, post.ID, patch)
	if err != nil {
		return nil, err
	}

	if updated.Status != post.Status {
		uc.logger.Info("Post %s moved from %s to %s", post.ID, post.Status, updated.Status)
		uc.announce(ctx, updated)
	}
	return updated, nil
}

func (uc *postUseCase) DeletePost(ctx context.Context, actor entity.Actor, id string) (*entity.Post, error) {
	if _, err := uc.owned(ctx, actor, id); err != nil {
		return nil, err
	}
	return uc.postRepo.SoftDelete(ctx, id)
}

func (uc *postUseCase) RestorePost(ctx context.Context, actor entity.Actor, id string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, errs.NotFound("Post not found")
	}
	if post.AuthorID != actor.UserID {
		return nil, errs.Forbidden("You can only restore your own posts")
	}
	if !post.IsDeleted {
		return nil, errs.BadRequest("Post is not deleted")
	}
	return uc.postRepo.Restore(ctx, id)
}

func (uc *postUseCase) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil || post.IsDeleted {
		return nil, errs.NotFound("Post not found")
	}
	return post, nil
}

// GetPostBySlug accepts either a slug or a title and looks up its slug form.
func (uc *postUseCase) GetPostBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	normalized := entity.Slugify(slug)
	if normalized == "" {
		return nil, errs.Validation("slug", "slug is required")
	}

	post, err := uc.postRepo.GetBySlug(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if post == nil || post.IsDeleted {
		return nil, errs.NotFound(fmt.Sprintf("Post with slug %q not found", normalized))
	}
	return post, nil
}

func (uc *postUseCase) ListPosts(ctx context.Context, filters entity.PostFilters) (*repository.Page[entity.Post], error) {
	if err := filters.Normalize(); err != nil {
		return nil, errs.BadRequest(err.Error())
	}
	return uc.postRepo.List(ctx, filters)
}

func (uc *postUseCase) MyPosts(ctx context.Context, actor entity.Actor, filters entity.PostFilters) (*repository.Page[entity.Post], error) {
	filters.AuthorID = actor.UserID
	return uc.ListPosts(ctx, filters)
}

func (uc *postUseCase) PublishedPosts(ctx context.Context, filters entity.PostFilters) (*repository.Page[entity.Post], error) {
	published := true
	filters.IsPublished = &published
	return uc.ListPosts(ctx, filters)
}

func (uc *postUseCase) PriorityPosts(ctx context.Context, limit int) ([]entity.Post, error) {
	switch {
	case limit <= 0:
		limit = entity.DefaultPriorityLimit
	case limit > entity.MaxLimit:
		limit = entity.MaxLimit
	}
	return uc.postRepo.ListPriority(ctx, limit)
}

func (uc *postUseCase) SearchPosts(ctx context.Context, term string, page, limit int) (*repository.Page[entity.Post], error) {
	page, limit = pageDefaults(page, limit)
	return uc.postRepo.Search(ctx, strings.TrimSpace(term), page, limit)
}

func (uc *postUseCase) AllPosts(ctx context.Context) ([]entity.Post, error) {
	return uc.postRepo.ListActive(ctx)
}

// IncrementViews counts at most one view per viewer per hour. Repeated views
// inside the window return the post unchanged.
func (uc *postUseCase) IncrementViews(ctx context.Context, id, viewer string) (*entity.Post, error) {
	post, err := uc.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if viewer == "" {
		return nil, errs.Validation("identifier", "viewer identifier is required")
	}

	key := fmt.Sprintf("post:%s:view:%s", id, viewer)
	first, err := uc.cache.SetNX(ctx, key, viewer, viewDedupeTTL)
	if err != nil {
		uc.logger.Warn("View dedupe unavailable for post %s: %v", id, err)
		first = true
	}
	if !first {
		return post, nil
	}

	return uc.postRepo.IncrementViews(ctx, id)
}

func (uc *postUseCase) ModeratePost(ctx context.Context, actor entity.Actor, id string, status entity.PostStatus) (*entity.Post, error) {
	if !actor.Privileged() {
		return nil, errs.Forbidden("Only moderators can review posts")
	}
	if status != entity.StatusApproved && status != entity.StatusRejected {
		return nil, errs.Validation("status", "status must be one of: APPROVED REJECTED")
	}

	post, err := uc.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if !entity.CanModerate(post.Status) {
		return nil, errs.BadRequest(fmt.Sprintf("Post is %s, only PENDING posts can be moderated", post.Status))
	}

	now := uc.now()
	updated, err := uc.postRepo.Update(ctx, id, entity.PostPatch{Status: &status, ModeratedAt: &now})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Post %s %s by %s", id, strings.ToLower(string(status)), actor.UserID)
	return updated, nil
}

func (uc *postUseCase) ToggleLike(ctx context.Context, actor entity.Actor, postID string) (*entity.LikeResult, error) {
	if _, err := uc.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	liked, count, err := uc.postRepo.ToggleLike(ctx, actor.UserID, postID)
	if err != nil {
		return nil, err
	}
	return &entity.LikeResult{PostID: postID, Liked: liked, LikeCount: count}, nil
}

func (uc *postUseCase) AddComment(ctx context.Context, actor entity.Actor, postID, content string) (*entity.Comment, error) {
	content = strings.TrimSpace(content)
	switch {
	case content == "":
		return nil, errs.Validation("content", "content is required")
	case len([]rune(content)) > maxCommentLength:
		return nil, errs.Validation("content", fmt.Sprintf("content must not exceed %d characters", maxCommentLength))
	}

	if _, err := uc.GetPost(ctx, postID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{Content: content, UserID: actor.UserID, PostID: postID}
	if err := uc.postRepo.AddComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (uc *postUseCase) ListComments(ctx context.Context, postID string, page, limit int) (*repository.Page[entity.Comment], error) {
	if _, err := uc.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	page, limit = pageDefaults(page, limit)
	return uc.postRepo.ListComments(ctx, postID, page, limit)
}

// owned loads a live post and checks that actor wrote it.
func (uc *postUseCase) owned(ctx context.Context, actor entity.Actor, id string) (*entity.Post, error) {
	post, err := uc.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != actor.UserID {
		return nil, errs.Forbidden("You can only modify your own posts")
	}
	return post, nil
}

func (uc *postUseCase) availableSlug(ctx context.Context, title, excludeID string) (string, error) {
	slug := entity.Slugify(title)
	if slug == "" {
		return "", errs.Validation("title", "title must contain letters or digits")
	}

	exists, err := uc.postRepo.SlugExists(ctx, slug, excludeID)
	if err != nil {
		return "", err
	}
	if exists {
		return "", errs.Conflict(fmt.Sprintf("A post with slug %q already exists", slug)).WithField("slug")
	}
	return slug, nil
}

func (uc *postUseCase) checkCategory(ctx context.Context, id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	exists, err := uc.categoryRepo.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !exists {
		return errs.NotFound("Category not found").WithField("categoryId")
	}
	return nil
}

// announce publishes post.submitted or post.published for posts that just
// entered review or went live. Delivery failures are logged only.
func (uc *postUseCase) announce(ctx context.Context, post *entity.Post) {
	var routingKey string
	switch post.Status {
	case entity.StatusPending:
		routingKey = queue.RoutingPostSubmitted
	case entity.StatusPublished:
		routingKey = queue.RoutingPostPublished
	default:
		return
	}

	event := queue.PostEvent{
		PostID:     post.ID,
		AuthorID:   post.AuthorID,
		Title:      post.Title,
		Slug:       post.Slug,
		Status:     string(post.Status),
		OccurredAt: uc.now(),
	}
	if err := uc.publisher.Publish(ctx, routingKey, event); err != nil {
		uc.logger.Error("Failed to publish %s for post %s: %v", routingKey, post.ID, err)
	}
}

func pageDefaults(page, limit int) (int, int) {
	if page == 0 {
		page = entity.DefaultPage
	}
	if limit == 0 {
		limit = entity.DefaultLimit
	}
	if limit > entity.MaxLimit {
		limit = entity.MaxLimit
	}
	return page, limit
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
