package persistent

import (
	"encoding/json"

	"github.com/PhucHuuDang/GraphQL/pkg/models"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"

	"gorm.io/datatypes"
)

func ToPostEntity(m *models.Post) *entity.Post {
	if m == nil {
		return nil
	}

	post := &entity.Post{
		ID:                   m.ID,
		Title:                m.Title,
		Slug:                 m.Slug,
		Description:          m.Description,
		Content:              json.RawMessage(m.Content),
		MainImage:            m.MainImage,
		Tags:                 []string(m.Tags),
		Status:               entity.PostStatus(m.Status),
		IsPublished:          m.IsPublished,
		IsPriority:           m.IsPriority,
		IsPinned:             m.IsPinned,
		IsDeleted:            m.IsDeleted,
		Views:                m.Views,
		LikeCount:            m.LikeCount,
		CommentCount:         m.CommentCount,
		AuthorID:             m.AuthorID,
		Author:               ToUserEntity(m.Author),
		CategoryID:           m.CategoryID,
		Category:             ToCategoryEntity(m.Category),
		PublishedAt:          m.PublishedAt,
		SubmittedForReviewAt: m.SubmittedForReviewAt,
		ModeratedAt:          m.ModeratedAt,
		DeletedAt:            m.DeletedAt,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if len(post.Content) == 0 {
		post.Content = nil
	}

	return post
}

func ToPostModel(e *entity.Post) *models.Post {
	if e == nil {
		return nil
	}

	post := &models.Post{
		ID:                   e.ID,
		Title:                e.Title,
		Slug:                 e.Slug,
		Description:          e.Description,
		Content:              datatypes.JSON(e.Content),
		MainImage:            e.MainImage,
		Tags:                 datatypes.JSONSlice[string](e.Tags),
		Status:               models.PostStatus(e.Status),
		IsPublished:          e.IsPublished,
		IsPriority:           e.IsPriority,
		IsPinned:             e.IsPinned,
		Views:                e.Views,
		AuthorID:             e.AuthorID,
		CategoryID:           e.CategoryID,
		PublishedAt:          e.PublishedAt,
		SubmittedForReviewAt: e.SubmittedForReviewAt,
		ModeratedAt:          e.ModeratedAt,
	}
	if post.Tags == nil {
		post.Tags = datatypes.JSONSlice[string]{}
	}

	return post
}

func ToPostEntities(ms []models.Post) []entity.Post {
	posts := make([]entity.Post, len(ms))
	for i := range ms {
		posts[i] = *ToPostEntity(&ms[i])
	}
	return posts
}

// postPatchColumns turns a patch into the column map handed to gorm.
func postPatchColumns(p entity.PostPatch) map[string]interface{} {
	cols := make(map[string]interface{})
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Slug != nil {
		cols["slug"] = *p.Slug
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Content != nil {
		cols["content"] = datatypes.JSON(p.Content)
	}
	if p.MainImage != nil {
		cols["main_image"] = *p.MainImage
	}
	if p.Tags != nil {
		cols["tags"] = datatypes.JSONSlice[string](p.Tags)
	}
	if p.CategoryID != nil {
		if *p.CategoryID == "" {
			cols["category_id"] = nil
		} else {
			cols["category_id"] = *p.CategoryID
		}
	}
	if p.Status != nil {
		cols["status"] = string(*p.Status)
	}
	if p.IsPublished != nil {
		cols["is_published"] = *p.IsPublished
	}
	if p.IsPriority != nil {
		cols["is_priority"] = *p.IsPriority
	}
	if p.IsPinned != nil {
		cols["is_pinned"] = *p.IsPinned
	}
	if p.PublishedAt != nil {
		cols["published_at"] = *p.PublishedAt
	}
	if p.SubmittedForReviewAt != nil {
		cols["submitted_for_review_at"] = *p.SubmittedForReviewAt
	}
	if p.ModeratedAt != nil {
		cols["moderated_at"] = *p.ModeratedAt
	}
	return cols
}

func ToUserEntity(m *models.User) *entity.User {
	if m == nil {
		return nil
	}

	user := &entity.User{
		ID:            m.ID,
		Name:          m.Name,
		Email:         m.Email,
		EmailVerified: m.EmailVerified,
		Image:         m.Image,
		Bio:           m.Bio,
		Designation:   m.Designation,
		Role:          entity.Role(m.Role),
		IsActive:      m.IsActive,
		IsVerified:    m.IsVerified,
		IsDeleted:     m.IsDeleted,
		IsSuspended:   m.IsSuspended,
		IsLocked:      m.IsLocked,
		IsExpired:     m.IsExpired,
		IsBlocked:     m.IsBlocked,
		SocialLinks:   socialLinks(m.SocialLinks),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if len(m.Posts) > 0 {
		user.Posts = ToPostEntities(m.Posts)
	}
	return user
}

func ToUserModel(e *entity.User) *models.User {
	if e == nil {
		return nil
	}

	links := datatypes.JSONMap{}
	for k, v := range e.SocialLinks {
		links[k] = v
	}

	return &models.User{
		ID:            e.ID,
		Name:          e.Name,
		Email:         e.Email,
		EmailVerified: e.EmailVerified,
		Image:         e.Image,
		Bio:           e.Bio,
		Designation:   e.Designation,
		Role:          models.UserRole(e.Role),
		IsActive:      e.IsActive,
		IsVerified:    e.IsVerified,
		IsSuspended:   e.IsSuspended,
		IsLocked:      e.IsLocked,
		IsExpired:     e.IsExpired,
		IsBlocked:     e.IsBlocked,
		SocialLinks:   links,
	}
}

func socialLinks(m datatypes.JSONMap) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func ToAccountEntity(m *models.Account) entity.Account {
	return entity.Account{
		ID:                   m.ID,
		AccountID:            m.AccountID,
		ProviderID:           m.ProviderID,
		UserID:               m.UserID,
		Scope:                m.Scope,
		AccessTokenExpiresAt: m.AccessTokenExpiresAt,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

func ToAccountModel(c *entity.Credential) *models.Account {
	return &models.Account{
		ID:                   c.ID,
		AccountID:            c.AccountID,
		ProviderID:           c.ProviderID,
		UserID:               c.UserID,
		Scope:                c.Scope,
		AccessTokenExpiresAt: c.AccessTokenExpiresAt,
		AccessToken:          optional(c.AccessToken),
		RefreshToken:         optional(c.RefreshToken),
		Password:             optional(c.PasswordHash),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func ToSessionEntity(m *models.Session) *entity.Session {
	if m == nil {
		return nil
	}
	return &entity.Session{
		ID:        m.ID,
		Token:     m.Token,
		UserID:    m.UserID,
		ExpiresAt: m.ExpiresAt,
		IPAddress: m.IPAddress,
		UserAgent: m.UserAgent,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToCategoryEntity(m *models.Category) *entity.Category {
	if m == nil {
		return nil
	}
	return &entity.Category{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToCommentEntity(m *models.Comment) entity.Comment {
	return entity.Comment{
		ID:        m.ID,
		Content:   m.Content,
		UserID:    m.UserID,
		PostID:    m.PostID,
		User:      ToUserEntity(m.User),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
