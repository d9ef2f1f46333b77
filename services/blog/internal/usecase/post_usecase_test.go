package usecase

import (
	"context"
	"testing"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/queue"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_SlugFromTitle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)

	post, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Hello, World!"})
	require.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, entity.StatusDraft, post.Status)
	assert.Equal(t, author.UserID, post.AuthorID)

	_, err = f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "hello world"})
	require.Error(t, err)
	assert.True(t, errs.IsConflict(err))
}

func TestCreatePost_TitleWithoutSlugIsRejected(t *testing.T) {
	f := newFixture(t)
	author := f.actor(t, "Ada", entity.RoleUser)

	_, err := f.posts.CreatePost(context.Background(), author, entity.CreatePostInput{Title: "???"})
	assert.True(t, errs.IsBadRequest(err))
}

func TestCreatePost_PublishPolicy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)
	admin := f.actor(t, "Root", entity.RoleAdmin)

	pending, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Author post", IsPublished: true})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, pending.Status)
	assert.False(t, pending.IsPublished)
	assert.Nil(t, pending.PublishedAt)
	assert.NotNil(t, pending.SubmittedForReviewAt)

	published, err := f.posts.CreatePost(ctx, admin, entity.CreatePostInput{Title: "Admin post", IsPublished: true})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPublished, published.Status)
	assert.True(t, published.IsPublished)
	assert.NotNil(t, published.PublishedAt)

	f.publisher.AssertCalled(t, "Publish", queue.RoutingPostSubmitted, mock.AnythingOfType("queue.PostEvent"))
	f.publisher.AssertCalled(t, "Publish", queue.RoutingPostPublished, mock.AnythingOfType("queue.PostEvent"))
}

func TestCreatePost_UnknownCategory(t *testing.T) {
	f := newFixture(t)
	author := f.actor(t, "Ada", entity.RoleUser)
	missing := "00000000-0000-0000-0000-000000000000"

	_, err := f.posts.CreatePost(context.Background(), author, entity.CreatePostInput{Title: "Hello", CategoryID: &missing})
	assert.True(t, errs.IsNotFound(err))
}

func TestUpdatePost_OwnerOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)
	other := f.actor(t, "Bob", entity.RoleUser)
	post, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Hello"})
	require.NoError(t, err)

	title := "Stolen"
	_, err = f.posts.UpdatePost(ctx, other, post.ID, entity.UpdatePostInput{Title: &title})
	assert.True(t, errs.IsForbidden(err))

	_, err = f.posts.DeletePost(ctx, other, post.ID)
	assert.True(t, errs.IsForbidden(err))
}

func TestUpdatePost_RenameChecksSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)
	first, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "First"})
	require.NoError(t, err)
	_, err = f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Second"})
	require.NoError(t, err)

	taken := "Second"
	_, err = f.posts.UpdatePost(ctx, author, first.ID, entity.UpdatePostInput{Title: &taken})
	assert.True(t, errs.IsConflict(err))

	sameSlug := "FIRST!"
	updated, err := f.posts.UpdatePost(ctx, author, first.ID, entity.UpdatePostInput{Title: &sameSlug})
	require.NoError(t, err)
	assert.Equal(t, "first", updated.Slug)
	assert.Equal(t, "FIRST!", updated.Title)

	renamed := "Brand new"
	updated, err = f.posts.UpdatePost(ctx, author, first.ID, entity.UpdatePostInput{Title: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "brand-new", updated.Slug)
}

func TestUpdatePost_EmptyInput(t *testing.T) {
	f := newFixture(t)
	author := f.actor(t, "Ada", entity.RoleUser)

	_, err := f.posts.UpdatePost(context.Background(), author, "any", entity.UpdatePostInput{})
	assert.True(t, errs.IsBadRequest(err))
}

func TestUpdatePost_UnpublishAndRepublish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)
	moderator := f.actor(t, "Mod", entity.RoleModerator)

	yes, no := true, false
	post, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Review me", IsPublished: true})
	require.NoError(t, err)
	require.Equal(t, entity.StatusPending, post.Status)

	post, err = f.posts.ModeratePost(ctx, moderator, post.ID, entity.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, post.Status)
	assert.NotNil(t, post.ModeratedAt)

	post, err = f.posts.UpdatePost(ctx, author, post.ID, entity.UpdatePostInput{IsPublished: &yes})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPublished, post.Status)
	assert.True(t, post.IsPublished)

	post, err = f.posts.UpdatePost(ctx, author, post.ID, entity.UpdatePostInput{IsPublished: &no})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusUnpublished, post.Status)
	assert.False(t, post.IsPublished)
}

func TestModeratePost_Rules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)
	moderator := f.actor(t, "Mod", entity.RoleModerator)
	post, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Draft"})
	require.NoError(t, err)

	_, err = f.posts.ModeratePost(ctx, author, post.ID, entity.StatusApproved)
	assert.True(t, errs.IsForbidden(err))

	_, err = f.posts.ModeratePost(ctx, moderator, post.ID, entity.StatusPublished)
	assert.True(t, errs.IsBadRequest(err))

	_, err = f.posts.ModeratePost(ctx, moderator, post.ID, entity.StatusApproved)
	assert.True(t, errs.IsBadRequest(err), "drafts are not awaiting review")
}

func TestDeleteAndRestorePost(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)
	post, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Hello"})
	require.NoError(t, err)

	deleted, err := f.posts.DeletePost(ctx, author, post.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)

	_, err = f.posts.GetPost(ctx, post.ID)
	assert.True(t, errs.IsNotFound(err))

	all, err := f.posts.AllPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	restored, err := f.posts.RestorePost(ctx, author, post.ID)
	require.NoError(t, err)
	assert.False(t, restored.IsDeleted)

	_, err = f.posts.RestorePost(ctx, author, post.ID)
	assert.True(t, errs.IsBadRequest(err))
}

func TestIncrementViews_DedupesPerViewer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)
	post, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Hello"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = f.posts.IncrementViews(ctx, post.ID, "ip:10.0.0.1")
		require.NoError(t, err)
	}
	got, err := f.posts.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Views)

	got, err = f.posts.IncrementViews(ctx, post.ID, "guest:abc")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Views)

	_, err = f.cache.Get(ctx, "post:"+post.ID+":view:guest:abc")
	assert.NoError(t, err)
}

func TestIncrementViews_MissingPost(t *testing.T) {
	f := newFixture(t)

	_, err := f.posts.IncrementViews(context.Background(), "00000000-0000-0000-0000-000000000000", "ip:1.1.1.1")
	assert.True(t, errs.IsNotFound(err))
}

func TestGetPostBySlug_NormalizesArgument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)
	_, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Crème brûlée"})
	require.NoError(t, err)

	post, err := f.posts.GetPostBySlug(ctx, "Crème Brûlée")
	require.NoError(t, err)
	assert.Equal(t, "creme-brulee", post.Slug)

	_, err = f.posts.GetPostBySlug(ctx, "nothing-here")
	assert.True(t, errs.IsNotFound(err))
}

func TestListPosts_FiltersAndMyPosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ada := f.actor(t, "Ada", entity.RoleAdmin)
	bob := f.actor(t, "Bob", entity.RoleUser)

	_, err := f.posts.CreatePost(ctx, ada, entity.CreatePostInput{Title: "Published one", IsPublished: true, Tags: []string{"go"}})
	require.NoError(t, err)
	_, err = f.posts.CreatePost(ctx, bob, entity.CreatePostInput{Title: "Bob draft", Tags: []string{"go"}})
	require.NoError(t, err)

	page, err := f.posts.ListPosts(ctx, entity.PostFilters{Tags: []string{"go"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Meta.Total)

	page, err = f.posts.PublishedPosts(ctx, entity.PostFilters{})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Published one", page.Data[0].Title)

	page, err = f.posts.MyPosts(ctx, bob, entity.PostFilters{AuthorID: ada.UserID})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Bob draft", page.Data[0].Title)

	_, err = f.posts.ListPosts(ctx, entity.PostFilters{SortBy: "password"})
	assert.True(t, errs.IsBadRequest(err))

	_, err = f.posts.ListPosts(ctx, entity.PostFilters{Page: -1})
	assert.True(t, errs.IsBadRequest(err))
}

func TestToggleLikeAndComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.actor(t, "Ada", entity.RoleUser)
	reader := f.actor(t, "Bob", entity.RoleUser)
	post, err := f.posts.CreatePost(ctx, author, entity.CreatePostInput{Title: "Hello"})
	require.NoError(t, err)

	res, err := f.posts.ToggleLike(ctx, reader, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)

	_, err = f.posts.AddComment(ctx, reader, post.ID, "   ")
	assert.True(t, errs.IsBadRequest(err))

	c, err := f.posts.AddComment(ctx, reader, post.ID, " Nice post ")
	require.NoError(t, err)
	assert.Equal(t, "Nice post", c.Content)

	comments, err := f.posts.ListComments(ctx, post.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), comments.Meta.Total)
	assert.Equal(t, 10, comments.Meta.Limit)
}
