package graphql

import (
	"context"

	"github.com/PhucHuuDang/GraphQL/pkg/middleware"
	"github.com/PhucHuuDang/GraphQL/pkg/repository"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/usecase"

	"github.com/stretchr/testify/mock"
)

type MockPostUseCase struct {
	mock.Mock
}

func (m *MockPostUseCase) post(args mock.Arguments) (*entity.Post, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostUseCase) page(args mock.Arguments) (*repository.Page[entity.Post], error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Page[entity.Post]), args.Error(1)
}

func (m *MockPostUseCase) CreatePost(ctx context.Context, actor entity.Actor, in entity.CreatePostInput) (*entity.Post, error) {
	return m.post(m.Called(ctx, actor, in))
}

func (m *MockPostUseCase) UpdatePost(ctx context.Context, actor entity.Actor, id string, in entity.UpdatePostInput) (*entity.Post, error) {
	return m.post(m.Called(ctx, actor, id, in))
}

func (m *MockPostUseCase) DeletePost(ctx context.Context, actor entity.Actor, id string) (*entity.Post, error) {
	return m.post(m.Called(ctx, actor, id))
}

func (m *MockPostUseCase) RestorePost(ctx context.Context, actor entity.Actor, id string) (*entity.Post, error) {
	return m.post(m.Called(ctx, actor, id))
}

func (m *MockPostUseCase) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostUseCase) GetPostBySlug(ctx context.Context, slug string) (*entity.Post, error) {
	return m.post(m.Called(ctx, slug))
}

func (m *MockPostUseCase) ListPosts(ctx context.Context, filters entity.PostFilters) (*repository.Page[entity.Post], error) {
	return m.page(m.Called(ctx, filters))
}

func (m *MockPostUseCase) MyPosts(ctx context.Context, actor entity.Actor, filters entity.PostFilters) (*repository.Page[entity.Post], error) {
	return m.page(m.Called(ctx, actor, filters))
}

func (m *MockPostUseCase) PublishedPosts(ctx context.Context, filters entity.PostFilters) (*repository.Page[entity.Post], error) {
	return m.page(m.Called(ctx, filters))
}

func (m *MockPostUseCase) PriorityPosts(ctx context.Context, limit int) ([]entity.Post, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Post), args.Error(1)
}

func (m *MockPostUseCase) SearchPosts(ctx context.Context, term string, page, limit int) (*repository.Page[entity.Post], error) {
	return m.page(m.Called(ctx, term, page, limit))
}

func (m *MockPostUseCase) AllPosts(ctx context.Context) ([]entity.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Post), args.Error(1)
}

func (m *MockPostUseCase) IncrementViews(ctx context.Context, id, viewer string) (*entity.Post, error) {
	return m.post(m.Called(ctx, id, viewer))
}

func (m *MockPostUseCase) ModeratePost(ctx context.Context, actor entity.Actor, id string, status entity.PostStatus) (*entity.Post, error) {
	return m.post(m.Called(ctx, actor, id, status))
}

func (m *MockPostUseCase) ToggleLike(ctx context.Context, actor entity.Actor, postID string) (*entity.LikeResult, error) {
	args := m.Called(ctx, actor, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LikeResult), args.Error(1)
}

func (m *MockPostUseCase) AddComment(ctx context.Context, actor entity.Actor, postID, content string) (*entity.Comment, error) {
	args := m.Called(ctx, actor, postID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Comment), args.Error(1)
}

func (m *MockPostUseCase) ListComments(ctx context.Context, postID string, page, limit int) (*repository.Page[entity.Comment], error) {
	args := m.Called(ctx, postID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Page[entity.Comment]), args.Error(1)
}

var _ usecase.PostUseCase = (*MockPostUseCase)(nil)

type MockAuthUseCase struct {
	mock.Mock
}

func (m *MockAuthUseCase) authResult(args mock.Arguments) (*entity.AuthResult, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.AuthResult), args.Error(1)
}

func (m *MockAuthUseCase) ResolveSession(ctx context.Context, token string) (*middleware.Identity, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*middleware.Identity), args.Error(1)
}

func (m *MockAuthUseCase) SignUpEmail(ctx context.Context, in entity.SignUpInput, client entity.ClientInfo) (*entity.AuthResult, error) {
	return m.authResult(m.Called(ctx, in, client))
}

func (m *MockAuthUseCase) SignInEmail(ctx context.Context, in entity.SignInInput, client entity.ClientInfo) (*entity.AuthResult, error) {
	return m.authResult(m.Called(ctx, in, client))
}

func (m *MockAuthUseCase) SignOut(ctx context.Context, token string) (*entity.SignOutResult, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SignOutResult), args.Error(1)
}

func (m *MockAuthUseCase) GetSession(ctx context.Context, token string) (*entity.SessionView, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.SessionView), args.Error(1)
}

func (m *MockAuthUseCase) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockAuthUseCase) GetAccounts(ctx context.Context, userID string) ([]entity.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Account), args.Error(1)
}

func (m *MockAuthUseCase) UpdateProfile(ctx context.Context, userID string, in entity.UpdateProfileInput) (*entity.User, error) {
	args := m.Called(ctx, userID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) GitHubAuthURL(ctx context.Context, callbackURL string) (*entity.OAuthRedirect, error) {
	args := m.Called(ctx, callbackURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.OAuthRedirect), args.Error(1)
}

func (m *MockAuthUseCase) CompleteOAuth(ctx context.Context, provider, code, state string, client entity.ClientInfo) (*entity.AuthResult, error) {
	return m.authResult(m.Called(ctx, provider, code, state, client))
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

type MockAuthorUseCase struct {
	mock.Mock
}

func (m *MockAuthorUseCase) CreateAuthor(ctx context.Context, in entity.CreateAuthorInput) (*entity.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthorUseCase) GetAuthor(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

var _ usecase.AuthorUseCase = (*MockAuthorUseCase)(nil)

type MockCategoryUseCase struct {
	mock.Mock
}

func (m *MockCategoryUseCase) CreateCategory(ctx context.Context, in entity.CreateCategoryInput) (*entity.Category, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

func (m *MockCategoryUseCase) CreateCategories(ctx context.Context, names []string) (*repository.BulkResult, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.BulkResult), args.Error(1)
}

func (m *MockCategoryUseCase) ListCategories(ctx context.Context) ([]entity.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Category), args.Error(1)
}

var _ usecase.CategoryUseCase = (*MockCategoryUseCase)(nil)
