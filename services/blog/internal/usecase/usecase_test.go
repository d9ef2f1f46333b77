package usecase

import (
	"context"
	"io"
	"testing"

	"github.com/PhucHuuDang/GraphQL/pkg/cache"
	"github.com/PhucHuuDang/GraphQL/pkg/database/dbtest"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/repo/persistent"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockPublisher records published events.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	args := m.Called(routingKey, payload)
	return args.Error(0)
}

func (m *MockPublisher) Close() error { return nil }

func quietLogger() *logger.Logger {
	return logger.NewWithOptions(logger.Options{Writer: io.Discard})
}

type fixture struct {
	posts      PostUseCase
	auth       AuthUseCase
	authors    AuthorUseCase
	categories CategoryUseCase
	users      persistent.UserRepository
	cache      *cache.Memory
	publisher  *MockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	log := quietLogger()

	f := &fixture{
		users:     persistent.NewUserRepository(db),
		cache:     cache.NewMemory(),
		publisher: &MockPublisher{},
	}
	f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil).Maybe()

	categoryRepo := persistent.NewCategoryRepository(db)
	f.posts = NewPostUseCase(persistent.NewPostRepository(db), categoryRepo, f.cache, f.publisher, log)
	f.auth = NewAuthUseCase(f.users, f.cache, testJWT(), nil, "http://localhost:3000", log)
	f.authors = NewAuthorUseCase(f.users, log)
	f.categories = NewCategoryUseCase(categoryRepo)
	return f
}

func (f *fixture) actor(t *testing.T, name string, role entity.Role) entity.Actor {
	t.Helper()
	u, err := f.authors.CreateAuthor(context.Background(), entity.CreateAuthorInput{Name: name, Role: role})
	require.NoError(t, err)
	return entity.Actor{UserID: u.ID, Role: u.Role}
}
