package persistent

import (
	"context"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/database"
	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/models"
	"github.com/PhucHuuDang/GraphQL/pkg/repository"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"

	"gorm.io/gorm"
)

// UserRepository stores users together with the accounts, sessions and
// verification values used to authenticate them.
type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) error
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetAuthor(ctx context.Context, id string) (*entity.User, error)
	UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*entity.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)

	CreateAccount(ctx context.Context, cred *entity.Credential) error
	GetCredential(ctx context.Context, providerID, accountID string) (*entity.Credential, error)
	ListAccounts(ctx context.Context, userID string) ([]entity.Account, error)
	UpsertOAuthAccount(ctx context.Context, cred *entity.Credential) error

	CreateSession(ctx context.Context, session *entity.Session) error
	GetSessionByToken(ctx context.Context, token string) (*entity.Session, error)
	DeleteSessionByToken(ctx context.Context, token string) (bool, error)

	CreateVerification(ctx context.Context, v *entity.Verification) error
	ConsumeVerification(ctx context.Context, identifier string, now time.Time) (*entity.Verification, error)

	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type userRepository struct {
	db            *gorm.DB
	users         *repository.Repository[models.User]
	accounts      *repository.Repository[models.Account]
	sessions      *repository.Repository[models.Session]
	verifications *repository.Repository[models.Verification]
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db:            db,
		users:         repository.New[models.User](db),
		accounts:      repository.New[models.Account](db),
		sessions:      repository.New[models.Session](db),
		verifications: repository.New[models.Verification](db),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *entity.User) error {
	m := ToUserModel(user)
	if _, err := r.users.Create(ctx, m); err != nil {
		return err
	}
	*user = *ToUserEntity(m)
	return nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id string) (*entity.User, error) {
	m, err := r.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserEntity(m), nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	m, err := r.users.FindOne(ctx, repository.NewQuery[models.User]().Eq("email", email))
	if err != nil {
		return nil, err
	}
	return ToUserEntity(m), nil
}

// GetAuthor loads the user with their active posts, newest first.
func (r *userRepository) GetAuthor(ctx context.Context, id string) (*entity.User, error) {
	m, err := r.users.FindByID(ctx, id)
	if err != nil || m == nil {
		return nil, err
	}

	posts := repository.New[models.Post](r.db)
	q := repository.NewQuery[models.Post]().
		Select(postAggregates).
		Preload("Category").
		Active().
		Eq("author_id", id).
		OrderBy("created_at", true)
	m.Posts, err = posts.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}

	author := ToUserEntity(m)
	if author.Posts == nil {
		author.Posts = []entity.Post{}
	}
	return author, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, id string, fields map[string]interface{}) (*entity.User, error) {
	m, err := r.users.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	return ToUserEntity(m), nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	return r.users.Exists(ctx, repository.NewQuery[models.User]().Eq("email", email))
}

func (r *userRepository) CreateAccount(ctx context.Context, cred *entity.Credential) error {
	m := ToAccountModel(cred)
	if _, err := r.accounts.Create(ctx, m); err != nil {
		return err
	}
	cred.Account = ToAccountEntity(m)
	return nil
}

func (r *userRepository) GetCredential(ctx context.Context, providerID, accountID string) (*entity.Credential, error) {
	q := repository.NewQuery[models.Account]().
		Eq("provider_id", providerID).
		Eq("account_id", accountID)

	m, err := r.accounts.FindOne(ctx, q)
	if err != nil || m == nil {
		return nil, err
	}

	cred := &entity.Credential{Account: ToAccountEntity(m)}
	if m.Password != nil {
		cred.PasswordHash = *m.Password
	}
	if m.AccessToken != nil {
		cred.AccessToken = *m.AccessToken
	}
	if m.RefreshToken != nil {
		cred.RefreshToken = *m.RefreshToken
	}
	return cred, nil
}

func (r *userRepository) ListAccounts(ctx context.Context, userID string) ([]entity.Account, error) {
	q := repository.NewQuery[models.Account]().Eq("user_id", userID).OrderBy("created_at", false)
	ms, err := r.accounts.FindAll(ctx, q)
	if err != nil {
		return nil, err
	}

	accounts := make([]entity.Account, len(ms))
	for i := range ms {
		accounts[i] = ToAccountEntity(&ms[i])
	}
	return accounts, nil
}

// UpsertOAuthAccount stores fresh provider tokens on the (provider, account)
// pair, linking it to cred.UserID when it is new.
func (r *userRepository) UpsertOAuthAccount(ctx context.Context, cred *entity.Credential) error {
	m := ToAccountModel(cred)
	in := repository.UpsertInput[models.Account]{
		Where: repository.NewQuery[models.Account]().
			Eq("provider_id", cred.ProviderID).
			Eq("account_id", cred.AccountID),
		Create: m,
		Update: map[string]interface{}{
			"access_token":            m.AccessToken,
			"refresh_token":           m.RefreshToken,
			"access_token_expires_at": m.AccessTokenExpiresAt,
			"scope":                   m.Scope,
		},
	}

	out, err := r.accounts.Upsert(ctx, in)
	if err != nil {
		return err
	}
	cred.Account = ToAccountEntity(out)
	return nil
}

func (r *userRepository) CreateSession(ctx context.Context, session *entity.Session) error {
	m := &models.Session{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		IPAddress: session.IPAddress,
		UserAgent: session.UserAgent,
		UserID:    session.UserID,
	}
	if _, err := r.sessions.Create(ctx, m); err != nil {
		return err
	}
	*session = *ToSessionEntity(m)
	return nil
}

func (r *userRepository) GetSessionByToken(ctx context.Context, token string) (*entity.Session, error) {
	m, err := r.sessions.FindOne(ctx, repository.NewQuery[models.Session]().Eq("token", token))
	if err != nil {
		return nil, err
	}
	return ToSessionEntity(m), nil
}

func (r *userRepository) DeleteSessionByToken(ctx context.Context, token string) (bool, error) {
	res, err := r.sessions.DeleteMany(ctx, repository.NewQuery[models.Session]().Eq("token", token))
	if err != nil {
		return false, err
	}
	return res.Count > 0, nil
}

func (r *userRepository) CreateVerification(ctx context.Context, v *entity.Verification) error {
	m := &models.Verification{Identifier: v.Identifier, Value: v.Value, ExpiresAt: v.ExpiresAt}
	if _, err := r.verifications.Create(ctx, m); err != nil {
		return err
	}
	v.ID = m.ID
	return nil
}

// ConsumeVerification deletes every value stored under identifier and returns
// the newest one that has not expired.
func (r *userRepository) ConsumeVerification(ctx context.Context, identifier string, now time.Time) (*entity.Verification, error) {
	var out *entity.Verification
	err := r.Transaction(ctx, func(ctx context.Context) error {
		q := repository.NewQuery[models.Verification]().
			Eq("identifier", identifier).
			OrderBy("created_at", true)

		m, err := r.verifications.FindOne(ctx, q)
		if err != nil {
			return err
		}
		if m == nil {
			return nil
		}
		if err := database.Conn(ctx, r.db).Where("identifier = ?", identifier).Delete(&models.Verification{}).Error; err != nil {
			return errs.FromDatabase(err)
		}
		if now.Before(m.ExpiresAt) {
			out = &entity.Verification{ID: m.ID, Identifier: m.Identifier, Value: m.Value, ExpiresAt: m.ExpiresAt}
		}
		return nil
	})
	return out, err
}

func (r *userRepository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.users.Transaction(ctx, fn)
}
