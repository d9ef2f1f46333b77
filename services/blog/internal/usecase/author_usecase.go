package usecase

import (
	"context"
	"strings"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/models"
	"github.com/PhucHuuDang/GraphQL/pkg/validation"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

type AuthorUseCase interface {
	CreateAuthor(ctx context.Context, in entity.CreateAuthorInput) (*entity.User, error)
	GetAuthor(ctx context.Context, id string) (*entity.User, error)
}

type authorUseCase struct {
	userRepo persistent.UserRepository
	logger   *logger.Logger
}

func NewAuthorUseCase(userRepo persistent.UserRepository, logger *logger.Logger) AuthorUseCase {
	return &authorUseCase{userRepo: userRepo, logger: logger}
}

// CreateAuthor adds a user directly, with a credential account when a
// password is given.
func (uc *authorUseCase) CreateAuthor(ctx context.Context, in entity.CreateAuthorInput) (*entity.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:        strings.TrimSpace(in.Name),
		Image:       in.Image,
		Bio:         in.Bio,
		Designation: in.Designation,
		Role:        in.Role,
		IsActive:    true,
		SocialLinks: in.SocialLinks,
	}
	if user.Role == "" {
		user.Role = entity.RoleUser
	}
	if in.Email != "" {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		exists, err := uc.userRepo.EmailExists(ctx, email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, errs.Conflict("User with this email already exists").WithField("email")
		}
		user.Email = &email
	}
	if in.Password != "" && user.Email == nil {
		return nil, errs.Validation("email", "email is required when a password is set")
	}

	var hash []byte
	if in.Password != "" {
		var err error
		if hash, err = bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost); err != nil {
			return nil, errs.Internal("Failed to hash password", err)
		}
	}

	err := uc.userRepo.Transaction(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.CreateUser(ctx, user); err != nil {
			return err
		}
		if hash == nil {
			return nil
		}
		return uc.userRepo.CreateAccount(ctx, &entity.Credential{
			Account:      entity.Account{AccountID: user.ID, ProviderID: models.ProviderCredential, UserID: user.ID},
			PasswordHash: string(hash),
		})
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Author %s created", user.ID)
	return user, nil
}

func (uc *authorUseCase) GetAuthor(ctx context.Context, id string) (*entity.User, error) {
	author, err := uc.userRepo.GetAuthor(ctx, id)
	if err != nil {
		return nil, err
	}
	if author == nil || author.IsDeleted {
		return nil, errs.NotFound("Author not found")
	}
	return author, nil
}
