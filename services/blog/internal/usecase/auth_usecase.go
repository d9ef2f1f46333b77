package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/cache"
	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/jwt"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/middleware"
	"github.com/PhucHuuDang/GraphQL/pkg/models"
	"github.com/PhucHuuDang/GraphQL/pkg/validation"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/repo/persistent"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

const (
	SessionTTL         = 7 * 24 * time.Hour
	RememberSessionTTL = 30 * 24 * time.Hour

	sessionCacheTTL = 5 * time.Minute
	verificationTTL = 10 * time.Minute
)

type AuthUseCase interface {
	middleware.SessionResolver

	SignUpEmail(ctx context.Context, in entity.SignUpInput, client entity.ClientInfo) (*entity.AuthResult, error)
	SignInEmail(ctx context.Context, in entity.SignInInput, client entity.ClientInfo) (*entity.AuthResult, error)
	SignOut(ctx context.Context, token string) (*entity.SignOutResult, error)
	GetSession(ctx context.Context, token string) (*entity.SessionView, error)
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	GetAccounts(ctx context.Context, userID string) ([]entity.Account, error)
	UpdateProfile(ctx context.Context, userID string, in entity.UpdateProfileInput) (*entity.User, error)
	GitHubAuthURL(ctx context.Context, callbackURL string) (*entity.OAuthRedirect, error)
	CompleteOAuth(ctx context.Context, provider, code, state string, client entity.ClientInfo) (*entity.AuthResult, error)
}

type authUseCase struct {
	userRepo    persistent.UserRepository
	cache       cache.Cache
	jwtService  *jwt.Service
	github      *GitHubProvider
	frontendURL string
	logger      *logger.Logger
	now         func() time.Time
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	cache cache.Cache,
	jwtService *jwt.Service,
	github *GitHubProvider,
	frontendURL string,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:    userRepo,
		cache:       cache,
		jwtService:  jwtService,
		github:      github,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
		now:         time.Now,
	}
}

func (uc *authUseCase) SignUpEmail(ctx context.Context, in entity.SignUpInput, client entity.ClientInfo) (*entity.AuthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))

	exists, err := uc.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.Conflict("User with this email already exists").WithField("email")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.Internal("Failed to hash password", err)
	}

	user := &entity.User{
		Name:     strings.TrimSpace(in.Name),
		Email:    &email,
		Image:    in.AvatarURL,
		Role:     entity.RoleUser,
		IsActive: true,
	}
	var session *entity.Session

	err = uc.userRepo.Transaction(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.CreateUser(ctx, user); err != nil {
			return err
		}
		cred := &entity.Credential{
			Account:      entity.Account{AccountID: user.ID, ProviderID: models.ProviderCredential, UserID: user.ID},
			PasswordHash: string(hash),
		}
		if err := uc.userRepo.CreateAccount(ctx, cred); err != nil {
			return err
		}
		session, err = uc.newSession(ctx, user.ID, in.RememberMe, client)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("User %s signed up", user.ID)
	return &entity.AuthResult{Token: session.Token, URL: uc.callback(in.CallbackURL), User: user, Session: session}, nil
}

func (uc *authUseCase) SignInEmail(ctx context.Context, in entity.SignInInput, client entity.ClientInfo) (*entity.AuthResult, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.InvalidCredentials()
	}

	cred, err := uc.userRepo.GetCredential(ctx, models.ProviderCredential, user.ID)
	if err != nil {
		return nil, err
	}
	if cred == nil || cred.PasswordHash == "" {
		return nil, errs.InvalidCredentials()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(in.Password)); err != nil {
		return nil, errs.InvalidCredentials()
	}
	if reason := user.SignInBlocker(); reason != "" {
		return nil, errs.Forbidden(reason)
	}

	session, err := uc.newSession(ctx, user.ID, in.RememberMe, client)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("User %s signed in", user.ID)
	return &entity.AuthResult{Token: session.Token, URL: uc.callback(in.CallbackURL), User: user, Session: session}, nil
}

func (uc *authUseCase) SignOut(ctx context.Context, token string) (*entity.SignOutResult, error) {
	if token == "" {
		return &entity.SignOutResult{Success: false}, nil
	}

	deleted, err := uc.userRepo.DeleteSessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.Del(ctx, sessionKey(token)); err != nil {
		uc.logger.Warn("Failed to evict cached session: %v", err)
	}
	return &entity.SignOutResult{Success: deleted}, nil
}

func (uc *authUseCase) GetSession(ctx context.Context, token string) (*entity.SessionView, error) {
	session, user, err := uc.lookup(ctx, token)
	if err != nil || session == nil {
		return nil, err
	}
	return &entity.SessionView{Session: session, User: user}, nil
}

// ResolveSession serves the session middleware. Hits are cached briefly so
// most requests skip the database.
func (uc *authUseCase) ResolveSession(ctx context.Context, token string) (*middleware.Identity, error) {
	if token == "" {
		return nil, nil
	}

	if raw, err := uc.cache.Get(ctx, sessionKey(token)); err == nil {
		var c cachedSession
		if json.Unmarshal([]byte(raw), &c) == nil && uc.now().Before(c.ExpiresAt) {
			return &middleware.Identity{UserID: c.UserID, Role: c.Role, SessionID: c.SessionID, Token: token}, nil
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		uc.logger.Warn("Session cache unavailable: %v", err)
	}

	session, user, err := uc.lookup(ctx, token)
	if err != nil || session == nil {
		return nil, err
	}

	c := cachedSession{UserID: user.ID, Role: string(user.Role), SessionID: session.ID, ExpiresAt: session.ExpiresAt}
	ttl := sessionCacheTTL
	if left := session.ExpiresAt.Sub(uc.now()); left < ttl {
		ttl = left
	}
	if raw, err := json.Marshal(c); err == nil {
		if err := uc.cache.Set(ctx, sessionKey(token), string(raw), ttl); err != nil {
			uc.logger.Warn("Failed to cache session: %v", err)
		}
	}

	return &middleware.Identity{UserID: user.ID, Role: string(user.Role), SessionID: session.ID, Token: token}, nil
}

func (uc *authUseCase) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	user, err := uc.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.NotFound("User not found")
	}

	accounts, err := uc.userRepo.ListAccounts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &entity.Profile{User: user, Accounts: accounts}, nil
}

func (uc *authUseCase) GetAccounts(ctx context.Context, userID string) ([]entity.Account, error) {
	return uc.userRepo.ListAccounts(ctx, userID)
}

func (uc *authUseCase) UpdateProfile(ctx context.Context, userID string, in entity.UpdateProfileInput) (*entity.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.AvatarURL != nil {
		fields["image"] = *in.AvatarURL
	}
	if len(fields) == 0 {
		return nil, errs.BadRequest("no fields to update")
	}
	return uc.userRepo.UpdateUser(ctx, userID, fields)
}

// GitHubAuthURL starts a GitHub login. The PKCE verifier is stored under a
// nonce that travels inside the signed state.
func (uc *authUseCase) GitHubAuthURL(ctx context.Context, callbackURL string) (*entity.OAuthRedirect, error) {
	if uc.github == nil {
		return nil, errs.ServiceUnavailable("GitHub sign-in is not configured", nil)
	}

	nonce := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	v := &entity.Verification{
		Identifier: oauthIdentifier(models.ProviderGitHub, nonce),
		Value:      verifier,
		ExpiresAt:  uc.now().Add(verificationTTL),
	}
	if err := uc.userRepo.CreateVerification(ctx, v); err != nil {
		return nil, err
	}

	state, err := uc.jwtService.GenerateState(models.ProviderGitHub, nonce, uc.callback(callbackURL))
	if err != nil {
		return nil, errs.Internal("Failed to sign OAuth state", err)
	}

	url := uc.github.OAuth.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	return &entity.OAuthRedirect{URL: url, Redirect: true}, nil
}

// CompleteOAuth finishes the provider redirect: it checks the state, swaps
// the code for tokens, links or creates the user and opens a session. The
// result URL is where the browser goes next.
func (uc *authUseCase) CompleteOAuth(ctx context.Context, provider, code, state string, client entity.ClientInfo) (*entity.AuthResult, error) {
	if provider != models.ProviderGitHub {
		return nil, errs.NotFound("Unknown OAuth provider " + provider)
	}
	if uc.github == nil {
		return nil, errs.ServiceUnavailable("GitHub sign-in is not configured", nil)
	}
	if code == "" {
		return nil, errs.BadRequest("Missing authorization code")
	}

	claims, err := uc.jwtService.ValidateState(state, provider)
	if err != nil {
		uc.logger.Warn("Rejected OAuth callback: %v", err)
		return nil, errs.Unauthorized("Invalid OAuth state")
	}

	v, err := uc.userRepo.ConsumeVerification(ctx, oauthIdentifier(provider, claims.Nonce), uc.now())
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, errs.Unauthorized("OAuth state expired or already used")
	}

	token, err := uc.github.OAuth.Exchange(ctx, code, oauth2.VerifierOption(v.Value))
	if err != nil {
		uc.logger.Warn("GitHub code exchange failed: %v", err)
		return nil, errs.Unauthorized("Failed to exchange authorization code")
	}

	profile, err := uc.github.Profile(ctx, token)
	if err != nil {
		return nil, errs.ServiceUnavailable("Failed to fetch GitHub profile", err)
	}

	var (
		user    *entity.User
		session *entity.Session
	)
	err = uc.userRepo.Transaction(ctx, func(ctx context.Context) error {
		user, err = uc.linkGitHubUser(ctx, profile)
		if err != nil {
			return err
		}
		if reason := user.SignInBlocker(); reason != "" {
			return errs.Forbidden(reason)
		}

		cred := &entity.Credential{
			Account: entity.Account{
				AccountID:  profile.ID,
				ProviderID: provider,
				UserID:     user.ID,
				Scope:      strings.Join(uc.github.OAuth.Scopes, ","),
			},
			AccessToken:  token.AccessToken,
			RefreshToken: token.RefreshToken,
		}
		if !token.Expiry.IsZero() {
			expiry := token.Expiry
			cred.AccessTokenExpiresAt = &expiry
		}
		if err := uc.userRepo.UpsertOAuthAccount(ctx, cred); err != nil {
			return err
		}

		session, err = uc.newSession(ctx, user.ID, true, client)
		return err
	})
	if err != nil {
		return nil, err
	}

	redirect := claims.CallbackURL
	if redirect == "" {
		redirect = uc.frontendURL + "/blogs"
	}

	uc.logger.Info("User %s signed in with %s", user.ID, provider)
	return &entity.AuthResult{Redirect: true, Token: session.Token, URL: redirect, User: user, Session: session}, nil
}

// linkGitHubUser finds the user already linked to the GitHub account, then a
// user with the same verified email, and otherwise creates one.
func (uc *authUseCase) linkGitHubUser(ctx context.Context, profile *GitHubProfile) (*entity.User, error) {
	cred, err := uc.userRepo.GetCredential(ctx, models.ProviderGitHub, profile.ID)
	if err != nil {
		return nil, err
	}
	if cred != nil {
		user, err := uc.userRepo.GetUserByID(ctx, cred.UserID)
		if err != nil || user != nil {
			return user, err
		}
	}

	var email *string
	if profile.Email != "" {
		lower := strings.ToLower(profile.Email)
		email = &lower
	}

	if email != nil && profile.EmailVerified {
		user, err := uc.userRepo.GetUserByEmail(ctx, *email)
		if err != nil || user != nil {
			return user, err
		}
	}

	user := &entity.User{
		Name:          profile.Name,
		Email:         email,
		EmailVerified: profile.EmailVerified,
		Image:         profile.AvatarURL,
		Bio:           profile.Bio,
		Role:          entity.RoleUser,
		IsActive:      true,
		IsVerified:    profile.EmailVerified,
		SocialLinks:   map[string]string{"github": "https://github.com/" + profile.Login},
	}
	if err := uc.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *authUseCase) newSession(ctx context.Context, userID string, remember bool, client entity.ClientInfo) (*entity.Session, error) {
	ttl := SessionTTL
	if remember {
		ttl = RememberSessionTTL
	}

	session := &entity.Session{
		Token:     newSessionToken(),
		UserID:    userID,
		ExpiresAt: uc.now().Add(ttl),
		IPAddress: client.IPAddress,
		UserAgent: client.UserAgent,
	}
	if err := uc.userRepo.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// lookup returns the live session behind token and its user, or nils when
// the token is unknown, expired or belongs to a blocked account.
func (uc *authUseCase) lookup(ctx context.Context, token string) (*entity.Session, *entity.User, error) {
	if token == "" {
		return nil, nil, nil
	}

	session, err := uc.userRepo.GetSessionByToken(ctx, token)
	if err != nil || session == nil {
		return nil, nil, err
	}
	if !uc.now().Before(session.ExpiresAt) {
		return nil, nil, nil
	}

	user, err := uc.userRepo.GetUserByID(ctx, session.UserID)
	if err != nil || user == nil {
		return nil, nil, err
	}
	if user.SignInBlocker() != "" {
		return nil, nil, nil
	}
	return session, user, nil
}

// callback keeps post-login redirects on the frontend origin.
func (uc *authUseCase) callback(url string) string {
	switch {
	case url == "":
		return ""
	case strings.HasPrefix(url, "/") && !strings.HasPrefix(url, "//"):
		return uc.frontendURL + url
	case url == uc.frontendURL || strings.HasPrefix(url, uc.frontendURL+"/"):
		return url
	}
	return ""
}

type cachedSession struct {
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func sessionKey(token string) string {
	return "session:" + token
}

func oauthIdentifier(provider, nonce string) string {
	return provider + ":" + nonce
}

func newSessionToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
