package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/jwt"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testJWT() *jwt.Service {
	return jwt.NewService("test-secret")
}

var client = entity.ClientInfo{IPAddress: "10.0.0.1", UserAgent: "go-test"}

func signUp(t *testing.T, f *fixture, email string, remember bool) *entity.AuthResult {
	t.Helper()
	res, err := f.auth.SignUpEmail(context.Background(), entity.SignUpInput{
		Name:       "Ada",
		Email:      email,
		Password:   "correct-horse",
		RememberMe: remember,
	}, client)
	require.NoError(t, err)
	return res
}

func TestSignUpEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res := signUp(t, f, "Ada@Example.com", false)
	require.NotNil(t, res.User)
	assert.Equal(t, "ada@example.com", *res.User.Email)
	assert.NotEmpty(t, res.Token)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), res.Session.ExpiresAt, time.Minute)
	assert.Equal(t, "10.0.0.1", res.Session.IPAddress)

	accounts, err := f.auth.GetAccounts(ctx, res.User.ID)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "credential", accounts[0].ProviderID)

	_, err = f.auth.SignUpEmail(ctx, entity.SignUpInput{Name: "Ada", Email: "ada@example.com", Password: "correct-horse"}, client)
	assert.True(t, errs.IsConflict(err))
}

func TestSignUpEmail_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.SignUpEmail(context.Background(), entity.SignUpInput{Name: "Ada", Email: "ada@example.com", Password: "short"}, client)
	appErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeValidation, appErr.Code)
	assert.Equal(t, "password", appErr.Field)
}

func TestSignInEmail(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	signUp(t, f, "ada@example.com", false)

	res, err := f.auth.SignInEmail(ctx, entity.SignInInput{
		Email:       "ADA@example.com",
		Password:    "correct-horse",
		RememberMe:  true,
		CallbackURL: "/blogs",
	}, client)
	require.NoError(t, err)
	assert.False(t, res.Redirect)
	assert.Equal(t, "http://localhost:3000/blogs", res.URL)
	assert.WithinDuration(t, time.Now().Add(RememberSessionTTL), res.Session.ExpiresAt, time.Minute)

	_, err = f.auth.SignInEmail(ctx, entity.SignInInput{Email: "ada@example.com", Password: "wrong-password"}, client)
	appErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, errs.CodeInvalidCredentials, appErr.Code)

	_, err = f.auth.SignInEmail(ctx, entity.SignInInput{Email: "nobody@example.com", Password: "correct-horse"}, client)
	assert.True(t, errs.IsUnauthorized(err))
}

func TestSignInEmail_BlockedAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := signUp(t, f, "ada@example.com", false)

	_, err := f.users.UpdateUser(ctx, res.User.ID, map[string]interface{}{"is_suspended": true})
	require.NoError(t, err)

	_, err = f.auth.SignInEmail(ctx, entity.SignInInput{Email: "ada@example.com", Password: "correct-horse"}, client)
	assert.True(t, errs.IsForbidden(err))
}

func TestCallbackURLStaysOnFrontend(t *testing.T) {
	f := newFixture(t)
	signUp(t, f, "ada@example.com", false)

	res, err := f.auth.SignInEmail(context.Background(), entity.SignInInput{
		Email:       "ada@example.com",
		Password:    "correct-horse",
		CallbackURL: "https://evil.example.com/",
	}, client)
	require.NoError(t, err)
	assert.Empty(t, res.URL)
}

func TestResolveSessionAndSignOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := signUp(t, f, "ada@example.com", false)

	id, err := f.auth.ResolveSession(ctx, res.Token)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, res.User.ID, id.UserID)
	assert.Equal(t, "USER", id.Role)

	_, err = f.cache.Get(ctx, "session:"+res.Token)
	assert.NoError(t, err, "resolved sessions are cached")

	view, err := f.auth.GetSession(ctx, res.Token)
	require.NoError(t, err)
	require.NotNil(t, view)
	assert.Equal(t, res.User.ID, view.User.ID)

	out, err := f.auth.SignOut(ctx, res.Token)
	require.NoError(t, err)
	assert.True(t, out.Success)

	id, err = f.auth.ResolveSession(ctx, res.Token)
	require.NoError(t, err)
	assert.Nil(t, id)

	out, err = f.auth.SignOut(ctx, "")
	require.NoError(t, err)
	assert.False(t, out.Success)
}

func TestResolveSession_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.actor(t, "Ada", entity.RoleUser)

	s := &entity.Session{Token: "expired", UserID: u.UserID, ExpiresAt: time.Now().Add(-time.Minute)}
	require.NoError(t, f.users.CreateSession(ctx, s))

	id, err := f.auth.ResolveSession(ctx, "expired")
	require.NoError(t, err)
	assert.Nil(t, id)

	view, err := f.auth.GetSession(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, view)
}

func TestGetAndUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res := signUp(t, f, "ada@example.com", false)

	name := "Ada Lovelace"
	avatar := "https://example.com/ada.png"
	user, err := f.auth.UpdateProfile(ctx, res.User.ID, entity.UpdateProfileInput{Name: &name, AvatarURL: &avatar})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.Name)
	assert.Equal(t, avatar, user.Image)

	profile, err := f.auth.GetProfile(ctx, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.User.Name)
	assert.Len(t, profile.Accounts, 1)

	_, err = f.auth.UpdateProfile(ctx, res.User.ID, entity.UpdateProfileInput{})
	assert.True(t, errs.IsBadRequest(err))
}

func TestGitHubAuthURL_NotConfigured(t *testing.T) {
	f := newFixture(t)

	_, err := f.auth.GitHubAuthURL(context.Background(), "")
	assert.True(t, errs.IsUnavailable(err))
}

func fakeGitHub(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/login/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" || r.Form.Get("code_verifier") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"access_token": "gho_token",
			"token_type":   "bearer",
			"scope":        "read:user,user:email",
		})
	})
	mux.HandleFunc("/user", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gho_token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":         42,
			"login":      "octocat",
			"avatar_url": "https://avatars.example.com/42",
		})
	})
	mux.HandleFunc("/user/emails", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]interface{}{
			{"email": "other@example.com", "primary": false, "verified": true},
			{"email": "Octo@Example.com", "primary": true, "verified": true},
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestGitHubLoginFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	srv := fakeGitHub(t)

	provider := &GitHubProvider{
		OAuth: &oauth2.Config{
			ClientID:     "client",
			ClientSecret: "secret",
			Endpoint: oauth2.Endpoint{
				AuthURL:  srv.URL + "/login/oauth/authorize",
				TokenURL: srv.URL + "/login/oauth/access_token",
			},
			RedirectURL: "http://localhost:3001/api/auth/callback/github",
			Scopes:      []string{"read:user", "user:email"},
		},
		APIBase: srv.URL,
	}
	auth := NewAuthUseCase(f.users, f.cache, testJWT(), provider, "http://localhost:3000", quietLogger())

	redirect, err := auth.GitHubAuthURL(ctx, "/blogs/mine")
	require.NoError(t, err)
	assert.True(t, redirect.Redirect)

	u, err := url.Parse(redirect.URL)
	require.NoError(t, err)
	assert.Equal(t, "S256", u.Query().Get("code_challenge_method"))
	assert.NotEmpty(t, u.Query().Get("code_challenge"))
	state := u.Query().Get("state")
	require.NotEmpty(t, state)

	res, err := auth.CompleteOAuth(ctx, "github", "good-code", state, client)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/blogs/mine", res.URL)
	assert.Equal(t, "octo@example.com", *res.User.Email)
	assert.Equal(t, "octocat", res.User.Name)
	assert.True(t, res.User.EmailVerified)

	id, err := auth.ResolveSession(ctx, res.Token)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, res.User.ID, id.UserID)

	_, err = auth.CompleteOAuth(ctx, "github", "good-code", state, client)
	assert.True(t, errs.IsUnauthorized(err), "state can only be used once")

	redirect, err = auth.GitHubAuthURL(ctx, "")
	require.NoError(t, err)
	u, _ = url.Parse(redirect.URL)
	again, err := auth.CompleteOAuth(ctx, "github", "good-code", u.Query().Get("state"), client)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, again.User.ID, "the linked account is reused")
	assert.Equal(t, "http://localhost:3000/blogs", again.URL)
}

func TestCompleteOAuth_RejectsBadState(t *testing.T) {
	f := newFixture(t)
	srv := fakeGitHub(t)
	provider := &GitHubProvider{OAuth: &oauth2.Config{Endpoint: oauth2.Endpoint{TokenURL: srv.URL}}, APIBase: srv.URL}
	auth := NewAuthUseCase(f.users, f.cache, testJWT(), provider, "http://localhost:3000", quietLogger())

	_, err := auth.CompleteOAuth(context.Background(), "github", "good-code", "forged", client)
	assert.True(t, errs.IsUnauthorized(err))

	_, err = auth.CompleteOAuth(context.Background(), "gitlab", "good-code", "forged", client)
	assert.True(t, errs.IsNotFound(err))
}
