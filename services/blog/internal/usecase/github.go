package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PhucHuuDang/GraphQL/pkg/config"

	"golang.org/x/oauth2"
	githubOAuth "golang.org/x/oauth2/github"
)

const githubAPI = "https://api.github.com"

// GitHubProfile is the part of the GitHub user we keep.
type GitHubProfile struct {
	ID            string
	Login         string
	Name          string
	Email         string
	EmailVerified bool
	AvatarURL     string
	Bio           string
}

// GitHubProvider wraps the OAuth app and the user API.
type GitHubProvider struct {
	OAuth   *oauth2.Config
	APIBase string
}

// NewGitHubProvider returns nil when no OAuth app is configured.
func NewGitHubProvider(cfg *config.Config) *GitHubProvider {
	if !cfg.GitHubConfigured() {
		return nil
	}
	return &GitHubProvider{
		OAuth: &oauth2.Config{
			ClientID:     cfg.GitHubClientID,
			ClientSecret: cfg.GitHubClientSecret,
			Endpoint:     githubOAuth.Endpoint,
			RedirectURL:  cfg.BackendURL + "/api/auth/callback/github",
			Scopes:       []string{"read:user", "user:email"},
		},
		APIBase: githubAPI,
	}
}

type githubUser struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// Profile fetches the user behind token. The primary verified address from
// /user/emails wins over the public profile email.
func (g *GitHubProvider) Profile(ctx context.Context, token *oauth2.Token) (*GitHubProfile, error) {
	client := g.OAuth.Client(ctx, token)

	var u githubUser
	if err := g.get(ctx, client, "/user", &u); err != nil {
		return nil, err
	}

	profile := &GitHubProfile{
		ID:        strconv.FormatInt(u.ID, 10),
		Login:     u.Login,
		Name:      u.Name,
		Email:     u.Email,
		AvatarURL: u.AvatarURL,
		Bio:       u.Bio,
	}
	if profile.Name == "" {
		profile.Name = u.Login
	}

	var emails []githubEmail
	if err := g.get(ctx, client, "/user/emails", &emails); err != nil {
		return profile, nil
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			profile.Email = e.Email
			profile.EmailVerified = true
			break
		}
	}
	return profile, nil
}

func (g *GitHubProvider) get(ctx context.Context, client *http.Client, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(g.APIBase, "/")+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("github %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
