package http

import (
	"net/http"

	"github.com/PhucHuuDang/GraphQL/pkg/errs"
	"github.com/PhucHuuDang/GraphQL/pkg/logger"
	"github.com/PhucHuuDang/GraphQL/pkg/response"
	"github.com/PhucHuuDang/GraphQL/services/blog/internal/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUseCase usecase.AuthUseCase
	cookie      SessionCookie
	logger      *logger.Logger
}

func NewAuthHandler(authUseCase usecase.AuthUseCase, cookie SessionCookie, logger *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
		cookie:      cookie,
		logger:      logger,
	}
}

// GitHubRedirect godoc
// @Summary      Start GitHub sign-in
// @Description  Redirects the browser to GitHub's authorize page with a signed state and PKCE challenge
// @Tags         auth
// @Param        callbackURL query string false "Frontend path or URL to return to after sign-in"
// @Success      302
// @Failure      503  {object}  response.ErrorBody
// @Router       /social/github [get]
func (h *AuthHandler) GitHubRedirect(c *gin.Context) {
	redirect, err := h.authUseCase.GitHubAuthURL(c.Request.Context(), c.Query("callbackURL"))
	if err != nil {
		h.logger.Error("Failed to start GitHub sign-in: %v", err)
		response.WriteError(c, err)
		return
	}
	c.Redirect(http.StatusFound, redirect.URL)
}

// OAuthCallback godoc
// @Summary      Complete OAuth sign-in
// @Description  Validates the state, exchanges the code, links the account, sets the session cookie and redirects to the frontend
// @Tags         auth
// @Param        provider path string true "OAuth provider" Enums(github)
// @Param        code query string true "Authorization code"
// @Param        state query string true "Signed state"
// @Success      302
// @Failure      400  {object}  response.ErrorBody
// @Failure      401  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Router       /api/auth/callback/{provider} [get]
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		response.WriteError(c, errs.Unauthorized("Authorization was denied: "+reason))
		return
	}

	code, state := c.Query("code"), c.Query("state")
	if code == "" || state == "" {
		response.WriteError(c, errs.BadRequest("code and state are required"))
		return
	}

	result, err := h.authUseCase.CompleteOAuth(c.Request.Context(), c.Param("provider"), code, state, Client(c))
	if err != nil {
		if appErr := errs.Resolve(err); appErr.StatusCode >= http.StatusInternalServerError {
			h.logger.Error("OAuth callback failed: %v", err)
		}
		response.WriteError(c, err)
		return
	}

	if result.Session != nil {
		h.cookie.Set(c, result.Session.Token, result.Session.ExpiresAt)
	}
	c.Redirect(http.StatusFound, result.URL)
}
