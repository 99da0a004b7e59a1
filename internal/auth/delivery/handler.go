package delivery

import (
	"fmt"
	"net/http"
	"net/url"

	"inboxtriage-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
	frontendURL string
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, frontendURL string) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		frontendURL: frontendURL,
	}
}

// Login redirects the browser to Google's consent screen.
func (h *AuthHandler) Login(c *gin.Context) {
	c.Redirect(http.StatusTemporaryRedirect, h.authUsecase.LoginURL("state"))
}

// Callback completes the OAuth flow and sends the browser back to the
// frontend with the resolved user id.
func (h *AuthHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "code is required"})
		return
	}

	userID, err := h.authUsecase.HandleCallback(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "oauth_failed", "message": "could not complete Google sign-in"})
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s?user_id=%s", h.frontendURL, url.QueryEscape(userID)))
}
