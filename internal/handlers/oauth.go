package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/startrack/intake-backend/internal/services"
)

const oauthStateCookie = "oauth2_state"

// OAuthHandler runs social login and hands the resulting access token to
// the frontend through a redirect.
type OAuthHandler struct {
	oauthService *services.OAuthService
	redirectURI  string
}

func NewOAuthHandler(oauthService *services.OAuthService, redirectURI string) *OAuthHandler {
	return &OAuthHandler{oauthService: oauthService, redirectURI: redirectURI}
}

// Authorize sends the browser to the provider's consent page
func (h *OAuthHandler) Authorize(c *gin.Context) {
	state := uuid.NewString()
	target, err := h.oauthService.AuthCodeURL(c.Param("provider"), state)
	if err != nil {
		respondError(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 300, "/", "", c.Request.TLS != nil, true)
	c.Redirect(http.StatusFound, target)
}

// Callback completes a provider login
func (h *OAuthHandler) Callback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", c.Request.TLS != nil, true)
	if err != nil || state == "" || state != c.Query("state") {
		h.redirect(c, url.Values{"error": {"Invalid login state"}})
		return
	}
	if denied := c.Query("error"); denied != "" {
		h.redirect(c, url.Values{"error": {denied}})
		return
	}

	_, token, err := h.oauthService.Complete(c.Request.Context(), c.Param("provider"), c.Query("code"))
	switch {
	case err == nil:
		h.redirect(c, url.Values{"token": {token}})
	case errors.Is(err, services.ErrAccountDisabled):
		h.redirect(c, url.Values{"error": {"Account is not active"}})
	case errors.Is(err, services.ErrProviderMismatch), errors.Is(err, services.ErrUnsupportedProvider):
		h.redirect(c, url.Values{"error": {err.Error()}})
	default:
		slog.Warn("oauth login failed", "provider", c.Param("provider"), "error", err)
		h.redirect(c, url.Values{"error": {"Authentication failed"}})
	}
}

func (h *OAuthHandler) redirect(c *gin.Context, q url.Values) {
	c.Redirect(http.StatusFound, h.redirectURI+"?"+q.Encode())
}
