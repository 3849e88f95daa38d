package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/greens-backend-go/internal/logging"
	"github.com/jengzang/greens-backend-go/internal/session"
)

// AuthHandler handles the OAuth callback and logout
type AuthHandler struct {
	gateway Gateway
	cookies *Cookies
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(gateway Gateway, cookies *Cookies) *AuthHandler {
	return &AuthHandler{gateway: gateway, cookies: cookies}
}

// Authorized handles GET /authorized, the OAuth redirect target
func (h *AuthHandler) Authorized(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		logging.Info().Str("error", reason).Msg("authorization declined")
		redirectHome(c)
		return
	}

	state, err := c.Cookie(session.StateCookieName)
	if err != nil || state == "" || state != c.Query("state") {
		logging.Warn().Msg("oauth state mismatch")
		redirectHome(c)
		return
	}
	h.cookies.set(c, session.StateCookieName, "", -1)

	ctx := c.Request.Context()
	tok, err := h.gateway.Exchange(ctx, c.Query("code"))
	if err != nil {
		logError(c, err, "token exchange failed")
		redirectHome(c)
		return
	}

	athlete, err := h.gateway.Open(ctx, tok).GetAthlete(ctx)
	if err != nil {
		logError(c, err, "failed to load athlete")
		redirectHome(c)
		return
	}

	s := session.Session{AthleteID: athlete.ID, Name: athlete.DisplayName()}
	s.WithToken(tok)
	if err := h.cookies.Save(c, s); err != nil {
		logError(c, err, "failed to save session")
		redirectHome(c)
		return
	}

	logging.Info().Int64("athlete_id", athlete.ID).Msg("athlete signed in")
	c.Redirect(http.StatusFound, "/greens")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookies.Clear(c)
	redirectHome(c)
}
