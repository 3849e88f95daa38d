package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"

	"github.com/jengzang/greens-backend-go/internal/grid"
	"github.com/jengzang/greens-backend-go/internal/logging"
	"github.com/jengzang/greens-backend-go/internal/models"
	"github.com/jengzang/greens-backend-go/internal/session"
	"github.com/jengzang/greens-backend-go/internal/strava"
)

// Gateway is the OAuth and API entry point to Strava
type Gateway interface {
	AuthorizeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Open(ctx context.Context, tok *oauth2.Token) strava.API
}

// GreensService is the business logic the handlers drive
type GreensService interface {
	Refresh(ctx context.Context, src grid.EffortSource, athleteID int64, name string) (grid.Result, error)
	Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	Segments() []models.SegmentID
}

// Cookies writes and clears the session cookies
type Cookies struct {
	sessions *session.Manager
	secure   bool
}

// NewCookies creates a cookie writer; cookies are Secure when baseURL is https
func NewCookies(sessions *session.Manager, baseURL string) *Cookies {
	return &Cookies{sessions: sessions, secure: strings.HasPrefix(baseURL, "https://")}
}

// Save encodes s into the session cookie
func (k *Cookies) Save(c *gin.Context, s session.Session) error {
	raw, err := k.sessions.Encode(s)
	if err != nil {
		return err
	}
	k.set(c, session.CookieName, raw, int(k.sessions.TTL().Seconds()))
	return nil
}

// Clear removes the session cookie
func (k *Cookies) Clear(c *gin.Context) {
	k.set(c, session.CookieName, "", -1)
}

func (k *Cookies) set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", k.secure, true)
}

// redirectHome sends the browser back to the index page
func redirectHome(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}

func logError(c *gin.Context, err error, msg string) {
	_ = c.Error(err)
	logging.Error().Err(err).Str("path", c.Request.URL.Path).Msg(msg)
}
