package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jengzang/greens-backend-go/internal/grid"
	"github.com/jengzang/greens-backend-go/internal/middleware"
	"github.com/jengzang/greens-backend-go/internal/session"
)

// stateMaxAge bounds the time between leaving for Strava and coming back
const stateMaxAge = 600

// PageHandler renders the index page
type PageHandler struct {
	service GreensService
	gateway Gateway
	cookies *Cookies
}

// NewPageHandler creates a new page handler
func NewPageHandler(service GreensService, gateway Gateway, cookies *Cookies) *PageHandler {
	return &PageHandler{service: service, gateway: gateway, cookies: cookies}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	people, err := h.service.Leaderboard(c.Request.Context())
	if err != nil {
		logError(c, err, "failed to load leaderboard")
		c.String(http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	s := middleware.CurrentSession(c)
	if s == nil {
		state, err := c.Cookie(session.StateCookieName)
		if err != nil || state == "" {
			state = uuid.NewString()
			h.cookies.set(c, session.StateCookieName, state, stateMaxAge)
		}

		c.HTML(http.StatusOK, "index.html", gin.H{
			"Signed": false,
			"ID":     int64(0),
			"URL":    h.gateway.AuthorizeURL(state),
			"People": people,
		})
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Signed":      true,
		"ID":          s.AthleteID,
		"Name":        s.Name,
		"Greens":      s.Greens,
		"GridCount":   s.GridCount,
		"GridTotal":   grid.Total,
		"GridPercent": grid.Percent(s.GridCount),
		"People":      people,
	})
}
