package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/greens-backend-go/internal/middleware"
	"github.com/jengzang/greens-backend-go/internal/strava"
)

// GreensHandler refreshes the signed-in athlete's totals
type GreensHandler struct {
	service GreensService
	gateway Gateway
	cookies *Cookies
}

// NewGreensHandler creates a new greens handler
func NewGreensHandler(service GreensService, gateway Gateway, cookies *Cookies) *GreensHandler {
	return &GreensHandler{service: service, gateway: gateway, cookies: cookies}
}

// Refresh handles GET /greens
func (h *GreensHandler) Refresh(c *gin.Context) {
	s := middleware.CurrentSession(c)
	if s == nil {
		redirectHome(c)
		return
	}

	ctx := c.Request.Context()
	api := h.gateway.Open(ctx, s.Token())

	res, err := h.service.Refresh(ctx, api, s.AthleteID, s.Name)
	if errors.Is(err, strava.ErrUnauthorized) {
		logError(c, err, "session rejected by strava")
		h.cookies.Clear(c)
		redirectHome(c)
		return
	}
	if err != nil {
		logError(c, err, "failed to refresh greens")
		c.String(http.StatusInternalServerError, "Failed to update greens")
		return
	}

	s.Greens = res.TotalEfforts
	s.GridCount = res.Count()
	if tok, err := api.Token(); err == nil {
		s.WithToken(tok)
	}
	if err := h.cookies.Save(c, *s); err != nil {
		logError(c, err, "failed to save session")
	}

	redirectHome(c)
}
