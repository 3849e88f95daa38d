package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/greens-backend-go/internal/logging"
	"github.com/jengzang/greens-backend-go/internal/middleware"
	"github.com/jengzang/greens-backend-go/internal/service"
	"github.com/jengzang/greens-backend-go/pkg/response"
)

// APIHandler serves the JSON API
type APIHandler struct {
	service GreensService
	gateway Gateway
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(service GreensService, gateway Gateway) *APIHandler {
	return &APIHandler{service: service, gateway: gateway}
}

// GetLeaderboard handles GET /api/v1/leaderboard
func (h *APIHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.service.Leaderboard(c.Request.Context())
	if err != nil {
		logError(c, err, "failed to load leaderboard")
		response.InternalError(c, "Failed to get leaderboard")
		return
	}

	response.Success(c, gin.H{
		"data":          entries,
		"count":         len(entries),
		"median_greens": service.MedianGreens(entries),
	})
}

// GetMe handles GET /api/v1/me
func (h *APIHandler) GetMe(c *gin.Context) {
	s := middleware.CurrentSession(c)
	if s == nil {
		response.Unauthorized(c, "Not signed in")
		return
	}

	response.Success(c, service.Summary(s.AthleteID, s.Name, s.Greens, s.GridCount))
}

type segmentView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name,omitempty"`
	Distance    float64 `json:"distance,omitempty"`
	SpanMeters  float64 `json:"span_meters,omitempty"`
	EffortCount *int    `json:"effort_count,omitempty"`
}

// GetSegments handles GET /api/v1/segments.
// Signed-in athletes also get each segment's live summary.
func (h *APIHandler) GetSegments(c *gin.Context) {
	ids := h.service.Segments()
	views := make([]segmentView, 0, len(ids))

	s := middleware.CurrentSession(c)
	if s == nil {
		for _, id := range ids {
			views = append(views, segmentView{ID: string(id)})
		}
		response.Success(c, views)
		return
	}

	ctx := c.Request.Context()
	api := h.gateway.Open(ctx, s.Token())
	for _, id := range ids {
		view := segmentView{ID: string(id)}
		seg, err := api.GetSegment(ctx, id)
		if err != nil {
			logging.Warn().Err(err).Str("segment_id", string(id)).Msg("failed to fetch segment summary")
		} else {
			count := seg.AthleteEffortCount
			view.Name = seg.Name
			view.Distance = seg.Distance
			view.SpanMeters = seg.SpanMeters()
			view.EffortCount = &count
		}
		views = append(views, view)
	}

	response.Success(c, views)
}
