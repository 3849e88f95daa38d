package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/greens-backend-go/internal/grid"
	"github.com/jengzang/greens-backend-go/internal/logging"
	"github.com/jengzang/greens-backend-go/internal/models"
	"github.com/jengzang/greens-backend-go/internal/stats"
)

// GreensStore is the persistence the service writes totals to
type GreensStore interface {
	Upsert(ctx context.Context, t models.AthleteTotal) error
	List(ctx context.Context) ([]models.AthleteTotal, error)
}

// GreensService handles business logic for the greens leaderboard
type GreensService struct {
	store    GreensStore
	segments []models.SegmentID
	now      func() time.Time
}

// NewGreensService creates a new greens service over the given segments
func NewGreensService(store GreensStore, segments []models.SegmentID) *GreensService {
	return &GreensService{
		store:    store,
		segments: segments,
		now:      time.Now,
	}
}

// Segments returns the segments counted by the service
func (s *GreensService) Segments() []models.SegmentID {
	return s.segments
}

// Refresh recomputes the athlete's totals from the API and overwrites their leaderboard row
func (s *GreensService) Refresh(ctx context.Context, src grid.EffortSource, athleteID int64, name string) (grid.Result, error) {
	res, err := grid.Compute(ctx, src, s.segments)
	if err != nil {
		return res, fmt.Errorf("failed to compute grid: %w", err)
	}

	logging.Info().
		Int64("athlete_id", athleteID).
		Int("total", res.TotalEfforts).
		Int("grid_count", res.Count()).
		Int("grid_total", grid.Total).
		Msg("refreshed greens")

	err = s.store.Upsert(ctx, models.AthleteTotal{
		ID:         athleteID,
		Name:       name,
		Greens:     res.TotalEfforts,
		GridCount:  res.Count(),
		LastUpdate: s.now().UTC(),
	})
	if err != nil {
		return res, fmt.Errorf("failed to save totals: %w", err)
	}

	return res, nil
}

// Leaderboard returns every athlete ranked by total efforts
func (s *GreensService) Leaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	totals, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	greens := make([]float64, len(totals))
	for i, t := range totals {
		greens[i] = float64(t.Greens)
	}

	now := s.now().UTC()
	entries := make([]models.LeaderboardEntry, 0, len(totals))
	for i, t := range totals {
		entry := models.LeaderboardEntry{
			AthleteTotal: t,
			Rank:         i + 1,
			Percentile:   stats.PercentileRank(greens, float64(t.Greens)),
		}
		if !t.LastUpdate.IsZero() {
			entry.DaysSinceUpdate = int(now.Sub(t.LastUpdate).Hours() / 24)
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// MedianGreens returns the median total across the leaderboard
func MedianGreens(entries []models.LeaderboardEntry) float64 {
	greens := make([]float64, len(entries))
	for i, e := range entries {
		greens[i] = float64(e.Greens)
	}
	return stats.Median(greens)
}

// Summary builds the grid view for a signed-in athlete from their cached totals
func Summary(athleteID int64, name string, greens, gridCount int) models.GridSummary {
	return models.GridSummary{
		AthleteID:   athleteID,
		Name:        name,
		Greens:      greens,
		GridCount:   gridCount,
		GridTotal:   grid.Total,
		GridPercent: grid.Percent(gridCount),
	}
}
