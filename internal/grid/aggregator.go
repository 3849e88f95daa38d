// Package grid computes how many distinct calendar days of the year an athlete
// has completed at least one of the green segments.
package grid

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/jengzang/greens-backend-go/internal/logging"
	"github.com/jengzang/greens-backend-go/internal/models"
	"github.com/jengzang/greens-backend-go/internal/strava"
)

// Total is the number of slots in the grid, including Feb 29
const Total = 366

// Day is a calendar slot independent of year
type Day struct {
	Month time.Month
	Day   int
}

// DayOf returns the grid slot of t in t's own location
func DayOf(t time.Time) Day {
	return Day{Month: t.Month(), Day: t.Day()}
}

// EffortSource is the API session used to read segment data for the current athlete
type EffortSource interface {
	GetSegment(ctx context.Context, id models.SegmentID) (*models.Segment, error)
	ListSegmentEfforts(ctx context.Context, id models.SegmentID) ([]models.Effort, error)
}

// Result is the outcome of one aggregation
type Result struct {
	// TotalEfforts is the sum of the per-segment summary counts. It comes from a
	// different endpoint than Days and is not required to agree with it.
	TotalEfforts int
	Days         map[Day]struct{}
}

// Count returns the number of distinct grid days
func (r Result) Count() int {
	return len(r.Days)
}

// Percent returns the grid coverage rounded to one decimal
func (r Result) Percent() float64 {
	return Percent(r.Count())
}

// Percent converts a grid day count to a percentage of Total rounded to one decimal
func Percent(count int) float64 {
	return math.Round(float64(count)/Total*1000) / 10
}

// Compute walks the segments in order, summing summary effort counts and
// collecting the distinct (month, day) slots of every listed effort.
//
// A failed fetch only drops that fetch's contribution; the remaining segments
// are still processed. A session failure ends the computation because every
// later call would fail the same way: an unusable token, or a 401 on a summary.
// A 401 on a listing after its summary succeeded means the token lacks the
// activity scope, so it is skipped like any other listing failure.
func Compute(ctx context.Context, src EffortSource, segments []models.SegmentID) (Result, error) {
	res := Result{Days: make(map[Day]struct{}, Total)}

	for _, id := range segments {
		seg, summaryErr := src.GetSegment(ctx, id)
		if summaryErr != nil {
			if errors.Is(summaryErr, strava.ErrUnauthorized) {
				return res, summaryErr
			}
			logging.Warn().Err(summaryErr).Str("segment_id", string(id)).Msg("failed to fetch segment summary")
		} else {
			res.TotalEfforts += seg.AthleteEffortCount
		}

		efforts, err := src.ListSegmentEfforts(ctx, id)
		if err != nil {
			if errors.Is(err, strava.ErrTokenInvalid) ||
				(summaryErr != nil && errors.Is(err, strava.ErrUnauthorized)) {
				return res, err
			}
			logging.Warn().Err(err).Str("segment_id", string(id)).Msg("failed to fetch segment efforts")
			continue
		}

		for _, e := range efforts {
			if e.StartDateLocal.IsZero() {
				continue
			}
			res.Days[DayOf(e.StartDateLocal)] = struct{}{}
		}
	}

	return res, nil
}
