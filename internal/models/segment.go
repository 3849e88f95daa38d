package models

import "github.com/jengzang/greens-backend-go/internal/spatial"

// SegmentID identifies a Strava segment
type SegmentID string

// Segment represents a Strava segment summary as seen by the authenticated athlete
type Segment struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"` // Meters along the course

	// Endpoints
	StartLat float64 `json:"start_lat"`
	StartLon float64 `json:"start_lon"`
	EndLat   float64 `json:"end_lat"`
	EndLon   float64 `json:"end_lon"`

	// AthleteEffortCount is the number of efforts the athlete has recorded on this segment
	AthleteEffortCount int `json:"athlete_effort_count"`
}

// SpanMeters returns the great-circle distance between the segment's start and end points
func (s *Segment) SpanMeters() float64 {
	if !spatial.LatLngValid(s.StartLat, s.StartLon) || !spatial.LatLngValid(s.EndLat, s.EndLon) {
		return 0
	}
	return spatial.HaversineDistance(s.StartLat, s.StartLon, s.EndLat, s.EndLon)
}

// Greens are the segments counted on the leaderboard
var Greens = []SegmentID{"30545810", "30546062", "30546055", "7492562"}
