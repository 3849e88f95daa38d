package models

import "time"

// AthleteTotal is a row of the greens table
type AthleteTotal struct {
	ID         int64     `json:"id" db:"id"` // Strava athlete ID
	Name       string    `json:"name" db:"name"`
	Greens     int       `json:"greens" db:"num"` // Total efforts across the green segments
	GridCount  int       `json:"grid_count" db:"grid_count"`
	LastUpdate time.Time `json:"lastupdate" db:"lastupdate"`
}

// LeaderboardEntry is an athlete total ranked for display
type LeaderboardEntry struct {
	AthleteTotal
	Rank            int     `json:"rank"`
	Percentile      float64 `json:"percentile"` // Share of athletes at or below this total
	DaysSinceUpdate int     `json:"days_since_update"`
}

// GridSummary is the grid view of the signed-in athlete
type GridSummary struct {
	AthleteID   int64   `json:"athlete_id"`
	Name        string  `json:"name"`
	Greens      int     `json:"greens"`
	GridCount   int     `json:"grid_count"`
	GridTotal   int     `json:"grid_total"`
	GridPercent float64 `json:"grid_percent"`
}
