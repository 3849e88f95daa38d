package models

import "time"

// Effort represents one completion of a segment by the athlete
type Effort struct {
	ID        int64  `json:"id"`
	SegmentID int64  `json:"segment_id"`
	Name      string `json:"name"`

	// StartDateLocal is the wall-clock start time at the segment. Zero when the API omits it.
	StartDateLocal time.Time `json:"start_date_local"`
	ElapsedTime    int       `json:"elapsed_time"` // Seconds
}

// Athlete represents the authenticated Strava athlete
type Athlete struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// DisplayName returns "First Last"
func (a *Athlete) DisplayName() string {
	return a.FirstName + " " + a.LastName
}
