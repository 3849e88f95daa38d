// Package strava is a minimal client for the parts of the Strava v3 API the
// greens leaderboard needs: the athlete, segment summaries and segment efforts.
package strava

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/jengzang/greens-backend-go/internal/logging"
	"github.com/jengzang/greens-backend-go/internal/models"
)

const (
	DefaultBaseURL = "https://www.strava.com/api/v3"
	DefaultTimeout = 30 * time.Second

	// effortsPageSize is the largest page Strava serves
	effortsPageSize = 200
)

// Client is an API session bound to one athlete's token
type Client struct {
	http    *http.Client
	tokens  oauth2.TokenSource
	baseURL string
	timeout time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the API root
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the per-request timeout, token refreshes included
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClient creates a client that authenticates with tok and refreshes it
// through cfg when it expires. ctx bounds token refreshes.
func NewClient(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, opts ...Option) *Client {
	c := &Client{baseURL: DefaultBaseURL, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(c)
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: c.timeout})
	c.tokens = cfg.TokenSource(ctx, tok)
	c.http = oauth2.NewClient(ctx, c.tokens)
	c.http.Timeout = c.timeout

	return c
}

// Token returns the current token, which differs from the seed token after a refresh
func (c *Client) Token() (*oauth2.Token, error) {
	tok, err := c.tokens.Token()
	if err != nil {
		return nil, tokenError(err)
	}
	return tok, nil
}

type apiAthlete struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

type apiSegment struct {
	ID                  int64     `json:"id"`
	Name                string    `json:"name"`
	Distance            float64   `json:"distance"`
	StartLatLng         []float64 `json:"start_latlng"`
	EndLatLng           []float64 `json:"end_latlng"`
	AthleteSegmentStats *struct {
		EffortCount int `json:"effort_count"`
	} `json:"athlete_segment_stats"`
}

type apiEffort struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Segment *struct {
		ID int64 `json:"id"`
	} `json:"segment"`
	StartDateLocal string `json:"start_date_local"`
	ElapsedTime    int    `json:"elapsed_time"`
}

// GetAthlete returns the authenticated athlete
func (c *Client) GetAthlete(ctx context.Context) (*models.Athlete, error) {
	var a apiAthlete
	if err := c.getJSON(ctx, "/athlete", nil, &a); err != nil {
		return nil, fmt.Errorf("failed to get athlete: %w", err)
	}
	return &models.Athlete{ID: a.ID, FirstName: a.FirstName, LastName: a.LastName}, nil
}

// GetSegment returns the segment summary including the athlete's effort count
func (c *Client) GetSegment(ctx context.Context, id models.SegmentID) (*models.Segment, error) {
	var s apiSegment
	if err := c.getJSON(ctx, "/segments/"+url.PathEscape(string(id)), nil, &s); err != nil {
		return nil, fmt.Errorf("failed to get segment %s: %w", id, err)
	}

	seg := &models.Segment{ID: s.ID, Name: s.Name, Distance: s.Distance}
	if len(s.StartLatLng) == 2 {
		seg.StartLat, seg.StartLon = s.StartLatLng[0], s.StartLatLng[1]
	}
	if len(s.EndLatLng) == 2 {
		seg.EndLat, seg.EndLon = s.EndLatLng[0], s.EndLatLng[1]
	}
	if s.AthleteSegmentStats != nil {
		seg.AthleteEffortCount = s.AthleteSegmentStats.EffortCount
	}
	return seg, nil
}

// ListSegmentEfforts returns every effort of the athlete on a segment, in API order
func (c *Client) ListSegmentEfforts(ctx context.Context, id models.SegmentID) ([]models.Effort, error) {
	var efforts []models.Effort

	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("segment_id", string(id))
		q.Set("per_page", strconv.Itoa(effortsPageSize))
		q.Set("page", strconv.Itoa(page))

		var batch []apiEffort
		if err := c.getJSON(ctx, "/segment_efforts", q, &batch); err != nil {
			return nil, fmt.Errorf("failed to list efforts for segment %s: %w", id, err)
		}

		for _, e := range batch {
			effort := models.Effort{ID: e.ID, Name: e.Name, ElapsedTime: e.ElapsedTime}
			if e.Segment != nil {
				effort.SegmentID = e.Segment.ID
			}
			if e.StartDateLocal != "" {
				ts, err := time.Parse(time.RFC3339, e.StartDateLocal)
				if err != nil {
					logging.Warn().Err(err).Int64("effort_id", e.ID).Str("segment_id", string(id)).
						Msg("ignoring invalid start_date_local")
				} else {
					effort.StartDateLocal = ts
				}
			}
			efforts = append(efforts, effort)
		}

		if len(batch) < effortsPageSize {
			return efforts, nil
		}
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	if _, err := c.Token(); err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			return tokenError(err)
		}
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil {
		return err.Error()
	}
	var e struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &e) == nil && e.Message != "" {
		return e.Message
	}
	return string(raw)
}
