// Package session carries the signed-in athlete's OAuth token and cached totals
// between requests in a signed cookie.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"
)

const (
	// CookieName holds the encoded session
	CookieName = "greens_session"
	// StateCookieName holds the OAuth state between redirect and callback
	StateCookieName = "greens_oauth_state"
)

// ErrInvalid is returned for a session that fails verification or has expired
var ErrInvalid = errors.New("invalid session")

// Session is the request-scoped view of the signed-in athlete
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Expiry       time.Time `json:"expires_at"`

	AthleteID int64  `json:"athlete_id"`
	Name      string `json:"name"`

	// Totals from the most recent refresh
	Greens    int `json:"greens"`
	GridCount int `json:"grid_count"`
}

// Token returns the OAuth token held by the session
func (s *Session) Token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       s.Expiry,
	}
}

// WithToken replaces the token fields, keeping the existing refresh token if tok has none
func (s *Session) WithToken(tok *oauth2.Token) {
	s.AccessToken = tok.AccessToken
	if tok.RefreshToken != "" {
		s.RefreshToken = tok.RefreshToken
	}
	s.Expiry = tok.Expiry
}

type claims struct {
	Session
	jwt.RegisteredClaims
}

// Manager signs and verifies session cookies
type Manager struct {
	secret []byte
	ttl    time.Duration
}

// NewManager creates a session manager signing with HS256
func NewManager(secret string, ttl time.Duration) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("session secret is required")
	}
	return &Manager{secret: []byte(secret), ttl: ttl}, nil
}

// TTL is the lifetime of an encoded session
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Encode signs s
func (m *Manager) Encode(s Session) (string, error) {
	now := time.Now()
	c := claims{
		Session: s,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

// Decode verifies raw and returns the session it carries
func (m *Manager) Decode(raw string) (*Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if c.AccessToken == "" {
		return nil, ErrInvalid
	}
	return &c.Session, nil
}
