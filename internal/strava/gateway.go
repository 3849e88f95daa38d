package strava

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/jengzang/greens-backend-go/internal/models"
)

// API is an authenticated session against the Strava API
type API interface {
	GetAthlete(ctx context.Context) (*models.Athlete, error)
	GetSegment(ctx context.Context, id models.SegmentID) (*models.Segment, error)
	ListSegmentEfforts(ctx context.Context, id models.SegmentID) ([]models.Effort, error)
	Token() (*oauth2.Token, error)
}

// Gateway performs the OAuth handshake and opens API sessions
type Gateway struct {
	cfg  *oauth2.Config
	opts []Option
}

// NewGateway creates a gateway; opts apply to every opened client
func NewGateway(cfg *oauth2.Config, opts ...Option) *Gateway {
	return &Gateway{cfg: cfg, opts: opts}
}

// AuthorizeURL returns the consent page URL for the given state
func (g *Gateway) AuthorizeURL(state string) string {
	return AuthorizeURL(g.cfg, state)
}

// Exchange trades an authorization code for a token
func (g *Gateway) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	return ExchangeCode(ctx, g.cfg, code)
}

// Open returns an API session for tok
func (g *Gateway) Open(ctx context.Context, tok *oauth2.Token) API {
	return NewClient(ctx, g.cfg, tok, g.opts...)
}
