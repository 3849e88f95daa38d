package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/jengzang/greens-backend-go/internal/config"
	"github.com/jengzang/greens-backend-go/internal/database"
	"github.com/jengzang/greens-backend-go/internal/models"
	"github.com/jengzang/greens-backend-go/internal/repository"
	"github.com/jengzang/greens-backend-go/internal/service"
	"github.com/jengzang/greens-backend-go/internal/session"
	"github.com/jengzang/greens-backend-go/internal/strava"
	"github.com/jengzang/greens-backend-go/internal/web"
)

type fakeAPI struct {
	athlete *models.Athlete
	counts  map[models.SegmentID]int
	efforts map[models.SegmentID][]models.Effort
	err     error
	token   *oauth2.Token
}

func (f *fakeAPI) GetAthlete(context.Context) (*models.Athlete, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.athlete, nil
}

func (f *fakeAPI) GetSegment(_ context.Context, id models.SegmentID) (*models.Segment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Segment{Name: "seg " + string(id), AthleteEffortCount: f.counts[id]}, nil
}

func (f *fakeAPI) ListSegmentEfforts(_ context.Context, id models.SegmentID) ([]models.Effort, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.efforts[id], nil
}

func (f *fakeAPI) Token() (*oauth2.Token, error) {
	return f.token, nil
}

type fakeGateway struct {
	api       *fakeAPI
	exchanged []string
}

func (g *fakeGateway) AuthorizeURL(state string) string {
	return "https://www.strava.com/oauth/authorize?state=" + state
}

func (g *fakeGateway) Exchange(_ context.Context, code string) (*oauth2.Token, error) {
	g.exchanged = append(g.exchanged, code)
	return &oauth2.Token{AccessToken: "access-" + code, RefreshToken: "refresh", Expiry: time.Now().Add(time.Hour)}, nil
}

func (g *fakeGateway) Open(context.Context, *oauth2.Token) strava.API {
	return g.api
}

type testApp struct {
	router   *gin.Engine
	gateway  *fakeGateway
	repo     *repository.GreensRepository
	sessions *session.Manager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(database.Config{Path: filepath.Join(t.TempDir(), "greens.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewGreensRepository(db)
	sessions, err := session.NewManager("test-secret", time.Hour)
	require.NoError(t, err)
	tmpl, err := web.Templates()
	require.NoError(t, err)

	gw := &fakeGateway{api: &fakeAPI{
		athlete: &models.Athlete{ID: 42, FirstName: "Ada", LastName: "Lovelace"},
		counts:  map[models.SegmentID]int{"s1": 3, "s2": 2},
		efforts: map[models.SegmentID][]models.Effort{
			"s1": {
				{StartDateLocal: time.Date(2023, 3, 15, 7, 0, 0, 0, time.UTC)},
				{StartDateLocal: time.Date(2024, 3, 15, 7, 0, 0, 0, time.UTC)},
				{StartDateLocal: time.Date(2024, 3, 16, 7, 0, 0, 0, time.UTC)},
			},
			"s2": {
				{StartDateLocal: time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC)},
				{StartDateLocal: time.Date(2024, 12, 31, 8, 0, 0, 0, time.UTC)},
			},
		},
		token: &oauth2.Token{AccessToken: "access-refreshed", Expiry: time.Now().Add(2 * time.Hour)},
	}}

	cfg := &config.Config{BaseURL: "http://localhost:5001", StaticDir: t.TempDir(), RateLimit: 100}
	svc := service.NewGreensService(repo, []models.SegmentID{"s1", "s2"})
	router := SetupRouter(cfg, Deps{Service: svc, Gateway: gw, Sessions: sessions, Templates: tmpl})

	return &testApp{router: router, gateway: gw, repo: repo, sessions: sessions}
}

func (a *testApp) do(t *testing.T, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) signIn(t *testing.T, s session.Session) *http.Cookie {
	t.Helper()
	raw, err := a.sessions.Encode(s)
	require.NoError(t, err)
	return &http.Cookie{Name: session.CookieName, Value: raw}
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestIndex_SignedOut(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Connect with Strava")
	state := cookieNamed(w, session.StateCookieName)
	require.NotNil(t, state)
	assert.Contains(t, w.Body.String(), "state="+state.Value)
}

func TestIndex_ReusesStateCookie(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, "/", &http.Cookie{Name: session.StateCookieName, Value: "existing"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "state=existing")
	assert.Nil(t, cookieNamed(w, session.StateCookieName))
}

func TestIndex_SignedIn(t *testing.T) {
	app := newTestApp(t)
	cookie := app.signIn(t, session.Session{AccessToken: "a", AthleteID: 42, Name: "Ada Lovelace", Greens: 20, GridCount: 183})

	w := app.do(t, "/", cookie)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "183 / 366 days (50.0%)")
}

func TestSignInAndRefreshFlow(t *testing.T) {
	app := newTestApp(t)
	state := &http.Cookie{Name: session.StateCookieName, Value: "st"}

	w := app.do(t, "/authorized?state=st&code=abc", state)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/greens", w.Header().Get("Location"))
	assert.Equal(t, []string{"abc"}, app.gateway.exchanged)

	sess := cookieNamed(w, session.CookieName)
	require.NotNil(t, sess)
	s, err := app.sessions.Decode(sess.Value)
	require.NoError(t, err)
	assert.Equal(t, "access-abc", s.AccessToken)
	assert.Equal(t, "Ada Lovelace", s.Name)

	w = app.do(t, "/greens", sess)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	row, err := app.repo.GetByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 5, row.Greens)
	assert.Equal(t, 3, row.GridCount)

	updated := cookieNamed(w, session.CookieName)
	require.NotNil(t, updated)
	s, err = app.sessions.Decode(updated.Value)
	require.NoError(t, err)
	assert.Equal(t, 5, s.Greens)
	assert.Equal(t, 3, s.GridCount)
	assert.Equal(t, "access-refreshed", s.AccessToken)

	w = app.do(t, "/api/v1/me", updated)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.GridSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.GridCount)
	assert.Equal(t, 366, body.Data.GridTotal)
	assert.Equal(t, 0.8, body.Data.GridPercent)
}

func TestAuthorized_Declined(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, "/authorized?error=access_denied")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	assert.Empty(t, app.gateway.exchanged)
}

func TestAuthorized_StateMismatch(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, "/authorized?state=other&code=abc", &http.Cookie{Name: session.StateCookieName, Value: "st"})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Empty(t, app.gateway.exchanged)
	assert.Nil(t, cookieNamed(w, session.CookieName))
}

func TestGreens_SignedOutRedirects(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, "/greens")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestGreens_UnauthorizedClearsSession(t *testing.T) {
	app := newTestApp(t)
	app.gateway.api.err = strava.ErrUnauthorized
	cookie := app.signIn(t, session.Session{AccessToken: "a", AthleteID: 42, Name: "Ada"})

	w := app.do(t, "/greens", cookie)

	assert.Equal(t, http.StatusFound, w.Code)
	cleared := cookieNamed(w, session.CookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)

	_, err := app.repo.GetByID(context.Background(), 42)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLogout(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, "/logout", app.signIn(t, session.Session{AccessToken: "a"}))

	assert.Equal(t, http.StatusFound, w.Code)
	cleared := cookieNamed(w, session.CookieName)
	require.NotNil(t, cleared)
	assert.Less(t, cleared.MaxAge, 0)
}

func TestAPI_MeSignedOut(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, "/api/v1/me")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_Leaderboard(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, app.repo.Upsert(ctx, models.AthleteTotal{ID: 1, Name: "one", Greens: 4, LastUpdate: now}))
	require.NoError(t, app.repo.Upsert(ctx, models.AthleteTotal{ID: 2, Name: "two", Greens: 40, LastUpdate: now}))

	w := app.do(t, "/api/v1/leaderboard")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Code int `json:"code"`
		Data struct {
			Data  []models.LeaderboardEntry `json:"data"`
			Count int                       `json:"count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Count)
	assert.Equal(t, "two", body.Data.Data[0].Name)
	assert.Equal(t, 1, body.Data.Data[0].Rank)
	assert.Contains(t, w.Body.String(), `"median_greens":22`)
}

func TestAPI_Segments(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, "/api/v1/segments")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"s1"`)
	assert.NotContains(t, w.Body.String(), "effort_count")

	w = app.do(t, "/api/v1/segments", app.signIn(t, session.Session{AccessToken: "a", AthleteID: 42}))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"effort_count":3`)
	assert.Contains(t, w.Body.String(), `"name":"seg s2"`)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	w := app.do(t, "/health")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}
