package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jengzang/greens-backend-go/internal/api"
	"github.com/jengzang/greens-backend-go/internal/config"
	"github.com/jengzang/greens-backend-go/internal/database"
	"github.com/jengzang/greens-backend-go/internal/logging"
	"github.com/jengzang/greens-backend-go/internal/middleware"
	"github.com/jengzang/greens-backend-go/internal/models"
	"github.com/jengzang/greens-backend-go/internal/repository"
	"github.com/jengzang/greens-backend-go/internal/service"
	"github.com/jengzang/greens-backend-go/internal/session"
	"github.com/jengzang/greens-backend-go/internal/strava"
	"github.com/jengzang/greens-backend-go/internal/web"
)

func main() {
	_ = godotenv.Load()

	// 加载配置
	cfg := config.Load()
	if len(os.Args) == 2 {
		cfg.BaseURL = strings.TrimRight(os.Args[1], "/")
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if cfg.StravaClientID == "" || cfg.StravaClientSecret == "" {
		logging.Warn().Msg("STRAVA_CLIENT_ID or STRAVA_CLIENT_SECRET is empty, sign-in will fail")
	}

	// 初始化数据库
	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		logging.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close()

	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to create session manager")
	}

	tmpl, err := web.Templates()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load templates")
	}

	oauthCfg := strava.NewOAuthConfig(cfg.StravaClientID, cfg.StravaClientSecret, cfg.RedirectURL())
	gateway := strava.NewGateway(oauthCfg, strava.WithTimeout(cfg.StravaTimeout))

	repo := repository.NewGreensRepository(database.GetDB())
	svc := service.NewGreensService(repo, models.Greens)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	defer limiter.Stop()

	// 初始化路由
	router := api.SetupRouter(cfg, api.Deps{
		Service:   svc,
		Gateway:   gateway,
		Sessions:  sessions,
		Templates: tmpl,
		Limiter:   limiter,
	})

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", cfg.Port).Str("url", cfg.BaseURL).Msg("website starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logging.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("shutdown failed")
	}
}
