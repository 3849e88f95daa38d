package api

import (
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/greens-backend-go/internal/config"
	"github.com/jengzang/greens-backend-go/internal/handler"
	"github.com/jengzang/greens-backend-go/internal/middleware"
	"github.com/jengzang/greens-backend-go/internal/session"
)

// Deps are the collaborators the router wires into handlers
type Deps struct {
	Service   handler.GreensService
	Gateway   handler.Gateway
	Sessions  *session.Manager
	Templates *template.Template
	Limiter   *middleware.RateLimiter
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.Logger(), middleware.Session(deps.Sessions))
	r.SetHTMLTemplate(deps.Templates)

	limiter := deps.Limiter
	if limiter == nil {
		limiter = middleware.NewRateLimiter(cfg.RateLimit, time.Minute)
	}

	cookies := handler.NewCookies(deps.Sessions, cfg.BaseURL)
	pages := handler.NewPageHandler(deps.Service, deps.Gateway, cookies)
	auth := handler.NewAuthHandler(deps.Gateway, cookies)
	greens := handler.NewGreensHandler(deps.Service, deps.Gateway, cookies)
	apiHandler := handler.NewAPIHandler(deps.Service, deps.Gateway)

	// 页面
	r.GET("/", pages.Index)
	r.GET("/authorized", auth.Authorized)
	r.GET("/greens", middleware.RateLimit(limiter), greens.Refresh)
	r.GET("/logout", auth.Logout)

	// 静态文件
	r.StaticFile("/favicon.ico", filepath.Join(cfg.StaticDir, "favicon.ico"))
	r.Static("/media", filepath.Join(cfg.StaticDir, "media"))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Greens API is running",
		})
	})

	// API 路由组
	v1 := r.Group("/api/v1")
	{
		v1.GET("/leaderboard", apiHandler.GetLeaderboard)
		v1.GET("/me", apiHandler.GetMe)
		v1.GET("/segments", apiHandler.GetSegments)
	}

	return r
}
