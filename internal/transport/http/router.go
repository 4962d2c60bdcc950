package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/admin-shell/internal/recovery"
	"github.com/ErlanBelekov/admin-shell/internal/transport/http/handler"
	"github.com/ErlanBelekov/admin-shell/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

type RouterDeps struct {
	Logger       *slog.Logger
	Errors       *recovery.Handler
	Guard        *middleware.Guard
	LoginLimiter *middleware.RateLimiter
	Auth         *handler.AuthHandler
	Home         *handler.HomeHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(recovery.Middleware(d.Errors))
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(d.Logger))
	r.Use(middleware.Metrics())

	r.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/home")
	})

	auth := r.Group("/auth")
	auth.GET("/login", d.Auth.LoginPage)
	auth.POST("/login", d.LoginLimiter.Middleware(), d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)

	r.GET("/api/session", d.Auth.Session)

	// Protected admin area
	admin := r.Group("", middleware.RequireLogin(d.Guard))
	admin.GET("/home", d.Home.Dashboard)

	r.NoRoute(handler.NotFound)

	return r
}
