package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/admin-shell/internal/domain"
	"github.com/ErlanBelekov/admin-shell/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

const dashboardStatsPath = "/dashboard/stats"

// statsFetcher is satisfied by *apiclient.Client. A backend 401 must
// match domain.ErrUnauthorized.
type statsFetcher interface {
	Get(ctx context.Context, path string, out any) error
}

type currentUserReader interface {
	CurrentUser() *domain.User
}

type HomeHandler struct {
	session currentUserReader
	stats   statsFetcher
	app     AppInfo
	now     func() time.Time
	logger  *slog.Logger
}

// NewHomeHandler builds the dashboard handler. stats may be nil when no
// backend is configured.
func NewHomeHandler(session currentUserReader, stats statsFetcher, app AppInfo, logger *slog.Logger) *HomeHandler {
	return &HomeHandler{
		session: session,
		stats:   stats,
		app:     app,
		now:     time.Now,
		logger:  logger.With("component", "home_handler"),
	}
}

type navItem struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Route string `json:"route"`
}

var navItems = []navItem{
	{Label: "Home", Icon: "🏠", Route: homePath},
	{Label: "Login", Icon: "🔐", Route: middleware.LoginPath},
}

type headerView struct {
	UserName    string `json:"user_name"`
	UserInitial string `json:"user_initial"`
}

type footerView struct {
	App  AppInfo `json:"app"`
	Year int     `json:"year"`
}

type dashboardResponse struct {
	Header     headerView     `json:"header"`
	Navigation []navItem      `json:"navigation"`
	Footer     footerView     `json:"footer"`
	Role       string         `json:"role"`
	Welcome    string         `json:"welcome"`
	Stats      map[string]any `json:"stats,omitempty"`
}

// GET /home (guarded)
// A 401 from the backend has already logged the session out by the time it
// reaches here; it is passed on so the client returns to the login page.
// Any other backend failure only drops the stats.
func (h *HomeHandler) Dashboard(c *gin.Context) {
	user := h.session.CurrentUser()
	name := domain.DisplayName(user)

	resp := dashboardResponse{
		Header:     headerView{UserName: name, UserInitial: domain.Initial(name)},
		Navigation: navItems,
		Footer:     footerView{App: h.app, Year: h.now().Year()},
		Role:       domain.Role(user),
		Welcome:    "Welcome back, " + name,
	}

	if h.stats != nil {
		var stats map[string]any
		err := h.stats.Get(c.Request.Context(), dashboardStatsPath, &stats)
		switch {
		case err == nil:
			resp.Stats = stats
		case errors.Is(err, domain.ErrUnauthorized):
			c.JSON(http.StatusUnauthorized, gin.H{"error": errUnauthorized, "redirect": middleware.LoginPath})
			return
		default:
			// The error interceptor has logged the failure itself.
			h.logger.DebugContext(c.Request.Context(), "dashboard stats unavailable", "error", err)
			c.Header("Warning", `199 - "`+errBackend+`"`)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// NotFound answers every unmatched route.
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": errNotFound, "title": "404 - Not Found"})
}
