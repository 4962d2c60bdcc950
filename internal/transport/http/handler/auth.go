package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/admin-shell/internal/domain"
	"github.com/ErlanBelekov/admin-shell/internal/metrics"
	"github.com/ErlanBelekov/admin-shell/internal/usecase"
	"github.com/gin-gonic/gin"
)

const homePath = "/home"

type AuthHandler struct {
	auth         *usecase.AuthUsecase
	app          AppInfo
	loginTimeout time.Duration
	logger       *slog.Logger
}

// AppInfo describes the application in page payloads.
type AppInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func NewAuthHandler(auth *usecase.AuthUsecase, app AppInfo, loginTimeout time.Duration, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:         auth,
		app:          app,
		loginTimeout: loginTimeout,
		logger:       logger.With("component", "auth_handler"),
	}
}

type loginRequest struct {
	Email    string `json:"email"    form:"email"    binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6"`
}

type loginResponse struct {
	User     domain.User `json:"user"`
	Redirect string      `json:"redirect"`
}

type sessionResponse struct {
	CurrentUser *domain.User `json:"current_user"`
	IsLoggedIn  bool         `json:"is_logged_in"`
	IsLoading   bool         `json:"is_loading"`
}

// GET /auth/login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	s := h.auth.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"page":         "login",
		"app":          h.app,
		"is_loading":   s.IsLoading,
		"is_logged_in": s.IsLoggedIn(),
	})
}

// POST /auth/login
// Accepts JSON or form bodies. Waits for the login to resolve, then points
// the client at the dashboard.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task := h.auth.Login(domain.LoginCredentials{Email: req.Email, Password: req.Password})

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.loginTimeout)
	defer cancel()

	user, err := task.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			h.logger.WarnContext(ctx, "login still pending", "timeout", h.loginTimeout)
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": errLoginPending})
			return
		}
		if errors.Is(err, domain.ErrLoginAborted) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": errLoginAborted})
			return
		}
		// Client went away; the login itself carries on.
		c.Status(499)
		return
	}

	c.JSON(http.StatusOK, loginResponse{User: user, Redirect: homePath})
}

// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	metrics.LogoutsTotal.WithLabelValues("user").Inc()
	h.auth.Logout()
	c.Status(http.StatusNoContent)
}

// GET /api/session
// The token is never included.
func (h *AuthHandler) Session(c *gin.Context) {
	s := h.auth.Snapshot()
	c.JSON(http.StatusOK, sessionResponse{
		CurrentUser: s.CurrentUser,
		IsLoggedIn:  s.IsLoggedIn(),
		IsLoading:   s.IsLoading,
	})
}
