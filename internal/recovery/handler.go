// Package recovery is the last stop for errors nothing else handled.
package recovery

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/ErlanBelekov/admin-shell/internal/metrics"
	"github.com/gin-gonic/gin"
)

const (
	tag             = "[GlobalErrorHandler]"
	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
)

// Handler logs uncaught errors with a timestamp. It never panics.
type Handler struct {
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler returns a Handler writing to logger. now defaults to time.Now.
func NewHandler(logger *slog.Logger, now func() time.Time) *Handler {
	if now == nil {
		now = time.Now
	}
	return &Handler{logger: logger, now: now}
}

// HandleError records v, which may be any value including nil.
func (h *Handler) HandleError(v any) {
	h.HandleErrorContext(context.Background(), v)
}

// HandleErrorContext is HandleError with request-scoped log enrichment.
func (h *Handler) HandleErrorContext(ctx context.Context, v any) {
	// A value whose Error or String method panics must not escape.
	defer func() { _ = recover() }()

	metrics.UncaughtErrorsTotal.Inc()
	timestamp := h.now().UTC().Format(timestampFormat)
	h.logger.ErrorContext(ctx, tag+" "+timestamp, "error", v)
}

// Go runs fn on a new goroutine and sends any panic to HandleError.
func (h *Handler) Go(fn func()) {
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				h.HandleError(rec)
			}
		}()
		fn()
	}()
}

// Middleware recovers panics from later handlers, reports them to h and
// responds 500.
func Middleware(h *Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			h.HandleErrorContext(c.Request.Context(), rec)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}()
		c.Next()
	}
}
