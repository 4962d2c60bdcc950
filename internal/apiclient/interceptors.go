package apiclient

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ErlanBelekov/admin-shell/internal/domain"
	"github.com/ErlanBelekov/admin-shell/internal/metrics"
)

// SessionStore is the subset of AuthUsecase the auth interceptor needs.
type SessionStore interface {
	Token() (string, bool)
	Logout()
}

// AuthInterceptor attaches the session's bearer token and logs the session
// out when the backend answers 401. The error is always returned unchanged.
func AuthInterceptor(session SessionStore) Interceptor {
	return func(req *http.Request, next Handler) (*http.Response, error) {
		if token, ok := session.Token(); ok {
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
		}

		resp, err := next(req)
		if err == nil {
			return resp, nil
		}

		if errors.Is(err, domain.ErrUnauthorized) {
			metrics.LogoutsTotal.WithLabelValues("unauthorized").Inc()
			session.Logout()
		}
		return nil, err
	}
}

// ErrorInterceptor logs every failed request once and returns the error
// unchanged. Other interceptors may log the same failure.
func ErrorInterceptor(logger *slog.Logger) Interceptor {
	logger = logger.With("component", "api_client")
	return func(req *http.Request, next Handler) (*http.Response, error) {
		resp, err := next(req)
		if err == nil {
			return resp, nil
		}

		status := 0
		var respErr *ResponseError
		if errors.As(err, &respErr) {
			status = respErr.StatusCode
		}
		metrics.APIClientErrorsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
		logger.ErrorContext(req.Context(), "HTTP error intercepted",
			"error", err,
			"method", req.Method,
			"url", req.URL.String(),
			"status", status,
		)
		return nil, err
	}
}
