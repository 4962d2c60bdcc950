package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/admin-shell/internal/scheduler"
	"github.com/ErlanBelekov/admin-shell/internal/transport/http/handler"
	"github.com/ErlanBelekov/admin-shell/internal/usecase"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testApp = handler.AppInfo{Name: "Admin Shell", Version: "1.0.0"}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newAuthEngine(auth *usecase.AuthUsecase, timeout time.Duration) *gin.Engine {
	h := handler.NewAuthHandler(auth, testApp, timeout, discardLogger())

	r := gin.New()
	r.GET("/auth/login", h.LoginPage)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)
	r.GET("/api/session", h.Session)
	return r
}

func newAsyncAuth() *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(scheduler.NewAsync(nil), discardLogger())
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// ---- Login ----

func TestLogin_ValidationErrors_Return400(t *testing.T) {
	bodies := []string{
		`{bad json}`,
		`{"password":"password123"}`,
		`{"email":"not-an-email","password":"password123"}`,
		`{"email":"user@example.com"}`,
		`{"email":"user@example.com","password":"short"}`,
	}
	for _, body := range bodies {
		auth := newAsyncAuth()
		w := postJSON(newAuthEngine(auth, time.Second), "/auth/login", body)

		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", body, w.Code)
		}
		if auth.IsLoading() {
			t.Errorf("%s: rejected form must not start a login", body)
		}
	}
}

func TestLogin_Success_Returns200AndRedirect(t *testing.T) {
	auth := newAsyncAuth()
	w := postJSON(newAuthEngine(auth, time.Second), "/auth/login",
		`{"email":"auth-user@example.com","password":"password123"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		} `json:"user"`
		Redirect string `json:"redirect"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Redirect != "/home" {
		t.Errorf("redirect = %q, want /home", resp.Redirect)
	}
	if resp.User.Name != "auth-user" || resp.User.Email != "auth-user@example.com" || resp.User.ID == "" {
		t.Errorf("user = %+v", resp.User)
	}
	if !auth.IsLoggedIn() {
		t.Error("session should be logged in")
	}
}

func TestLogin_FormEncoded(t *testing.T) {
	auth := newAsyncAuth()
	form := url.Values{"email": {"nav-user@example.com"}, "password": {"password123"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	newAuthEngine(auth, time.Second).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if got := auth.CurrentUser(); got == nil || got.Name != "nav-user" {
		t.Errorf("CurrentUser = %+v", got)
	}
}

func TestLogin_Pending_Returns504(t *testing.T) {
	sched := scheduler.NewManual()
	auth := usecase.NewAuthUsecase(sched, discardLogger())

	w := postJSON(newAuthEngine(auth, 10*time.Millisecond), "/auth/login",
		`{"email":"user@example.com","password":"password123"}`)

	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d, want 504", w.Code)
	}
	if !auth.IsLoading() {
		t.Fatal("login should still be loading")
	}

	sched.RunAll()
	if !auth.IsLoggedIn() || auth.IsLoading() {
		t.Fatal("login should complete once the scheduler runs")
	}
}

// ---- Logout / Session ----

func TestLogout_ClearsSession(t *testing.T) {
	auth := newAsyncAuth()
	r := newAuthEngine(auth, time.Second)
	postJSON(r, "/auth/login", `{"email":"user@example.com","password":"password123"}`)

	w := postJSON(r, "/auth/logout", "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}
	if auth.IsLoggedIn() {
		t.Fatal("session should be logged out")
	}
	if _, ok := auth.Token(); ok {
		t.Fatal("token should be cleared")
	}
}

func TestSession_NeverExposesToken(t *testing.T) {
	auth := newAsyncAuth()
	r := newAuthEngine(auth, time.Second)
	postJSON(r, "/auth/login", `{"email":"user@example.com","password":"password123"}`)
	token, _ := auth.Token()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/session", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if strings.Contains(w.Body.String(), token) {
		t.Fatalf("session response leaks the token: %s", w.Body.String())
	}
	var resp struct {
		IsLoggedIn  bool `json:"is_logged_in"`
		CurrentUser *struct {
			Email string `json:"email"`
		} `json:"current_user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.IsLoggedIn || resp.CurrentUser == nil || resp.CurrentUser.Email != "user@example.com" {
		t.Errorf("session = %s", w.Body.String())
	}
}

func TestLoginPage_ReportsState(t *testing.T) {
	auth := newAsyncAuth()
	w := httptest.NewRecorder()
	newAuthEngine(auth, time.Second).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/login", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"is_logged_in":false`) {
		t.Errorf("body = %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"name":"Admin Shell"`) {
		t.Errorf("body missing app name: %s", w.Body.String())
	}
}
