package usecase

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ErlanBelekov/admin-shell/internal/domain"
	"github.com/ErlanBelekov/admin-shell/internal/metrics"
	"github.com/ErlanBelekov/admin-shell/internal/scheduler"
	"github.com/google/uuid"
)

// AuthUsecase owns the process-wide session. All state changes go through
// its methods; readers get a consistent snapshot.
type AuthUsecase struct {
	mu      sync.RWMutex
	session domain.Session

	sched  scheduler.Scheduler
	newID  func() string
	logger *slog.Logger
}

func NewAuthUsecase(sched scheduler.Scheduler, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		sched:  sched,
		newID:  uuid.NewString,
		logger: logger.With("component", "auth"),
	}
}

// LoginTask resolves once the deferred part of a login has run. It only
// fails if completing the login panicked.
type LoginTask struct {
	done    chan struct{}
	user    domain.User
	aborted bool
}

func (t *LoginTask) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the login resolves or ctx ends. It returns ctx.Err(), or
// domain.ErrLoginAborted if completion panicked. Abandoning the wait does not
// cancel the login.
func (t *LoginTask) Wait(ctx context.Context) (domain.User, error) {
	select {
	case <-t.done:
		if t.aborted {
			return domain.User{}, domain.ErrLoginAborted
		}
		return t.user, nil
	case <-ctx.Done():
		return domain.User{}, ctx.Err()
	}
}

// Result returns the user if the task has resolved.
func (t *LoginTask) Result() (domain.User, bool) {
	select {
	case <-t.done:
		return t.user, !t.aborted
	default:
		return domain.User{}, false
	}
}

// Login marks the session as loading before it returns, then completes on
// the scheduler: a fresh token and user are installed together and loading
// is cleared. Overlapping logins are not merged; the last to complete wins.
func (u *AuthUsecase) Login(creds domain.LoginCredentials) *LoginTask {
	u.mu.Lock()
	u.session.IsLoading = true
	u.mu.Unlock()

	task := &LoginTask{done: make(chan struct{})}
	email := creds.Email

	u.sched.Defer(func() {
		completed := false
		// A panic below must still settle the session and release waiters.
		defer func() {
			if !completed {
				u.mu.Lock()
				u.session.IsLoading = false
				u.mu.Unlock()
				task.aborted = true
			}
			close(task.done)
		}()

		user := &domain.User{
			ID:    u.newID(),
			Email: email,
			Name:  domain.NameFromEmail(email),
		}
		token := u.newID()

		u.mu.Lock()
		u.session = domain.Session{CurrentUser: user, Token: token}
		metrics.SessionLoggedIn.Set(1)
		u.mu.Unlock()
		task.user = *user
		completed = true

		metrics.LoginsTotal.Inc()
		u.logger.Info("user logged in", "user_id", user.ID)
	})

	return task
}

// Logout clears the user and token together. Loading state is left alone.
func (u *AuthUsecase) Logout() {
	u.mu.Lock()
	var userID string
	if u.session.CurrentUser != nil {
		userID = u.session.CurrentUser.ID
	}
	u.session.CurrentUser = nil
	u.session.Token = ""
	metrics.SessionLoggedIn.Set(0)
	u.mu.Unlock()

	if userID != "" {
		u.logger.Info("user logged out", "user_id", userID)
	}
}

// Token returns the bearer token and whether one is set.
func (u *AuthUsecase) Token() (string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.session.Token, u.session.Token != ""
}

// SetToken replaces the bearer token. An empty token clears it. A token can
// only exist alongside a user, so setting one while logged out returns
// domain.ErrNotLoggedIn.
func (u *AuthUsecase) SetToken(token string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if token != "" && u.session.CurrentUser == nil {
		return domain.ErrNotLoggedIn
	}
	u.session.Token = token
	return nil
}

// CurrentUser returns a copy of the logged-in user, or nil.
func (u *AuthUsecase) CurrentUser() *domain.User {
	return u.Snapshot().CurrentUser
}

func (u *AuthUsecase) IsLoggedIn() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.session.CurrentUser != nil
}

func (u *AuthUsecase) IsLoading() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.session.IsLoading
}

// Snapshot returns the whole session as of one instant.
func (u *AuthUsecase) Snapshot() domain.Session {
	u.mu.RLock()
	defer u.mu.RUnlock()
	s := u.session
	if s.CurrentUser != nil {
		user := *s.CurrentUser
		s.CurrentUser = &user
	}
	return s
}
