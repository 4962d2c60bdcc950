package middleware

import (
	"net/http"

	"github.com/ErlanBelekov/admin-shell/internal/domain"
	"github.com/ErlanBelekov/admin-shell/internal/reqctx"
	"github.com/gin-gonic/gin"
)

// LoginPath is where the guard sends visitors who are not logged in.
const LoginPath = "/auth/login"

// SessionReader is the subset of AuthUsecase the guard reads.
type SessionReader interface {
	IsLoggedIn() bool
	CurrentUser() *domain.User
}

// Decision is the outcome of a navigation check: either Allow, or a
// RedirectTo target.
type Decision struct {
	Allow      bool
	RedirectTo string
}

type Guard struct {
	session SessionReader
}

func NewGuard(session SessionReader) *Guard {
	return &Guard{session: session}
}

// CanActivate permits navigation to targetURL iff a user is logged in.
// The target does not affect the decision.
func (g *Guard) CanActivate(_ string) Decision {
	if g.session.IsLoggedIn() {
		return Decision{Allow: true}
	}
	return Decision{RedirectTo: LoginPath}
}

// RequireLogin redirects to the login route unless the guard allows the
// request.
func RequireLogin(g *Guard) gin.HandlerFunc {
	return func(c *gin.Context) {
		d := g.CanActivate(c.Request.URL.String())
		if !d.Allow {
			c.Redirect(http.StatusFound, d.RedirectTo)
			c.Abort()
			return
		}

		if u := g.session.CurrentUser(); u != nil {
			c.Request = c.Request.WithContext(reqctx.WithUserID(c.Request.Context(), u.ID))
		}
		c.Next()
	}
}
