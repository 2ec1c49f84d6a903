package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"glowbook/internal/domain"
	"glowbook/internal/session"
)

// Decision is the outcome of a guard check.
type Decision struct {
	Allow    bool
	Redirect string
}

type (
	Predicate        func(*session.Session) bool
	RedirectResolver func(*session.Session) string
)

// Guard admits a request when its predicate holds and otherwise redirects.
type Guard struct {
	name     string
	sessions SessionProvider
	allow    Predicate
	redirect RedirectResolver
}

func NewGuard(name string, sessions SessionProvider, allow Predicate, redirect RedirectResolver) *Guard {
	return &Guard{name: name, sessions: sessions, allow: allow, redirect: redirect}
}

// PublicOnly admits visitors without a session and sends signed-in users
// to their dashboard.
func PublicOnly(sessions SessionProvider) *Guard {
	return NewGuard("public-only", sessions,
		func(s *session.Session) bool { return !s.Valid() },
		func(s *session.Session) string { return session.DashboardPath(s.Role()) },
	)
}

// Authenticated admits any signed-in user.
func Authenticated(sessions SessionProvider) *Guard {
	return NewGuard("authenticated", sessions,
		func(s *session.Session) bool { return s.Valid() },
		func(*session.Session) string { return session.WelcomePath },
	)
}

// RoleRestricted admits signed-in users whose role is one of roles. Other
// users go to their own dashboard, visitors to the welcome screen.
func RoleRestricted(sessions SessionProvider, roles ...domain.UserRole) *Guard {
	return NewGuard("role", sessions,
		func(s *session.Session) bool { return s.Valid() && slices.Contains(roles, s.Role()) },
		func(s *session.Session) string {
			if !s.Valid() {
				return session.WelcomePath
			}
			return session.DashboardPath(s.Role())
		},
	)
}

func (g *Guard) Name() string { return g.name }

func (g *Guard) Decide(s *session.Session) Decision {
	if g.allow(s) {
		return Decision{Allow: true}
	}
	return Decision{Redirect: g.redirect(s)}
}

// Middleware answers a refused request with 302 Found to the guard's
// redirect. Admitted requests get the session, user_id and role set.
func (g *Guard) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := g.sessions.Session(c)
		d := g.Decide(sess)
		if !d.Allow {
			c.Redirect(http.StatusFound, d.Redirect)
			c.Abort()
			return
		}

		c.Set(sessionKey, sess)
		if sess.Valid() {
			c.Set("user_id", sess.UserID())
			c.Set("role", string(sess.Role()))
		}
		c.Next()
	}
}
