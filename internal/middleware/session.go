package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"glowbook/internal/modules/auth"
	"glowbook/internal/session"
)

const sessionKey = "session"

// SessionProvider resolves the session a request carries, or nil.
type SessionProvider interface {
	Session(c *gin.Context) *session.Session
}

type sessionGetter interface {
	GetSession(ctx context.Context, accessToken string) (*session.Session, error)
}

// AuthSessions reads the access token from the request and asks the auth
// client for the session. The result is cached on the gin context.
type AuthSessions struct {
	auth sessionGetter
	log  *zap.Logger
}

func NewAuthSessions(client sessionGetter, log *zap.Logger) *AuthSessions {
	return &AuthSessions{auth: client, log: log}
}

func (p *AuthSessions) Session(c *gin.Context) *session.Session {
	if v, ok := c.Get(sessionKey); ok {
		sess, _ := v.(*session.Session)
		return sess
	}

	var sess *session.Session
	if token := auth.TokenFromRequest(c); token != "" {
		s, err := p.auth.GetSession(c.Request.Context(), token)
		if err != nil {
			p.log.Debug("session lookup failed", zap.Error(err))
		} else if s.Valid() {
			sess = s
		}
	}
	c.Set(sessionKey, sess)
	return sess
}

// CurrentSession returns the session a guard stored on the context.
func CurrentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
