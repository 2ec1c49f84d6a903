package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"glowbook/internal/session"
)

const (
	AccessCookie  = "glowbook-access-token"
	RefreshCookie = "glowbook-refresh-token"
	refreshPath   = "/api/v1/auth"
)

// Cookies writes and clears the session cookies.
type Cookies struct {
	Secure     bool
	SameSite   string
	RefreshTTL time.Duration
}

func (k Cookies) Set(c *gin.Context, sess *session.Session) {
	if sess == nil {
		return
	}
	c.SetSameSite(k.sameSite())
	maxAge := int(time.Until(time.Unix(sess.ExpiresAt, 0)).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetCookie(AccessCookie, sess.AccessToken, maxAge, "/", "", k.Secure, true)
	if sess.RefreshToken != "" {
		c.SetCookie(RefreshCookie, sess.RefreshToken, int(k.RefreshTTL.Seconds()), refreshPath, "", k.Secure, true)
	}
}

func (k Cookies) Clear(c *gin.Context) {
	c.SetSameSite(k.sameSite())
	c.SetCookie(AccessCookie, "", -1, "/", "", k.Secure, true)
	c.SetCookie(RefreshCookie, "", -1, refreshPath, "", k.Secure, true)
}

func (k Cookies) sameSite() http.SameSite {
	switch strings.ToLower(k.SameSite) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}

// TokenFromRequest finds the access token in the Authorization header, the
// session cookie or the access_token query parameter (websockets).
func TokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("access_token")
}
