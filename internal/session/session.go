// Package session holds the authenticated session shape, the per-client
// session store and the navigation reaction to sign-in and sign-out.
package session

import "glowbook/internal/domain"

const (
	WelcomePath             = "/welcome"
	CustomerDashboardPath   = "/dashboard"
	BeauticianDashboardPath = "/beautician/dashboard"
	CompleteProfilePath     = "/complete-profile"
)

// User is the user snapshot embedded in a session.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// Session is an authenticated session as handed to clients.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresAt    int64  `json:"expires_at"`
	User         *User  `json:"user"`
}

// Valid reports whether s identifies a user. Nil and malformed sessions are not valid.
func (s *Session) Valid() bool {
	return s != nil && s.User != nil && s.User.ID != ""
}

// UserID returns the session's user id or "".
func (s *Session) UserID() string {
	if !s.Valid() {
		return ""
	}
	return s.User.ID
}

// Role reads user_metadata.user_type. Any missing or non-string value yields "".
func (s *Session) Role() domain.UserRole {
	if !s.Valid() || s.User.UserMetadata == nil {
		return ""
	}
	v, ok := s.User.UserMetadata["user_type"].(string)
	if !ok {
		return ""
	}
	return domain.UserRole(v)
}

// DashboardPath is the landing screen for a role. A session without a
// known role has not finished its profile yet; sending it to a role's
// dashboard would bounce between guards.
func DashboardPath(role domain.UserRole) string {
	switch role {
	case domain.RoleBeautician:
		return BeauticianDashboardPath
	case domain.RoleCustomer:
		return CustomerDashboardPath
	default:
		return CompleteProfilePath
	}
}

// Event names an auth state change.
type Event string

const (
	EventInitialSession   Event = "INITIAL_SESSION"
	EventSignedIn         Event = "SIGNED_IN"
	EventSignedOut        Event = "SIGNED_OUT"
	EventTokenRefreshed   Event = "TOKEN_REFRESHED"
	EventUserUpdated      Event = "USER_UPDATED"
	EventPasswordRecovery Event = "PASSWORD_RECOVERY"
)

// Change is one auth state change with the session it produced.
type Change struct {
	Event   Event    `json:"event"`
	Session *Session `json:"session"`
}
