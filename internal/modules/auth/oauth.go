package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"glowbook/internal/domain"
	"glowbook/internal/repository"
	"glowbook/internal/session"
)

const (
	oauthStateTTL     = 10 * time.Minute
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"
	oauthStatePrefix  = "oauth:"
)

// OAuthIdentity is what a provider tells us about the user.
type OAuthIdentity struct {
	Email    string
	FullName string
}

type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*OAuthIdentity, error)
}

// GoogleProvider signs users in with Google accounts.
type GoogleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  "https://accounts.google.com/o/oauth2/auth",
				TokenURL: "https://oauth2.googleapis.com/token",
			},
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*OAuthIdentity, error) {
	tok, err := p.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google exchange: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google userinfo: status %d", resp.StatusCode)
	}

	var info struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
		Name          string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	if info.Email == "" || !info.EmailVerified {
		return nil, errors.New("google account has no verified email")
	}
	return &OAuthIdentity{Email: info.Email, FullName: info.Name}, nil
}

// SignInWithOAuth returns the provider URL the browser should visit.
func (s *Service) SignInWithOAuth(provider string) (string, error) {
	p, ok := s.providers[provider]
	if !ok {
		return "", ErrProviderNotSupported
	}
	state, err := s.jwt.GenerateShortLived(oauthStatePrefix+provider, oauthStateTTL)
	if err != nil {
		return "", err
	}
	return p.AuthCodeURL(state), nil
}

// OAuthCallback finishes a provider sign-in. Unknown emails get a confirmed
// account without a role; the client sends them to profile completion.
func (s *Service) OAuthCallback(ctx context.Context, provider, code, state string) (*session.Session, error) {
	p, ok := s.providers[provider]
	if !ok {
		return nil, ErrProviderNotSupported
	}
	claims, err := s.jwt.ValidateToken(state)
	if err != nil || claims.Subject != oauthStatePrefix+provider {
		return nil, ErrInvalidOAuthState
	}

	identity, err := p.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, identity.Email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		now := s.now()
		user = &domain.User{
			ID:               uuid.NewString(),
			Email:            strings.ToLower(identity.Email),
			FullName:         identity.FullName,
			Provider:         provider,
			EmailConfirmedAt: &now,
		}
		if err := s.users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create oauth user: %w", err)
		}
	case err != nil:
		return nil, err
	case !user.EmailConfirmed():
		now := s.now()
		if err := s.users.ConfirmEmail(ctx, user.ID, now); err != nil {
			return nil, err
		}
		user.EmailConfirmedAt = &now
	}

	sess, _, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.publish(user.ID, session.EventSignedIn, sess)
	return sess, nil
}
