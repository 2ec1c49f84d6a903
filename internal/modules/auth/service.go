package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"glowbook/internal/domain"
	"glowbook/internal/repository"
	"glowbook/internal/session"
)

// Options are the auth tunables from config.
type Options struct {
	RefreshTokenPepper     string
	VerificationCodePepper string
	RefreshTTL             time.Duration
	VerifyCodeTTL          time.Duration
	VerifyResendCooldown   time.Duration
	VerifyMaxAttempts      int
	SiteURL                string
}

// Service contains all business logic for authentication.
type Service struct {
	users     UserStore
	tokens    RefreshTokenStore
	codes     VerificationCodeStore
	jwt       tokenService
	mailer    Mailer
	bus       *EventBus
	providers map[string]OAuthProvider
	opts      Options
	log       *zap.Logger
	now       func() time.Time
}

func NewService(
	users UserStore,
	tokens RefreshTokenStore,
	codes VerificationCodeStore,
	jwt tokenService,
	mailer Mailer,
	bus *EventBus,
	providers map[string]OAuthProvider,
	opts Options,
	log *zap.Logger,
) *Service {
	if providers == nil {
		providers = map[string]OAuthProvider{}
	}
	if opts.VerifyMaxAttempts <= 0 {
		opts.VerifyMaxAttempts = 5
	}
	return &Service{
		users:     users,
		tokens:    tokens,
		codes:     codes,
		jwt:       jwt,
		mailer:    mailer,
		bus:       bus,
		providers: providers,
		opts:      opts,
		log:       log,
		now:       time.Now,
	}
}

// OnAuthStateChange calls fn for every auth change of userID until stopped.
func (s *Service) OnAuthStateChange(userID string, fn func(session.Change)) (stop func()) {
	return s.bus.ForUser(userID).Listen(fn)
}

// Feed exposes the change stream of userID to a session store.
func (s *Service) Feed(userID string) session.Feed {
	return s.bus.ForUser(userID)
}

// GetSession resolves an access token to a session. An empty token is "no
// session" and not an error.
func (s *Service) GetSession(ctx context.Context, accessToken string) (*session.Session, error) {
	accessToken = strings.TrimSpace(accessToken)
	if accessToken == "" {
		return nil, nil
	}

	claims, err := s.jwt.ValidateToken(accessToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	var expiresAt int64
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Unix()
	}
	return &session.Session{
		AccessToken: accessToken,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        sessionUser(user),
	}, nil
}

// SignUp creates an unconfirmed account and mails a signup code. No session
// exists until the code is verified.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (*SignUpResult, error) {
	role := domain.UserRole(strings.TrimSpace(req.UserType))
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		FullName:     strings.TrimSpace(req.FullName),
		Provider:     "email",
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendCode(ctx, user, domain.PurposeSignup); err != nil {
		return nil, err
	}

	s.log.Info("user signed up", zap.String("user_id", user.ID), zap.String("user_type", string(role)))
	user.PasswordHash = ""
	return &SignUpResult{User: user, ConfirmationRequired: true}, nil
}

func (s *Service) SignInWithPassword(ctx context.Context, req PasswordGrantRequest) (*session.Session, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.EmailConfirmed() {
		return nil, ErrEmailNotConfirmed
	}

	sess, _, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.publish(user.ID, session.EventSignedIn, sess)
	return sess, nil
}

// RefreshSession rotates a refresh token into a new session.
func (s *Service) RefreshSession(ctx context.Context, refreshRaw string) (*session.Session, error) {
	if strings.TrimSpace(refreshRaw) == "" {
		return nil, ErrInvalidRefreshToken
	}
	current, err := s.tokens.FindByHash(ctx, hashTokenWithPepper(refreshRaw, s.opts.RefreshTokenPepper))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	if !current.Active(s.now()) {
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, current.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	sess, newID, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.MarkRotated(ctx, current.ID, newID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("rotate token: %w", err)
	}

	s.publish(user.ID, session.EventTokenRefreshed, sess)
	return sess, nil
}

// SignOut revokes every refresh token of the user and announces the sign-out.
func (s *Service) SignOut(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	if err := s.tokens.RevokeAll(ctx, userID); err != nil {
		return fmt.Errorf("revoke tokens: %w", err)
	}
	s.publish(userID, session.EventSignedOut, nil)
	return nil
}

// UpdateUser applies attrs and returns a session carrying the new metadata.
func (s *Service) UpdateUser(ctx context.Context, userID string, attrs UserAttributes) (*session.Session, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if attrs.UserType != nil {
		role := domain.UserRole(strings.TrimSpace(*attrs.UserType))
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		user.Role = role
	}
	if attrs.FullName != nil {
		user.FullName = strings.TrimSpace(*attrs.FullName)
	}
	if attrs.Password != nil {
		hash, err := hashPassword(*attrs.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	sess, _, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	s.publish(user.ID, session.EventUserUpdated, sess)
	return sess, nil
}

func (s *Service) publish(userID string, event session.Event, sess *session.Session) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(userID, session.Change{Event: event, Session: sess})
}

// issueSession signs an access token and stores a fresh refresh token.
func (s *Service) issueSession(ctx context.Context, user *domain.User) (*session.Session, int64, error) {
	access, expiresAt, err := s.jwt.GenerateToken(user.ID, user.Email, tokenMetadata(user))
	if err != nil {
		return nil, 0, fmt.Errorf("sign access token: %w", err)
	}

	raw, hash, err := generateOpaqueRefreshToken(s.opts.RefreshTokenPepper)
	if err != nil {
		return nil, 0, err
	}
	row := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: s.now().Add(s.opts.RefreshTTL),
	}
	if err := s.tokens.Create(ctx, row); err != nil {
		return nil, 0, fmt.Errorf("store refresh token: %w", err)
	}

	return &session.Session{
		AccessToken:  access,
		RefreshToken: raw,
		TokenType:    "bearer",
		ExpiresAt:    expiresAt.Unix(),
		User:         sessionUser(user),
	}, row.ID, nil
}

func tokenMetadata(user *domain.User) map[string]string {
	meta := map[string]string{}
	if user.Role != "" {
		meta["user_type"] = string(user.Role)
	}
	if user.FullName != "" {
		meta["full_name"] = user.FullName
	}
	return meta
}

func sessionUser(user *domain.User) *session.User {
	meta := map[string]any{}
	for k, v := range tokenMetadata(user) {
		meta[k] = v
	}
	return &session.User{ID: user.ID, Email: user.Email, UserMetadata: meta}
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateOpaqueRefreshToken(pepper string) (raw string, hash string, err error) {
	buf := make([]byte, 32)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, hashTokenWithPepper(raw, pepper), nil
}

func hashTokenWithPepper(raw, pepper string) string {
	sum := sha256.Sum256([]byte(raw + pepper))
	return hex.EncodeToString(sum[:])
}
