package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"regexp"

	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/repository"
	"glowbook/internal/session"
)

var codeRegex = regexp.MustCompile(`^\d{6}$`)

type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendPasswordReset(ctx context.Context, email, link string) error
}

// DevConsoleMailer writes mails to the log instead of sending them.
type DevConsoleMailer struct {
	log *zap.Logger
}

func NewDevConsoleMailer(log *zap.Logger) *DevConsoleMailer {
	return &DevConsoleMailer{log: log}
}

func (m *DevConsoleMailer) SendVerificationCode(_ context.Context, email, code string) error {
	m.log.Info("[DEV-EMAIL] verification code", zap.String("email", email), zap.String("code", code))
	return nil
}

func (m *DevConsoleMailer) SendPasswordReset(_ context.Context, email, link string) error {
	m.log.Info("[DEV-EMAIL] password reset", zap.String("email", email), zap.String("link", link))
	return nil
}

// ResendSignupCode mails a fresh signup code. Unknown or already confirmed
// emails succeed silently.
func (s *Service) ResendSignupCode(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debug("verify/resend: email not found (masked)")
			return nil
		}
		return err
	}
	if user.EmailConfirmed() {
		return nil
	}
	return s.sendCode(ctx, user, domain.PurposeSignup)
}

// ResetPasswordForEmail mails a recovery link. Unknown emails succeed silently.
func (s *Service) ResetPasswordForEmail(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.Debug("recover: email not found (masked)")
			return nil
		}
		return err
	}
	return s.sendCode(ctx, user, domain.PurposeRecovery)
}

// VerifyOTP checks a mailed code and signs the user in. Signup codes confirm
// the email; recovery codes open a session for the password change.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyRequest) (*session.Session, error) {
	purpose := req.Type
	if purpose == "" {
		purpose = domain.PurposeSignup
	}
	if purpose != domain.PurposeSignup && purpose != domain.PurposeRecovery {
		return nil, ErrInvalidVerificationCode
	}
	if !codeRegex.MatchString(req.Token) {
		return nil, ErrInvalidVerificationCodeFormat
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidVerificationCode
		}
		return nil, err
	}

	row, err := s.codes.Get(ctx, user.ID, purpose)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidVerificationCode
		}
		return nil, err
	}

	now := s.now()
	if !row.Usable(now) {
		return nil, ErrInvalidVerificationCode
	}
	if row.Attempts >= s.opts.VerifyMaxAttempts {
		return nil, ErrTooManyAttempts
	}
	if hashVerificationCode(req.Token, s.opts.VerificationCodePepper) != row.CodeHash {
		if err := s.codes.IncrementAttempts(ctx, row.ID); err != nil {
			return nil, err
		}
		if row.Attempts+1 >= s.opts.VerifyMaxAttempts {
			return nil, ErrTooManyAttempts
		}
		return nil, ErrInvalidVerificationCode
	}

	if err := s.codes.MarkUsed(ctx, row.ID, now); err != nil {
		return nil, err
	}
	if !user.EmailConfirmed() {
		if err := s.users.ConfirmEmail(ctx, user.ID, now); err != nil {
			return nil, err
		}
		user.EmailConfirmedAt = &now
	}

	sess, _, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}
	event := session.EventSignedIn
	if purpose == domain.PurposeRecovery {
		event = session.EventPasswordRecovery
	}
	s.publish(user.ID, event, sess)
	return sess, nil
}

func (s *Service) sendCode(ctx context.Context, user *domain.User, purpose domain.VerificationPurpose) error {
	now := s.now()

	current, err := s.codes.Get(ctx, user.ID, purpose)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	if err == nil && current.LastSentAt.Add(s.opts.VerifyResendCooldown).After(now) {
		return ErrRateLimitExceeded
	}

	code, err := generateVerificationCode()
	if err != nil {
		return err
	}
	row := &domain.VerificationCode{
		UserID:     user.ID,
		Purpose:    purpose,
		CodeHash:   hashVerificationCode(code, s.opts.VerificationCodePepper),
		LastSentAt: now,
		ExpiresAt:  now.Add(s.opts.VerifyCodeTTL),
	}
	if err := s.codes.Upsert(ctx, row); err != nil {
		return fmt.Errorf("store verification code: %w", err)
	}

	if purpose == domain.PurposeRecovery {
		link := fmt.Sprintf("%s/reset-password?email=%s&code=%s", s.opts.SiteURL, url.QueryEscape(user.Email), code)
		return s.mailer.SendPasswordReset(ctx, user.Email, link)
	}
	return s.mailer.SendVerificationCode(ctx, user.Email, code)
}

func generateVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func hashVerificationCode(code, pepper string) string {
	h := sha256.Sum256([]byte(code + pepper))
	return hex.EncodeToString(h[:])
}
