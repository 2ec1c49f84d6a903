package profile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/modules/auth"
	"glowbook/internal/modules/functions"
	"glowbook/internal/repository"
	"glowbook/internal/session"
	"glowbook/internal/storage"
)

const MaxAvatarSize = 5 * 1024 * 1024

var avatarExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

type profileStore interface {
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	Upsert(ctx context.Context, p *domain.Profile) error
	UpdateAvatar(ctx context.Context, id, url string) error
}

type invoker interface {
	Invoke(ctx context.Context, name string, sess *session.Session) (any, error)
}

type Service struct {
	auth      auth.Client
	profiles  profileStore
	objects   storage.Storage
	functions invoker
	log       *zap.Logger
}

func NewService(authClient auth.Client, profiles profileStore, objects storage.Storage, fns invoker, log *zap.Logger) *Service {
	return &Service{auth: authClient, profiles: profiles, objects: objects, functions: fns, log: log}
}

// CompleteForm prefills the complete-profile screen from the session.
func (s *Service) CompleteForm(sess *session.Session) *CompleteProfileView {
	view := &CompleteProfileView{
		UserType:  sess.Role(),
		UserTypes: []domain.UserRole{domain.RoleCustomer, domain.RoleBeautician},
	}
	if sess.Valid() {
		view.Email = sess.User.Email
		if name, ok := sess.User.UserMetadata["full_name"].(string); ok {
			view.FullName = name
		}
	}
	return view
}

// Complete stores the chosen role on the user and creates the profile. The
// returned session carries the new role.
func (s *Service) Complete(ctx context.Context, sess *session.Session, req CompleteProfileRequest) (*session.Session, error) {
	role := domain.UserRole(strings.TrimSpace(req.UserType))
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	name := strings.TrimSpace(req.FullName)
	roleAttr := string(role)

	updated, err := s.auth.UpdateUser(ctx, sess.UserID(), auth.UserAttributes{UserType: &roleAttr, FullName: &name})
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	p := &domain.Profile{
		ID:       sess.UserID(),
		FullName: name,
		UserType: role,
		Phone:    strings.TrimSpace(req.Phone),
		Location: strings.TrimSpace(req.Location),
	}
	if existing, err := s.profiles.GetByID(ctx, p.ID); err == nil {
		p.AvatarURL = existing.AvatarURL
		p.Specialization = existing.Specialization
		p.Bio = existing.Bio
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return updated, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.profiles.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

// Update saves the settings form for the given role.
func (s *Service) Update(ctx context.Context, userID string, role domain.UserRole, req UpdateProfileRequest) (*domain.Profile, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.FullName = strings.TrimSpace(req.FullName)
	p.Phone = strings.TrimSpace(req.Phone)
	p.Location = strings.TrimSpace(req.Location)
	if role == domain.RoleBeautician {
		p.Specialization = strings.TrimSpace(req.Specialization)
		p.Bio = strings.TrimSpace(req.Bio)
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}

// UploadAvatar stores a new avatar, points the profile at it and removes the
// previous object.
func (s *Service) UploadAvatar(ctx context.Context, userID, filename, contentType string, size int64, data io.Reader) (string, error) {
	if size <= 0 {
		return "", ErrEmptyFile
	}
	if size > MaxAvatarSize {
		return "", ErrFileTooLarge
	}
	if !avatarExts[strings.ToLower(filepath.Ext(filename))] {
		return "", ErrInvalidFormat
	}

	p, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.objects.Upload(ctx, storage.AvatarKey(userID, filename), contentType, data)
	if err != nil {
		return "", fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.profiles.UpdateAvatar(ctx, userID, url); err != nil {
		return "", fmt.Errorf("update avatar: %w", err)
	}

	if old := s.objects.KeyFromURL(p.AvatarURL); old != "" {
		if err := s.objects.Delete(ctx, old); err != nil {
			s.log.Warn("delete old avatar", zap.String("user_id", userID), zap.String("key", old), zap.Error(err))
		}
	}
	return url, nil
}

// SignOut revokes the session's refresh tokens. A nil session is a no-op.
func (s *Service) SignOut(ctx context.Context, sess *session.Session) error {
	if !sess.Valid() {
		return nil
	}
	return s.auth.SignOut(ctx, sess.UserID())
}

func (s *Service) DeleteAccount(ctx context.Context, sess *session.Session) error {
	if _, err := s.functions.Invoke(ctx, functions.DeleteUserName, sess); err != nil {
		return fmt.Errorf("invoke %s: %w", functions.DeleteUserName, err)
	}
	s.log.Info("account deleted", zap.String("user_id", sess.UserID()))
	return nil
}
