package backend

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"glowbook/internal/config"
	"glowbook/internal/database"
	"glowbook/internal/modules/auth"
	"glowbook/internal/modules/functions"
	jwtsvc "glowbook/internal/pkg/jwt"
	"glowbook/internal/realtime"
	"glowbook/internal/repository"
	"glowbook/internal/storage"
)

type remote struct {
	db        *gorm.DB
	auth      *auth.Service
	profiles  *repository.ProfileRepository
	services  *repository.ServiceRepository
	bookings  *repository.BookingRepository
	messages  *messageTable
	broker    realtime.Broker
	storage   storage.Storage
	functions *functions.Registry
}

// New builds the backend client from configuration. Without a database URL
// or JWT secret it logs a warning and returns the stub.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (Client, error) {
	if !cfg.BackendConfigured() {
		log.Warn("Missing backend configuration. Using a stub client.")
		return NewStub(), nil
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	broker, err := realtime.New(ctx, realtime.Options{
		Driver:        cfg.RealtimeDriver,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		DatabaseURL:   cfg.DatabaseURL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("realtime: %w", err)
	}

	objects, err := storage.New(ctx, storage.Config{
		Type:         storage.Type(cfg.StorageType),
		LocalPath:    cfg.StorageLocalPath,
		PublicURL:    cfg.StoragePublicURL,
		S3Bucket:     cfg.S3Bucket,
		S3Region:     cfg.S3Region,
		AWSAccessKey: cfg.AWSAccessKeyID,
		AWSSecretKey: cfg.AWSSecretKey,
	})
	if err != nil {
		_ = broker.Close()
		return nil, fmt.Errorf("storage: %w", err)
	}

	return newRemote(db, broker, objects, cfg, log), nil
}

// NewWithDB wires a client over an open database, broker and object store.
func NewWithDB(db *gorm.DB, broker realtime.Broker, objects storage.Storage, cfg *config.Config, log *zap.Logger) Client {
	return newRemote(db, broker, objects, cfg, log)
}

func newRemote(db *gorm.DB, broker realtime.Broker, objects storage.Storage, cfg *config.Config, log *zap.Logger) *remote {
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	providers := map[string]auth.OAuthProvider{}
	if cfg.Auth.GoogleEnabled() {
		providers["google"] = auth.NewGoogleProvider(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.OAuthRedirectURL)
	}

	authService := auth.NewService(
		userRepo,
		repository.NewRefreshTokenRepository(db),
		repository.NewVerificationCodeRepository(db),
		jwtsvc.New(cfg.JWTSecret, cfg.Auth.JWTAccessTTL),
		auth.NewDevConsoleMailer(log),
		auth.NewEventBus(log),
		providers,
		auth.Options{
			RefreshTokenPepper:     cfg.Auth.RefreshTokenPepper,
			VerificationCodePepper: cfg.Auth.VerificationCodePepper,
			RefreshTTL:             cfg.Auth.RefreshTTL,
			VerifyCodeTTL:          cfg.Auth.VerifyCodeTTL,
			VerifyResendCooldown:   cfg.Auth.VerifyResendCooldown,
			VerifyMaxAttempts:      cfg.Auth.VerifyMaxAttempts,
			SiteURL:                cfg.SiteURL,
		},
		log,
	)

	registry := functions.NewRegistry()
	registry.Register(functions.DeleteUserName, functions.DeleteUser(
		authService,
		repository.NewAccountRepository(db),
		profileRepo,
		objects,
		log,
	))

	return &remote{
		db:        db,
		auth:      authService,
		profiles:  profileRepo,
		services:  repository.NewServiceRepository(db),
		bookings:  repository.NewBookingRepository(db),
		messages:  newMessageTable(repository.NewMessageRepository(db), broker, log),
		broker:    broker,
		storage:   objects,
		functions: registry,
	}
}

func (r *remote) Auth() auth.Client         { return r.auth }
func (r *remote) Profiles() ProfileTable    { return r.profiles }
func (r *remote) Services() ServiceTable    { return r.services }
func (r *remote) Bookings() BookingTable    { return r.bookings }
func (r *remote) Messages() MessageTable    { return r.messages }
func (r *remote) Realtime() realtime.Broker { return r.broker }
func (r *remote) Storage() storage.Storage  { return r.storage }
func (r *remote) Functions() Functions      { return r.functions }
func (r *remote) Configured() bool          { return true }

func (r *remote) Close() error {
	var errs []error
	if err := r.broker.Close(); err != nil {
		errs = append(errs, err)
	}
	if sqlDB, err := r.db.DB(); err == nil {
		errs = append(errs, sqlDB.Close())
	}
	return errors.Join(errs...)
}
