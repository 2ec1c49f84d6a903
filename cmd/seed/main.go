package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"glowbook/internal/config"
	"glowbook/internal/database"
	"glowbook/internal/domain"
	"glowbook/internal/pkg/logger"
	"glowbook/internal/repository"
)

const seedPassword = "glowbook123"

type seedUser struct {
	email     string
	name      string
	role      domain.UserRole
	location  string
	specialty string
	bio       string
}

var users = []seedUser{
	{email: "alice@glowbook.app", name: "Alice Johnson", role: domain.RoleBeautician, location: "Downtown", specialty: "Nail artist", bio: "Gel, acrylic and classic manicures."},
	{email: "david@glowbook.app", name: "David Smith", role: domain.RoleBeautician, location: "Uptown", specialty: "Massage therapist", bio: "Deep tissue and relaxation massage."},
	{email: "maria@glowbook.app", name: "Maria Garcia", role: domain.RoleBeautician, location: "Midtown", specialty: "Makeup artist", bio: "Bridal and evening makeup."},
	{email: "cleo@glowbook.app", name: "Cleo Brown", role: domain.RoleCustomer, location: "Downtown"},
	{email: "sam@glowbook.app", name: "Sam Lee", role: domain.RoleCustomer, location: "Uptown"},
}

var services = map[string][]domain.Service{
	"alice@glowbook.app": {
		{Name: "Classic Manicure", Category: "Nails", Price: 25, Duration: "45 min", Description: "Shape, cuticle care and polish."},
		{Name: "Gel Nails", Category: "Nails", Price: 40, Duration: "60 min", Description: "Long-lasting gel polish."},
	},
	"david@glowbook.app": {
		{Name: "Deep Tissue Massage", Category: "Massage", Price: 80, Duration: "60 min", Description: "Firm pressure for muscle tension."},
		{Name: "Relaxation Massage", Category: "Massage", Price: 65, Duration: "60 min", Description: "Gentle full-body massage."},
	},
	"maria@glowbook.app": {
		{Name: "Evening Makeup", Category: "Makeup", Price: 55, Duration: "50 min", Description: "Full face for events."},
		{Name: "Lash Lift", Category: "Lashes", Price: 60, Duration: "45 min", Description: "Lift and tint."},
	},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(cfg.IsProdLike(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if cfg.DatabaseURL == "" {
		zl.Fatal("DATABASE_URL is required")
	}
	db, err := database.Connect(cfg.DatabaseURL, zl)
	if err != nil {
		zl.Fatal("db connect failed", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		zl.Fatal("migrate failed", zap.Error(err))
	}

	if err := seed(context.Background(), db, zl); err != nil {
		zl.Fatal("seed failed", zap.Error(err))
	}
	zl.Info("seed completed", zap.String("password", seedPassword))
}

func seed(ctx context.Context, db *gorm.DB, zl *zap.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&domain.Message{}, &domain.Booking{}, &domain.Service{}, &domain.RefreshToken{}, &domain.VerificationCode{}, &domain.Profile{}, &domain.User{}} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("clean %T: %w", model, err)
			}
		}

		profiles := repository.NewProfileRepository(tx)
		catalog := repository.NewServiceRepository(tx)
		bookings := repository.NewBookingRepository(tx)
		messages := repository.NewMessageRepository(tx)

		now := time.Now().UTC()
		ids := make(map[string]string, len(users))
		for _, u := range users {
			id := uuid.NewString()
			ids[u.email] = id
			user := &domain.User{
				ID:               id,
				Email:            u.email,
				PasswordHash:     string(hash),
				Role:             u.role,
				FullName:         u.name,
				Provider:         "email",
				EmailConfirmedAt: &now,
			}
			if err := tx.Create(user).Error; err != nil {
				return fmt.Errorf("create user %s: %w", u.email, err)
			}
			if err := profiles.Upsert(ctx, &domain.Profile{
				ID:             id,
				FullName:       u.name,
				UserType:       u.role,
				Location:       u.location,
				Specialization: u.specialty,
				Bio:            u.bio,
			}); err != nil {
				return fmt.Errorf("create profile %s: %w", u.email, err)
			}
			zl.Info("user created", zap.String("email", u.email), zap.String("user_type", string(u.role)))
		}

		var first *domain.Service
		for email, list := range services {
			for i := range list {
				s := list[i]
				s.BeauticianID = ids[email]
				s.IsActive = true
				if err := catalog.Save(ctx, &s); err != nil {
					return fmt.Errorf("create service %s: %w", s.Name, err)
				}
				if first == nil && email == "alice@glowbook.app" {
					first = &s
				}
			}
		}

		if first == nil {
			return nil
		}
		customer := ids["cleo@glowbook.app"]
		day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		seedBookings := []domain.Booking{
			{BookingTime: day.AddDate(0, 0, 1).Add(10 * time.Hour), Status: domain.BookingConfirmed},
			{BookingTime: day.AddDate(0, 0, 3).Add(14 * time.Hour), Status: domain.BookingPendingPayment},
			{BookingTime: day.AddDate(0, 0, -7).Add(11 * time.Hour), Status: domain.BookingCompleted},
		}
		for i := range seedBookings {
			b := &seedBookings[i]
			b.CustomerID = customer
			b.BeauticianID = first.BeauticianID
			b.ServiceID = first.ID
			b.TotalPrice = domain.TotalWithTax(first.Price)
			if err := bookings.Create(ctx, b); err != nil {
				return fmt.Errorf("create booking: %w", err)
			}
		}

		for _, m := range []domain.Message{
			{SenderID: customer, ReceiverID: first.BeauticianID, Content: "Hi! Is tomorrow at 10 still fine?"},
			{SenderID: first.BeauticianID, ReceiverID: customer, Content: "Yes, see you then."},
		} {
			if err := messages.Create(ctx, &m); err != nil {
				return fmt.Errorf("create message: %w", err)
			}
		}
		return nil
	})
}
