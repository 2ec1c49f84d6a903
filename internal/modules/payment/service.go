package payment

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"glowbook/internal/domain"
)

type bookingService interface {
	Get(ctx context.Context, customerID string, id int64) (*domain.Booking, error)
	Confirm(ctx context.Context, customerID string, id int64) error
}

type intentWriter interface {
	SetPaymentIntent(ctx context.Context, id int64, intentID string) error
}

type Options struct {
	Currency       string
	PublishableKey string
}

type Service struct {
	bookings bookingService
	intents  intentWriter
	gateway  Gateway
	opts     Options
	log      *zap.Logger
}

func NewService(bookings bookingService, intents intentWriter, gateway Gateway, opts Options, log *zap.Logger) *Service {
	return &Service{bookings: bookings, intents: intents, gateway: gateway, opts: opts, log: log}
}

// Screen loads the customer's booking and makes sure a payment intent exists
// for it while it is still awaiting payment.
func (s *Service) Screen(ctx context.Context, customerID string, bookingID int64) (*ScreenView, error) {
	b, err := s.bookings.Get(ctx, customerID, bookingID)
	if err != nil {
		return nil, err
	}
	view := &ScreenView{
		Booking:  b,
		Amount:   b.TotalPrice,
		Currency: s.opts.Currency,
		Provider: s.gateway.Name(),
	}

	switch b.Status {
	case domain.BookingConfirmed, domain.BookingCompleted:
		view.Paid = true
		return view, nil
	case domain.BookingCancelled:
		return nil, ErrNotPayable
	}

	intent, err := s.ensureIntent(ctx, b)
	if err != nil {
		return nil, err
	}
	view.ClientSecret = intent.ClientSecret
	view.PublishableKey = s.opts.PublishableKey
	return view, nil
}

// Pay confirms the booking once its payment intent has succeeded. Paying an
// already confirmed booking is a no-op.
func (s *Service) Pay(ctx context.Context, customerID string, bookingID int64) error {
	b, err := s.bookings.Get(ctx, customerID, bookingID)
	if err != nil {
		return err
	}
	switch b.Status {
	case domain.BookingConfirmed:
		return nil
	case domain.BookingPendingPayment:
	default:
		return ErrNotPayable
	}

	intent, err := s.ensureIntent(ctx, b)
	if err != nil {
		return err
	}
	if !intent.Succeeded() {
		return fmt.Errorf("%w: intent %s is %s", ErrPaymentIncomplete, intent.ID, intent.Status)
	}

	if err := s.bookings.Confirm(ctx, customerID, bookingID); err != nil {
		return err
	}
	s.log.Info("booking paid",
		zap.Int64("booking_id", bookingID),
		zap.String("intent_id", intent.ID),
		zap.String("provider", s.gateway.Name()),
	)
	return nil
}

func (s *Service) ensureIntent(ctx context.Context, b *domain.Booking) (*Intent, error) {
	if b.PaymentIntentID != "" {
		intent, err := s.gateway.GetIntent(ctx, b.PaymentIntentID)
		if err == nil {
			return intent, nil
		}
		if !errors.Is(err, ErrIntentNotFound) {
			return nil, err
		}
		s.log.Warn("stale payment intent, creating a new one", zap.Int64("booking_id", b.ID), zap.String("intent_id", b.PaymentIntentID))
	}

	intent, err := s.gateway.CreateIntent(ctx, b.ID, b.TotalPrice)
	if err != nil {
		return nil, err
	}
	if err := s.intents.SetPaymentIntent(ctx, b.ID, intent.ID); err != nil {
		return nil, fmt.Errorf("store payment intent: %w", err)
	}
	b.PaymentIntentID = intent.ID
	return intent, nil
}
