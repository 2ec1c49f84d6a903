package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"glowbook/internal/domain"
	"glowbook/internal/repository"
)

const (
	dateLayout = "2006-01-02"
	slotLayout = "2006-01-02 03:04 PM"
)

type Service struct {
	bookings BookingStore
	services ServiceReader
	profiles ProfileReader
	strict   bool
	loc      *time.Location
	now      func() time.Time
	log      *zap.Logger
}

// NewService builds the booking service. With strict set, status changes
// must follow domain.ValidBookingTransition; otherwise any status may be
// written.
func NewService(bookings BookingStore, services ServiceReader, profiles ProfileReader, strict bool, log *zap.Logger) *Service {
	return &Service{
		bookings: bookings,
		services: services,
		profiles: profiles,
		strict:   strict,
		loc:      time.UTC,
		now:      time.Now,
		log:      log,
	}
}

// Prepare loads what the booking screen needs for a service.
func (s *Service) Prepare(ctx context.Context, serviceID int64) (*BookView, error) {
	svc, err := s.bookableService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	total := domain.TotalWithTax(svc.Price)
	return &BookView{
		Service:   svc,
		TimeSlots: TimeSlots,
		Tax:       roundCents(total - svc.Price),
		Total:     total,
	}, nil
}

// Create books a service slot for the customer. The booking waits for payment.
func (s *Service) Create(ctx context.Context, customerID string, serviceID int64, req CreateBookingRequest) (*domain.Booking, error) {
	svc, err := s.bookableService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	slot := strings.TrimSpace(req.TimeSlot)
	if !slices.Contains(TimeSlots, slot) {
		return nil, fmt.Errorf("%w: unknown time slot %q", ErrValidation, slot)
	}
	at, err := time.ParseInLocation(slotLayout, strings.TrimSpace(req.Date)+" "+slot, s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date", ErrValidation)
	}
	if !at.After(s.now()) {
		return nil, fmt.Errorf("%w: booking time is in the past", ErrValidation)
	}

	b := &domain.Booking{
		CustomerID:      customerID,
		BeauticianID:    svc.BeauticianID,
		ServiceID:       svc.ID,
		BookingTime:     at.UTC(),
		Status:          domain.BookingPendingPayment,
		TotalPrice:      domain.TotalWithTax(svc.Price),
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("booking created", zap.Int64("booking_id", b.ID), zap.String("customer_id", customerID), zap.Int64("service_id", svc.ID))
	return b, nil
}

// List returns the customer's bookings for one tab. Unknown tabs show upcoming.
func (s *Service) List(ctx context.Context, customerID, tab string) (*ListView, error) {
	var status domain.BookingStatus
	switch tab {
	case TabCompleted:
		status = domain.BookingCompleted
	case TabCancelled:
		status = domain.BookingCancelled
	default:
		tab, status = TabUpcoming, domain.BookingConfirmed
	}

	list, err := s.bookings.ListByCustomer(ctx, customerID, status)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, list); err != nil {
		return nil, err
	}
	return &ListView{Tab: tab, Tabs: []string{TabUpcoming, TabCompleted, TabCancelled}, Bookings: list}, nil
}

// Get returns one of the customer's bookings with its service and beautician.
func (s *Service) Get(ctx context.Context, customerID string, id int64) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrBookingNotFound
	}
	one := []domain.Booking{*b}
	if err := s.attach(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

func (s *Service) Cancel(ctx context.Context, customerID string, id int64) error {
	b, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if b.CustomerID != customerID {
		return ErrBookingNotFound
	}
	return s.changeStatus(ctx, b, domain.BookingCancelled)
}

// Confirm marks a paid booking confirmed.
func (s *Service) Confirm(ctx context.Context, customerID string, id int64) error {
	b, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if b.CustomerID != customerID {
		return ErrBookingNotFound
	}
	return s.changeStatus(ctx, b, domain.BookingConfirmed)
}

// Calendar lists a beautician's bookings on one day. An empty date means today.
func (s *Service) Calendar(ctx context.Context, beauticianID, date string) (*CalendarView, error) {
	day := s.today()
	if date = strings.TrimSpace(date); date != "" {
		parsed, err := time.ParseInLocation(dateLayout, date, s.loc)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date", ErrValidation)
		}
		day = parsed
	}

	list, err := s.bookings.ListByBeautician(ctx, beauticianID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, list); err != nil {
		return nil, err
	}
	return &CalendarView{Date: day.Format(dateLayout), Bookings: list}, nil
}

// Dashboard returns the beautician's profile and today's confirmed appointments.
func (s *Service) Dashboard(ctx context.Context, beauticianID string) (*DashboardView, error) {
	p, err := s.profiles.GetByID(ctx, beauticianID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	day := s.today()
	list, err := s.bookings.ListByBeautician(ctx, beauticianID, day, day.AddDate(0, 0, 1), domain.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	if err := s.attach(ctx, list); err != nil {
		return nil, err
	}
	return &DashboardView{Profile: p, Today: list}, nil
}

// SetStatus lets a beautician move one of their bookings to status.
func (s *Service) SetStatus(ctx context.Context, beauticianID string, id int64, status domain.BookingStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if b.BeauticianID != beauticianID {
		return ErrBookingNotFound
	}
	return s.changeStatus(ctx, b, status)
}

// ForUser returns the bookings a user is part of: all of a customer's, and a
// beautician's from now on.
func (s *Service) ForUser(ctx context.Context, userID string, role domain.UserRole) ([]domain.Booking, error) {
	var (
		list []domain.Booking
		err  error
	)
	if role == domain.RoleBeautician {
		list, err = s.bookings.ListByBeautician(ctx, userID, s.now(), time.Time{})
	} else {
		list, err = s.bookings.ListByCustomer(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return list, s.attach(ctx, list)
}

func (s *Service) changeStatus(ctx context.Context, b *domain.Booking, to domain.BookingStatus) error {
	if s.strict && !domain.ValidBookingTransition(b.Status, to) {
		return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, b.Status, to)
	}
	if err := s.bookings.UpdateStatus(ctx, b.ID, to); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	s.log.Info("booking status changed", zap.Int64("booking_id", b.ID), zap.String("from", string(b.Status)), zap.String("to", string(to)))
	return nil
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

func (s *Service) bookableService(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}
	p, err := s.profiles.GetByID(ctx, svc.BeauticianID)
	switch {
	case err == nil:
		svc.Beautician = p
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	return svc, nil
}

// attach fills in service, customer and beautician on each booking.
func (s *Service) attach(ctx context.Context, list []domain.Booking) error {
	if len(list) == 0 {
		return nil
	}

	var ids []string
	services := map[int64]*domain.Service{}
	for _, b := range list {
		for _, id := range []string{b.CustomerID, b.BeauticianID} {
			if !slices.Contains(ids, id) {
				ids = append(ids, id)
			}
		}
		if _, ok := services[b.ServiceID]; ok {
			continue
		}
		svc, err := s.services.GetByID(ctx, b.ServiceID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		services[b.ServiceID] = svc
	}

	profiles, err := s.profiles.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]*domain.Profile, len(profiles))
	for i := range profiles {
		byID[profiles[i].ID] = &profiles[i]
	}

	for i := range list {
		list[i].Service = services[list[i].ServiceID]
		list[i].Customer = byID[list[i].CustomerID]
		list[i].Beautician = byID[list[i].BeauticianID]
	}
	return nil
}

func (s *Service) today() time.Time {
	y, m, d := s.now().In(s.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, s.loc)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
