package appointments

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/webvantage/chatbot-platform/internal/observability/metrics"
	"github.com/webvantage/chatbot-platform/internal/schedule"
	"github.com/webvantage/chatbot-platform/internal/users"
	"github.com/webvantage/chatbot-platform/pkg/logging"
)

var apptTracer = otel.Tracer("webvantage.internal.appointments")

// Notifier sends booking confirmations. Implementations must handle their
// own partial failures; a returned error means nothing was sent.
type Notifier interface {
	AppointmentBooked(ctx context.Context, appt *Appointment) error
}

// Service validates, stores, and announces appointment bookings.
type Service struct {
	repo          Repository
	validator     *schedule.Validator
	finder        *schedule.Finder
	notifier      Notifier
	users         users.Store
	conflictCheck bool
	metrics       *metrics.AppointmentMetrics
	logger        *logging.Logger
}

// NewService wires the booking pipeline. Notifier, the user store, and
// metrics are optional.
func NewService(repo Repository, validator *schedule.Validator, notifier Notifier, userStore users.Store, conflictCheck bool, m *metrics.AppointmentMetrics, logger *logging.Logger) *Service {
	if repo == nil {
		panic("appointments: repository required")
	}
	if validator == nil {
		panic("appointments: schedule validator required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:          repo,
		validator:     validator,
		finder:        schedule.NewFinder(validator),
		notifier:      notifier,
		users:         userStore,
		conflictCheck: conflictCheck,
		metrics:       m,
		logger:        logger,
	}
}

// Create books an appointment. It rejects before touching storage when the
// form is incomplete or the slot falls outside open hours, so a rejected
// request never produces a row or an email.
func (s *Service) Create(ctx context.Context, req *CreateAppointmentRequest) (*Appointment, error) {
	ctx, span := apptTracer.Start(ctx, "appointments.create")
	defer span.End()

	if err := req.Validate(); err != nil {
		s.metrics.ObserveRejected("invalid_form")
		return nil, err
	}

	if err := s.validator.Validate(req.RequestedDate, req.RequestedTime); err != nil {
		s.metrics.ObserveRejected("outside_hours")
		span.SetAttributes(attribute.String("appointments.rejection", "outside_hours"))
		return nil, err
	}

	appt := &Appointment{
		Name:          req.Name,
		Email:         req.Email,
		Phone:         req.Phone,
		BusinessType:  req.BusinessType,
		Services:      append([]string(nil), req.Services...),
		RequestedDate: req.RequestedDate,
		RequestedTime: req.RequestedTime,
		Status:        StatusPending,
		Notes:         req.Notes,
		UserTimezone:  req.UserTimezone,
		UserLocalTime: req.UserLocalTime,
	}

	if err := s.insert(ctx, appt); err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.String("appointments.id", appt.ID))
	s.metrics.ObserveCreated()

	s.logger.Info("appointment created",
		"id", appt.ID,
		"date", appt.RequestedDate,
		"time", appt.RequestedTime,
	)

	s.recordContact(ctx, appt)

	// Notification failures never undo a stored booking.
	if s.notifier != nil {
		if err := s.notifier.AppointmentBooked(ctx, appt); err != nil {
			s.logger.Error("appointments: confirmation send failed", "error", err, "id", appt.ID)
		}
	}

	return appt, nil
}

// recordContact upserts the user record behind a stored booking; failures
// are logged and never undo the booking.
func (s *Service) recordContact(ctx context.Context, appt *Appointment) {
	if s.users == nil {
		return
	}
	_, err := s.users.RecordContact(ctx, &users.User{
		Name:         appt.Name,
		Email:        appt.Email,
		Phone:        appt.Phone,
		BusinessType: appt.BusinessType,
	})
	if err != nil {
		s.logger.Error("appointments: failed to record contact", "error", err, "id", appt.ID)
	}
}

func (s *Service) insert(ctx context.Context, appt *Appointment) error {
	if !s.conflictCheck {
		if err := s.repo.Create(ctx, appt); err != nil {
			return fmt.Errorf("appointments: store failed: %w", err)
		}
		return nil
	}

	err := s.repo.CreateIfFree(ctx, appt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrSlotTaken) {
		return fmt.Errorf("appointments: store failed: %w", err)
	}

	s.metrics.ObserveRejected("conflict")
	conflict := &ConflictError{Date: appt.RequestedDate, Time: appt.RequestedTime}
	if next, ferr := s.finder.NextAvailable(schedule.Slot{
		Date: appt.RequestedDate,
		Time: appt.RequestedTime,
	}); ferr == nil {
		conflict.SuggestedDate = next.Date
		conflict.SuggestedTime = next.Time
	}
	return conflict
}

// Get returns one appointment.
func (s *Service) Get(ctx context.Context, id string) (*Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns appointments most recent first.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	return s.repo.List(ctx, filter)
}

// Update applies a partial update.
func (s *Service) Update(ctx context.Context, id string, req *UpdateAppointmentRequest) (*Appointment, error) {
	appt, err := s.repo.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("appointment updated", "id", id, "status", appt.Status)
	return appt, nil
}

// NextAvailableFrom exposes the slot finder for callers that want to offer
// an alternative before the visitor submits.
func (s *Service) NextAvailableFrom(date, timeValue string) (schedule.Slot, error) {
	return s.finder.NextAvailable(schedule.Slot{Date: date, Time: timeValue})
}

