package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/webvantage/chatbot-platform/internal/appointments"
	"github.com/webvantage/chatbot-platform/internal/observability/metrics"
	"github.com/webvantage/chatbot-platform/pkg/logging"
)

// Service sends booking notifications to the customer and the agency team.
type Service struct {
	email      EmailSender
	agencyName string
	teamInbox  []string
	metrics    *metrics.AppointmentMetrics
	logger     *logging.Logger
}

// NewService creates a notification service. teamInbox lists the internal
// addresses that receive a copy of every booking.
func NewService(email EmailSender, agencyName string, teamInbox []string, m *metrics.AppointmentMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	if agencyName == "" {
		agencyName = "WebVantage"
	}
	return &Service{
		email:      email,
		agencyName: agencyName,
		teamInbox:  teamInbox,
		metrics:    m,
		logger:     logger,
	}
}

// AppointmentBooked sends one confirmation to the customer and one internal
// copy per team address. Each recipient is attempted independently; a
// failed send never blocks the others. The returned error is non-nil only
// when every send failed.
func (s *Service) AppointmentBooked(ctx context.Context, appt *appointments.Appointment) error {
	if s.email == nil {
		s.logger.Debug("notify: no email sender configured, skipping confirmation", "id", appt.ID)
		return nil
	}

	var attempted, failed int

	if strings.TrimSpace(appt.Email) != "" {
		attempted++
		msg := EmailMessage{
			To:      appt.Email,
			ToName:  appt.Name,
			Subject: fmt.Sprintf("Your consultation with %s is booked", s.agencyName),
			Body:    s.customerBody(appt),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			failed++
			s.metrics.ObserveNotification("failed")
			s.logger.Error("notify: customer confirmation failed", "error", err, "id", appt.ID)
		} else {
			s.metrics.ObserveNotification("sent")
		}
	}

	internal := s.internalBody(appt)
	for _, to := range s.teamInbox {
		to = strings.TrimSpace(to)
		if to == "" {
			continue
		}
		attempted++
		msg := EmailMessage{
			To:      to,
			Subject: fmt.Sprintf("New booking: %s on %s %s", appt.Name, appt.RequestedDate, appt.RequestedTime),
			Body:    internal,
		}
		if err := s.email.Send(ctx, msg); err != nil {
			failed++
			s.metrics.ObserveNotification("failed")
			s.logger.Error("notify: team copy failed", "error", err, "id", appt.ID, "to", to)
		} else {
			s.metrics.ObserveNotification("sent")
		}
	}

	if attempted > 0 && failed == attempted {
		return fmt.Errorf("notify: all %d confirmation sends failed", attempted)
	}
	return nil
}

func (s *Service) customerBody(appt *appointments.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", appt.Name)
	fmt.Fprintf(&b, "Thanks for booking a consultation with %s.\n\n", s.agencyName)
	fmt.Fprintf(&b, "Date: %s\nTime: %s\n", appt.RequestedDate, appt.RequestedTime)
	if len(appt.Services) > 0 {
		fmt.Fprintf(&b, "Services discussed: %s\n", strings.Join(appt.Services, ", "))
	}
	if appt.UserLocalTime != "" {
		fmt.Fprintf(&b, "Your local time: %s\n", appt.UserLocalTime)
	}
	b.WriteString("\nWe will reach out shortly to confirm the details.\n")
	return b.String()
}

func (s *Service) internalBody(appt *appointments.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New consultation booking %s\n\n", appt.ID)
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n", appt.Name, appt.Email, appt.Phone)
	if appt.BusinessType != "" {
		fmt.Fprintf(&b, "Business: %s\n", appt.BusinessType)
	}
	fmt.Fprintf(&b, "Requested: %s %s\n", appt.RequestedDate, appt.RequestedTime)
	if len(appt.Services) > 0 {
		fmt.Fprintf(&b, "Services: %s\n", strings.Join(appt.Services, ", "))
	}
	if appt.Notes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", appt.Notes)
	}
	if appt.UserTimezone != "" {
		fmt.Fprintf(&b, "Visitor timezone: %s (%s local)\n", appt.UserTimezone, appt.UserLocalTime)
	}
	return b.String()
}

var _ appointments.Notifier = (*Service)(nil)
