package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/webvantage/chatbot-platform/internal/appointments"
)

type mockEmailSender struct {
	sent    []EmailMessage
	failOn  string // fail if To matches this
	callErr error
}

func (m *mockEmailSender) Send(ctx context.Context, msg EmailMessage) error {
	if m.callErr != nil {
		return m.callErr
	}
	if m.failOn != "" && msg.To == m.failOn {
		return errors.New("mock email error")
	}
	m.sent = append(m.sent, msg)
	return nil
}

func sampleAppointment() *appointments.Appointment {
	return &appointments.Appointment{
		ID:            "appt-1",
		Name:          "Asha Patel",
		Email:         "asha@example.com",
		Phone:         "+91 98765 43210",
		BusinessType:  "restaurant",
		Services:      []string{"Website Design & Development", "Search Engine Optimization (SEO)"},
		RequestedDate: "2024-01-08",
		RequestedTime: "19:00",
	}
}

func TestAppointmentBookedSendsFullBatch(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, "WebVantage", []string{"sales@webvantage.example", "ops@webvantage.example"}, nil, nil)

	if err := svc.AppointmentBooked(context.Background(), sampleAppointment()); err != nil {
		t.Fatalf("AppointmentBooked: %v", err)
	}
	if len(sender.sent) != 3 {
		t.Fatalf("sent %d emails, want customer + 2 team copies", len(sender.sent))
	}
	if sender.sent[0].To != "asha@example.com" {
		t.Errorf("first email to %s, want the customer", sender.sent[0].To)
	}
	if !strings.Contains(sender.sent[0].Body, "2024-01-08") || !strings.Contains(sender.sent[0].Body, "19:00") {
		t.Error("customer body must include the requested slot")
	}
	if !strings.Contains(sender.sent[1].Body, "asha@example.com") {
		t.Error("team copy must include the customer contact")
	}
}

func TestAppointmentBookedPartialFailure(t *testing.T) {
	sender := &mockEmailSender{failOn: "sales@webvantage.example"}
	svc := NewService(sender, "WebVantage", []string{"sales@webvantage.example", "ops@webvantage.example"}, nil, nil)

	if err := svc.AppointmentBooked(context.Background(), sampleAppointment()); err != nil {
		t.Fatalf("one failed recipient must not fail the batch: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Errorf("sent %d emails, want the 2 non-failing recipients", len(sender.sent))
	}
}

func TestAppointmentBookedAllFail(t *testing.T) {
	sender := &mockEmailSender{callErr: errors.New("provider outage")}
	svc := NewService(sender, "WebVantage", []string{"sales@webvantage.example"}, nil, nil)

	if err := svc.AppointmentBooked(context.Background(), sampleAppointment()); err == nil {
		t.Error("expected an error when every send fails")
	}
}

func TestAppointmentBookedSkipsBlankCustomerEmail(t *testing.T) {
	sender := &mockEmailSender{}
	svc := NewService(sender, "WebVantage", []string{"sales@webvantage.example"}, nil, nil)

	appt := sampleAppointment()
	appt.Email = ""
	if err := svc.AppointmentBooked(context.Background(), appt); err != nil {
		t.Fatalf("AppointmentBooked: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Errorf("sent %d emails, want team copy only", len(sender.sent))
	}
}

func TestAppointmentBookedWithoutSender(t *testing.T) {
	svc := NewService(nil, "WebVantage", []string{"sales@webvantage.example"}, nil, nil)
	if err := svc.AppointmentBooked(context.Background(), sampleAppointment()); err != nil {
		t.Errorf("no sender configured should be a silent no-op, got %v", err)
	}
}
