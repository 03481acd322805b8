package appointments

import (
	"context"
	"errors"
	"testing"

	"github.com/webvantage/chatbot-platform/internal/schedule"
	"github.com/webvantage/chatbot-platform/internal/users"
)

type recordingNotifier struct {
	booked []*Appointment
	err    error
}

func (n *recordingNotifier) AppointmentBooked(_ context.Context, appt *Appointment) error {
	if n.err != nil {
		return n.err
	}
	n.booked = append(n.booked, appt)
	return nil
}

func validCreateRequest() *CreateAppointmentRequest {
	return &CreateAppointmentRequest{
		Name:          "Asha Patel",
		Email:         "asha@example.com",
		Phone:         "+91 98765 43210",
		BusinessType:  "restaurant",
		Services:      []string{"Website Design & Development"},
		RequestedDate: "2024-01-08", // Monday
		RequestedTime: "19:00",
	}
}

func newTestService(t *testing.T, notifier Notifier, conflictCheck bool) *Service {
	t.Helper()
	return NewService(NewInMemoryRepository(), schedule.NewValidator("UTC"), notifier, nil, conflictCheck, nil, nil)
}

func TestCreateStoresAndNotifiesOnce(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(t, notifier, false)

	appt, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if appt.ID == "" {
		t.Error("expected an assigned id")
	}
	if appt.Status != StatusPending {
		t.Errorf("status = %s, want pending", appt.Status)
	}
	if len(notifier.booked) != 1 {
		t.Fatalf("notifier called %d times, want exactly 1", len(notifier.booked))
	}
	if notifier.booked[0].ID != appt.ID {
		t.Error("notifier received a different appointment")
	}
}

func TestCreateRejectsIncompleteForm(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(t, notifier, false)

	cases := []struct {
		name    string
		mutate  func(*CreateAppointmentRequest)
		wantErr error
	}{
		{"missing name", func(r *CreateAppointmentRequest) { r.Name = " " }, ErrInvalidName},
		{"no contact", func(r *CreateAppointmentRequest) { r.Email, r.Phone = "", "" }, ErrMissingContact},
		{"bad email", func(r *CreateAppointmentRequest) { r.Email = "not-an-email" }, ErrInvalidEmail},
		{"no schedule", func(r *CreateAppointmentRequest) { r.RequestedDate, r.RequestedTime = "", "" }, ErrMissingSchedule},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validCreateRequest()
			tc.mutate(req)
			if _, err := svc.Create(context.Background(), req); !errors.Is(err, tc.wantErr) {
				t.Errorf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
	if len(notifier.booked) != 0 {
		t.Errorf("rejected requests must send zero notifications, got %d", len(notifier.booked))
	}
}

func TestCreateRejectsClosedSlot(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(t, notifier, false)

	req := validCreateRequest()
	req.RequestedDate = "2024-01-07" // Sunday
	_, err := svc.Create(context.Background(), req)
	var violation *schedule.Violation
	if !errors.As(err, &violation) {
		t.Fatalf("err = %v, want *schedule.Violation", err)
	}
	if len(violation.AllowedLabels) == 0 {
		t.Error("violation should list the allowed slot labels")
	}
	if len(notifier.booked) != 0 {
		t.Errorf("rejected requests must send zero notifications, got %d", len(notifier.booked))
	}

	if appts, _ := svc.List(context.Background(), ListFilter{}); len(appts) != 0 {
		t.Errorf("rejected request left %d rows behind", len(appts))
	}
}

func TestCreateAllowsDoubleBookingByDefault(t *testing.T) {
	svc := newTestService(t, nil, false)

	first, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("first Create: %v", err)
	}
	second, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("second Create for the same slot must succeed with checking off: %v", err)
	}
	if first.ID == second.ID {
		t.Error("both bookings must be stored as separate rows")
	}
}

func TestCreateConflictWithCheckingEnabled(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newTestService(t, notifier, true)

	if _, err := svc.Create(context.Background(), validCreateRequest()); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := svc.Create(context.Background(), validCreateRequest())
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("err = %v, want *ConflictError", err)
	}
	if conflict.SuggestedTime == "" {
		t.Error("conflict should carry a suggested alternative slot")
	}
	if conflict.SuggestedDate == "2024-01-08" && conflict.SuggestedTime == "19:00" {
		t.Error("suggestion must differ from the taken slot")
	}
	if len(notifier.booked) != 1 {
		t.Errorf("conflicting request must not notify; notifier called %d times", len(notifier.booked))
	}
}

func TestCreateSurvivesNotifierFailure(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}
	svc := newTestService(t, notifier, false)

	appt, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create must succeed even when notification fails: %v", err)
	}
	got, err := svc.Get(context.Background(), appt.ID)
	if err != nil || got == nil {
		t.Fatalf("booking must remain stored: %v", err)
	}
}

func TestCreateAcceptsSlotLabels(t *testing.T) {
	svc := newTestService(t, nil, false)

	req := validCreateRequest()
	req.RequestedDate = "2024-01-07" // Sunday, but labels are pre-approved
	req.RequestedTime = "6pm-9pm"
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("slot label must be accepted on any day: %v", err)
	}
}

func TestUpdateStampsAndApplies(t *testing.T) {
	svc := newTestService(t, nil, false)

	appt, err := svc.Create(context.Background(), validCreateRequest())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status := StatusConfirmed
	updated, err := svc.Update(context.Background(), appt.ID, &UpdateAppointmentRequest{Status: &status})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Status != StatusConfirmed {
		t.Errorf("status = %s, want confirmed", updated.Status)
	}
	if !updated.UpdatedAt.After(appt.UpdatedAt) && !updated.UpdatedAt.Equal(appt.UpdatedAt) {
		t.Error("updated_at must be stamped")
	}

	if _, err := svc.Update(context.Background(), "missing-id", &UpdateAppointmentRequest{Status: &status}); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	svc := newTestService(t, nil, false)

	a, _ := svc.Create(context.Background(), validCreateRequest())
	b, _ := svc.Create(context.Background(), validCreateRequest())
	status := StatusCancelled
	if _, err := svc.Update(context.Background(), b.ID, &UpdateAppointmentRequest{Status: &status}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	pending, err := svc.List(context.Background(), ListFilter{Status: StatusPending})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != a.ID {
		t.Errorf("pending filter returned %+v", pending)
	}
}

func TestCreateRecordsContact(t *testing.T) {
	userStore := users.NewInMemoryStore()
	svc := NewService(NewInMemoryRepository(), schedule.NewValidator("UTC"), nil, userStore, false, nil, nil)

	req := validCreateRequest()
	if _, err := svc.Create(context.Background(), req); err != nil {
		t.Fatalf("Create: %v", err)
	}

	u, ok := userStore.Contact(req.Email, req.Phone)
	if !ok {
		t.Fatal("expected a user record for the booking contact")
	}
	if u.Name != req.Name {
		t.Errorf("recorded name = %q, want %q", u.Name, req.Name)
	}
	if u.Email != req.Email {
		t.Errorf("recorded email = %q, want %q", u.Email, req.Email)
	}
	if u.BusinessType != req.BusinessType {
		t.Errorf("recorded business type = %q, want %q", u.BusinessType, req.BusinessType)
	}
}

func TestCreateRejectedRecordsNoContact(t *testing.T) {
	userStore := users.NewInMemoryStore()
	svc := NewService(NewInMemoryRepository(), schedule.NewValidator("UTC"), nil, userStore, false, nil, nil)

	req := validCreateRequest()
	req.RequestedDate = "2024-01-07" // Sunday: closed
	if _, err := svc.Create(context.Background(), req); err == nil {
		t.Fatal("expected an out-of-hours rejection")
	}

	if _, ok := userStore.Contact(req.Email, req.Phone); ok {
		t.Error("rejected booking must not create a user record")
	}
}
