package appointments

import (
	"strings"
	"time"
)

// Appointment statuses. The values are recorded as-is; transitions are not
// enforced so operators can correct records freely.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Appointment is one consultation booking made through the chat widget.
type Appointment struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	BusinessType  string    `json:"business_type,omitempty"`
	Services      []string  `json:"services"`
	RequestedDate string    `json:"requested_date"`
	RequestedTime string    `json:"requested_time"`
	Status        string    `json:"status"`
	Notes         string    `json:"notes,omitempty"`
	UserTimezone  string    `json:"user_timezone,omitempty"`
	UserLocalTime string    `json:"user_local_time,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateAppointmentRequest is the request body for booking an appointment.
type CreateAppointmentRequest struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Phone         string   `json:"phone"`
	BusinessType  string   `json:"business_type"`
	Services      []string `json:"services"`
	RequestedDate string   `json:"requested_date"`
	RequestedTime string   `json:"requested_time"`
	Notes         string   `json:"notes"`
	UserTimezone  string   `json:"user_timezone"`
	UserLocalTime string   `json:"user_local_time"`
}

// Validate checks the contact fields. Schedule rules are checked separately
// so the caller can distinguish a bad form from a closed slot.
func (r *CreateAppointmentRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrInvalidName
	}
	if strings.TrimSpace(r.Email) == "" && strings.TrimSpace(r.Phone) == "" {
		return ErrMissingContact
	}
	if email := strings.TrimSpace(r.Email); email != "" {
		if !strings.Contains(email, "@") || strings.HasPrefix(email, "@") || strings.HasSuffix(email, "@") {
			return ErrInvalidEmail
		}
	}
	if strings.TrimSpace(r.RequestedDate) == "" && strings.TrimSpace(r.RequestedTime) == "" {
		return ErrMissingSchedule
	}
	return nil
}

// UpdateAppointmentRequest carries partial updates; nil fields are left
// unchanged.
type UpdateAppointmentRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// ListFilter narrows List results.
type ListFilter struct {
	Status string
	Limit  int
}
