package appointments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage.
type Repository interface {
	Create(ctx context.Context, appt *Appointment) error
	// CreateIfFree inserts only when no other appointment holds the same
	// date and time; it returns ErrSlotTaken otherwise.
	CreateIfFree(ctx context.Context, appt *Appointment) error
	GetByID(ctx context.Context, id string) (*Appointment, error)
	List(ctx context.Context, filter ListFilter) ([]*Appointment, error)
	Update(ctx context.Context, id string, req *UpdateAppointmentRequest) (*Appointment, error)
}

// InMemoryRepository stores appointments in memory. Used in tests and when
// no database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	appts map[string]*Appointment
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{appts: make(map[string]*Appointment)}
}

func (r *InMemoryRepository) stamp(appt *Appointment) {
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.Status == "" {
		appt.Status = StatusPending
	}
	now := time.Now().UTC()
	appt.CreatedAt = now
	appt.UpdatedAt = now
}

// Create inserts a new appointment without any conflict checking.
func (r *InMemoryRepository) Create(ctx context.Context, appt *Appointment) error {
	r.stamp(appt)
	r.mu.Lock()
	r.appts[appt.ID] = cloneAppointment(appt)
	r.mu.Unlock()
	return nil
}

// CreateIfFree inserts unless the same date and time is already booked by a
// non-cancelled appointment.
func (r *InMemoryRepository) CreateIfFree(ctx context.Context, appt *Appointment) error {
	r.stamp(appt)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.appts {
		if existing.Status == StatusCancelled {
			continue
		}
		if existing.RequestedDate == appt.RequestedDate && existing.RequestedTime == appt.RequestedTime {
			return ErrSlotTaken
		}
	}
	r.appts[appt.ID] = cloneAppointment(appt)
	return nil
}

// GetByID retrieves an appointment by ID.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAppointment(appt), nil
}

// List returns appointments most recent first.
func (r *InMemoryRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	r.mu.RLock()
	out := make([]*Appointment, 0, len(r.appts))
	for _, appt := range r.appts {
		if filter.Status != "" && appt.Status != filter.Status {
			continue
		}
		out = append(out, cloneAppointment(appt))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Update applies a partial update and stamps updated_at.
func (r *InMemoryRepository) Update(ctx context.Context, id string, req *UpdateAppointmentRequest) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	appt, ok := r.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if req.Status != nil {
		appt.Status = *req.Status
	}
	if req.Notes != nil {
		appt.Notes = *req.Notes
	}
	appt.UpdatedAt = time.Now().UTC()
	return cloneAppointment(appt), nil
}

func cloneAppointment(appt *Appointment) *Appointment {
	cp := *appt
	cp.Services = append([]string(nil), appt.Services...)
	return &cp
}

var _ Repository = (*InMemoryRepository)(nil)
