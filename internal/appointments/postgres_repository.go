package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxConn is the subset of pgxpool.Pool the repository uses; pgxmock
// satisfies it in tests.
type pgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db pgxConn
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(db pgxConn) *PostgresRepository {
	if db == nil {
		panic("appointments: database connection required")
	}
	return &PostgresRepository{db: db}
}

const apptColumns = `id, name, email, phone, business_type, services, requested_date, requested_time,
	status, notes, user_timezone, user_local_time, created_at, updated_at`

// Create inserts a new row without any conflict checking.
func (r *PostgresRepository) Create(ctx context.Context, appt *Appointment) error {
	id := uuid.New()
	query := `
		INSERT INTO appointments (id, name, email, phone, business_type, services,
			requested_date, requested_time, status, notes, user_timezone, user_local_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`
	status := appt.Status
	if status == "" {
		status = StatusPending
	}
	err := r.db.QueryRow(ctx, query,
		id,
		appt.Name,
		appt.Email,
		appt.Phone,
		appt.BusinessType,
		appt.Services,
		appt.RequestedDate,
		appt.RequestedTime,
		status,
		appt.Notes,
		appt.UserTimezone,
		appt.UserLocalTime,
	).Scan(&appt.CreatedAt, &appt.UpdatedAt)
	if err != nil {
		return fmt.Errorf("appointments: insert failed: %w", err)
	}
	appt.ID = id.String()
	appt.Status = status
	return nil
}

// CreateIfFree inserts only when no non-cancelled appointment already holds
// the same date and time. The WHERE NOT EXISTS guard keeps check and insert
// in one statement.
func (r *PostgresRepository) CreateIfFree(ctx context.Context, appt *Appointment) error {
	id := uuid.New()
	query := `
		INSERT INTO appointments (id, name, email, phone, business_type, services,
			requested_date, requested_time, status, notes, user_timezone, user_local_time)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12
		WHERE NOT EXISTS (
			SELECT 1 FROM appointments
			WHERE requested_date = $7 AND requested_time = $8 AND status <> 'cancelled'
		)
		RETURNING created_at, updated_at
	`
	status := appt.Status
	if status == "" {
		status = StatusPending
	}
	err := r.db.QueryRow(ctx, query,
		id,
		appt.Name,
		appt.Email,
		appt.Phone,
		appt.BusinessType,
		appt.Services,
		appt.RequestedDate,
		appt.RequestedTime,
		status,
		appt.Notes,
		appt.UserTimezone,
		appt.UserLocalTime,
	).Scan(&appt.CreatedAt, &appt.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSlotTaken
	}
	if err != nil {
		return fmt.Errorf("appointments: guarded insert failed: %w", err)
	}
	appt.ID = id.String()
	appt.Status = status
	return nil
}

// GetByID fetches one appointment.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Appointment, error) {
	query := fmt.Sprintf(`SELECT %s FROM appointments WHERE id = $1`, apptColumns)
	appt, err := scanAppointment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select failed: %w", err)
	}
	return appt, nil
}

// List returns appointments most recent first, optionally filtered by status.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) ([]*Appointment, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM appointments`, apptColumns)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("appointments: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: scan failed: %w", err)
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: read failed: %w", err)
	}
	return out, nil
}

// Update applies a partial update and stamps updated_at.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdateAppointmentRequest) (*Appointment, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}
	if req.Status != nil {
		args = append(args, *req.Status)
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)))
	}
	if req.Notes != nil {
		args = append(args, *req.Notes)
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		UPDATE appointments SET %s
		WHERE id = $1
		RETURNING %s
	`, strings.Join(sets, ", "), apptColumns)

	appt, err := scanAppointment(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: update failed: %w", err)
	}
	return appt, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var (
		id   uuid.UUID
		appt Appointment
	)
	err := row.Scan(
		&id,
		&appt.Name,
		&appt.Email,
		&appt.Phone,
		&appt.BusinessType,
		&appt.Services,
		&appt.RequestedDate,
		&appt.RequestedTime,
		&appt.Status,
		&appt.Notes,
		&appt.UserTimezone,
		&appt.UserLocalTime,
		&appt.CreatedAt,
		&appt.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	appt.ID = id.String()
	return &appt, nil
}

var _ Repository = (*PostgresRepository)(nil)
