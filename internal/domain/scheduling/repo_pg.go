package scheduling

import (
	"context"

	"github.com/google/uuid"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/db"
)

type appointmentRepoPG struct {
	pool db.Querier
}

func NewAppointmentRepo(pool db.Querier) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const apptCols = `id, patient_id, doctor_id, date_time, status, notes, created_at`

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	a.Status = StatusScheduled
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, date_time, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		a.ID, a.PatientID, a.DoctorID, a.DateTime, string(a.Status), a.Notes,
	).Scan(&a.CreatedAt)
	if err != nil {
		return apperr.Storage("appointments.create", err)
	}
	return nil
}

func (r *appointmentRepoPG) List(ctx context.Context, scope auth.Scope) ([]*Appointment, error) {
	query := `SELECT ` + apptCols + ` FROM appointments`
	where, args := scope.Where(1)
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY date_time DESC, created_at DESC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("appointments.list", err)
	}
	defer rows.Close()

	items := []*Appointment{}
	for rows.Next() {
		var (
			a      Appointment
			status string
		)
		if err := rows.Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.DateTime, &status, &a.Notes, &a.CreatedAt); err != nil {
			return nil, apperr.Storage("appointments.scan", err)
		}
		a.Status = Status(status)
		items = append(items, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("appointments.list", err)
	}
	return items, nil
}

func (r *appointmentRepoPG) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, scope auth.Scope) error {
	query := `UPDATE appointments SET status = $1 WHERE id = $2`
	args := []any{string(status), id}
	if where, scopeArgs := scope.Where(3); where != "" {
		query += ` AND ` + where
		args = append(args, scopeArgs...)
	}

	tag, err := r.conn(ctx).Exec(ctx, query, args...)
	if err != nil {
		return apperr.Storage("appointments.update_status", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}
