package medication

import (
	"context"

	"github.com/google/uuid"

	"github.com/mediconnect/mediconnect/internal/platform/apperr"
	"github.com/mediconnect/mediconnect/internal/platform/auth"
	"github.com/mediconnect/mediconnect/internal/platform/db"
)

type prescriptionRepoPG struct {
	pool db.Querier
}

func NewPrescriptionRepo(pool db.Querier) PrescriptionRepository {
	return &prescriptionRepoPG{pool: pool}
}

func (r *prescriptionRepoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

func (r *prescriptionRepoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	err := r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescriptions (id, patient_id, doctor_id, diagnosis, medications)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING date_prescribed`,
		p.ID, p.PatientID, p.DoctorID, p.Diagnosis, p.Medications,
	).Scan(&p.DatePrescribed)
	if err != nil {
		return apperr.Storage("prescriptions.create", err)
	}
	return nil
}

func (r *prescriptionRepoPG) List(ctx context.Context, scope auth.Scope) ([]*Prescription, error) {
	query := `SELECT id, patient_id, doctor_id, diagnosis, medications, date_prescribed FROM prescriptions`
	where, args := scope.Where(1)
	if where != "" {
		query += ` WHERE ` + where
	}
	query += ` ORDER BY date_prescribed DESC`

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, apperr.Storage("prescriptions.list", err)
	}
	defer rows.Close()

	items := []*Prescription{}
	for rows.Next() {
		var p Prescription
		if err := rows.Scan(&p.ID, &p.PatientID, &p.DoctorID, &p.Diagnosis, &p.Medications, &p.DatePrescribed); err != nil {
			return nil, apperr.Storage("prescriptions.scan", err)
		}
		items = append(items, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Storage("prescriptions.list", err)
	}
	return items, nil
}
