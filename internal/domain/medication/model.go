package medication

import (
	"time"

	"github.com/google/uuid"
)

// Prescription is written by a doctor for a patient. DoctorID is the author's
// account; PatientID is stored as supplied.
type Prescription struct {
	ID             uuid.UUID `json:"id"`
	PatientID      uuid.UUID `json:"patient_id"`
	DoctorID       uuid.UUID `json:"doctor_id"`
	Diagnosis      string    `json:"diagnosis"`
	Medications    string    `json:"medications"`
	DatePrescribed time.Time `json:"date_prescribed"`
}

type PrescriptionInput struct {
	PatientID   uuid.UUID
	Diagnosis   string
	Medications string
}
