package model

import (
	"time"
)

// Prescription represents a row in the prescriptions table. Rows are
// immutable once inserted; there are no update or delete paths.
type Prescription struct {
	PrescriptionID int64     `db:"prescription_id" json:"prescription_id"`
	AppointmentID  string    `db:"appointment_id" json:"appointment_id"`
	PatientID      int64     `db:"patient_id" json:"patient_id"`
	DoctorID       int64     `db:"doctor_id" json:"doctor_id"`
	Medication     string    `db:"medication" json:"medication"`
	Dosage         string    `db:"dosage" json:"dosage"`
	Days           int       `db:"days" json:"days"`
	IssuedAt       time.Time `db:"issued_at" json:"issued_at"`
}

type CreatePrescriptionRequest struct {
	AppointmentID int64      `json:"appointment_id" validate:"required,gt=0"`
	PatientID     int64      `json:"patient_id" validate:"required,gt=0"`
	DoctorID      int64      `json:"doctor_id" validate:"required,gt=0"`
	Medication    string     `json:"medication" validate:"required,min=1,max=255"`
	Dosage        string     `json:"dosage" validate:"required,min=1,max=50"`
	Days          int        `json:"days" validate:"required,gt=0,lte=365"`
	IssuedAt      *time.Time `json:"issued_at,omitempty"`
}

// PrescriptionFilters is an AND-conjunction of equality predicates.
// Nil fields impose no constraint.
type PrescriptionFilters struct {
	PatientID     *int64
	DoctorID      *int64
	AppointmentID *string
}

type PrescriptionListResponse struct {
	Total         int             `json:"total"`
	Prescriptions []*Prescription `json:"prescriptions"`
}

// Pagination bounds for list endpoints.
const (
	DefaultSkip  = 0
	DefaultLimit = 100
	MaxLimit     = 500
)
