package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jwalitptl/prescription-api/internal/model"
)

const prescriptionColumns = `prescription_id, appointment_id, patient_id, doctor_id,
		   medication, dosage, days, issued_at`

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (
			appointment_id, patient_id, doctor_id,
			medication, dosage, days, issued_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING prescription_id
	`
	err := r.db.QueryRowxContext(ctx, query,
		prescription.AppointmentID,
		prescription.PatientID,
		prescription.DoctorID,
		prescription.Medication,
		prescription.Dosage,
		prescription.Days,
		prescription.IssuedAt,
	).Scan(&prescription.PrescriptionID)
	if err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

// Get returns (nil, nil) when no row matches; absence is not an error at
// this layer.
func (r *prescriptionRepository) Get(ctx context.Context, id int64) (*model.Prescription, error) {
	query := `
		SELECT ` + prescriptionColumns + `
		FROM prescriptions
		WHERE prescription_id = $1
	`
	var prescription model.Prescription
	err := r.db.GetContext(ctx, &prescription, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

// List applies the filter conjunction twice, once for the total count and
// once for the page. Ordering by primary key keeps pagination deterministic.
func (r *prescriptionRepository) List(ctx context.Context, filters model.PrescriptionFilters, skip, limit int) ([]*model.Prescription, int, error) {
	where := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filters.PatientID != nil {
		where += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, *filters.PatientID)
		argCount++
	}
	if filters.DoctorID != nil {
		where += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, *filters.DoctorID)
		argCount++
	}
	if filters.AppointmentID != nil {
		where += fmt.Sprintf(" AND appointment_id = $%d", argCount)
		args = append(args, *filters.AppointmentID)
		argCount++
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM prescriptions" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	query := "SELECT " + prescriptionColumns + " FROM prescriptions" + where +
		fmt.Sprintf(" ORDER BY prescription_id ASC OFFSET $%d LIMIT $%d", argCount, argCount+1)
	args = append(args, skip, limit)

	prescriptions := []*model.Prescription{}
	if err := r.db.SelectContext(ctx, &prescriptions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, total, nil
}

func (r *prescriptionRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM prescriptions"); err != nil {
		return 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}
	return total, nil
}

// BulkInsert writes seed rows with their original primary keys inside a
// single transaction, then bumps the sequence past the highest seeded id so
// later inserts do not collide.
func (r *prescriptionRepository) BulkInsert(ctx context.Context, prescriptions []*model.Prescription) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO prescriptions (
			prescription_id, appointment_id, patient_id, doctor_id,
			medication, dosage, days, issued_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, p := range prescriptions {
		if _, err := tx.ExecContext(ctx, query,
			p.PrescriptionID,
			p.AppointmentID,
			p.PatientID,
			p.DoctorID,
			p.Medication,
			p.Dosage,
			p.Days,
			p.IssuedAt,
		); err != nil {
			return fmt.Errorf("failed to insert prescription %d: %w", p.PrescriptionID, err)
		}
	}

	resetSeq := `
		SELECT setval(
			pg_get_serial_sequence('prescriptions', 'prescription_id'),
			(SELECT COALESCE(MAX(prescription_id), 1) FROM prescriptions)
		)
	`
	if _, err := tx.ExecContext(ctx, resetSeq); err != nil {
		return fmt.Errorf("failed to reset prescription sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed transaction: %w", err)
	}
	return nil
}
