package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/prescription-api/internal/model"
	"github.com/jwalitptl/prescription-api/internal/repository"
)

// timeLayout matches the seed export format, not RFC3339.
const timeLayout = "2006-01-02 15:04:05"

var csvHeader = []string{
	"prescription_id", "appointment_id", "patient_id", "doctor_id",
	"medication", "dosage", "days", "issued_at",
}

type Loader struct {
	repo repository.PrescriptionRepository
}

func NewLoader(repo repository.PrescriptionRepository) *Loader {
	return &Loader{repo: repo}
}

// Run imports the CSV at path on first boot only. Any pre-existing rows skip
// the import entirely; there is no merge or upsert. A missing file is a
// warning, not a failure.
func (l *Loader) Run(ctx context.Context, path string) error {
	count, err := l.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing prescriptions: %w", err)
	}
	if count > 0 {
		log.Info().Int("existing", count).Msg("prescriptions already present, skipping seed")
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn().Str("path", path).Msg("seed file not found, skipping seed")
			return nil
		}
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	prescriptions, err := ParseCSV(f)
	if err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	if len(prescriptions) == 0 {
		log.Warn().Str("path", path).Msg("seed file contains no rows")
		return nil
	}

	if err := l.repo.BulkInsert(ctx, prescriptions); err != nil {
		return fmt.Errorf("failed to insert seed data: %w", err)
	}

	log.Info().Int("seeded", len(prescriptions)).Str("path", path).Msg("prescriptions seeded")
	return nil
}

// ParseCSV reads seed rows from a delimited stream with the fixed header
// prescription_id,appointment_id,patient_id,doctor_id,medication,dosage,days,issued_at.
func ParseCSV(r io.Reader) ([]*model.Prescription, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) != len(csvHeader) {
		return nil, fmt.Errorf("unexpected header with %d columns", len(header))
	}
	for i, col := range csvHeader {
		if header[i] != col {
			return nil, fmt.Errorf("unexpected header column %q, want %q", header[i], col)
		}
	}

	var prescriptions []*model.Prescription
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read line %d: %w", line, err)
		}

		prescription, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		prescriptions = append(prescriptions, prescription)
	}
	return prescriptions, nil
}

func parseRow(record []string) (*model.Prescription, error) {
	prescriptionID, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid prescription_id %q: %w", record[0], err)
	}
	patientID, err := strconv.ParseInt(record[2], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid patient_id %q: %w", record[2], err)
	}
	doctorID, err := strconv.ParseInt(record[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid doctor_id %q: %w", record[3], err)
	}
	days, err := strconv.Atoi(record[6])
	if err != nil {
		return nil, fmt.Errorf("invalid days %q: %w", record[6], err)
	}
	issuedAt, err := time.Parse(timeLayout, record[7])
	if err != nil {
		return nil, fmt.Errorf("invalid issued_at %q: %w", record[7], err)
	}

	return &model.Prescription{
		PrescriptionID: prescriptionID,
		AppointmentID:  record[1],
		PatientID:      patientID,
		DoctorID:       doctorID,
		Medication:     record[4],
		Dosage:         record[5],
		Days:           days,
		IssuedAt:       issuedAt,
	}, nil
}
