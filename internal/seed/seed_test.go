package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/prescription-api/internal/model"
)

type fakeRepo struct {
	prescriptions []*model.Prescription
	inserts       int
}

func (f *fakeRepo) Create(_ context.Context, p *model.Prescription) error { return nil }

func (f *fakeRepo) Get(_ context.Context, id int64) (*model.Prescription, error) {
	return nil, nil
}

func (f *fakeRepo) List(_ context.Context, _ model.PrescriptionFilters, _, _ int) ([]*model.Prescription, int, error) {
	return f.prescriptions, len(f.prescriptions), nil
}

func (f *fakeRepo) Count(_ context.Context) (int, error) {
	return len(f.prescriptions), nil
}

func (f *fakeRepo) BulkInsert(_ context.Context, prescriptions []*model.Prescription) error {
	f.inserts++
	f.prescriptions = append(f.prescriptions, prescriptions...)
	return nil
}

const sampleCSV = `prescription_id,appointment_id,patient_id,doctor_id,medication,dosage,days,issued_at
1,10,100,50,Amoxicillin,1-0-1,7,2025-01-15 09:30:00
2,APT-7,101,51,Ibuprofen,0-1-1,5,2025-01-16 11:00:00
`

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, int64(1), rows[0].PrescriptionID)
	assert.Equal(t, "10", rows[0].AppointmentID)
	assert.Equal(t, int64(100), rows[0].PatientID)
	assert.Equal(t, int64(50), rows[0].DoctorID)
	assert.Equal(t, "Amoxicillin", rows[0].Medication)
	assert.Equal(t, "1-0-1", rows[0].Dosage)
	assert.Equal(t, 7, rows[0].Days)
	assert.Equal(t, time.Date(2025, 1, 15, 9, 30, 0, 0, time.UTC), rows[0].IssuedAt)

	// Non-numeric appointment ids survive as-is.
	assert.Equal(t, "APT-7", rows[1].AppointmentID)
}

func TestParseCSVRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"wrong header", "id,appointment_id,patient_id,doctor_id,medication,dosage,days,issued_at\n"},
		{"missing columns", "prescription_id,appointment_id\n"},
		{"bad timestamp", "prescription_id,appointment_id,patient_id,doctor_id,medication,dosage,days,issued_at\n1,10,100,50,Amoxicillin,1-0-1,7,2025-01-15T09:30:00Z\n"},
		{"bad days", "prescription_id,appointment_id,patient_id,doctor_id,medication,dosage,days,issued_at\n1,10,100,50,Amoxicillin,1-0-1,seven,2025-01-15 09:30:00\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestRunSeedsEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prescriptions.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))

	repo := &fakeRepo{}
	loader := NewLoader(repo)

	require.NoError(t, loader.Run(context.Background(), path))
	assert.Equal(t, 1, repo.inserts)
	assert.Len(t, repo.prescriptions, 2)

	// Second boot sees rows and skips the import, no merge.
	require.NoError(t, loader.Run(context.Background(), path))
	assert.Equal(t, 1, repo.inserts)
	assert.Len(t, repo.prescriptions, 2)
}

func TestRunMissingFileIsNotFatal(t *testing.T) {
	repo := &fakeRepo{}
	loader := NewLoader(repo)

	require.NoError(t, loader.Run(context.Background(), filepath.Join(t.TempDir(), "absent.csv")))
	assert.Zero(t, repo.inserts)
}
