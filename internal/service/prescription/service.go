package prescription

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jwalitptl/prescription-api/internal/model"
	"github.com/jwalitptl/prescription-api/internal/repository"
	apperrors "github.com/jwalitptl/prescription-api/pkg/errors"
	"github.com/jwalitptl/prescription-api/pkg/logger"
)

// Service owns the query contract: filter conjunction, pagination bounds and
// create-time defaulting. All storage failures leave here as typed errors.
type Service struct {
	repo     repository.PrescriptionRepository
	validate *validator.Validate
}

func NewService(repo repository.PrescriptionRepository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
	}
}

func (s *Service) CreatePrescription(ctx context.Context, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, apperrors.BadRequest("invalid prescription", err)
	}

	issuedAt := time.Now().UTC()
	if req.IssuedAt != nil {
		issuedAt = *req.IssuedAt
	}

	prescription := &model.Prescription{
		AppointmentID: strconv.FormatInt(req.AppointmentID, 10),
		PatientID:     req.PatientID,
		DoctorID:      req.DoctorID,
		Medication:    req.Medication,
		Dosage:        req.Dosage,
		Days:          req.Days,
		IssuedAt:      issuedAt,
	}

	if err := s.repo.Create(ctx, prescription); err != nil {
		return nil, storeError(err)
	}

	logger.FromContext(ctx).Info().
		Int64("prescription_id", prescription.PrescriptionID).
		Str("appointment_id", prescription.AppointmentID).
		Msg("prescription created")

	return prescription, nil
}

func (s *Service) GetPrescription(ctx context.Context, id int64) (*model.Prescription, error) {
	prescription, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if prescription == nil {
		return nil, apperrors.NotFound("prescription", nil)
	}
	return prescription, nil
}

// ListPrescriptions rejects out-of-range pagination before touching storage.
func (s *Service) ListPrescriptions(ctx context.Context, filters model.PrescriptionFilters, skip, limit int) ([]*model.Prescription, int, error) {
	if skip < 0 {
		return nil, 0, apperrors.BadRequest("skip must be >= 0", nil)
	}
	if limit < 1 || limit > model.MaxLimit {
		return nil, 0, apperrors.BadRequest("limit must be between 1 and 500", nil)
	}

	prescriptions, total, err := s.repo.List(ctx, filters, skip, limit)
	if err != nil {
		return nil, 0, storeError(err)
	}
	return prescriptions, total, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, skip, limit int) ([]*model.Prescription, int, error) {
	return s.ListPrescriptions(ctx, model.PrescriptionFilters{PatientID: &patientID}, skip, limit)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64, skip, limit int) ([]*model.Prescription, int, error) {
	return s.ListPrescriptions(ctx, model.PrescriptionFilters{DoctorID: &doctorID}, skip, limit)
}

func (s *Service) ListByAppointment(ctx context.Context, appointmentID string) ([]*model.Prescription, int, error) {
	return s.ListPrescriptions(ctx, model.PrescriptionFilters{AppointmentID: &appointmentID}, model.DefaultSkip, model.DefaultLimit)
}

// storeError classifies storage failures: deadline or cancellation means the
// store was unreachable in time, everything else is an internal failure.
func storeError(err error) *apperrors.AppError {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return apperrors.Unavailable("storage unavailable", err)
	}
	return apperrors.Internal(err)
}
