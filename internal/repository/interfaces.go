package repository

import (
	"context"

	"github.com/jwalitptl/prescription-api/internal/model"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *model.Prescription) error
	Get(ctx context.Context, id int64) (*model.Prescription, error)
	List(ctx context.Context, filters model.PrescriptionFilters, skip, limit int) ([]*model.Prescription, int, error)
	Count(ctx context.Context) (int, error)
	BulkInsert(ctx context.Context, prescriptions []*model.Prescription) error
}
