package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/prescription-api/internal/repository"
)

type prescriptionRepository struct {
	db *sqlx.DB
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}
