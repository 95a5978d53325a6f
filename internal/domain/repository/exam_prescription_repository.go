package repository

import (
	"time"

	"clinical-followup-platform/internal/domain/entity"

	"gorm.io/gorm"
)

type ExamPrescriptionRepository interface {
	Create(db *gorm.DB, prescription *entity.ExamPrescription) error
	FindByID(db *gorm.DB, id uint) (*entity.ExamPrescription, error)
	// FindByIDForUpdate locks the prescription row for the duration of
	// the surrounding transaction so concurrent completion evaluations
	// serialize instead of both reading a stale status.
	FindByIDForUpdate(db *gorm.DB, id uint) (*entity.ExamPrescription, error)
	FindAll(db *gorm.DB, filter entity.PrescriptionFilter) ([]entity.ExamPrescription, error)
	// FindRecentActive returns a PENDING/IN_PROGRESS prescription for the
	// patient targeting the disease, prescribed within [since, until], or
	// nil. This query backs the reconciler's dedup window.
	FindRecentActive(db *gorm.DB, patientID uint, disease entity.Disease, since, until time.Time) (*entity.ExamPrescription, error)
	UpdateStatus(db *gorm.DB, id uint, status entity.PrescriptionStatus) error
}
