package repository

import (
	"clinical-followup-platform/internal/domain/entity"

	"gorm.io/gorm"
)

type ExamResultRepository interface {
	Create(db *gorm.DB, result *entity.ExamResult) error
	// FindByVisitID returns the result anchored at the visit, or nil when
	// the visit is not order-bound.
	FindByVisitID(db *gorm.DB, visitID uint) (*entity.ExamResult, error)
	// FindByPrescriptionID preloads each result's visit together with its
	// predictions and their validations, the full aggregate the
	// completion evaluator walks.
	FindByPrescriptionID(db *gorm.DB, prescriptionID uint) ([]entity.ExamResult, error)
}
