package repository

import (
	"clinical-followup-platform/internal/domain/entity"

	"gorm.io/gorm"
)

type PredictionRepository interface {
	Create(db *gorm.DB, prediction *entity.Prediction) error
	// FindByID preloads the owning visit, consultation and patient so
	// callers can walk back to the clinical context in one read.
	FindByID(db *gorm.DB, id uint) (*entity.Prediction, error)
	FindByVisitID(db *gorm.DB, visitID uint) ([]entity.Prediction, error)
}
