package repository

import (
	"clinical-followup-platform/internal/domain/entity"
	domainRepo "clinical-followup-platform/internal/domain/repository"

	"gorm.io/gorm"
)

type validationRepository struct{}

func NewValidationRepository() domainRepo.ValidationRepository {
	return &validationRepository{}
}

func (r *validationRepository) Create(db *gorm.DB, validation *entity.Validation) error {
	return db.Create(validation).Error
}

func (r *validationRepository) FindAll(db *gorm.DB, filter entity.ValidationFilter) ([]entity.Validation, error) {
	query := db.Preload("Prediction").Preload("Physician")
	if filter.PhysicianID != nil {
		query = query.Where("physician_id = ?", *filter.PhysicianID)
	}
	if filter.PredictionID != nil {
		query = query.Where("prediction_id = ?", *filter.PredictionID)
	}

	var validations []entity.Validation
	err := query.Order("validated_at DESC").Find(&validations).Error
	if err != nil {
		return nil, err
	}
	return validations, nil
}
