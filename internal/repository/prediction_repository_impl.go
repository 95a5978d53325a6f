package repository

import (
	"errors"

	"clinical-followup-platform/internal/domain/entity"
	domainRepo "clinical-followup-platform/internal/domain/repository"

	"gorm.io/gorm"
)

type predictionRepository struct{}

func NewPredictionRepository() domainRepo.PredictionRepository {
	return &predictionRepository{}
}

func (r *predictionRepository) Create(db *gorm.DB, prediction *entity.Prediction) error {
	return db.Create(prediction).Error
}

func (r *predictionRepository) FindByID(db *gorm.DB, id uint) (*entity.Prediction, error) {
	var prediction entity.Prediction
	err := db.Preload("Visit.Consultation.Patient").Where("id = ?", id).First(&prediction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prediction, nil
}

func (r *predictionRepository) FindByVisitID(db *gorm.DB, visitID uint) ([]entity.Prediction, error) {
	var predictions []entity.Prediction
	err := db.Preload("Validations").
		Where("visit_id = ?", visitID).
		Order("predicted_at DESC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}
