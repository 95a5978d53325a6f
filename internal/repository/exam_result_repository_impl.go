package repository

import (
	"errors"

	"clinical-followup-platform/internal/domain/entity"
	domainRepo "clinical-followup-platform/internal/domain/repository"

	"gorm.io/gorm"
)

type examResultRepository struct{}

func NewExamResultRepository() domainRepo.ExamResultRepository {
	return &examResultRepository{}
}

func (r *examResultRepository) Create(db *gorm.DB, result *entity.ExamResult) error {
	return db.Create(result).Error
}

func (r *examResultRepository) FindByVisitID(db *gorm.DB, visitID uint) (*entity.ExamResult, error) {
	var result entity.ExamResult
	err := db.Where("visit_id = ?", visitID).First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *examResultRepository) FindByPrescriptionID(db *gorm.DB, prescriptionID uint) ([]entity.ExamResult, error) {
	var results []entity.ExamResult
	err := db.Preload("Visit.Predictions.Validations").
		Where("prescription_id = ?", prescriptionID).
		Order("recorded_at ASC").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
