package repository

import (
	"errors"

	"clinical-followup-platform/internal/domain/entity"
	domainRepo "clinical-followup-platform/internal/domain/repository"

	"gorm.io/gorm"
)

type followUpRepository struct{}

func NewFollowUpRepository() domainRepo.FollowUpRepository {
	return &followUpRepository{}
}

func (r *followUpRepository) Create(db *gorm.DB, followUp *entity.FollowUp) error {
	return db.Create(followUp).Error
}

func (r *followUpRepository) FindByID(db *gorm.DB, id uint) (*entity.FollowUp, error) {
	var followUp entity.FollowUp
	err := db.Preload("Patient").Preload("Physician").Preload("OriginPrediction").
		Where("id = ?", id).First(&followUp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &followUp, nil
}

func (r *followUpRepository) FindActive(db *gorm.DB, patientID uint, disease entity.Disease) (*entity.FollowUp, error) {
	var followUp entity.FollowUp
	err := db.Where("patient_id = ? AND disease = ? AND status != ?",
		patientID, disease, entity.FollowUpStatusHealed).
		First(&followUp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &followUp, nil
}

func (r *followUpRepository) FindAll(db *gorm.DB, filter entity.FollowUpFilter) ([]entity.FollowUp, error) {
	query := db.Preload("Patient").Preload("Physician")
	if filter.PhysicianID != nil {
		query = query.Where("physician_id = ?", *filter.PhysicianID)
	}
	if filter.PatientID != nil {
		query = query.Where("patient_id = ?", *filter.PatientID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Disease != "" {
		query = query.Where("disease = ?", filter.Disease)
	}

	var followUps []entity.FollowUp
	err := query.Order("started_at DESC").Find(&followUps).Error
	if err != nil {
		return nil, err
	}
	return followUps, nil
}

func (r *followUpRepository) Update(db *gorm.DB, followUp *entity.FollowUp) error {
	return db.Save(followUp).Error
}
