package repository

import (
	"errors"
	"time"

	"clinical-followup-platform/internal/domain/entity"
	domainRepo "clinical-followup-platform/internal/domain/repository"

	"gorm.io/gorm"
)

type consultationRepository struct{}

func NewConsultationRepository() domainRepo.ConsultationRepository {
	return &consultationRepository{}
}

func (r *consultationRepository) Create(db *gorm.DB, consultation *entity.Consultation) error {
	return db.Create(consultation).Error
}

func (r *consultationRepository) FindByID(db *gorm.DB, id uint) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.Preload("Patient").Preload("Physician").Where("id = ?", id).First(&consultation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}

func (r *consultationRepository) FindByPatientID(db *gorm.DB, patientID uint) ([]entity.Consultation, error) {
	var consultations []entity.Consultation
	err := db.Preload("Physician").
		Where("patient_id = ?", patientID).
		Order("consulted_at DESC").
		Find(&consultations).Error
	if err != nil {
		return nil, err
	}
	return consultations, nil
}

func (r *consultationRepository) FindSameDay(db *gorm.DB, patientID, physicianID uint, dayStart time.Time) (*entity.Consultation, error) {
	var consultation entity.Consultation
	err := db.Where("patient_id = ? AND physician_id = ? AND consulted_at >= ? AND consulted_at < ?",
		patientID, physicianID, dayStart, dayStart.Add(24*time.Hour)).
		First(&consultation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &consultation, nil
}
