package repository

import (
	"encoding/json"
	"errors"
	"time"

	"clinical-followup-platform/internal/domain/entity"
	domainRepo "clinical-followup-platform/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type examPrescriptionRepository struct{}

func NewExamPrescriptionRepository() domainRepo.ExamPrescriptionRepository {
	return &examPrescriptionRepository{}
}

func (r *examPrescriptionRepository) Create(db *gorm.DB, prescription *entity.ExamPrescription) error {
	return db.Create(prescription).Error
}

func (r *examPrescriptionRepository) FindByID(db *gorm.DB, id uint) (*entity.ExamPrescription, error) {
	var prescription entity.ExamPrescription
	err := db.Preload("Consultation.Patient").Preload("Physician").Where("id = ?", id).First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

// FindByIDForUpdate takes a FOR UPDATE row lock; callers must hold an
// open transaction, the lock is released on commit/rollback.
func (r *examPrescriptionRepository) FindByIDForUpdate(db *gorm.DB, id uint) (*entity.ExamPrescription, error) {
	var prescription entity.ExamPrescription
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *examPrescriptionRepository) FindAll(db *gorm.DB, filter entity.PrescriptionFilter) ([]entity.ExamPrescription, error) {
	query := db.Preload("Consultation.Patient").Preload("Physician")
	if filter.PhysicianID != nil {
		query = query.Where("physician_id = ?", *filter.PhysicianID)
	}
	if filter.PatientID != nil {
		query = query.Joins("JOIN consultations ON consultations.id = exam_prescriptions.consultation_id").
			Where("consultations.patient_id = ?", *filter.PatientID)
	}
	if filter.Status != "" {
		query = query.Where("exam_prescriptions.status = ?", filter.Status)
	}

	var prescriptions []entity.ExamPrescription
	err := query.Order("exam_prescriptions.prescribed_at DESC").Find(&prescriptions).Error
	if err != nil {
		return nil, err
	}
	return prescriptions, nil
}

func (r *examPrescriptionRepository) FindRecentActive(db *gorm.DB, patientID uint, disease entity.Disease, since, until time.Time) (*entity.ExamPrescription, error) {
	target, err := json.Marshal([]string{string(disease)})
	if err != nil {
		return nil, err
	}

	var prescription entity.ExamPrescription
	err = db.Joins("JOIN consultations ON consultations.id = exam_prescriptions.consultation_id").
		Where("consultations.patient_id = ?", patientID).
		Where("exam_prescriptions.targeted_diseases @> ?", string(target)).
		Where("exam_prescriptions.status IN ?", []entity.PrescriptionStatus{
			entity.PrescriptionStatusPending,
			entity.PrescriptionStatusInProgress,
		}).
		Where("exam_prescriptions.prescribed_at >= ? AND exam_prescriptions.prescribed_at <= ?", since, until).
		First(&prescription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &prescription, nil
}

func (r *examPrescriptionRepository) UpdateStatus(db *gorm.DB, id uint, status entity.PrescriptionStatus) error {
	return db.Model(&entity.ExamPrescription{}).
		Where("id = ?", id).
		Update("status", status).Error
}
