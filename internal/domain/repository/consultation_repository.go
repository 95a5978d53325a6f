package repository

import (
	"time"

	"clinical-followup-platform/internal/domain/entity"

	"gorm.io/gorm"
)

type ConsultationRepository interface {
	Create(db *gorm.DB, consultation *entity.Consultation) error
	FindByID(db *gorm.DB, id uint) (*entity.Consultation, error)
	FindByPatientID(db *gorm.DB, patientID uint) ([]entity.Consultation, error)
	// FindSameDay returns the consultation for (patient, physician) whose
	// timestamp falls within the 24-hour window starting at dayStart, or
	// nil when none exists.
	FindSameDay(db *gorm.DB, patientID, physicianID uint, dayStart time.Time) (*entity.Consultation, error)
}
