package repository

import (
	"clinical-followup-platform/internal/domain/entity"

	"gorm.io/gorm"
)

type FollowUpRepository interface {
	Create(db *gorm.DB, followUp *entity.FollowUp) error
	FindByID(db *gorm.DB, id uint) (*entity.FollowUp, error)
	// FindActive returns the non-HEALED follow-up for (patient, disease),
	// or nil. The single-active invariant is enforced against this read.
	FindActive(db *gorm.DB, patientID uint, disease entity.Disease) (*entity.FollowUp, error)
	FindAll(db *gorm.DB, filter entity.FollowUpFilter) ([]entity.FollowUp, error)
	Update(db *gorm.DB, followUp *entity.FollowUp) error
}
