package repository

import (
	"clinical-followup-platform/internal/domain/entity"

	"gorm.io/gorm"
)

type ValidationRepository interface {
	Create(db *gorm.DB, validation *entity.Validation) error
	FindAll(db *gorm.DB, filter entity.ValidationFilter) ([]entity.Validation, error)
}
