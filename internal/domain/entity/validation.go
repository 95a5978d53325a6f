package entity

import (
	"time"
)

// ValidationStatus is a physician's disposition on a prediction.
type ValidationStatus string

const (
	ValidationStatusValidated ValidationStatus = "VALIDATED"
	ValidationStatusRejected  ValidationStatus = "REJECTED"
	ValidationStatusAmended   ValidationStatus = "AMENDED"
	ValidationStatusPending   ValidationStatus = "PENDING"
)

// IsDefinitive reports whether the disposition settles the prediction.
// PENDING leaves it open.
func (s ValidationStatus) IsDefinitive() bool {
	return s == ValidationStatusValidated || s == ValidationStatusRejected || s == ValidationStatusAmended
}

// Validation records one physician disposition on one prediction.
// A prediction may accumulate several validations over time; the
// completion evaluator only cares whether at least one is definitive.
type Validation struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	PredictionID   uint             `gorm:"not null;index" json:"prediction_id"`
	PhysicianID    uint             `gorm:"not null;index" json:"physician_id"`
	Status         ValidationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Comment        string           `gorm:"type:text" json:"comment,omitempty"`
	FinalDiagnosis string           `gorm:"type:text" json:"final_diagnosis,omitempty"`
	ValidatedAt    time.Time        `gorm:"autoCreateTime;index" json:"validated_at"`

	// Relationships
	Prediction Prediction `gorm:"foreignKey:PredictionID" json:"prediction,omitempty"`
	Physician  User       `gorm:"foreignKey:PhysicianID" json:"physician,omitempty"`
}

func (Validation) TableName() string {
	return "validations"
}
