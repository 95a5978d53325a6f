package entity

import (
	"time"
)

// Consultation is a clinical encounter between one patient and one
// physician. The reconciler reuses a same-day consultation instead of
// opening a second one for the same pair.
type Consultation struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID   uint      `gorm:"not null;index" json:"patient_id"`
	PhysicianID uint      `gorm:"not null;index" json:"physician_id"`
	Motive      string    `gorm:"type:text" json:"motive,omitempty"`
	Observation string    `gorm:"type:text" json:"observation,omitempty"`
	ConsultedAt time.Time `gorm:"not null;index" json:"consulted_at"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient   Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Physician User    `gorm:"foreignKey:PhysicianID" json:"physician,omitempty"`
	Visits    []Visit `gorm:"foreignKey:ConsultationID" json:"visits,omitempty"`
}

func (Consultation) TableName() string {
	return "consultations"
}
