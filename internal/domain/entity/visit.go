package entity

import (
	"time"
)

// Visit carries the clinical measurements recorded during one
// fulfillment round and is the anchor predictions attach to.
type Visit struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ConsultationID uint      `gorm:"not null;index" json:"consultation_id"`
	VisitedAt      time.Time `gorm:"not null;index" json:"visited_at"`
	ClinicalData   JSON      `gorm:"type:jsonb" json:"clinical_data,omitempty"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Consultation Consultation `gorm:"foreignKey:ConsultationID" json:"consultation,omitempty"`
	Predictions  []Prediction `gorm:"foreignKey:VisitID" json:"predictions,omitempty"`
}

func (Visit) TableName() string {
	return "visits"
}
