package entity

import (
	"time"
)

// PrescriptionStatus is the lifecycle of a clinical exam order.
type PrescriptionStatus string

const (
	PrescriptionStatusPending    PrescriptionStatus = "PENDING"
	PrescriptionStatusInProgress PrescriptionStatus = "IN_PROGRESS"
	PrescriptionStatusDone       PrescriptionStatus = "DONE"
)

// ExamPrescription is an order for one or more disease-targeted exams
// against a consultation. Status may only become DONE when every
// prediction reachable through its results carries a definitive
// validation, and at least one such prediction exists.
type ExamPrescription struct {
	ID               uint               `gorm:"primaryKey;autoIncrement" json:"id"`
	ConsultationID   uint               `gorm:"not null;index" json:"consultation_id"`
	PhysicianID      uint               `gorm:"not null;index" json:"physician_id"`
	ReferenceCode    string             `gorm:"type:varchar(50);uniqueIndex;not null" json:"reference_code"`
	TargetedDiseases StringArray        `gorm:"type:jsonb;not null" json:"targeted_diseases"`
	Comment          string             `gorm:"type:text" json:"comment,omitempty"`
	Status           PrescriptionStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	PrescribedAt     time.Time          `gorm:"autoCreateTime;index" json:"prescribed_at"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Consultation Consultation `gorm:"foreignKey:ConsultationID" json:"consultation,omitempty"`
	Physician    User         `gorm:"foreignKey:PhysicianID" json:"physician,omitempty"`
	Results      []ExamResult `gorm:"foreignKey:PrescriptionID" json:"results,omitempty"`
}

func (ExamPrescription) TableName() string {
	return "exam_prescriptions"
}

// IsDone checks if the prescription is complete
func (p *ExamPrescription) IsDone() bool {
	return p.Status == PrescriptionStatusDone
}

// IsOpen checks if the prescription still accepts fulfillment
func (p *ExamPrescription) IsOpen() bool {
	return p.Status == PrescriptionStatusPending || p.Status == PrescriptionStatusInProgress
}
