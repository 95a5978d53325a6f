package entity

import (
	"time"
)

// ExamResult links a prescription to the visit where clinical data and
// predictions were actually recorded. Each fulfillment round creates a
// fresh visit, so a prescription may own zero, one or more results.
type ExamResult struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PrescriptionID uint      `gorm:"not null;index" json:"prescription_id"`
	VisitID        uint      `gorm:"not null;index" json:"visit_id"`
	RecordedAt     time.Time `gorm:"autoCreateTime" json:"recorded_at"`

	// Relationships
	Prescription ExamPrescription `gorm:"foreignKey:PrescriptionID" json:"prescription,omitempty"`
	Visit        Visit            `gorm:"foreignKey:VisitID" json:"visit,omitempty"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}
