package entity

import (
	"time"
)

// ScheduledExamStatus is the lifecycle of a follow-up exam reminder.
// The reconciler never advances SCHEDULED to DONE: materializing an
// order is not the same as the exam having been performed. Fulfillment
// flips it when results are recorded against a visit.
type ScheduledExamStatus string

const (
	ScheduledExamStatusScheduled ScheduledExamStatus = "SCHEDULED"
	ScheduledExamStatusDone      ScheduledExamStatus = "DONE"
)

// ScheduledExam is a future re-check reminder attached to a follow-up.
type ScheduledExam struct {
	ID          uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	FollowUpID  uint                `gorm:"not null;index" json:"follow_up_id"`
	PhysicianID uint                `gorm:"not null;index" json:"physician_id"`
	DueDate     time.Time           `gorm:"type:date;not null;index" json:"due_date"`
	Disease     Disease             `gorm:"type:varchar(30);not null;index" json:"disease"`
	Reason      string              `gorm:"type:text" json:"reason,omitempty"`
	Status      ScheduledExamStatus `gorm:"type:varchar(20);not null;default:'SCHEDULED';index" json:"status"`
	VisitID     *uint               `gorm:"index" json:"visit_id,omitempty"`
	CreatedAt   time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time           `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	FollowUp    FollowUp         `gorm:"foreignKey:FollowUpID" json:"follow_up,omitempty"`
	Physician   User             `gorm:"foreignKey:PhysicianID" json:"physician,omitempty"`
	Visit       *Visit           `gorm:"foreignKey:VisitID" json:"visit,omitempty"`
	AuditEvents []ExamAuditEvent `gorm:"foreignKey:ScheduledExamID" json:"audit_events,omitempty"`
}

func (ScheduledExam) TableName() string {
	return "scheduled_exams"
}

// IsScheduled checks if the exam is still awaiting fulfillment
func (e *ScheduledExam) IsScheduled() bool {
	return e.Status == ScheduledExamStatusScheduled
}

// ExamAuditEvent is one append-only audit entry on a scheduled exam.
// The trail replaces free-text note concatenation; it is rendered to
// text only at the presentation boundary.
type ExamAuditEvent struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ScheduledExamID uint      `gorm:"not null;index" json:"scheduled_exam_id"`
	Kind            string    `gorm:"type:varchar(50);not null" json:"kind"`
	ReferenceID     *uint     `json:"reference_id,omitempty"`
	Note            string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (ExamAuditEvent) TableName() string {
	return "exam_audit_events"
}

// Exam audit event kinds
const (
	ExamAuditOrderCreated  = "order.created"
	ExamAuditExamFulfilled = "exam.fulfilled"
)
