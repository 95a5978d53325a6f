package entity

import (
	"time"
)

// FollowUpStatus is the state of a longitudinal disease follow-up.
// HEALED and STOPPED are terminal; every other state may move to any
// state, terminal ones included.
type FollowUpStatus string

const (
	FollowUpStatusOngoing   FollowUpStatus = "ONGOING"
	FollowUpStatusImproving FollowUpStatus = "IMPROVING"
	FollowUpStatusStable    FollowUpStatus = "STABLE"
	FollowUpStatusWorsening FollowUpStatus = "WORSENING"
	FollowUpStatusHealed    FollowUpStatus = "HEALED"
	FollowUpStatusStopped   FollowUpStatus = "STOPPED"
)

// IsTerminal reports whether the status admits no further transition.
func (s FollowUpStatus) IsTerminal() bool {
	return s == FollowUpStatusHealed || s == FollowUpStatusStopped
}

// IsValid reports whether s is a known follow-up status.
func (s FollowUpStatus) IsValid() bool {
	switch s {
	case FollowUpStatusOngoing, FollowUpStatusImproving, FollowUpStatusStable,
		FollowUpStatusWorsening, FollowUpStatusHealed, FollowUpStatusStopped:
		return true
	}
	return false
}

// FollowUp tracks one patient/disease pair across visits. At most one
// non-HEALED follow-up may exist per pair.
type FollowUp struct {
	ID                 uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PatientID          uint           `gorm:"not null;index" json:"patient_id"`
	PhysicianID        uint           `gorm:"not null;index" json:"physician_id"`
	Disease            Disease        `gorm:"type:varchar(30);not null;index" json:"disease"`
	OriginPredictionID *uint          `gorm:"index" json:"origin_prediction_id,omitempty"`
	Status             FollowUpStatus `gorm:"type:varchar(20);not null;default:'ONGOING';index" json:"status"`
	Treatment          string         `gorm:"type:text" json:"treatment,omitempty"`
	Recommendations    string         `gorm:"type:text" json:"recommendations,omitempty"`
	EvolutionNotes     string         `gorm:"type:text" json:"evolution_notes,omitempty"`
	StartedAt          time.Time      `gorm:"autoCreateTime;index" json:"started_at"`
	NextExamDate       *time.Time     `gorm:"type:date" json:"next_exam_date,omitempty"`
	HealedAt           *time.Time     `gorm:"type:date" json:"healed_at,omitempty"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Patient          Patient         `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Physician        User            `gorm:"foreignKey:PhysicianID" json:"physician,omitempty"`
	OriginPrediction *Prediction     `gorm:"foreignKey:OriginPredictionID" json:"origin_prediction,omitempty"`
	ScheduledExams   []ScheduledExam `gorm:"foreignKey:FollowUpID" json:"scheduled_exams,omitempty"`
}

func (FollowUp) TableName() string {
	return "follow_ups"
}
