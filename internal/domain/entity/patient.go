package entity

import (
	"time"
)

// Patient is the long-lived root every clinical record hangs off.
// Identity is immutable once created; demographics may be updated.
type Patient struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	LastName  string    `gorm:"type:varchar(100);not null;index" json:"last_name"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	Sex       string    `gorm:"type:char(1);not null" json:"sex"`
	BirthDate time.Time `gorm:"type:date;not null" json:"birth_date"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone,omitempty"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Consultations []Consultation `gorm:"foreignKey:PatientID" json:"consultations,omitempty"`
	FollowUps     []FollowUp     `gorm:"foreignKey:PatientID" json:"follow_ups,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Sex constants
const (
	SexMale   = "M"
	SexFemale = "F"
)
