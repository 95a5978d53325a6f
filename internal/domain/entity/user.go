package entity

import (
	"time"
)

// Role classifies a platform user. Only MEDECIN and ADMIN may own
// prescriptions, validations, scheduled exams and follow-ups.
type Role string

const (
	RoleMedecin   Role = "MEDECIN"
	RoleAdmin     Role = "ADMIN"
	RoleInfirmier Role = "INFIRMIER"
)

// User represents the centralized authentication table
type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	LastName  string    `gorm:"type:varchar(100);not null" json:"last_name"`
	FirstName string    `gorm:"type:varchar(100);not null" json:"first_name"`
	Role      Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	IsActive  *bool     `gorm:"not null;default:true;index" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// CanPrescribe reports whether this user may own clinical orders,
// validations, scheduled exams and follow-ups.
func (u *User) CanPrescribe() bool {
	return u.Role == RoleMedecin || u.Role == RoleAdmin
}
