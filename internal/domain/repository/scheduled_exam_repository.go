package repository

import (
	"clinical-followup-platform/internal/domain/entity"

	"gorm.io/gorm"
)

type ScheduledExamRepository interface {
	Create(db *gorm.DB, exam *entity.ScheduledExam) error
	FindByID(db *gorm.DB, id uint) (*entity.ScheduledExam, error)
	// FindDue returns SCHEDULED exams with due date on or before the
	// filter's reference day, due date ascending, preloading the owning
	// follow-up with its patient and physician.
	FindDue(db *gorm.DB, filter entity.DueExamFilter) ([]entity.ScheduledExam, error)
	FindByFollowUpID(db *gorm.DB, followUpID uint, status entity.ScheduledExamStatus) ([]entity.ScheduledExam, error)
	// FindNextScheduled returns the earliest still-SCHEDULED exam of the
	// follow-up, or nil.
	FindNextScheduled(db *gorm.DB, followUpID uint) (*entity.ScheduledExam, error)
	MarkDone(db *gorm.DB, id uint, visitID uint) error
	AppendAuditEvent(db *gorm.DB, event *entity.ExamAuditEvent) error
	FindAuditEvents(db *gorm.DB, scheduledExamID uint) ([]entity.ExamAuditEvent, error)
}
