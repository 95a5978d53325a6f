package repository

import (
	"errors"

	"clinical-followup-platform/internal/domain/entity"
	domainRepo "clinical-followup-platform/internal/domain/repository"

	"gorm.io/gorm"
)

type scheduledExamRepository struct{}

func NewScheduledExamRepository() domainRepo.ScheduledExamRepository {
	return &scheduledExamRepository{}
}

func (r *scheduledExamRepository) Create(db *gorm.DB, exam *entity.ScheduledExam) error {
	return db.Create(exam).Error
}

func (r *scheduledExamRepository) FindByID(db *gorm.DB, id uint) (*entity.ScheduledExam, error) {
	var exam entity.ScheduledExam
	err := db.Preload("FollowUp.Patient").Preload("Physician").
		Where("id = ?", id).First(&exam).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exam, nil
}

func (r *scheduledExamRepository) FindDue(db *gorm.DB, filter entity.DueExamFilter) ([]entity.ScheduledExam, error) {
	query := db.Preload("FollowUp.Patient").Preload("FollowUp.Physician").
		Where("status = ?", entity.ScheduledExamStatusScheduled).
		Where("due_date <= ?", filter.ReferenceDate)
	if filter.PhysicianID != nil {
		query = query.Where("physician_id = ?", *filter.PhysicianID)
	}

	var exams []entity.ScheduledExam
	err := query.Order("due_date ASC").Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *scheduledExamRepository) FindByFollowUpID(db *gorm.DB, followUpID uint, status entity.ScheduledExamStatus) ([]entity.ScheduledExam, error) {
	query := db.Preload("Physician").Where("follow_up_id = ?", followUpID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var exams []entity.ScheduledExam
	err := query.Order("due_date ASC").Find(&exams).Error
	if err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *scheduledExamRepository) FindNextScheduled(db *gorm.DB, followUpID uint) (*entity.ScheduledExam, error) {
	var exam entity.ScheduledExam
	err := db.Where("follow_up_id = ? AND status = ?", followUpID, entity.ScheduledExamStatusScheduled).
		Order("due_date ASC").
		First(&exam).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exam, nil
}

func (r *scheduledExamRepository) MarkDone(db *gorm.DB, id uint, visitID uint) error {
	return db.Model(&entity.ScheduledExam{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   entity.ScheduledExamStatusDone,
			"visit_id": visitID,
		}).Error
}

func (r *scheduledExamRepository) AppendAuditEvent(db *gorm.DB, event *entity.ExamAuditEvent) error {
	return db.Create(event).Error
}

func (r *scheduledExamRepository) FindAuditEvents(db *gorm.DB, scheduledExamID uint) ([]entity.ExamAuditEvent, error) {
	var events []entity.ExamAuditEvent
	err := db.Where("scheduled_exam_id = ?", scheduledExamID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
