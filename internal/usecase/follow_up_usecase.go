package usecase

import (
	"context"
	"errors"
	"time"

	"clinical-followup-platform/internal/converter"
	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/delivery/http/middleware"
	"clinical-followup-platform/internal/domain/entity"
	"clinical-followup-platform/internal/domain/repository"
	"clinical-followup-platform/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrFollowUpNotFound        = errors.New("follow-up not found")
	ErrDuplicateActiveFollowUp = errors.New("an active follow-up already exists for this patient and disease")
	ErrFollowUpTerminal        = errors.New("follow-up has reached a terminal state")
	ErrInvalidDate             = errors.New("invalid date format")
)

// FollowUpUsecase manages the longitudinal disease-tracking lifecycle
// and the exam reminders hanging off it.
type FollowUpUsecase interface {
	CreateFollowUp(ctx context.Context, req *dto.CreateFollowUpRequest) (*dto.FollowUpResponse, error)
	UpdateFollowUp(ctx context.Context, followUpID uint, req *dto.UpdateFollowUpRequest) (*dto.FollowUpResponse, error)
	GetFollowUp(ctx context.Context, followUpID uint) (*dto.FollowUpResponse, error)
	ListFollowUps(ctx context.Context, filter entity.FollowUpFilter) ([]dto.FollowUpResponse, error)
	ScheduleExam(ctx context.Context, followUpID uint, req *dto.ScheduleExamRequest) (*dto.ScheduledExamResponse, error)
	ListExams(ctx context.Context, followUpID uint) ([]dto.ScheduledExamResponse, error)
}

type followUpUsecase struct {
	db            *gorm.DB
	log           *logrus.Logger
	followUpRepo  repository.FollowUpRepository
	scheduledRepo repository.ScheduledExamRepository
	patientRepo   repository.PatientRepository
	auditService  service.AuditService
}

func NewFollowUpUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	followUpRepo repository.FollowUpRepository,
	scheduledRepo repository.ScheduledExamRepository,
	patientRepo repository.PatientRepository,
	auditService service.AuditService,
) FollowUpUsecase {
	return &followUpUsecase{
		db:            db,
		log:           log,
		followUpRepo:  followUpRepo,
		scheduledRepo: scheduledRepo,
		patientRepo:   patientRepo,
		auditService:  auditService,
	}
}

// CreateFollowUp opens a new tracking record. At most one non-HEALED
// follow-up may exist per (patient, disease); a second attempt is a
// conflict, not an upsert.
func (u *followUpUsecase) CreateFollowUp(ctx context.Context, req *dto.CreateFollowUpRequest) (*dto.FollowUpResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	disease := entity.Disease(req.Disease)
	active, err := u.followUpRepo.FindActive(u.db.WithContext(ctx), req.PatientID, disease)
	if err != nil {
		u.log.Warnf("Failed to check active follow-up for patient %d: %+v", req.PatientID, err)
		return nil, err
	}
	if active != nil {
		return nil, ErrDuplicateActiveFollowUp
	}

	followUp := &entity.FollowUp{
		PatientID:          req.PatientID,
		PhysicianID:        userID,
		Disease:            disease,
		OriginPredictionID: req.OriginPredictionID,
		Status:             entity.FollowUpStatusOngoing,
		Treatment:          req.Treatment,
		Recommendations:    req.Recommendations,
	}
	if req.NextExamDate != "" {
		next, err := time.Parse("2006-01-02", req.NextExamDate)
		if err != nil {
			return nil, ErrInvalidDate
		}
		followUp.NextExamDate = &next
	}

	if err := u.followUpRepo.Create(u.db.WithContext(ctx), followUp); err != nil {
		u.log.Warnf("Failed to create follow-up for patient %d: %+v", req.PatientID, err)
		return nil, err
	}

	u.auditService.LogAction(ctx, nil, &userID, entity.AuditActionFollowUpCreate, entity.JSON{
		"follow_up_id": followUp.ID,
		"patient_id":   followUp.PatientID,
		"disease":      string(followUp.Disease),
	})

	u.log.Infof("Follow-up created: id=%d patient=%d disease=%s", followUp.ID, followUp.PatientID, followUp.Disease)
	resp := converter.FollowUpToResponse(followUp)
	return &resp, nil
}

// UpdateFollowUp applies a partial update. Terminal follow-ups reject
// further changes. Healing fields imply each other: moving to HEALED
// stamps the healing date when absent, and setting a healing date with
// no explicit status in the same update moves the status to HEALED.
func (u *followUpUsecase) UpdateFollowUp(ctx context.Context, followUpID uint, req *dto.UpdateFollowUpRequest) (*dto.FollowUpResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	followUp, err := u.followUpRepo.FindByID(u.db.WithContext(ctx), followUpID)
	if err != nil {
		u.log.Warnf("Failed to find follow-up %d: %+v", followUpID, err)
		return nil, err
	}
	if followUp == nil {
		return nil, ErrFollowUpNotFound
	}
	if followUp.Status.IsTerminal() {
		return nil, ErrFollowUpTerminal
	}

	if req.Status != nil {
		followUp.Status = entity.FollowUpStatus(*req.Status)
	}
	if req.Treatment != nil {
		followUp.Treatment = *req.Treatment
	}
	if req.Recommendations != nil {
		followUp.Recommendations = *req.Recommendations
	}
	if req.EvolutionNotes != nil {
		followUp.EvolutionNotes = *req.EvolutionNotes
	}
	if req.NextExamDate != nil {
		if *req.NextExamDate == "" {
			followUp.NextExamDate = nil
		} else {
			next, err := time.Parse("2006-01-02", *req.NextExamDate)
			if err != nil {
				return nil, ErrInvalidDate
			}
			followUp.NextExamDate = &next
		}
	}
	if req.HealedAt != nil {
		healed, err := time.Parse("2006-01-02", *req.HealedAt)
		if err != nil {
			return nil, ErrInvalidDate
		}
		followUp.HealedAt = &healed
	}

	// Healing implications run both directions. A healing date only
	// forces HEALED when the update carries no explicit status.
	if followUp.Status == entity.FollowUpStatusHealed && followUp.HealedAt == nil {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		followUp.HealedAt = &today
	}
	if req.Status == nil && followUp.HealedAt != nil && followUp.Status != entity.FollowUpStatusHealed {
		followUp.Status = entity.FollowUpStatusHealed
	}

	if err := u.followUpRepo.Update(u.db.WithContext(ctx), followUp); err != nil {
		u.log.Warnf("Failed to update follow-up %d: %+v", followUpID, err)
		return nil, err
	}

	u.auditService.LogAction(ctx, nil, &userID, entity.AuditActionFollowUpUpdate, entity.JSON{
		"follow_up_id": followUp.ID,
		"status":       string(followUp.Status),
	})

	resp := converter.FollowUpToResponse(followUp)
	return &resp, nil
}

func (u *followUpUsecase) GetFollowUp(ctx context.Context, followUpID uint) (*dto.FollowUpResponse, error) {
	followUp, err := u.followUpRepo.FindByID(u.db.WithContext(ctx), followUpID)
	if err != nil {
		u.log.Warnf("Failed to find follow-up %d: %+v", followUpID, err)
		return nil, err
	}
	if followUp == nil {
		return nil, ErrFollowUpNotFound
	}

	resp := converter.FollowUpToResponse(followUp)
	return &resp, nil
}

func (u *followUpUsecase) ListFollowUps(ctx context.Context, filter entity.FollowUpFilter) ([]dto.FollowUpResponse, error) {
	followUps, err := u.followUpRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list follow-ups: %+v", err)
		return nil, err
	}

	return converter.FollowUpsToResponses(followUps), nil
}

// ScheduleExam attaches a future re-check to the follow-up and refreshes
// the follow-up's next-exam date to the earliest still-open reminder.
func (u *followUpUsecase) ScheduleExam(ctx context.Context, followUpID uint, req *dto.ScheduleExamRequest) (*dto.ScheduledExamResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	followUp, err := u.followUpRepo.FindByID(u.db.WithContext(ctx), followUpID)
	if err != nil {
		u.log.Warnf("Failed to find follow-up %d: %+v", followUpID, err)
		return nil, err
	}
	if followUp == nil {
		return nil, ErrFollowUpNotFound
	}
	if followUp.Status.IsTerminal() {
		return nil, ErrFollowUpTerminal
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	exam := &entity.ScheduledExam{
		FollowUpID:  followUp.ID,
		PhysicianID: userID,
		DueDate:     dueDate,
		Disease:     followUp.Disease,
		Reason:      req.Reason,
		Status:      entity.ScheduledExamStatusScheduled,
	}
	if err := u.scheduledRepo.Create(tx, exam); err != nil {
		u.log.Warnf("Failed to schedule exam on follow-up %d: %+v", followUpID, err)
		return nil, err
	}

	next, err := u.scheduledRepo.FindNextScheduled(tx, followUp.ID)
	if err != nil {
		return nil, err
	}
	if next != nil {
		followUp.NextExamDate = &next.DueDate
		if err := u.followUpRepo.Update(tx, followUp); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.auditService.LogAction(ctx, nil, &userID, entity.AuditActionExamSchedule, entity.JSON{
		"scheduled_exam_id": exam.ID,
		"follow_up_id":      followUp.ID,
		"due_date":          exam.DueDate.Format("2006-01-02"),
	})

	u.log.Infof("Exam scheduled: id=%d follow_up=%d due=%s", exam.ID, followUp.ID, exam.DueDate.Format("2006-01-02"))
	resp := converter.ScheduledExamToResponse(exam)
	return &resp, nil
}

// ListExams returns the follow-up's reminders with their audit trails.
func (u *followUpUsecase) ListExams(ctx context.Context, followUpID uint) ([]dto.ScheduledExamResponse, error) {
	followUp, err := u.followUpRepo.FindByID(u.db.WithContext(ctx), followUpID)
	if err != nil {
		u.log.Warnf("Failed to find follow-up %d: %+v", followUpID, err)
		return nil, err
	}
	if followUp == nil {
		return nil, ErrFollowUpNotFound
	}

	exams, err := u.scheduledRepo.FindByFollowUpID(u.db.WithContext(ctx), followUpID, "")
	if err != nil {
		u.log.Warnf("Failed to list exams for follow-up %d: %+v", followUpID, err)
		return nil, err
	}

	for i := range exams {
		events, err := u.scheduledRepo.FindAuditEvents(u.db.WithContext(ctx), exams[i].ID)
		if err != nil {
			u.log.Warnf("Failed to load audit trail for exam %d: %+v", exams[i].ID, err)
			continue
		}
		exams[i].AuditEvents = events
	}

	return converter.ScheduledExamsToResponses(exams), nil
}
