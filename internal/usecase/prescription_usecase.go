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
	ErrPrescriptionNotFound = errors.New("prescription not found")
	ErrPrescriptionClosed   = errors.New("prescription no longer accepts results")
)

// PrescriptionUsecase exposes exam orders and their fulfillment.
type PrescriptionUsecase interface {
	ListPrescriptions(ctx context.Context, filter entity.PrescriptionFilter) ([]dto.PrescriptionResponse, error)
	GetPrescription(ctx context.Context, prescriptionID uint) (*dto.PrescriptionResponse, error)
	RecordResults(ctx context.Context, prescriptionID uint, req *dto.RecordResultsRequest) (*dto.RecordResultsResponse, error)
}

type prescriptionUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	prescriptionRepo repository.ExamPrescriptionRepository
	examResultRepo   repository.ExamResultRepository
	visitRepo        repository.VisitRepository
	scheduledRepo    repository.ScheduledExamRepository
	followUpRepo     repository.FollowUpRepository
	auditService     service.AuditService
}

func NewPrescriptionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	prescriptionRepo repository.ExamPrescriptionRepository,
	examResultRepo repository.ExamResultRepository,
	visitRepo repository.VisitRepository,
	scheduledRepo repository.ScheduledExamRepository,
	followUpRepo repository.FollowUpRepository,
	auditService service.AuditService,
) PrescriptionUsecase {
	return &prescriptionUsecase{
		db:               db,
		log:              log,
		prescriptionRepo: prescriptionRepo,
		examResultRepo:   examResultRepo,
		visitRepo:        visitRepo,
		scheduledRepo:    scheduledRepo,
		followUpRepo:     followUpRepo,
		auditService:     auditService,
	}
}

func (u *prescriptionUsecase) ListPrescriptions(ctx context.Context, filter entity.PrescriptionFilter) ([]dto.PrescriptionResponse, error) {
	prescriptions, err := u.prescriptionRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list prescriptions: %+v", err)
		return nil, err
	}

	return converter.PrescriptionsToResponses(prescriptions), nil
}

func (u *prescriptionUsecase) GetPrescription(ctx context.Context, prescriptionID uint) (*dto.PrescriptionResponse, error) {
	prescription, err := u.prescriptionRepo.FindByID(u.db.WithContext(ctx), prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %d: %+v", prescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}

	resp := converter.PrescriptionToResponse(prescription)
	return &resp, nil
}

// RecordResults registers one fulfillment round against an open order.
//
// Flow:
// 1. Lock the prescription row; a DONE order rejects new results
// 2. Create the visit carrying the clinical data
// 3. Create the exam result binding visit to prescription
// 4. A PENDING order moves to IN_PROGRESS
// 5. When the round answers a scheduled exam reminder, mark it DONE,
//    append the fulfillment event, and refresh the follow-up's
//    next-exam date
func (u *prescriptionUsecase) RecordResults(ctx context.Context, prescriptionID uint, req *dto.RecordResultsRequest) (*dto.RecordResultsResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	visitedAt := time.Now().UTC()
	if req.RecordedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err != nil {
			return nil, ErrInvalidDate
		}
		visitedAt = parsed.UTC()
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByIDForUpdate(tx, prescriptionID)
	if err != nil {
		u.log.Warnf("Failed to find prescription %d: %+v", prescriptionID, err)
		return nil, err
	}
	if prescription == nil {
		return nil, ErrPrescriptionNotFound
	}
	if !prescription.IsOpen() {
		return nil, ErrPrescriptionClosed
	}

	visit := &entity.Visit{
		ConsultationID: prescription.ConsultationID,
		VisitedAt:      visitedAt,
		ClinicalData:   entity.JSON(req.ClinicalData),
	}
	if err := u.visitRepo.Create(tx, visit); err != nil {
		return nil, err
	}

	result := &entity.ExamResult{
		PrescriptionID: prescription.ID,
		VisitID:        visit.ID,
	}
	if err := u.examResultRepo.Create(tx, result); err != nil {
		return nil, err
	}

	if prescription.Status == entity.PrescriptionStatusPending {
		if err := u.prescriptionRepo.UpdateStatus(tx, prescription.ID, entity.PrescriptionStatusInProgress); err != nil {
			return nil, err
		}
		prescription.Status = entity.PrescriptionStatusInProgress
	}

	if req.ScheduledExamID != nil {
		if err := u.fulfillScheduledExam(tx, *req.ScheduledExamID, visit.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.auditService.LogAction(ctx, nil, &userID, entity.AuditActionExamFulfill, entity.JSON{
		"prescription_id": prescription.ID,
		"visit_id":        visit.ID,
		"exam_result_id":  result.ID,
	})

	u.log.Infof("Results recorded: prescription=%s visit=%d", prescription.ReferenceCode, visit.ID)
	return &dto.RecordResultsResponse{
		Prescription: converter.PrescriptionToResponse(prescription),
		VisitID:      visit.ID,
		ExamResultID: result.ID,
	}, nil
}

// fulfillScheduledExam flips the reminder to DONE, records the
// fulfillment on its audit trail, and moves the follow-up's next-exam
// date to the earliest remaining open reminder.
func (u *prescriptionUsecase) fulfillScheduledExam(tx *gorm.DB, scheduledExamID, visitID uint) error {
	exam, err := u.scheduledRepo.FindByID(tx, scheduledExamID)
	if err != nil {
		return err
	}
	if exam == nil || !exam.IsScheduled() {
		// Already fulfilled or unknown; the recorded results stand on
		// their own either way.
		u.log.Warnf("Scheduled exam %d not open for fulfillment, results recorded without it", scheduledExamID)
		return nil
	}

	if err := u.scheduledRepo.MarkDone(tx, exam.ID, visitID); err != nil {
		return err
	}

	event := &entity.ExamAuditEvent{
		ScheduledExamID: exam.ID,
		Kind:            entity.ExamAuditExamFulfilled,
		ReferenceID:     &visitID,
	}
	if err := u.scheduledRepo.AppendAuditEvent(tx, event); err != nil {
		return err
	}

	followUp, err := u.followUpRepo.FindByID(tx, exam.FollowUpID)
	if err != nil {
		return err
	}
	if followUp == nil {
		return nil
	}

	next, err := u.scheduledRepo.FindNextScheduled(tx, followUp.ID)
	if err != nil {
		return err
	}
	if next != nil {
		followUp.NextExamDate = &next.DueDate
	} else {
		followUp.NextExamDate = nil
	}
	return u.followUpRepo.Update(tx, followUp)
}
