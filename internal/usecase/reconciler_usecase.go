package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"clinical-followup-platform/config"
	"clinical-followup-platform/internal/converter"
	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/delivery/http/middleware"
	"clinical-followup-platform/internal/domain/entity"
	"clinical-followup-platform/internal/domain/repository"
	"clinical-followup-platform/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidReferenceDate = errors.New("invalid reference date")

// ReconcilerUsecase converts due scheduled exams into consultation and
// prescription orders. Runs are idempotent at day granularity: a
// candidate already covered by an active prescription inside the dedup
// window is skipped, and re-running the same day changes nothing.
type ReconcilerUsecase interface {
	Run(ctx context.Context, req *dto.ReconcileRequest) (*dto.ReconcileResponse, error)
	ListCandidates(ctx context.Context, req *dto.ReconcileRequest) ([]dto.CandidateResponse, error)
}

type reconcilerUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	cfg              config.ReconcilerConfig
	scheduledRepo    repository.ScheduledExamRepository
	prescriptionRepo repository.ExamPrescriptionRepository
	consultationRepo repository.ConsultationRepository
	lock             service.ReconcileLock
	auditService     service.AuditService
}

func NewReconcilerUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.ReconcilerConfig,
	scheduledRepo repository.ScheduledExamRepository,
	prescriptionRepo repository.ExamPrescriptionRepository,
	consultationRepo repository.ConsultationRepository,
	lock service.ReconcileLock,
	auditService service.AuditService,
) ReconcilerUsecase {
	return &reconcilerUsecase{
		db:               db,
		log:              log,
		cfg:              cfg,
		scheduledRepo:    scheduledRepo,
		prescriptionRepo: prescriptionRepo,
		consultationRepo: consultationRepo,
		lock:             lock,
		auditService:     auditService,
	}
}

// Run executes one reconciliation pass.
//
// Flow per candidate:
// 1. Acquire the (patient, exam type) advisory lock; busy means another
//    run is already handling the pair, skip
// 2. Open a transaction
// 3. Dedup: an open prescription for the pair inside the lookback
//    window suppresses a new order
// 4. Reuse the same-day consultation for (patient, physician) or open one
// 5. Create the PENDING prescription with a fresh reference code
// 6. Append the order.created event to the exam's audit trail
// 7. Commit
//
// A failing candidate is logged and skipped; it never aborts the batch.
// The scheduled exam itself stays SCHEDULED: ordering the exam is not
// performing it.
func (u *reconcilerUsecase) Run(ctx context.Context, req *dto.ReconcileRequest) (*dto.ReconcileResponse, error) {
	refDate, err := u.resolveReferenceDate(req)
	if err != nil {
		return nil, err
	}

	candidates, err := u.scheduledRepo.FindDue(u.db.WithContext(ctx), entity.DueExamFilter{
		ReferenceDate: refDate,
		PhysicianID:   req.PhysicianID,
	})
	if err != nil {
		u.log.Warnf("Failed to load due scheduled exams: %+v", err)
		return nil, err
	}

	resp := &dto.ReconcileResponse{
		ReferenceDate: refDate.Format("2006-01-02"),
		Created:       []dto.OrderSummary{},
	}

	for i := range candidates {
		summary, err := u.reconcileCandidate(ctx, &candidates[i], refDate)
		if err != nil {
			u.log.Warnf("Reconciliation failed for scheduled exam %d (skipped): %+v", candidates[i].ID, err)
			resp.SkippedCount++
			continue
		}
		if summary == nil {
			resp.SkippedCount++
			continue
		}
		resp.Created = append(resp.Created, *summary)
	}
	resp.ConsideredCount = len(candidates)

	var actorID *uint
	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		actorID = &userID
	}
	u.auditService.LogAction(ctx, nil, actorID, entity.AuditActionReconcilerRun, entity.JSON{
		"reference_date": resp.ReferenceDate,
		"considered":     resp.ConsideredCount,
		"created":        len(resp.Created),
		"skipped":        resp.SkippedCount,
	})

	u.log.Infof("Reconciliation run complete: ref=%s considered=%d created=%d skipped=%d",
		resp.ReferenceDate, resp.ConsideredCount, len(resp.Created), resp.SkippedCount)
	return resp, nil
}

// reconcileCandidate processes one due exam in isolation. A nil, nil
// return means the candidate was deliberately skipped.
func (u *reconcilerUsecase) reconcileCandidate(ctx context.Context, exam *entity.ScheduledExam, refDate time.Time) (*dto.OrderSummary, error) {
	patientID := exam.FollowUp.PatientID
	// The order belongs to the physician running the follow-up, who may
	// differ from whoever scheduled this particular exam.
	physicianID := exam.FollowUp.PhysicianID

	release, ok, err := u.lock.Acquire(ctx, patientID, exam.Disease)
	if err != nil {
		return nil, err
	}
	if !ok {
		u.log.Infof("Reconcile lock busy for patient %d disease %s, skipping exam %d", patientID, exam.Disease, exam.ID)
		return nil, nil
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	defer tx.Rollback()

	// Dedup window: an open prescription for the pair prescribed within
	// the lookback suppresses a second order.
	windowStart := refDate.AddDate(0, 0, -u.cfg.DedupWindowDays)
	windowEnd := refDate.Add(24 * time.Hour)
	existing, err := u.prescriptionRepo.FindRecentActive(tx, patientID, exam.Disease, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		u.log.Infof("Skipping exam %d: active prescription %s already covers patient %d disease %s",
			exam.ID, existing.ReferenceCode, patientID, exam.Disease)
		return nil, nil
	}

	consultation, err := u.consultationRepo.FindSameDay(tx, patientID, physicianID, refDate)
	if err != nil {
		return nil, err
	}
	reused := consultation != nil
	if consultation == nil {
		consultation = &entity.Consultation{
			PatientID:   patientID,
			PhysicianID: physicianID,
			Motive:      fmt.Sprintf("Follow-up exam - %s", exam.Disease),
			Observation: exam.Reason,
			ConsultedAt: refDate,
		}
		if err := u.consultationRepo.Create(tx, consultation); err != nil {
			return nil, err
		}
	}

	prescription := &entity.ExamPrescription{
		ConsultationID:   consultation.ID,
		PhysicianID:      physicianID,
		ReferenceCode:    generateReferenceCode(refDate),
		TargetedDiseases: entity.StringArray{string(exam.Disease)},
		Comment:          exam.Reason,
		Status:           entity.PrescriptionStatusPending,
	}
	if err := u.prescriptionRepo.Create(tx, prescription); err != nil {
		return nil, err
	}

	event := &entity.ExamAuditEvent{
		ScheduledExamID: exam.ID,
		Kind:            entity.ExamAuditOrderCreated,
		ReferenceID:     &prescription.ID,
		Note:            fmt.Sprintf("Order %s materialized by reconciliation", prescription.ReferenceCode),
	}
	if err := u.scheduledRepo.AppendAuditEvent(tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Order created: exam=%d prescription=%s patient=%d disease=%s reused_consultation=%v",
		exam.ID, prescription.ReferenceCode, patientID, exam.Disease, reused)

	return &dto.OrderSummary{
		ScheduledExamID: exam.ID,
		FollowUpID:      exam.FollowUpID,
		PatientID:       patientID,
		Disease:         string(exam.Disease),
		ConsultationID:  consultation.ID,
		PrescriptionID:  prescription.ID,
		ReferenceCode:   prescription.ReferenceCode,
		ReusedExisting:  reused,
	}, nil
}

// ListCandidates is the dry-run view: the due exams a Run with the
// same parameters would consider, without writing anything.
func (u *reconcilerUsecase) ListCandidates(ctx context.Context, req *dto.ReconcileRequest) ([]dto.CandidateResponse, error) {
	refDate, err := u.resolveReferenceDate(req)
	if err != nil {
		return nil, err
	}

	candidates, err := u.scheduledRepo.FindDue(u.db.WithContext(ctx), entity.DueExamFilter{
		ReferenceDate: refDate,
		PhysicianID:   req.PhysicianID,
	})
	if err != nil {
		u.log.Warnf("Failed to load due scheduled exams: %+v", err)
		return nil, err
	}

	return converter.CandidatesToResponses(candidates), nil
}

func (u *reconcilerUsecase) resolveReferenceDate(req *dto.ReconcileRequest) (time.Time, error) {
	if req == nil || req.ReferenceDate == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	refDate, err := time.Parse("2006-01-02", req.ReferenceDate)
	if err != nil {
		return time.Time{}, ErrInvalidReferenceDate
	}
	return refDate.UTC(), nil
}

// generateReferenceCode generates a unique prescription code: RX-YYYYMMDD-XXXXXX
func generateReferenceCode(refDate time.Time) string {
	dateStr := refDate.Format("20060102")
	randomBytes := make([]byte, 3)
	rand.Read(randomBytes)
	return fmt.Sprintf("RX-%s-%06X", dateStr, randomBytes)
}
