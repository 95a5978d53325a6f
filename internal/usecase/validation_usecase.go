package usecase

import (
	"context"
	"errors"

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
	ErrPredictionNotFound     = errors.New("prediction not found")
	ErrValidationNotPermitted = errors.New("only physicians may validate predictions")
)

// ValidationUsecase records physician dispositions on predictions and
// keeps order completion status consistent with them.
type ValidationUsecase interface {
	CreateValidation(ctx context.Context, req *dto.CreateValidationRequest) (*dto.ValidationResponse, error)
	ListValidations(ctx context.Context, req *dto.ListValidationsRequest) ([]dto.ValidationResponse, error)
}

type validationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	validationRepo   repository.ValidationRepository
	predictionRepo   repository.PredictionRepository
	userRepo         repository.UserRepository
	examResultRepo   repository.ExamResultRepository
	prescriptionRepo repository.ExamPrescriptionRepository
	followUpRepo     repository.FollowUpRepository
	auditService     service.AuditService
}

func NewValidationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	validationRepo repository.ValidationRepository,
	predictionRepo repository.PredictionRepository,
	userRepo repository.UserRepository,
	examResultRepo repository.ExamResultRepository,
	prescriptionRepo repository.ExamPrescriptionRepository,
	followUpRepo repository.FollowUpRepository,
	auditService service.AuditService,
) ValidationUsecase {
	return &validationUsecase{
		db:               db,
		log:              log,
		validationRepo:   validationRepo,
		predictionRepo:   predictionRepo,
		userRepo:         userRepo,
		examResultRepo:   examResultRepo,
		prescriptionRepo: prescriptionRepo,
		followUpRepo:     followUpRepo,
		auditService:     auditService,
	}
}

// CreateValidation stores the disposition, then re-evaluates the owning
// prescription's completion and, on a VALIDATED disposition, opens a
// follow-up when none is active. The follow-on steps are best-effort:
// a failure there is logged but never unwinds the stored validation.
func (u *validationUsecase) CreateValidation(ctx context.Context, req *dto.CreateValidationRequest) (*dto.ValidationResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	physician, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user %d: %+v", userID, err)
		return nil, err
	}
	if physician == nil || !physician.CanPrescribe() {
		return nil, ErrValidationNotPermitted
	}

	prediction, err := u.predictionRepo.FindByID(u.db.WithContext(ctx), req.PredictionID)
	if err != nil {
		u.log.Warnf("Failed to find prediction %d: %+v", req.PredictionID, err)
		return nil, err
	}
	if prediction == nil {
		return nil, ErrPredictionNotFound
	}

	validation := &entity.Validation{
		PredictionID:   prediction.ID,
		PhysicianID:    userID,
		Status:         entity.ValidationStatus(req.Status),
		Comment:        req.Comment,
		FinalDiagnosis: req.FinalDiagnosis,
	}
	if err := u.validationRepo.Create(u.db.WithContext(ctx), validation); err != nil {
		u.log.Warnf("Failed to create validation for prediction %d: %+v", prediction.ID, err)
		return nil, err
	}

	if err := u.evaluateCompletion(ctx, prediction.VisitID, validation); err != nil {
		u.log.Warnf("Completion evaluation failed after validation %d (validation stands): %+v", validation.ID, err)
	}

	warning := ""
	if validation.Status == entity.ValidationStatusValidated {
		if err := u.autoCreateFollowUp(ctx, prediction, validation, userID); err != nil {
			warning = "validation recorded but follow-up could not be opened"
		}
	}

	u.auditService.LogAction(ctx, nil, &userID, entity.AuditActionValidationCreate, entity.JSON{
		"validation_id": validation.ID,
		"prediction_id": prediction.ID,
		"status":        string(validation.Status),
	})

	resp := converter.ValidationToResponse(validation)
	resp.Warning = warning
	return &resp, nil
}

// evaluateCompletion recomputes the owning prescription's status from
// the full validation aggregate. The prescription becomes DONE only
// when it has at least one prediction across its results and every one
// of them carries a definitive disposition. DONE is monotonic: an
// already-complete prescription is never reopened.
func (u *validationUsecase) evaluateCompletion(ctx context.Context, visitID uint, triggering *entity.Validation) error {
	result, err := u.examResultRepo.FindByVisitID(u.db.WithContext(ctx), visitID)
	if err != nil {
		return err
	}
	if result == nil {
		// The visit is not bound to an order, nothing to evaluate.
		return nil
	}

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer tx.Rollback()

	prescription, err := u.prescriptionRepo.FindByIDForUpdate(tx, result.PrescriptionID)
	if err != nil {
		return err
	}
	if prescription == nil {
		return nil
	}
	if prescription.IsDone() {
		return nil
	}

	results, err := u.examResultRepo.FindByPrescriptionID(tx, prescription.ID)
	if err != nil {
		return err
	}

	total := 0
	allDefinitive := true
	for i := range results {
		for j := range results[i].Visit.Predictions {
			prediction := &results[i].Visit.Predictions[j]
			total++
			if !predictionSettled(prediction, triggering) {
				allDefinitive = false
			}
		}
	}

	if total == 0 || !allDefinitive {
		return nil
	}

	if err := u.prescriptionRepo.UpdateStatus(tx, prescription.ID, entity.PrescriptionStatusDone); err != nil {
		return err
	}
	if err := tx.Commit().Error; err != nil {
		return err
	}

	u.log.Infof("Prescription %s complete: %d predictions all definitively validated", prescription.ReferenceCode, total)
	return nil
}

// predictionSettled reports whether the prediction carries at least one
// definitive validation. The triggering validation counts even when
// the aggregate read predates its visibility.
func predictionSettled(prediction *entity.Prediction, triggering *entity.Validation) bool {
	for i := range prediction.Validations {
		if prediction.Validations[i].Status.IsDefinitive() {
			return true
		}
	}
	return triggering != nil &&
		triggering.PredictionID == prediction.ID &&
		triggering.Status.IsDefinitive()
}

// autoCreateFollowUp opens a follow-up for the predicted disease when
// the patient has no active one. A confirmed diagnosis without a
// tracking record is the clinician's to notice, a failed validation
// write is not, so the error is only logged and surfaced as a warning.
func (u *validationUsecase) autoCreateFollowUp(ctx context.Context, prediction *entity.Prediction, validation *entity.Validation, physicianID uint) error {
	patientID := prediction.Visit.Consultation.PatientID
	if patientID == 0 {
		u.log.Warnf("Cannot auto-create follow-up for prediction %d: patient not resolved", prediction.ID)
		return errors.New("patient not resolved")
	}

	active, err := u.followUpRepo.FindActive(u.db.WithContext(ctx), patientID, prediction.Disease)
	if err != nil {
		u.log.Warnf("Failed to check active follow-up for patient %d disease %s: %+v", patientID, prediction.Disease, err)
		return err
	}
	if active != nil {
		return nil
	}

	predictionID := prediction.ID
	followUp := &entity.FollowUp{
		PatientID:          patientID,
		PhysicianID:        physicianID,
		Disease:            prediction.Disease,
		OriginPredictionID: &predictionID,
		Status:             entity.FollowUpStatusOngoing,
		Treatment:          validation.FinalDiagnosis,
		Recommendations:    validation.Comment,
	}
	if err := u.followUpRepo.Create(u.db.WithContext(ctx), followUp); err != nil {
		u.log.Warnf("Failed to auto-create follow-up for patient %d disease %s: %+v", patientID, prediction.Disease, err)
		return err
	}

	u.log.Infof("Follow-up %d auto-created for patient %d disease %s from prediction %d",
		followUp.ID, patientID, prediction.Disease, prediction.ID)
	return nil
}

func (u *validationUsecase) ListValidations(ctx context.Context, req *dto.ListValidationsRequest) ([]dto.ValidationResponse, error) {
	filter := entity.ValidationFilter{}
	if req != nil {
		filter.PredictionID = req.PredictionID
		filter.PhysicianID = req.PhysicianID
	}

	validations, err := u.validationRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list validations: %+v", err)
		return nil, err
	}

	return converter.ValidationsToResponses(validations), nil
}
