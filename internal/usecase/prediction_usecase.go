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

var ErrVisitNotFound = errors.New("visit not found")

// PredictionUsecase runs the external scorer over a visit's clinical
// data and persists the immutable output.
type PredictionUsecase interface {
	CreatePrediction(ctx context.Context, req *dto.CreatePredictionRequest) (*dto.PredictionResponse, error)
	ListByVisit(ctx context.Context, visitID uint) ([]dto.PredictionResponse, error)
}

type predictionUsecase struct {
	db             *gorm.DB
	log            *logrus.Logger
	predictionRepo repository.PredictionRepository
	visitRepo      repository.VisitRepository
	scoringClient  service.ScoringClient
	auditService   service.AuditService
}

func NewPredictionUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	predictionRepo repository.PredictionRepository,
	visitRepo repository.VisitRepository,
	scoringClient service.ScoringClient,
	auditService service.AuditService,
) PredictionUsecase {
	return &predictionUsecase{
		db:             db,
		log:            log,
		predictionRepo: predictionRepo,
		visitRepo:      visitRepo,
		scoringClient:  scoringClient,
		auditService:   auditService,
	}
}

// CreatePrediction scores the visit for one disease. A scorer failure
// surfaces as service.ErrPredictionUnavailable and persists nothing.
func (u *predictionUsecase) CreatePrediction(ctx context.Context, req *dto.CreatePredictionRequest) (*dto.PredictionResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	visit, err := u.visitRepo.FindByID(u.db.WithContext(ctx), req.VisitID)
	if err != nil {
		u.log.Warnf("Failed to find visit %d: %+v", req.VisitID, err)
		return nil, err
	}
	if visit == nil {
		return nil, ErrVisitNotFound
	}

	disease := entity.Disease(req.Disease)
	result, err := u.scoringClient.Score(ctx, disease, visit.ClinicalData)
	if err != nil {
		u.log.Warnf("Scoring failed for visit %d disease %s: %+v", visit.ID, disease, err)
		return nil, err
	}

	prediction := &entity.Prediction{
		VisitID:              visit.ID,
		Disease:              disease,
		Probability:          result.Probability,
		Threshold:            result.Threshold,
		ConfidenceLabel:      result.ConfidenceLabel,
		ContributingFeatures: entity.StringArray(result.ContributingFeatures),
		Interpretation:       result.Interpretation,
		Recommendation:       result.Recommendation,
	}
	if err := u.predictionRepo.Create(u.db.WithContext(ctx), prediction); err != nil {
		u.log.Warnf("Failed to persist prediction for visit %d: %+v", visit.ID, err)
		return nil, err
	}

	u.auditService.LogAction(ctx, nil, &userID, entity.AuditActionPredictionCreate, entity.JSON{
		"prediction_id": prediction.ID,
		"visit_id":      visit.ID,
		"disease":       string(disease),
		"positive":      prediction.IsPositive(),
	})

	u.log.Infof("Prediction created: id=%d visit=%d disease=%s probability=%.4f",
		prediction.ID, visit.ID, disease, prediction.Probability)
	resp := converter.PredictionToResponse(prediction)
	return &resp, nil
}

func (u *predictionUsecase) ListByVisit(ctx context.Context, visitID uint) ([]dto.PredictionResponse, error) {
	predictions, err := u.predictionRepo.FindByVisitID(u.db.WithContext(ctx), visitID)
	if err != nil {
		u.log.Warnf("Failed to list predictions for visit %d: %+v", visitID, err)
		return nil, err
	}

	return converter.PredictionsToResponses(predictions), nil
}
