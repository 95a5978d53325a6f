package converter

import (
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
)

func PredictionToResponse(prediction *entity.Prediction) dto.PredictionResponse {
	return dto.PredictionResponse{
		ID:                   prediction.ID,
		VisitID:              prediction.VisitID,
		Disease:              string(prediction.Disease),
		Probability:          prediction.Probability,
		Threshold:            prediction.Threshold,
		Positive:             prediction.IsPositive(),
		ConfidenceLabel:      prediction.ConfidenceLabel,
		ContributingFeatures: prediction.ContributingFeatures,
		Interpretation:       prediction.Interpretation,
		Recommendation:       prediction.Recommendation,
		PredictedAt:          prediction.PredictedAt.Format(time.RFC3339),
		Validations:          ValidationsToResponses(prediction.Validations),
	}
}

func PredictionsToResponses(predictions []entity.Prediction) []dto.PredictionResponse {
	if len(predictions) == 0 {
		return nil
	}
	responses := make([]dto.PredictionResponse, 0, len(predictions))
	for i := range predictions {
		responses = append(responses, PredictionToResponse(&predictions[i]))
	}
	return responses
}
