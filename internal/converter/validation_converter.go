package converter

import (
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
)

func ValidationToResponse(validation *entity.Validation) dto.ValidationResponse {
	return dto.ValidationResponse{
		ID:             validation.ID,
		PredictionID:   validation.PredictionID,
		PhysicianID:    validation.PhysicianID,
		Status:         string(validation.Status),
		Comment:        validation.Comment,
		FinalDiagnosis: validation.FinalDiagnosis,
		ValidatedAt:    validation.ValidatedAt.Format(time.RFC3339),
	}
}

func ValidationsToResponses(validations []entity.Validation) []dto.ValidationResponse {
	if len(validations) == 0 {
		return nil
	}
	responses := make([]dto.ValidationResponse, 0, len(validations))
	for i := range validations {
		responses = append(responses, ValidationToResponse(&validations[i]))
	}
	return responses
}
