package converter

import (
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
)

func FollowUpToResponse(followUp *entity.FollowUp) dto.FollowUpResponse {
	resp := dto.FollowUpResponse{
		ID:                 followUp.ID,
		PatientID:          followUp.PatientID,
		PhysicianID:        followUp.PhysicianID,
		Disease:            string(followUp.Disease),
		OriginPredictionID: followUp.OriginPredictionID,
		Status:             string(followUp.Status),
		Treatment:          followUp.Treatment,
		Recommendations:    followUp.Recommendations,
		EvolutionNotes:     followUp.EvolutionNotes,
		StartedAt:          followUp.StartedAt.Format(time.RFC3339),
	}

	if followUp.NextExamDate != nil {
		next := followUp.NextExamDate.Format("2006-01-02")
		resp.NextExamDate = &next
	}
	if followUp.HealedAt != nil {
		healed := followUp.HealedAt.Format("2006-01-02")
		resp.HealedAt = &healed
	}
	if followUp.Patient.ID != 0 {
		patient := PatientToResponse(&followUp.Patient)
		resp.Patient = &patient
	}

	return resp
}

func FollowUpsToResponses(followUps []entity.FollowUp) []dto.FollowUpResponse {
	responses := make([]dto.FollowUpResponse, 0, len(followUps))
	for i := range followUps {
		responses = append(responses, FollowUpToResponse(&followUps[i]))
	}
	return responses
}
