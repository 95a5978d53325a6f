package converter

import (
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
)

func ConsultationToResponse(consultation *entity.Consultation) dto.ConsultationResponse {
	resp := dto.ConsultationResponse{
		ID:          consultation.ID,
		PatientID:   consultation.PatientID,
		PhysicianID: consultation.PhysicianID,
		Motive:      consultation.Motive,
		Observation: consultation.Observation,
		ConsultedAt: consultation.ConsultedAt.Format(time.RFC3339),
	}

	if consultation.Patient.ID != 0 {
		patient := PatientToResponse(&consultation.Patient)
		resp.Patient = &patient
	}
	if consultation.Physician.ID != 0 {
		physician := UserToResponse(&consultation.Physician)
		resp.Physician = &physician
	}

	return resp
}

func ConsultationsToResponses(consultations []entity.Consultation) []dto.ConsultationResponse {
	responses := make([]dto.ConsultationResponse, 0, len(consultations))
	for i := range consultations {
		responses = append(responses, ConsultationToResponse(&consultations[i]))
	}
	return responses
}

func VisitToResponse(visit *entity.Visit) dto.VisitResponse {
	return dto.VisitResponse{
		ID:             visit.ID,
		ConsultationID: visit.ConsultationID,
		ClinicalData:   visit.ClinicalData,
		VisitedAt:      visit.VisitedAt.Format(time.RFC3339),
		Predictions:    PredictionsToResponses(visit.Predictions),
	}
}
