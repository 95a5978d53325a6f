package converter

import (
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
)

func PrescriptionToResponse(prescription *entity.ExamPrescription) dto.PrescriptionResponse {
	return dto.PrescriptionResponse{
		ID:               prescription.ID,
		ConsultationID:   prescription.ConsultationID,
		PhysicianID:      prescription.PhysicianID,
		ReferenceCode:    prescription.ReferenceCode,
		TargetedDiseases: prescription.TargetedDiseases,
		Comment:          prescription.Comment,
		Status:           string(prescription.Status),
		PrescribedAt:     prescription.PrescribedAt.Format(time.RFC3339),
	}
}

func PrescriptionsToResponses(prescriptions []entity.ExamPrescription) []dto.PrescriptionResponse {
	responses := make([]dto.PrescriptionResponse, 0, len(prescriptions))
	for i := range prescriptions {
		responses = append(responses, PrescriptionToResponse(&prescriptions[i]))
	}
	return responses
}
