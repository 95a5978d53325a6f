package converter

import (
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
)

func PatientToResponse(patient *entity.Patient) dto.PatientResponse {
	return dto.PatientResponse{
		ID:        patient.ID,
		FirstName: patient.FirstName,
		LastName:  patient.LastName,
		BirthDate: patient.BirthDate.Format("2006-01-02"),
		Sex:       patient.Sex,
		Phone:     patient.Phone,
		Address:   patient.Address,
		CreatedAt: patient.CreatedAt.Format(time.RFC3339),
	}
}

func PatientsToResponses(patients []entity.Patient) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, 0, len(patients))
	for i := range patients {
		responses = append(responses, PatientToResponse(&patients[i]))
	}
	return responses
}
