package dto

type CreateConsultationRequest struct {
	PatientID   uint   `json:"patient_id" validate:"required"`
	Motive      string `json:"motive" validate:"required"`
	Observation string `json:"observation" validate:"omitempty"`
	ConsultedAt string `json:"consulted_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type ConsultationResponse struct {
	ID          uint             `json:"id"`
	PatientID   uint             `json:"patient_id"`
	PhysicianID uint             `json:"physician_id"`
	Motive      string           `json:"motive"`
	Observation string           `json:"observation,omitempty"`
	ConsultedAt string           `json:"consulted_at"`
	Patient     *PatientResponse `json:"patient,omitempty"`
	Physician   *UserResponse    `json:"physician,omitempty"`
}

type CreateVisitRequest struct {
	ConsultationID uint                   `json:"consultation_id" validate:"required"`
	ClinicalData   map[string]interface{} `json:"clinical_data" validate:"required"`
	VisitedAt      string                 `json:"visited_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type VisitResponse struct {
	ID             uint                   `json:"id"`
	ConsultationID uint                   `json:"consultation_id"`
	ClinicalData   map[string]interface{} `json:"clinical_data"`
	VisitedAt      string                 `json:"visited_at"`
	Predictions    []PredictionResponse   `json:"predictions,omitempty"`
}
