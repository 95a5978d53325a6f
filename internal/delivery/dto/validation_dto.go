package dto

type CreateValidationRequest struct {
	PredictionID   uint   `json:"prediction_id" validate:"required"`
	Status         string `json:"status" validate:"required,oneof=VALIDATED REJECTED AMENDED PENDING"`
	Comment        string `json:"comment" validate:"omitempty"`
	FinalDiagnosis string `json:"final_diagnosis" validate:"omitempty"`
}

type ValidationResponse struct {
	ID             uint   `json:"id"`
	PredictionID   uint   `json:"prediction_id"`
	PhysicianID    uint   `json:"physician_id"`
	Status         string `json:"status"`
	Comment        string `json:"comment,omitempty"`
	FinalDiagnosis string `json:"final_diagnosis,omitempty"`
	ValidatedAt    string `json:"validated_at"`
	// Warning reports a failed best-effort side effect, such as the
	// automatic follow-up not being opened.
	Warning string `json:"warning,omitempty"`
}

type ListValidationsRequest struct {
	PredictionID *uint  `json:"prediction_id"`
	PhysicianID  *uint  `json:"physician_id"`
	Status       string `json:"status"`
}
