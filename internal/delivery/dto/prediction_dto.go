package dto

type CreatePredictionRequest struct {
	VisitID uint   `json:"visit_id" validate:"required"`
	Disease string `json:"disease" validate:"required,oneof=METABOLIC RENAL CARDIOVASCULAR RESPIRATORY_IMAGING"`
}

type PredictionResponse struct {
	ID                   uint                 `json:"id"`
	VisitID              uint                 `json:"visit_id"`
	Disease              string               `json:"disease"`
	Probability          float64              `json:"probability"`
	Threshold            float64              `json:"threshold"`
	Positive             bool                 `json:"positive"`
	ConfidenceLabel      string               `json:"confidence_label,omitempty"`
	ContributingFeatures []string             `json:"contributing_features,omitempty"`
	Interpretation       string               `json:"interpretation,omitempty"`
	Recommendation       string               `json:"recommendation,omitempty"`
	PredictedAt          string               `json:"predicted_at"`
	Validations          []ValidationResponse `json:"validations,omitempty"`
}
