package dto

type PrescriptionResponse struct {
	ID               uint     `json:"id"`
	ConsultationID   uint     `json:"consultation_id"`
	PhysicianID      uint     `json:"physician_id"`
	ReferenceCode    string   `json:"reference_code"`
	TargetedDiseases []string `json:"targeted_diseases"`
	Comment          string   `json:"comment,omitempty"`
	Status           string   `json:"status"`
	PrescribedAt     string   `json:"prescribed_at"`
}

type RecordResultsRequest struct {
	ClinicalData    map[string]interface{} `json:"clinical_data" validate:"required"`
	ScheduledExamID *uint                  `json:"scheduled_exam_id" validate:"omitempty"`
	RecordedAt      string                 `json:"recorded_at" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type RecordResultsResponse struct {
	Prescription PrescriptionResponse `json:"prescription"`
	VisitID      uint                 `json:"visit_id"`
	ExamResultID uint                 `json:"exam_result_id"`
}
