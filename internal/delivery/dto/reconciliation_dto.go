package dto

type ReconcileRequest struct {
	ReferenceDate string `json:"reference_date" validate:"omitempty,datetime=2006-01-02"`
	PhysicianID   *uint  `json:"physician_id" validate:"omitempty"`
}

type OrderSummary struct {
	ScheduledExamID uint   `json:"scheduled_exam_id"`
	FollowUpID      uint   `json:"follow_up_id"`
	PatientID       uint   `json:"patient_id"`
	Disease         string `json:"disease"`
	ConsultationID  uint   `json:"consultation_id"`
	PrescriptionID  uint   `json:"prescription_id"`
	ReferenceCode   string `json:"reference_code"`
	ReusedExisting  bool   `json:"reused_existing_consultation"`
}

type ReconcileResponse struct {
	ReferenceDate   string         `json:"reference_date"`
	ConsideredCount int            `json:"considered_count"`
	SkippedCount    int            `json:"skipped_count"`
	Created         []OrderSummary `json:"created"`
}

type CandidateResponse struct {
	ScheduledExamID uint   `json:"scheduled_exam_id"`
	FollowUpID      uint   `json:"follow_up_id"`
	PatientID       uint   `json:"patient_id"`
	PatientName     string `json:"patient_name"`
	PhysicianID     uint   `json:"physician_id"`
	Disease         string `json:"disease"`
	DueDate         string `json:"due_date"`
	Reason          string `json:"reason,omitempty"`
}
