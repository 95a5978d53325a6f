package dto

type CreateFollowUpRequest struct {
	PatientID          uint   `json:"patient_id" validate:"required"`
	Disease            string `json:"disease" validate:"required,oneof=METABOLIC RENAL CARDIOVASCULAR RESPIRATORY_IMAGING"`
	OriginPredictionID *uint  `json:"origin_prediction_id" validate:"omitempty"`
	Treatment          string `json:"treatment" validate:"omitempty"`
	Recommendations    string `json:"recommendations" validate:"omitempty"`
	NextExamDate       string `json:"next_exam_date" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateFollowUpRequest struct {
	Status          *string `json:"status" validate:"omitempty,oneof=ONGOING IMPROVING STABLE WORSENING HEALED STOPPED"`
	Treatment       *string `json:"treatment" validate:"omitempty"`
	Recommendations *string `json:"recommendations" validate:"omitempty"`
	EvolutionNotes  *string `json:"evolution_notes" validate:"omitempty"`
	NextExamDate    *string `json:"next_exam_date" validate:"omitempty,datetime=2006-01-02"`
	HealedAt        *string `json:"healed_at" validate:"omitempty,datetime=2006-01-02"`
}

type ScheduleExamRequest struct {
	DueDate string `json:"due_date" validate:"required,datetime=2006-01-02"`
	Reason  string `json:"reason" validate:"omitempty"`
}

type FollowUpResponse struct {
	ID                 uint             `json:"id"`
	PatientID          uint             `json:"patient_id"`
	PhysicianID        uint             `json:"physician_id"`
	Disease            string           `json:"disease"`
	OriginPredictionID *uint            `json:"origin_prediction_id,omitempty"`
	Status             string           `json:"status"`
	Treatment          string           `json:"treatment,omitempty"`
	Recommendations    string           `json:"recommendations,omitempty"`
	EvolutionNotes     string           `json:"evolution_notes,omitempty"`
	StartedAt          string           `json:"started_at"`
	NextExamDate       *string          `json:"next_exam_date,omitempty"`
	HealedAt           *string          `json:"healed_at,omitempty"`
	Patient            *PatientResponse `json:"patient,omitempty"`
}

type ScheduledExamResponse struct {
	ID          uint   `json:"id"`
	FollowUpID  uint   `json:"follow_up_id"`
	PhysicianID uint   `json:"physician_id"`
	DueDate     string `json:"due_date"`
	Disease     string `json:"disease"`
	Reason      string `json:"reason,omitempty"`
	Status      string `json:"status"`
	VisitID     *uint  `json:"visit_id,omitempty"`
	Notes       string `json:"notes,omitempty"`
}
