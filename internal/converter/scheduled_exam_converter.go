package converter

import (
	"fmt"
	"strings"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
)

func ScheduledExamToResponse(exam *entity.ScheduledExam) dto.ScheduledExamResponse {
	return dto.ScheduledExamResponse{
		ID:          exam.ID,
		FollowUpID:  exam.FollowUpID,
		PhysicianID: exam.PhysicianID,
		DueDate:     exam.DueDate.Format("2006-01-02"),
		Disease:     string(exam.Disease),
		Reason:      exam.Reason,
		Status:      string(exam.Status),
		VisitID:     exam.VisitID,
		Notes:       AuditEventsToNotes(exam.AuditEvents),
	}
}

func ScheduledExamsToResponses(exams []entity.ScheduledExam) []dto.ScheduledExamResponse {
	responses := make([]dto.ScheduledExamResponse, 0, len(exams))
	for i := range exams {
		responses = append(responses, ScheduledExamToResponse(&exams[i]))
	}
	return responses
}

// AuditEventsToNotes renders the structured audit trail as a readable
// text block, one line per event, oldest first. The trail itself stays
// structured in storage; this rendering exists only for display.
func AuditEventsToNotes(events []entity.ExamAuditEvent) string {
	if len(events) == 0 {
		return ""
	}

	lines := make([]string, 0, len(events))
	for _, event := range events {
		line := fmt.Sprintf("[%s] %s", event.CreatedAt.Format("2006-01-02"), describeAuditEvent(event))
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func describeAuditEvent(event entity.ExamAuditEvent) string {
	switch event.Kind {
	case entity.ExamAuditOrderCreated:
		if event.ReferenceID != nil {
			return fmt.Sprintf("Exam order created automatically (prescription #%d)", *event.ReferenceID)
		}
		return "Exam order created automatically"
	case entity.ExamAuditExamFulfilled:
		if event.ReferenceID != nil {
			return fmt.Sprintf("Exam performed, results recorded on visit #%d", *event.ReferenceID)
		}
		return "Exam performed, results recorded"
	default:
		if event.Note != "" {
			return event.Note
		}
		return event.Kind
	}
}

func CandidateToResponse(exam *entity.ScheduledExam) dto.CandidateResponse {
	resp := dto.CandidateResponse{
		ScheduledExamID: exam.ID,
		FollowUpID:      exam.FollowUpID,
		PatientID:       exam.FollowUp.PatientID,
		PhysicianID:     exam.PhysicianID,
		Disease:         string(exam.Disease),
		DueDate:         exam.DueDate.Format("2006-01-02"),
		Reason:          exam.Reason,
	}
	if exam.FollowUp.Patient.ID != 0 {
		resp.PatientName = strings.TrimSpace(exam.FollowUp.Patient.FirstName + " " + exam.FollowUp.Patient.LastName)
	}
	return resp
}

func CandidatesToResponses(exams []entity.ScheduledExam) []dto.CandidateResponse {
	responses := make([]dto.CandidateResponse, 0, len(exams))
	for i := range exams {
		responses = append(responses, CandidateToResponse(&exams[i]))
	}
	return responses
}
