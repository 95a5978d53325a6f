package usecase

import (
	"testing"
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type prescriptionFixture struct {
	usecase       PrescriptionUsecase
	prescriptions *fakePrescriptionRepo
	results       *fakeExamResultRepo
	visits        *fakeVisitRepo
	scheduled     *fakeScheduledExamRepo
	followUps     *fakeFollowUpRepo
	audit         *fakeAuditService
}

func newPrescriptionFixture(t *testing.T) *prescriptionFixture {
	t.Helper()

	prescriptions := &fakePrescriptionRepo{consultationPatients: map[uint]uint{}}
	results := &fakeExamResultRepo{}
	visits := &fakeVisitRepo{}
	scheduled := &fakeScheduledExamRepo{}
	followUps := &fakeFollowUpRepo{}
	audit := &fakeAuditService{}

	uc := NewPrescriptionUsecase(
		newTestDB(t),
		newTestLogger(),
		prescriptions,
		results,
		visits,
		scheduled,
		followUps,
		audit,
	)

	return &prescriptionFixture{
		usecase:       uc,
		prescriptions: prescriptions,
		results:       results,
		visits:        visits,
		scheduled:     scheduled,
		followUps:     followUps,
		audit:         audit,
	}
}

func (f *prescriptionFixture) seedPrescription(status entity.PrescriptionStatus) {
	f.prescriptions.prescriptions = append(f.prescriptions.prescriptions, entity.ExamPrescription{
		ID:               1,
		ConsultationID:   50,
		PhysicianID:      2,
		ReferenceCode:    "RX-20260310-ABC123",
		TargetedDiseases: entity.StringArray{"METABOLIC"},
		Status:           status,
	})
	f.prescriptions.nextID = 1
}

func TestRecordResults_PendingMovesToInProgress(t *testing.T) {
	f := newPrescriptionFixture(t)
	f.seedPrescription(entity.PrescriptionStatusPending)

	resp, err := f.usecase.RecordResults(ctxWithUser(2), 1, &dto.RecordResultsRequest{
		ClinicalData: map[string]interface{}{"glucose": 1.26, "hba1c": 7.1},
	})
	require.NoError(t, err)

	assert.Equal(t, "IN_PROGRESS", resp.Prescription.Status)
	assert.Equal(t, entity.PrescriptionStatusInProgress, f.prescriptions.byID(1).Status)

	// Visit anchored to the order's consultation, result binds the two.
	require.Len(t, f.visits.visits, 1)
	assert.Equal(t, uint(50), f.visits.visits[0].ConsultationID)
	require.Len(t, f.results.results, 1)
	assert.Equal(t, uint(1), f.results.results[0].PrescriptionID)
	assert.Equal(t, f.visits.visits[0].ID, f.results.results[0].VisitID)
}

func TestRecordResults_SecondRoundKeepsInProgress(t *testing.T) {
	f := newPrescriptionFixture(t)
	f.seedPrescription(entity.PrescriptionStatusInProgress)

	_, err := f.usecase.RecordResults(ctxWithUser(2), 1, &dto.RecordResultsRequest{
		ClinicalData: map[string]interface{}{"creatinine": 12.4},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.PrescriptionStatusInProgress, f.prescriptions.byID(1).Status)
}

func TestRecordResults_DoneRejectsNewResults(t *testing.T) {
	f := newPrescriptionFixture(t)
	f.seedPrescription(entity.PrescriptionStatusDone)

	_, err := f.usecase.RecordResults(ctxWithUser(2), 1, &dto.RecordResultsRequest{
		ClinicalData: map[string]interface{}{"glucose": 1.0},
	})
	assert.ErrorIs(t, err, ErrPrescriptionClosed)
	assert.Empty(t, f.visits.visits)
}

func TestRecordResults_NotFound(t *testing.T) {
	f := newPrescriptionFixture(t)

	_, err := f.usecase.RecordResults(ctxWithUser(2), 99, &dto.RecordResultsRequest{
		ClinicalData: map[string]interface{}{},
	})
	assert.ErrorIs(t, err, ErrPrescriptionNotFound)
}

func TestRecordResults_FulfillsScheduledExam(t *testing.T) {
	f := newPrescriptionFixture(t)
	f.seedPrescription(entity.PrescriptionStatusPending)

	f.followUps.followUps = append(f.followUps.followUps, entity.FollowUp{
		ID: 10, PatientID: 5, PhysicianID: 2, Disease: entity.DiseaseMetabolic,
		Status: entity.FollowUpStatusOngoing,
	})
	f.followUps.nextID = 10
	f.scheduled.exams = append(f.scheduled.exams, entity.ScheduledExam{
		ID: 7, FollowUpID: 10, PhysicianID: 2,
		DueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Disease: entity.DiseaseMetabolic, Status: entity.ScheduledExamStatusScheduled,
	})
	f.scheduled.exams = append(f.scheduled.exams, entity.ScheduledExam{
		ID: 8, FollowUpID: 10, PhysicianID: 2,
		DueDate: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC),
		Disease: entity.DiseaseMetabolic, Status: entity.ScheduledExamStatusScheduled,
	})
	f.scheduled.nextID = 8

	examID := uint(7)
	resp, err := f.usecase.RecordResults(ctxWithUser(2), 1, &dto.RecordResultsRequest{
		ClinicalData:    map[string]interface{}{"glucose": 1.26},
		ScheduledExamID: &examID,
	})
	require.NoError(t, err)

	exam := f.scheduled.examByID(7)
	assert.Equal(t, entity.ScheduledExamStatusDone, exam.Status)
	require.NotNil(t, exam.VisitID)
	assert.Equal(t, resp.VisitID, *exam.VisitID)

	events := f.scheduled.eventsFor(7)
	require.Len(t, events, 1)
	assert.Equal(t, entity.ExamAuditExamFulfilled, events[0].Kind)

	// Next-exam pointer advances to the remaining open reminder.
	followUp := f.followUps.byID(10)
	require.NotNil(t, followUp.NextExamDate)
	assert.Equal(t, "2026-12-01", followUp.NextExamDate.Format("2006-01-02"))
}

func TestRecordResults_LastExamClearsNextExamDate(t *testing.T) {
	f := newPrescriptionFixture(t)
	f.seedPrescription(entity.PrescriptionStatusInProgress)

	next := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	f.followUps.followUps = append(f.followUps.followUps, entity.FollowUp{
		ID: 10, PatientID: 5, PhysicianID: 2, Disease: entity.DiseaseMetabolic,
		Status: entity.FollowUpStatusOngoing, NextExamDate: &next,
	})
	f.followUps.nextID = 10
	f.scheduled.exams = append(f.scheduled.exams, entity.ScheduledExam{
		ID: 7, FollowUpID: 10, PhysicianID: 2, DueDate: next,
		Disease: entity.DiseaseMetabolic, Status: entity.ScheduledExamStatusScheduled,
	})
	f.scheduled.nextID = 7

	examID := uint(7)
	_, err := f.usecase.RecordResults(ctxWithUser(2), 1, &dto.RecordResultsRequest{
		ClinicalData:    map[string]interface{}{"glucose": 1.1},
		ScheduledExamID: &examID,
	})
	require.NoError(t, err)

	followUp := f.followUps.byID(10)
	assert.Nil(t, followUp.NextExamDate)
}

func TestRecordResults_AlreadyFulfilledExamTolerated(t *testing.T) {
	f := newPrescriptionFixture(t)
	f.seedPrescription(entity.PrescriptionStatusInProgress)

	visitID := uint(55)
	f.scheduled.exams = append(f.scheduled.exams, entity.ScheduledExam{
		ID: 7, FollowUpID: 10, PhysicianID: 2,
		DueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Disease: entity.DiseaseMetabolic, Status: entity.ScheduledExamStatusDone, VisitID: &visitID,
	})
	f.scheduled.nextID = 7

	examID := uint(7)
	resp, err := f.usecase.RecordResults(ctxWithUser(2), 1, &dto.RecordResultsRequest{
		ClinicalData:    map[string]interface{}{"glucose": 1.1},
		ScheduledExamID: &examID,
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.VisitID)

	// The old binding is untouched.
	exam := f.scheduled.examByID(7)
	assert.Equal(t, visitID, *exam.VisitID)
}
