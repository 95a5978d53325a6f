package usecase

import (
	"testing"
	"time"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type followUpFixture struct {
	usecase   FollowUpUsecase
	followUps *fakeFollowUpRepo
	scheduled *fakeScheduledExamRepo
	patients  *fakePatientRepo
	audit     *fakeAuditService
}

func newFollowUpFixture(t *testing.T) *followUpFixture {
	t.Helper()

	followUps := &fakeFollowUpRepo{}
	scheduled := &fakeScheduledExamRepo{}
	patients := &fakePatientRepo{}
	audit := &fakeAuditService{}

	uc := NewFollowUpUsecase(
		newTestDB(t),
		newTestLogger(),
		followUps,
		scheduled,
		patients,
		audit,
	)

	return &followUpFixture{
		usecase:   uc,
		followUps: followUps,
		scheduled: scheduled,
		patients:  patients,
		audit:     audit,
	}
}

func (f *followUpFixture) seedPatient(id uint) {
	f.patients.patients = append(f.patients.patients, entity.Patient{
		ID: id, FirstName: "Awa", LastName: "Diallo", Sex: entity.SexFemale,
		BirthDate: time.Date(1984, 6, 2, 0, 0, 0, 0, time.UTC),
	})
}

func (f *followUpFixture) seedFollowUp(id, patientID uint, disease entity.Disease, status entity.FollowUpStatus) {
	f.followUps.followUps = append(f.followUps.followUps, entity.FollowUp{
		ID: id, PatientID: patientID, PhysicianID: 2, Disease: disease,
		Status: status, StartedAt: time.Now().UTC().AddDate(0, -1, 0),
	})
	if id > f.followUps.nextID {
		f.followUps.nextID = id
	}
}

func TestCreateFollowUp_Success(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedPatient(5)

	resp, err := f.usecase.CreateFollowUp(ctxWithUser(2), &dto.CreateFollowUpRequest{
		PatientID:    5,
		Disease:      "METABOLIC",
		Treatment:    "Metformin 500mg",
		NextExamDate: "2026-10-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "ONGOING", resp.Status)
	assert.Equal(t, uint(5), resp.PatientID)
	require.NotNil(t, resp.NextExamDate)
	assert.Equal(t, "2026-10-01", *resp.NextExamDate)
	require.Len(t, f.audit.actions, 1)
	assert.Equal(t, entity.AuditActionFollowUpCreate, f.audit.actions[0].Action)
}

func TestCreateFollowUp_DuplicateActiveConflict(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedPatient(5)
	f.seedFollowUp(1, 5, entity.DiseaseMetabolic, entity.FollowUpStatusWorsening)

	_, err := f.usecase.CreateFollowUp(ctxWithUser(2), &dto.CreateFollowUpRequest{
		PatientID: 5,
		Disease:   "METABOLIC",
	})
	assert.ErrorIs(t, err, ErrDuplicateActiveFollowUp)
	assert.Len(t, f.followUps.followUps, 1)
}

func TestCreateFollowUp_HealedDoesNotBlockNewOne(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedPatient(5)
	f.seedFollowUp(1, 5, entity.DiseaseMetabolic, entity.FollowUpStatusHealed)

	resp, err := f.usecase.CreateFollowUp(ctxWithUser(2), &dto.CreateFollowUpRequest{
		PatientID: 5,
		Disease:   "METABOLIC",
	})
	require.NoError(t, err)
	assert.Equal(t, "ONGOING", resp.Status)
	assert.Len(t, f.followUps.followUps, 2)
}

func TestCreateFollowUp_PatientNotFound(t *testing.T) {
	f := newFollowUpFixture(t)

	_, err := f.usecase.CreateFollowUp(ctxWithUser(2), &dto.CreateFollowUpRequest{
		PatientID: 99,
		Disease:   "RENAL",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestUpdateFollowUp_NotFound(t *testing.T) {
	f := newFollowUpFixture(t)

	status := "STABLE"
	_, err := f.usecase.UpdateFollowUp(ctxWithUser(2), 99, &dto.UpdateFollowUpRequest{Status: &status})
	assert.ErrorIs(t, err, ErrFollowUpNotFound)
}

func TestUpdateFollowUp_TerminalRejectsChanges(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedFollowUp(1, 5, entity.DiseaseRenal, entity.FollowUpStatusStopped)

	notes := "attempted edit"
	_, err := f.usecase.UpdateFollowUp(ctxWithUser(2), 1, &dto.UpdateFollowUpRequest{EvolutionNotes: &notes})
	assert.ErrorIs(t, err, ErrFollowUpTerminal)
}

func TestUpdateFollowUp_HealedStatusStampsHealingDate(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedFollowUp(1, 5, entity.DiseaseRenal, entity.FollowUpStatusImproving)

	status := "HEALED"
	resp, err := f.usecase.UpdateFollowUp(ctxWithUser(2), 1, &dto.UpdateFollowUpRequest{Status: &status})
	require.NoError(t, err)

	assert.Equal(t, "HEALED", resp.Status)
	require.NotNil(t, resp.HealedAt)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), *resp.HealedAt)

	stored := f.followUps.byID(1)
	assert.Equal(t, entity.FollowUpStatusHealed, stored.Status)
	assert.NotNil(t, stored.HealedAt)
}

func TestUpdateFollowUp_HealingDateImpliesHealedStatus(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedFollowUp(1, 5, entity.DiseaseRenal, entity.FollowUpStatusImproving)

	healedAt := "2026-08-15"
	resp, err := f.usecase.UpdateFollowUp(ctxWithUser(2), 1, &dto.UpdateFollowUpRequest{HealedAt: &healedAt})
	require.NoError(t, err)

	assert.Equal(t, "HEALED", resp.Status)
	require.NotNil(t, resp.HealedAt)
	assert.Equal(t, "2026-08-15", *resp.HealedAt)
}

func TestUpdateFollowUp_ExplicitStatusWinsOverHealingDate(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedFollowUp(1, 5, entity.DiseaseRenal, entity.FollowUpStatusImproving)

	// A healing date recorded alongside an explicit status must not
	// override that status.
	status := "STABLE"
	healedAt := "2026-01-15"
	resp, err := f.usecase.UpdateFollowUp(ctxWithUser(2), 1, &dto.UpdateFollowUpRequest{
		Status:   &status,
		HealedAt: &healedAt,
	})
	require.NoError(t, err)

	assert.Equal(t, "STABLE", resp.Status)
	require.NotNil(t, resp.HealedAt)
	assert.Equal(t, "2026-01-15", *resp.HealedAt)
}

func TestUpdateFollowUp_PartialUpdateKeepsOtherFields(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedFollowUp(1, 5, entity.DiseaseCardiovascular, entity.FollowUpStatusOngoing)
	f.followUps.followUps[0].Treatment = "Beta blockers"

	notes := "BP trending down"
	resp, err := f.usecase.UpdateFollowUp(ctxWithUser(2), 1, &dto.UpdateFollowUpRequest{EvolutionNotes: &notes})
	require.NoError(t, err)

	assert.Equal(t, "Beta blockers", resp.Treatment)
	assert.Equal(t, "BP trending down", resp.EvolutionNotes)
	assert.Equal(t, "ONGOING", resp.Status)
}

func TestScheduleExam_RefreshesNextExamDate(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedFollowUp(1, 5, entity.DiseaseMetabolic, entity.FollowUpStatusOngoing)

	resp, err := f.usecase.ScheduleExam(ctxWithUser(2), 1, &dto.ScheduleExamRequest{
		DueDate: "2026-11-15",
		Reason:  "HbA1c control",
	})
	require.NoError(t, err)

	assert.Equal(t, "2026-11-15", resp.DueDate)
	assert.Equal(t, "METABOLIC", resp.Disease)
	assert.Equal(t, "SCHEDULED", resp.Status)

	stored := f.followUps.byID(1)
	require.NotNil(t, stored.NextExamDate)
	assert.Equal(t, "2026-11-15", stored.NextExamDate.Format("2006-01-02"))

	// An earlier exam pulls the pointer back.
	_, err = f.usecase.ScheduleExam(ctxWithUser(2), 1, &dto.ScheduleExamRequest{
		DueDate: "2026-09-20",
	})
	require.NoError(t, err)

	stored = f.followUps.byID(1)
	require.NotNil(t, stored.NextExamDate)
	assert.Equal(t, "2026-09-20", stored.NextExamDate.Format("2006-01-02"))
}

func TestScheduleExam_TerminalFollowUpRejected(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedFollowUp(1, 5, entity.DiseaseMetabolic, entity.FollowUpStatusHealed)

	_, err := f.usecase.ScheduleExam(ctxWithUser(2), 1, &dto.ScheduleExamRequest{DueDate: "2026-11-15"})
	assert.ErrorIs(t, err, ErrFollowUpTerminal)
	assert.Empty(t, f.scheduled.exams)
}

func TestScheduleExam_InvalidDate(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedFollowUp(1, 5, entity.DiseaseMetabolic, entity.FollowUpStatusOngoing)

	_, err := f.usecase.ScheduleExam(ctxWithUser(2), 1, &dto.ScheduleExamRequest{DueDate: "15/11/2026"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestListExams_IncludesAuditTrail(t *testing.T) {
	f := newFollowUpFixture(t)
	f.seedFollowUp(1, 5, entity.DiseaseRenal, entity.FollowUpStatusOngoing)

	prescriptionID := uint(42)
	f.scheduled.exams = append(f.scheduled.exams, entity.ScheduledExam{
		ID: 7, FollowUpID: 1, PhysicianID: 2,
		DueDate: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Disease: entity.DiseaseRenal, Status: entity.ScheduledExamStatusScheduled,
	})
	f.scheduled.events = append(f.scheduled.events, entity.ExamAuditEvent{
		ID: 1, ScheduledExamID: 7, Kind: entity.ExamAuditOrderCreated,
		ReferenceID: &prescriptionID,
		CreatedAt:   time.Date(2026, 9, 1, 6, 0, 0, 0, time.UTC),
	})

	exams, err := f.usecase.ListExams(ctxWithUser(2), 1)
	require.NoError(t, err)

	require.Len(t, exams, 1)
	assert.Contains(t, exams[0].Notes, "prescription #42")
}

func TestListExams_FollowUpNotFound(t *testing.T) {
	f := newFollowUpFixture(t)

	_, err := f.usecase.ListExams(ctxWithUser(2), 99)
	assert.ErrorIs(t, err, ErrFollowUpNotFound)
}
