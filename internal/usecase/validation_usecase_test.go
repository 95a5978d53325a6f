package usecase

import (
	"errors"
	"testing"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationFixture struct {
	usecase       ValidationUsecase
	validations   *fakeValidationRepo
	predictions   *fakePredictionRepo
	users         *fakeUserRepo
	results       *fakeExamResultRepo
	prescriptions *fakePrescriptionRepo
	followUps     *fakeFollowUpRepo
	audit         *fakeAuditService
}

func newValidationFixture(t *testing.T) *validationFixture {
	t.Helper()

	validations := &fakeValidationRepo{}
	predictions := &fakePredictionRepo{}
	users := &fakeUserRepo{}
	results := &fakeExamResultRepo{}
	prescriptions := &fakePrescriptionRepo{consultationPatients: map[uint]uint{}}
	followUps := &fakeFollowUpRepo{}
	audit := &fakeAuditService{}

	uc := NewValidationUsecase(
		newTestDB(t),
		newTestLogger(),
		validations,
		predictions,
		users,
		results,
		prescriptions,
		followUps,
		audit,
	)

	return &validationFixture{
		usecase:       uc,
		validations:   validations,
		predictions:   predictions,
		users:         users,
		results:       results,
		prescriptions: prescriptions,
		followUps:     followUps,
		audit:         audit,
	}
}

func (f *validationFixture) seedPhysician(id uint, role entity.Role) {
	f.users.users = append(f.users.users, entity.User{
		ID: id, Email: "doc@clinic.test", Role: role,
	})
}

// seedOrderBoundVisit wires prescription 1 -> result -> visit 100 with
// the given predictions, mirroring the preloaded aggregate.
func (f *validationFixture) seedOrderBoundVisit(patientID uint, predictions ...entity.Prediction) {
	f.prescriptions.prescriptions = append(f.prescriptions.prescriptions, entity.ExamPrescription{
		ID:               1,
		ConsultationID:   50,
		PhysicianID:      2,
		ReferenceCode:    "RX-20260310-ABC123",
		TargetedDiseases: entity.StringArray{"METABOLIC", "RENAL"},
		Status:           entity.PrescriptionStatusInProgress,
	})
	f.prescriptions.nextID = 1
	f.prescriptions.consultationPatients[50] = patientID

	visit := entity.Visit{
		ID:             100,
		ConsultationID: 50,
		Consultation:   entity.Consultation{ID: 50, PatientID: patientID, PhysicianID: 2},
		Predictions:    predictions,
	}
	f.results.results = append(f.results.results, entity.ExamResult{
		ID:             1,
		PrescriptionID: 1,
		VisitID:        100,
		Visit:          visit,
	})

	for _, p := range predictions {
		p.Visit = visit
		f.predictions.predictions = append(f.predictions.predictions, p)
	}
}

func TestCreateValidation_PartialAggregateStaysOpen(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.seedOrderBoundVisit(5,
		entity.Prediction{ID: 1, VisitID: 100, Disease: entity.DiseaseMetabolic, Probability: 0.82, Threshold: 0.5},
		entity.Prediction{ID: 2, VisitID: 100, Disease: entity.DiseaseRenal, Probability: 0.31, Threshold: 0.5},
	)

	resp, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 1,
		Status:       "VALIDATED",
	})
	require.NoError(t, err)
	assert.Equal(t, "VALIDATED", resp.Status)

	// The renal prediction is still unsettled, so the order stays open.
	assert.Equal(t, entity.PrescriptionStatusInProgress, f.prescriptions.byID(1).Status)
}

func TestCreateValidation_AllSettledCompletesOrder(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.seedOrderBoundVisit(5,
		entity.Prediction{
			ID: 1, VisitID: 100, Disease: entity.DiseaseMetabolic, Probability: 0.82, Threshold: 0.5,
			Validations: []entity.Validation{{ID: 1, PredictionID: 1, Status: entity.ValidationStatusValidated}},
		},
		entity.Prediction{ID: 2, VisitID: 100, Disease: entity.DiseaseRenal, Probability: 0.31, Threshold: 0.5},
	)

	// Rejecting the remaining prediction settles the whole aggregate.
	// The triggering validation counts even though the stored aggregate
	// predates it.
	_, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 2,
		Status:       "REJECTED",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PrescriptionStatusDone, f.prescriptions.byID(1).Status)
}

func TestCreateValidation_PendingDoesNotSettle(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.seedOrderBoundVisit(5,
		entity.Prediction{ID: 1, VisitID: 100, Disease: entity.DiseaseMetabolic, Probability: 0.82, Threshold: 0.5},
	)

	_, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 1,
		Status:       "PENDING",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PrescriptionStatusInProgress, f.prescriptions.byID(1).Status)
}

func TestCreateValidation_DoneIsMonotonic(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.seedOrderBoundVisit(5,
		entity.Prediction{ID: 1, VisitID: 100, Disease: entity.DiseaseMetabolic, Probability: 0.82, Threshold: 0.5},
	)
	f.prescriptions.prescriptions[0].Status = entity.PrescriptionStatusDone

	_, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 1,
		Status:       "PENDING",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PrescriptionStatusDone, f.prescriptions.byID(1).Status)
}

func TestCreateValidation_VisitNotOrderBound(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.predictions.predictions = append(f.predictions.predictions, entity.Prediction{
		ID: 1, VisitID: 200, Disease: entity.DiseaseMetabolic, Probability: 0.9, Threshold: 0.5,
		Visit: entity.Visit{ID: 200, ConsultationID: 60, Consultation: entity.Consultation{ID: 60, PatientID: 5}},
	})

	resp, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 1,
		Status:       "VALIDATED",
	})
	require.NoError(t, err)
	assert.Equal(t, "VALIDATED", resp.Status)
	assert.Len(t, f.validations.validations, 1)
}

func TestCreateValidation_EvaluatorFailureDoesNotFailValidation(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.seedOrderBoundVisit(5,
		entity.Prediction{ID: 1, VisitID: 100, Disease: entity.DiseaseMetabolic, Probability: 0.82, Threshold: 0.5},
	)
	f.prescriptions.findForUpdateErr = errors.New("lock timeout")

	resp, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 1,
		Status:       "VALIDATED",
	})
	require.NoError(t, err)
	assert.Equal(t, "VALIDATED", resp.Status)
	assert.Len(t, f.validations.validations, 1)
}

func TestCreateValidation_ValidatedOpensFollowUp(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.seedOrderBoundVisit(5,
		entity.Prediction{ID: 1, VisitID: 100, Disease: entity.DiseaseMetabolic, Probability: 0.82, Threshold: 0.5},
	)

	resp, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID:   1,
		Status:         "VALIDATED",
		Comment:        "recheck in three months",
		FinalDiagnosis: "type 2 diabetes",
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Warning)

	require.Len(t, f.followUps.followUps, 1)
	followUp := f.followUps.followUps[0]
	assert.Equal(t, uint(5), followUp.PatientID)
	assert.Equal(t, entity.DiseaseMetabolic, followUp.Disease)
	assert.Equal(t, entity.FollowUpStatusOngoing, followUp.Status)
	assert.Equal(t, "type 2 diabetes", followUp.Treatment)
	assert.Equal(t, "recheck in three months", followUp.Recommendations)
	require.NotNil(t, followUp.OriginPredictionID)
	assert.Equal(t, uint(1), *followUp.OriginPredictionID)
}

func TestCreateValidation_FollowUpFailureSurfacesWarning(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.seedOrderBoundVisit(5,
		entity.Prediction{ID: 1, VisitID: 100, Disease: entity.DiseaseMetabolic, Probability: 0.82, Threshold: 0.5},
	)
	f.followUps.createErr = errors.New("insert failed")

	resp, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 1,
		Status:       "VALIDATED",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Warning)
	assert.Empty(t, f.followUps.followUps)
}

func TestCreateValidation_RejectedDoesNotOpenFollowUp(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.seedOrderBoundVisit(5,
		entity.Prediction{ID: 1, VisitID: 100, Disease: entity.DiseaseMetabolic, Probability: 0.82, Threshold: 0.5},
	)

	_, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 1,
		Status:       "REJECTED",
	})
	require.NoError(t, err)
	assert.Empty(t, f.followUps.followUps)
}

func TestCreateValidation_ActiveFollowUpNotDuplicated(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)
	f.seedOrderBoundVisit(5,
		entity.Prediction{ID: 1, VisitID: 100, Disease: entity.DiseaseMetabolic, Probability: 0.82, Threshold: 0.5},
	)
	f.followUps.followUps = append(f.followUps.followUps, entity.FollowUp{
		ID: 30, PatientID: 5, Disease: entity.DiseaseMetabolic, Status: entity.FollowUpStatusOngoing,
	})
	f.followUps.nextID = 30

	_, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 1,
		Status:       "VALIDATED",
	})
	require.NoError(t, err)
	assert.Len(t, f.followUps.followUps, 1)
}

func TestCreateValidation_RoleEnforcement(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleInfirmier)

	_, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 1,
		Status:       "VALIDATED",
	})
	assert.ErrorIs(t, err, ErrValidationNotPermitted)
}

func TestCreateValidation_PredictionNotFound(t *testing.T) {
	f := newValidationFixture(t)
	f.seedPhysician(2, entity.RoleMedecin)

	_, err := f.usecase.CreateValidation(ctxWithUser(2), &dto.CreateValidationRequest{
		PredictionID: 99,
		Status:       "VALIDATED",
	})
	assert.ErrorIs(t, err, ErrPredictionNotFound)
}

func TestListValidations_FilterByPrediction(t *testing.T) {
	f := newValidationFixture(t)
	f.validations.validations = []entity.Validation{
		{ID: 1, PredictionID: 1, PhysicianID: 2, Status: entity.ValidationStatusValidated},
		{ID: 2, PredictionID: 2, PhysicianID: 2, Status: entity.ValidationStatusRejected},
	}

	predictionID := uint(2)
	out, err := f.usecase.ListValidations(ctxWithUser(2), &dto.ListValidationsRequest{PredictionID: &predictionID})
	require.NoError(t, err)

	require.Len(t, out, 1)
	assert.Equal(t, "REJECTED", out[0].Status)
}
