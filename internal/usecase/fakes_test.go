package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"clinical-followup-platform/internal/delivery/http/middleware"
	"clinical-followup-platform/internal/domain/entity"
	"clinical-followup-platform/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a gorm handle backed by sqlmock. The in-memory
// repository fakes ignore the handle, so the mock only has to answer
// transaction control calls; expectations are generous and unordered.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 32; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func ctxWithUser(userID uint) context.Context {
	return context.WithValue(context.Background(), middleware.UserIDKey, userID)
}

// --- scheduled exam fake ---

type fakeScheduledExamRepo struct {
	exams  []entity.ScheduledExam
	events []entity.ExamAuditEvent
	nextID uint

	appendEventErr       error
	appendEventErrExamID uint
	markDoneErr          error
}

func (f *fakeScheduledExamRepo) Create(_ *gorm.DB, exam *entity.ScheduledExam) error {
	f.nextID++
	exam.ID = f.nextID
	if exam.CreatedAt.IsZero() {
		exam.CreatedAt = time.Now().UTC()
	}
	f.exams = append(f.exams, *exam)
	return nil
}

func (f *fakeScheduledExamRepo) FindByID(_ *gorm.DB, id uint) (*entity.ScheduledExam, error) {
	for i := range f.exams {
		if f.exams[i].ID == id {
			exam := f.exams[i]
			return &exam, nil
		}
	}
	return nil, nil
}

func (f *fakeScheduledExamRepo) FindDue(_ *gorm.DB, filter entity.DueExamFilter) ([]entity.ScheduledExam, error) {
	var due []entity.ScheduledExam
	for _, exam := range f.exams {
		if exam.Status != entity.ScheduledExamStatusScheduled {
			continue
		}
		if exam.DueDate.After(filter.ReferenceDate) {
			continue
		}
		if filter.PhysicianID != nil && exam.PhysicianID != *filter.PhysicianID {
			continue
		}
		due = append(due, exam)
	}
	return due, nil
}

func (f *fakeScheduledExamRepo) FindByFollowUpID(_ *gorm.DB, followUpID uint, status entity.ScheduledExamStatus) ([]entity.ScheduledExam, error) {
	var out []entity.ScheduledExam
	for _, exam := range f.exams {
		if exam.FollowUpID != followUpID {
			continue
		}
		if status != "" && exam.Status != status {
			continue
		}
		out = append(out, exam)
	}
	return out, nil
}

func (f *fakeScheduledExamRepo) FindNextScheduled(_ *gorm.DB, followUpID uint) (*entity.ScheduledExam, error) {
	var next *entity.ScheduledExam
	for i := range f.exams {
		exam := &f.exams[i]
		if exam.FollowUpID != followUpID || exam.Status != entity.ScheduledExamStatusScheduled {
			continue
		}
		if next == nil || exam.DueDate.Before(next.DueDate) {
			next = exam
		}
	}
	if next == nil {
		return nil, nil
	}
	found := *next
	return &found, nil
}

func (f *fakeScheduledExamRepo) MarkDone(_ *gorm.DB, id uint, visitID uint) error {
	if f.markDoneErr != nil {
		return f.markDoneErr
	}
	for i := range f.exams {
		if f.exams[i].ID == id {
			f.exams[i].Status = entity.ScheduledExamStatusDone
			f.exams[i].VisitID = &visitID
			return nil
		}
	}
	return errors.New("scheduled exam not found")
}

func (f *fakeScheduledExamRepo) AppendAuditEvent(_ *gorm.DB, event *entity.ExamAuditEvent) error {
	if f.appendEventErr != nil && (f.appendEventErrExamID == 0 || event.ScheduledExamID == f.appendEventErrExamID) {
		return f.appendEventErr
	}
	event.ID = uint(len(f.events) + 1)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeScheduledExamRepo) FindAuditEvents(_ *gorm.DB, scheduledExamID uint) ([]entity.ExamAuditEvent, error) {
	var out []entity.ExamAuditEvent
	for _, event := range f.events {
		if event.ScheduledExamID == scheduledExamID {
			out = append(out, event)
		}
	}
	return out, nil
}

func (f *fakeScheduledExamRepo) eventsFor(id uint) []entity.ExamAuditEvent {
	events, _ := f.FindAuditEvents(nil, id)
	return events
}

func (f *fakeScheduledExamRepo) examByID(id uint) *entity.ScheduledExam {
	exam, _ := f.FindByID(nil, id)
	return exam
}

// --- prescription fake ---

type fakePrescriptionRepo struct {
	prescriptions []entity.ExamPrescription
	// consultationPatients maps consultation ID to patient ID so the
	// dedup lookup can resolve ownership the way the SQL join does.
	consultationPatients map[uint]uint
	nextID               uint

	createErr        error
	findForUpdateErr error
}

func (f *fakePrescriptionRepo) Create(_ *gorm.DB, prescription *entity.ExamPrescription) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	prescription.ID = f.nextID
	if prescription.PrescribedAt.IsZero() {
		prescription.PrescribedAt = time.Now().UTC()
	}
	f.prescriptions = append(f.prescriptions, *prescription)
	return nil
}

func (f *fakePrescriptionRepo) FindByID(_ *gorm.DB, id uint) (*entity.ExamPrescription, error) {
	for i := range f.prescriptions {
		if f.prescriptions[i].ID == id {
			p := f.prescriptions[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePrescriptionRepo) FindByIDForUpdate(db *gorm.DB, id uint) (*entity.ExamPrescription, error) {
	if f.findForUpdateErr != nil {
		return nil, f.findForUpdateErr
	}
	return f.FindByID(db, id)
}

func (f *fakePrescriptionRepo) FindAll(_ *gorm.DB, filter entity.PrescriptionFilter) ([]entity.ExamPrescription, error) {
	var out []entity.ExamPrescription
	for _, p := range f.prescriptions {
		if filter.PhysicianID != nil && p.PhysicianID != *filter.PhysicianID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePrescriptionRepo) FindRecentActive(_ *gorm.DB, patientID uint, disease entity.Disease, since, until time.Time) (*entity.ExamPrescription, error) {
	for i := range f.prescriptions {
		p := &f.prescriptions[i]
		if !p.IsOpen() {
			continue
		}
		if f.consultationPatients[p.ConsultationID] != patientID {
			continue
		}
		if p.PrescribedAt.Before(since) || p.PrescribedAt.After(until) {
			continue
		}
		for _, d := range p.TargetedDiseases {
			if d == string(disease) {
				found := *p
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (f *fakePrescriptionRepo) UpdateStatus(_ *gorm.DB, id uint, status entity.PrescriptionStatus) error {
	for i := range f.prescriptions {
		if f.prescriptions[i].ID == id {
			f.prescriptions[i].Status = status
			return nil
		}
	}
	return errors.New("prescription not found")
}

func (f *fakePrescriptionRepo) byID(id uint) *entity.ExamPrescription {
	p, _ := f.FindByID(nil, id)
	return p
}

// --- consultation fake ---

type fakeConsultationRepo struct {
	consultations []entity.Consultation
	nextID        uint
}

func (f *fakeConsultationRepo) Create(_ *gorm.DB, consultation *entity.Consultation) error {
	f.nextID++
	consultation.ID = f.nextID
	f.consultations = append(f.consultations, *consultation)
	return nil
}

func (f *fakeConsultationRepo) FindByID(_ *gorm.DB, id uint) (*entity.Consultation, error) {
	for i := range f.consultations {
		if f.consultations[i].ID == id {
			c := f.consultations[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeConsultationRepo) FindByPatientID(_ *gorm.DB, patientID uint) ([]entity.Consultation, error) {
	var out []entity.Consultation
	for _, c := range f.consultations {
		if c.PatientID == patientID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConsultationRepo) FindSameDay(_ *gorm.DB, patientID, physicianID uint, dayStart time.Time) (*entity.Consultation, error) {
	dayEnd := dayStart.Add(24 * time.Hour)
	for i := range f.consultations {
		c := &f.consultations[i]
		if c.PatientID != patientID || c.PhysicianID != physicianID {
			continue
		}
		if c.ConsultedAt.Before(dayStart) || !c.ConsultedAt.Before(dayEnd) {
			continue
		}
		found := *c
		return &found, nil
	}
	return nil, nil
}

// --- follow-up fake ---

type fakeFollowUpRepo struct {
	followUps []entity.FollowUp
	nextID    uint

	createErr error
}

func (f *fakeFollowUpRepo) Create(_ *gorm.DB, followUp *entity.FollowUp) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	followUp.ID = f.nextID
	if followUp.StartedAt.IsZero() {
		followUp.StartedAt = time.Now().UTC()
	}
	f.followUps = append(f.followUps, *followUp)
	return nil
}

func (f *fakeFollowUpRepo) FindByID(_ *gorm.DB, id uint) (*entity.FollowUp, error) {
	for i := range f.followUps {
		if f.followUps[i].ID == id {
			fu := f.followUps[i]
			return &fu, nil
		}
	}
	return nil, nil
}

func (f *fakeFollowUpRepo) FindActive(_ *gorm.DB, patientID uint, disease entity.Disease) (*entity.FollowUp, error) {
	for i := range f.followUps {
		fu := &f.followUps[i]
		if fu.PatientID == patientID && fu.Disease == disease && fu.Status != entity.FollowUpStatusHealed {
			found := *fu
			return &found, nil
		}
	}
	return nil, nil
}

func (f *fakeFollowUpRepo) FindAll(_ *gorm.DB, filter entity.FollowUpFilter) ([]entity.FollowUp, error) {
	var out []entity.FollowUp
	for _, fu := range f.followUps {
		if filter.PatientID != nil && fu.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != "" && fu.Status != filter.Status {
			continue
		}
		out = append(out, fu)
	}
	return out, nil
}

func (f *fakeFollowUpRepo) Update(_ *gorm.DB, followUp *entity.FollowUp) error {
	for i := range f.followUps {
		if f.followUps[i].ID == followUp.ID {
			f.followUps[i] = *followUp
			return nil
		}
	}
	return errors.New("follow-up not found")
}

func (f *fakeFollowUpRepo) byID(id uint) *entity.FollowUp {
	fu, _ := f.FindByID(nil, id)
	return fu
}

// --- validation fake ---

type fakeValidationRepo struct {
	validations []entity.Validation
}

func (f *fakeValidationRepo) Create(_ *gorm.DB, validation *entity.Validation) error {
	validation.ID = uint(len(f.validations) + 1)
	if validation.ValidatedAt.IsZero() {
		validation.ValidatedAt = time.Now().UTC()
	}
	f.validations = append(f.validations, *validation)
	return nil
}

func (f *fakeValidationRepo) FindAll(_ *gorm.DB, filter entity.ValidationFilter) ([]entity.Validation, error) {
	var out []entity.Validation
	for _, v := range f.validations {
		if filter.PredictionID != nil && v.PredictionID != *filter.PredictionID {
			continue
		}
		if filter.PhysicianID != nil && v.PhysicianID != *filter.PhysicianID {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// --- user fake ---

type fakeUserRepo struct {
	users []entity.User
}

func (f *fakeUserRepo) Create(_ *gorm.DB, user *entity.User) error {
	user.ID = uint(len(f.users) + 1)
	f.users = append(f.users, *user)
	return nil
}

func (f *fakeUserRepo) FindByID(_ *gorm.DB, id uint) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ *gorm.DB, email string) (*entity.User, error) {
	for i := range f.users {
		if f.users[i].Email == email {
			u := f.users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// --- exam result fake ---

type fakeExamResultRepo struct {
	// results carry fully populated Visit aggregates, mirroring what
	// the preloading query would return.
	results []entity.ExamResult
}

func (f *fakeExamResultRepo) Create(_ *gorm.DB, result *entity.ExamResult) error {
	result.ID = uint(len(f.results) + 1)
	if result.RecordedAt.IsZero() {
		result.RecordedAt = time.Now().UTC()
	}
	f.results = append(f.results, *result)
	return nil
}

func (f *fakeExamResultRepo) FindByVisitID(_ *gorm.DB, visitID uint) (*entity.ExamResult, error) {
	for i := range f.results {
		if f.results[i].VisitID == visitID {
			r := f.results[i]
			return &r, nil
		}
	}
	return nil, nil
}

func (f *fakeExamResultRepo) FindByPrescriptionID(_ *gorm.DB, prescriptionID uint) ([]entity.ExamResult, error) {
	var out []entity.ExamResult
	for _, r := range f.results {
		if r.PrescriptionID == prescriptionID {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- prediction fake ---

type fakePredictionRepo struct {
	predictions []entity.Prediction
}

func (f *fakePredictionRepo) Create(_ *gorm.DB, prediction *entity.Prediction) error {
	prediction.ID = uint(len(f.predictions) + 1)
	if prediction.PredictedAt.IsZero() {
		prediction.PredictedAt = time.Now().UTC()
	}
	f.predictions = append(f.predictions, *prediction)
	return nil
}

func (f *fakePredictionRepo) FindByID(_ *gorm.DB, id uint) (*entity.Prediction, error) {
	for i := range f.predictions {
		if f.predictions[i].ID == id {
			p := f.predictions[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePredictionRepo) FindByVisitID(_ *gorm.DB, visitID uint) ([]entity.Prediction, error) {
	var out []entity.Prediction
	for _, p := range f.predictions {
		if p.VisitID == visitID {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- patient fake ---

type fakePatientRepo struct {
	patients []entity.Patient
}

func (f *fakePatientRepo) Create(_ *gorm.DB, patient *entity.Patient) error {
	patient.ID = uint(len(f.patients) + 1)
	f.patients = append(f.patients, *patient)
	return nil
}

func (f *fakePatientRepo) FindByID(_ *gorm.DB, id uint) (*entity.Patient, error) {
	for i := range f.patients {
		if f.patients[i].ID == id {
			p := f.patients[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (f *fakePatientRepo) FindAll(_ *gorm.DB) ([]entity.Patient, error) {
	return append([]entity.Patient(nil), f.patients...), nil
}

func (f *fakePatientRepo) Update(_ *gorm.DB, patient *entity.Patient) error {
	for i := range f.patients {
		if f.patients[i].ID == patient.ID {
			f.patients[i] = *patient
			return nil
		}
	}
	return errors.New("patient not found")
}

// --- visit fake ---

type fakeVisitRepo struct {
	visits []entity.Visit
}

func (f *fakeVisitRepo) Create(_ *gorm.DB, visit *entity.Visit) error {
	visit.ID = uint(len(f.visits) + 1)
	f.visits = append(f.visits, *visit)
	return nil
}

func (f *fakeVisitRepo) FindByID(_ *gorm.DB, id uint) (*entity.Visit, error) {
	for i := range f.visits {
		if f.visits[i].ID == id {
			v := f.visits[i]
			return &v, nil
		}
	}
	return nil, nil
}

// --- advisory lock fake ---

type fakeReconcileLock struct {
	busy     map[string]bool
	acquired []string
	released int
}

func lockKey(patientID uint, disease entity.Disease) string {
	return fmt.Sprintf("%d:%s", patientID, disease)
}

func (f *fakeReconcileLock) Acquire(_ context.Context, patientID uint, disease entity.Disease) (func(), bool, error) {
	key := lockKey(patientID, disease)
	if f.busy[key] {
		return func() {}, false, nil
	}
	f.acquired = append(f.acquired, key)
	return func() { f.released++ }, true, nil
}

var _ service.ReconcileLock = (*fakeReconcileLock)(nil)

// --- audit service fake ---

type recordedAction struct {
	UserID   *uint
	Action   string
	Metadata entity.JSON
}

type fakeAuditService struct {
	actions []recordedAction
}

func (f *fakeAuditService) LogAction(_ context.Context, _ *gorm.DB, userID *uint, action string, metadata entity.JSON) error {
	f.actions = append(f.actions, recordedAction{UserID: userID, Action: action, Metadata: metadata})
	return nil
}

var _ service.AuditService = (*fakeAuditService)(nil)
