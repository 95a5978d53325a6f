package usecase

import (
	"context"
	"errors"
	"time"

	"clinical-followup-platform/internal/converter"
	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/delivery/http/middleware"
	"clinical-followup-platform/internal/domain/entity"
	"clinical-followup-platform/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrConsultationNotFound = errors.New("consultation not found")

type ConsultationUsecase interface {
	CreateConsultation(ctx context.Context, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error)
	GetConsultation(ctx context.Context, consultationID uint) (*dto.ConsultationResponse, error)
	ListByPatient(ctx context.Context, patientID uint) ([]dto.ConsultationResponse, error)
	CreateVisit(ctx context.Context, req *dto.CreateVisitRequest) (*dto.VisitResponse, error)
}

type consultationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	consultationRepo repository.ConsultationRepository
	patientRepo      repository.PatientRepository
	visitRepo        repository.VisitRepository
}

func NewConsultationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	consultationRepo repository.ConsultationRepository,
	patientRepo repository.PatientRepository,
	visitRepo repository.VisitRepository,
) ConsultationUsecase {
	return &consultationUsecase{
		db:               db,
		log:              log,
		consultationRepo: consultationRepo,
		patientRepo:      patientRepo,
		visitRepo:        visitRepo,
	}
}

func (u *consultationUsecase) CreateConsultation(ctx context.Context, req *dto.CreateConsultationRequest) (*dto.ConsultationResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	patient, err := u.patientRepo.FindByID(u.db.WithContext(ctx), req.PatientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %d: %+v", req.PatientID, err)
		return nil, err
	}
	if patient == nil {
		return nil, ErrPatientNotFound
	}

	consultedAt := time.Now().UTC()
	if req.ConsultedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.ConsultedAt)
		if err != nil {
			return nil, ErrInvalidDate
		}
		consultedAt = parsed.UTC()
	}

	consultation := &entity.Consultation{
		PatientID:   req.PatientID,
		PhysicianID: userID,
		Motive:      req.Motive,
		Observation: req.Observation,
		ConsultedAt: consultedAt,
	}
	if err := u.consultationRepo.Create(u.db.WithContext(ctx), consultation); err != nil {
		u.log.Warnf("Failed to create consultation for patient %d: %+v", req.PatientID, err)
		return nil, err
	}

	u.log.Infof("Consultation created: id=%d patient=%d", consultation.ID, consultation.PatientID)
	resp := converter.ConsultationToResponse(consultation)
	return &resp, nil
}

func (u *consultationUsecase) GetConsultation(ctx context.Context, consultationID uint) (*dto.ConsultationResponse, error) {
	consultation, err := u.consultationRepo.FindByID(u.db.WithContext(ctx), consultationID)
	if err != nil {
		u.log.Warnf("Failed to find consultation %d: %+v", consultationID, err)
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}

	resp := converter.ConsultationToResponse(consultation)
	return &resp, nil
}

func (u *consultationUsecase) ListByPatient(ctx context.Context, patientID uint) ([]dto.ConsultationResponse, error) {
	consultations, err := u.consultationRepo.FindByPatientID(u.db.WithContext(ctx), patientID)
	if err != nil {
		u.log.Warnf("Failed to list consultations for patient %d: %+v", patientID, err)
		return nil, err
	}

	return converter.ConsultationsToResponses(consultations), nil
}

// CreateVisit records clinical data directly under a consultation,
// outside any exam order.
func (u *consultationUsecase) CreateVisit(ctx context.Context, req *dto.CreateVisitRequest) (*dto.VisitResponse, error) {
	consultation, err := u.consultationRepo.FindByID(u.db.WithContext(ctx), req.ConsultationID)
	if err != nil {
		u.log.Warnf("Failed to find consultation %d: %+v", req.ConsultationID, err)
		return nil, err
	}
	if consultation == nil {
		return nil, ErrConsultationNotFound
	}

	visitedAt := time.Now().UTC()
	if req.VisitedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.VisitedAt)
		if err != nil {
			return nil, ErrInvalidDate
		}
		visitedAt = parsed.UTC()
	}

	visit := &entity.Visit{
		ConsultationID: consultation.ID,
		VisitedAt:      visitedAt,
		ClinicalData:   entity.JSON(req.ClinicalData),
	}
	if err := u.visitRepo.Create(u.db.WithContext(ctx), visit); err != nil {
		u.log.Warnf("Failed to create visit for consultation %d: %+v", consultation.ID, err)
		return nil, err
	}

	resp := converter.VisitToResponse(visit)
	return &resp, nil
}
