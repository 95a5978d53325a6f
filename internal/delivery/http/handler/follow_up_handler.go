package handler

import (
	"encoding/json"
	"net/http"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/domain/entity"
	"clinical-followup-platform/internal/usecase"
	"clinical-followup-platform/pkg/response"
	"clinical-followup-platform/pkg/validator"
)

type FollowUpHandler struct {
	followUpUsecase usecase.FollowUpUsecase
	validator       *validator.CustomValidator
}

func NewFollowUpHandler(followUpUsecase usecase.FollowUpUsecase, validator *validator.CustomValidator) *FollowUpHandler {
	return &FollowUpHandler{
		followUpUsecase: followUpUsecase,
		validator:       validator,
	}
}

func (h *FollowUpHandler) CreateFollowUp(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	followUp, err := h.followUpUsecase.CreateFollowUp(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPatientNotFound:
			response.NotFound(w, "Patient not found")
		case usecase.ErrDuplicateActiveFollowUp:
			response.Conflict(w, "An active follow-up already exists for this patient and disease")
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to create follow-up")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Follow-up created successfully", followUp)
}

func (h *FollowUpHandler) UpdateFollowUp(w http.ResponseWriter, r *http.Request) {
	followUpID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid follow-up ID", nil)
		return
	}

	var req dto.UpdateFollowUpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	followUp, err := h.followUpUsecase.UpdateFollowUp(r.Context(), followUpID, &req)
	if err != nil {
		switch err {
		case usecase.ErrFollowUpNotFound:
			response.NotFound(w, "Follow-up not found")
		case usecase.ErrFollowUpTerminal:
			response.Conflict(w, "Follow-up has reached a terminal state")
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid date, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to update follow-up")
		}
		return
	}

	response.Success(w, http.StatusOK, "Follow-up updated successfully", followUp)
}

func (h *FollowUpHandler) GetFollowUp(w http.ResponseWriter, r *http.Request) {
	followUpID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid follow-up ID", nil)
		return
	}

	followUp, err := h.followUpUsecase.GetFollowUp(r.Context(), followUpID)
	if err != nil {
		switch err {
		case usecase.ErrFollowUpNotFound:
			response.NotFound(w, "Follow-up not found")
		default:
			response.InternalServerError(w, "Failed to get follow-up")
		}
		return
	}

	response.Success(w, http.StatusOK, "Follow-up retrieved successfully", followUp)
}

func (h *FollowUpHandler) ListFollowUps(w http.ResponseWriter, r *http.Request) {
	filter := entity.FollowUpFilter{
		Status:  entity.FollowUpStatus(r.URL.Query().Get("status")),
		Disease: entity.Disease(r.URL.Query().Get("disease")),
	}
	if patientID, ok := parseUintQuery(r, "patient_id"); ok {
		filter.PatientID = &patientID
	}
	if physicianID, ok := parseUintQuery(r, "physician_id"); ok {
		filter.PhysicianID = &physicianID
	}

	followUps, err := h.followUpUsecase.ListFollowUps(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list follow-ups")
		return
	}

	response.Success(w, http.StatusOK, "Follow-ups retrieved successfully", followUps)
}

func (h *FollowUpHandler) ScheduleExam(w http.ResponseWriter, r *http.Request) {
	followUpID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid follow-up ID", nil)
		return
	}

	var req dto.ScheduleExamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	exam, err := h.followUpUsecase.ScheduleExam(r.Context(), followUpID, &req)
	if err != nil {
		switch err {
		case usecase.ErrFollowUpNotFound:
			response.NotFound(w, "Follow-up not found")
		case usecase.ErrFollowUpTerminal:
			response.Conflict(w, "Cannot schedule an exam on a terminal follow-up")
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid due date, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to schedule exam")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Exam scheduled successfully", exam)
}

func (h *FollowUpHandler) ListExams(w http.ResponseWriter, r *http.Request) {
	followUpID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid follow-up ID", nil)
		return
	}

	exams, err := h.followUpUsecase.ListExams(r.Context(), followUpID)
	if err != nil {
		switch err {
		case usecase.ErrFollowUpNotFound:
			response.NotFound(w, "Follow-up not found")
		default:
			response.InternalServerError(w, "Failed to list exams")
		}
		return
	}

	response.Success(w, http.StatusOK, "Exams retrieved successfully", exams)
}
