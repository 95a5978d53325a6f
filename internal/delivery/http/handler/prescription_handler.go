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

type PrescriptionHandler struct {
	prescriptionUsecase usecase.PrescriptionUsecase
	validator           *validator.CustomValidator
}

func NewPrescriptionHandler(prescriptionUsecase usecase.PrescriptionUsecase, validator *validator.CustomValidator) *PrescriptionHandler {
	return &PrescriptionHandler{
		prescriptionUsecase: prescriptionUsecase,
		validator:           validator,
	}
}

func (h *PrescriptionHandler) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	filter := entity.PrescriptionFilter{
		Status: entity.PrescriptionStatus(r.URL.Query().Get("status")),
	}
	if physicianID, ok := parseUintQuery(r, "physician_id"); ok {
		filter.PhysicianID = &physicianID
	}

	prescriptions, err := h.prescriptionUsecase.ListPrescriptions(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list prescriptions")
		return
	}

	response.Success(w, http.StatusOK, "Prescriptions retrieved successfully", prescriptions)
}

func (h *PrescriptionHandler) GetPrescription(w http.ResponseWriter, r *http.Request) {
	prescriptionID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	prescription, err := h.prescriptionUsecase.GetPrescription(r.Context(), prescriptionID)
	if err != nil {
		switch err {
		case usecase.ErrPrescriptionNotFound:
			response.NotFound(w, "Prescription not found")
		default:
			response.InternalServerError(w, "Failed to get prescription")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription retrieved successfully", prescription)
}

func (h *PrescriptionHandler) RecordResults(w http.ResponseWriter, r *http.Request) {
	prescriptionID, ok := parsePathID(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid prescription ID", nil)
		return
	}

	var req dto.RecordResultsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.prescriptionUsecase.RecordResults(r.Context(), prescriptionID, &req)
	if err != nil {
		switch err {
		case usecase.ErrPrescriptionNotFound:
			response.NotFound(w, "Prescription not found")
		case usecase.ErrPrescriptionClosed:
			response.Conflict(w, "Prescription no longer accepts results")
		case usecase.ErrInvalidDate:
			response.Error(w, http.StatusBadRequest, "Invalid recorded_at timestamp", nil)
		default:
			response.InternalServerError(w, "Failed to record results")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Results recorded successfully", result)
}
