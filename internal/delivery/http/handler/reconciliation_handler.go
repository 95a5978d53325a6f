package handler

import (
	"encoding/json"
	"net/http"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/usecase"
	"clinical-followup-platform/pkg/response"
	"clinical-followup-platform/pkg/validator"
)

type ReconciliationHandler struct {
	reconcilerUsecase usecase.ReconcilerUsecase
	validator         *validator.CustomValidator
}

func NewReconciliationHandler(reconcilerUsecase usecase.ReconcilerUsecase, validator *validator.CustomValidator) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconcilerUsecase: reconcilerUsecase,
		validator:         validator,
	}
}

func (h *ReconciliationHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dto.ReconcileRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
			return
		}
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.reconcilerUsecase.Run(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidReferenceDate:
			response.Error(w, http.StatusBadRequest, "Invalid reference date, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to run reconciliation")
		}
		return
	}

	response.Success(w, http.StatusOK, "Reconciliation completed", result)
}

func (h *ReconciliationHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	req := dto.ReconcileRequest{
		ReferenceDate: r.URL.Query().Get("reference_date"),
	}
	if physicianID, ok := parseUintQuery(r, "physician_id"); ok {
		req.PhysicianID = &physicianID
	}

	candidates, err := h.reconcilerUsecase.ListCandidates(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidReferenceDate:
			response.Error(w, http.StatusBadRequest, "Invalid reference date, use YYYY-MM-DD", nil)
		default:
			response.InternalServerError(w, "Failed to list candidates")
		}
		return
	}

	response.Success(w, http.StatusOK, "Candidates retrieved successfully", candidates)
}
