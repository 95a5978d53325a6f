package handler

import (
	"encoding/json"
	"net/http"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/usecase"
	"clinical-followup-platform/pkg/response"
	"clinical-followup-platform/pkg/validator"
)

type ValidationHandler struct {
	validationUsecase usecase.ValidationUsecase
	validator         *validator.CustomValidator
}

func NewValidationHandler(validationUsecase usecase.ValidationUsecase, validator *validator.CustomValidator) *ValidationHandler {
	return &ValidationHandler{
		validationUsecase: validationUsecase,
		validator:         validator,
	}
}

func (h *ValidationHandler) CreateValidation(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	validation, err := h.validationUsecase.CreateValidation(r.Context(), &req)
	if err != nil {
		switch err {
		case usecase.ErrPredictionNotFound:
			response.NotFound(w, "Prediction not found")
		case usecase.ErrValidationNotPermitted:
			response.Forbidden(w, "Only physicians may validate predictions")
		default:
			response.InternalServerError(w, "Failed to create validation")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Validation created successfully", validation)
}

func (h *ValidationHandler) ListValidations(w http.ResponseWriter, r *http.Request) {
	req := dto.ListValidationsRequest{}
	if predictionID, ok := parseUintQuery(r, "prediction_id"); ok {
		req.PredictionID = &predictionID
	}
	if physicianID, ok := parseUintQuery(r, "physician_id"); ok {
		req.PhysicianID = &physicianID
	}

	validations, err := h.validationUsecase.ListValidations(r.Context(), &req)
	if err != nil {
		response.InternalServerError(w, "Failed to list validations")
		return
	}

	response.Success(w, http.StatusOK, "Validations retrieved successfully", validations)
}
