package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"clinical-followup-platform/internal/delivery/dto"
	"clinical-followup-platform/internal/service"
	"clinical-followup-platform/internal/usecase"
	"clinical-followup-platform/pkg/response"
	"clinical-followup-platform/pkg/validator"
)

type PredictionHandler struct {
	predictionUsecase usecase.PredictionUsecase
	validator         *validator.CustomValidator
}

func NewPredictionHandler(predictionUsecase usecase.PredictionUsecase, validator *validator.CustomValidator) *PredictionHandler {
	return &PredictionHandler{
		predictionUsecase: predictionUsecase,
		validator:         validator,
	}
}

func (h *PredictionHandler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	prediction, err := h.predictionUsecase.CreatePrediction(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrVisitNotFound):
			response.NotFound(w, "Visit not found")
		case errors.Is(err, service.ErrPredictionUnavailable):
			response.Error(w, http.StatusServiceUnavailable, "Prediction service unavailable", nil)
		default:
			response.InternalServerError(w, "Failed to create prediction")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Prediction created successfully", prediction)
}

func (h *PredictionHandler) ListByVisit(w http.ResponseWriter, r *http.Request) {
	visitID, ok := parseUintQuery(r, "visit_id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "visit_id query parameter is required", nil)
		return
	}

	predictions, err := h.predictionUsecase.ListByVisit(r.Context(), visitID)
	if err != nil {
		response.InternalServerError(w, "Failed to list predictions")
		return
	}

	response.Success(w, http.StatusOK, "Predictions retrieved successfully", predictions)
}
