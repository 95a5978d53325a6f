package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"clinical-followup-platform/config"
	"clinical-followup-platform/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScoringClient(t *testing.T, handler http.HandlerFunc) ScoringClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logrus.New()
	return NewScoringClient(config.ScorerConfig{BaseURL: server.URL}, log)
}

func TestScoringClientScore(t *testing.T) {
	client := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict/renal", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"probability": 0.83,
			"threshold": 0.5,
			"confidence_label": "HIGH",
			"contributing_features": ["creatinine", "gfr"],
			"interpretation": "elevated risk",
			"recommendation": "nephrology referral"
		}`))
	})

	result, err := client.Score(context.Background(), entity.DiseaseRenal, entity.JSON{"creatinine": 2.1})
	require.NoError(t, err)
	assert.InDelta(t, 0.83, result.Probability, 1e-9)
	assert.InDelta(t, 0.5, result.Threshold, 1e-9)
	assert.Equal(t, "HIGH", result.ConfidenceLabel)
	assert.Equal(t, []string{"creatinine", "gfr"}, result.ContributingFeatures)
}

func TestScoringClientScoreServerError(t *testing.T) {
	client := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Score(context.Background(), entity.DiseaseMetabolic, entity.JSON{})
	assert.ErrorIs(t, err, ErrPredictionUnavailable)
}

func TestScoringClientScoreMalformedOutput(t *testing.T) {
	client := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	})

	_, err := client.Score(context.Background(), entity.DiseaseCardiovascular, entity.JSON{})
	assert.ErrorIs(t, err, ErrPredictionUnavailable)
}

func TestScoringClientScoreOutOfRangeProbability(t *testing.T) {
	client := newTestScoringClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"probability": 1.7, "threshold": 0.5}`))
	})

	_, err := client.Score(context.Background(), entity.DiseaseRespiratoryImaging, entity.JSON{})
	assert.ErrorIs(t, err, ErrPredictionUnavailable)
}
