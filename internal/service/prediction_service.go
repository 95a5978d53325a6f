package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"clinical-followup-platform/config"
	"clinical-followup-platform/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// ErrPredictionUnavailable covers every way the external scorer can
// fail: timeout, transport error, non-2xx status, malformed output.
var ErrPredictionUnavailable = errors.New("prediction service unavailable")

// ScoringResult is the opaque scorer's output for one feature record.
type ScoringResult struct {
	Probability          float64  `json:"probability"`
	Threshold            float64  `json:"threshold"`
	ConfidenceLabel      string   `json:"confidence_label"`
	ContributingFeatures []string `json:"contributing_features"`
	Interpretation       string   `json:"interpretation"`
	Recommendation       string   `json:"recommendation"`
}

// ScoringClient invokes the external prediction model for a disease
// and a structured clinical-feature record.
type ScoringClient interface {
	Score(ctx context.Context, disease entity.Disease, features entity.JSON) (*ScoringResult, error)
}

type httpScoringClient struct {
	baseURL    string
	httpClient *http.Client
	log        *logrus.Logger
}

func NewScoringClient(cfg config.ScorerConfig, log *logrus.Logger) ScoringClient {
	return &httpScoringClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

func (c *httpScoringClient) Score(ctx context.Context, disease entity.Disease, features entity.JSON) (*ScoringResult, error) {
	body, err := json.Marshal(features)
	if err != nil {
		return nil, fmt.Errorf("%w: encode features: %v", ErrPredictionUnavailable, err)
	}

	url := fmt.Sprintf("%s/predict/%s", c.baseURL, strings.ToLower(string(disease)))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrPredictionUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warnf("Scorer call failed for %s: %+v", disease, err)
		return nil, fmt.Errorf("%w: %v", ErrPredictionUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warnf("Scorer returned status %d for %s", resp.StatusCode, disease)
		return nil, fmt.Errorf("%w: status %d", ErrPredictionUnavailable, resp.StatusCode)
	}

	var result ScoringResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.Warnf("Scorer returned malformed output for %s: %+v", disease, err)
		return nil, fmt.Errorf("%w: decode response: %v", ErrPredictionUnavailable, err)
	}

	if result.Probability < 0 || result.Probability > 1 {
		return nil, fmt.Errorf("%w: probability %f out of range", ErrPredictionUnavailable, result.Probability)
	}

	return &result, nil
}
