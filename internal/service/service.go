// Package service orchestrates opportunity scoring: it invokes the model,
// applies the decision policy, and packages results for the transport layer.
// Failures are returned as explicit errors; translation to HTTP status codes
// happens only at the server boundary.
package service

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"apex-ml/internal/ml"
	"apex-ml/internal/storage"
)

// PredictionRequest is one scoring request. OpportunityID is an opaque
// caller-supplied correlation token, echoed back verbatim and never
// interpreted.
type PredictionRequest struct {
	Features      []float64 `json:"features"`
	OpportunityID string    `json:"opportunity_id"`
}

// PredictionResponse is the scored result for one request.
type PredictionResponse struct {
	Score         float64 `json:"score"`
	Confidence    float64 `json:"confidence"`
	Approved      bool    `json:"approved"`
	OpportunityID string  `json:"opportunity_id"`
}

// MetricsInterface defines the metrics hooks used by the service.
// Implemented by metrics.Wrapper.
type MetricsInterface interface {
	ml.MetricsInterface
	BatchObserve(size int)
}

// SampleRecorder captures scored samples for the training pipeline.
// Implemented by storage.Store.
type SampleRecorder interface {
	StoreSample(storage.Sample) error
}

// Service scores opportunities with the configured predictor and applies the
// approval policy. Stateless across requests; safe for concurrent use.
type Service struct {
	predictor ml.Predictor
	policy    ml.Policy
	metrics   MetricsInterface
	recorder  SampleRecorder
}

// New creates an inference service. metrics and recorder may be nil; they are
// observability and training-data capture only and never affect results.
func New(predictor ml.Predictor, policy ml.Policy, metrics MetricsInterface, recorder SampleRecorder) *Service {
	return &Service{
		predictor: predictor,
		policy:    policy,
		metrics:   metrics,
		recorder:  recorder,
	}
}

// ModelName reports the active model for the health endpoint.
func (s *Service) ModelName() string {
	return s.predictor.Name()
}

// PredictOne scores a single opportunity and applies the decision policy.
// The opportunity id is echoed back unchanged.
func (s *Service) PredictOne(req PredictionRequest) (PredictionResponse, error) {
	start := time.Now()
	log.Info().Str("opportunity_id", req.OpportunityID).Msg("prediction request")

	result, err := s.predictor.Predict(req.Features)
	if err != nil {
		if s.metrics != nil {
			s.metrics.FailuresInc()
		}
		log.Error().Err(err).Str("opportunity_id", req.OpportunityID).Msg("prediction failed")
		return PredictionResponse{}, fmt.Errorf("scoring opportunity %q: %w", req.OpportunityID, err)
	}

	approved := s.policy.Approve(result.Score)

	if s.metrics != nil {
		s.metrics.PredictionsInc()
		s.metrics.ScoreObserve(result.Score)
		s.metrics.LatencyObserve(time.Since(start).Seconds())
		if approved {
			s.metrics.ApprovalsInc()
		}
	}

	s.record(req, result, approved)

	log.Info().
		Str("opportunity_id", req.OpportunityID).
		Float64("score", result.Score).
		Bool("approved", approved).
		Msg("prediction result")

	return PredictionResponse{
		Score:         result.Score,
		Confidence:    result.Confidence,
		Approved:      approved,
		OpportunityID: req.OpportunityID,
	}, nil
}

// PredictBatch scores each request independently, preserving input order.
// The wire contract has no per-item error shape, so a failing item aborts the
// whole batch; the error names the offending index.
func (s *Service) PredictBatch(reqs []PredictionRequest) ([]PredictionResponse, error) {
	if s.metrics != nil {
		s.metrics.BatchObserve(len(reqs))
	}

	responses := make([]PredictionResponse, 0, len(reqs))
	for i, req := range reqs {
		resp, err := s.PredictOne(req)
		if err != nil {
			return nil, fmt.Errorf("batch item %d: %w", i, err)
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// record captures the sample for training-data export. Best effort: storage
// failures are logged and never affect the response.
func (s *Service) record(req PredictionRequest, result ml.Score, approved bool) {
	if s.recorder == nil {
		return
	}
	err := s.recorder.StoreSample(storage.Sample{
		OpportunityID: req.OpportunityID,
		Timestamp:     time.Now(),
		Features:      req.Features,
		Score:         result.Score,
		Confidence:    result.Confidence,
		Approved:      approved,
	})
	if err != nil {
		log.Warn().Err(err).Str("opportunity_id", req.OpportunityID).Msg("sample capture failed")
	}
}
