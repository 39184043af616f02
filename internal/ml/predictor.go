// Package ml provides opportunity scoring for the inference service. It
// includes the rule-based placeholder model, an optional ONNX-backed predictor
// that shells out to a Python helper, and the approval policy applied to
// scores.
//
// The Predictor interface is the stable swap boundary: a trained model can
// replace the rule model without touching the service or transport layers.
package ml

import (
	"apex-ml/internal/common"
	"apex-ml/internal/features"
)

// Score is a single prediction result. Both fields are normalized to [0,1].
// Values are produced fresh per call and never mutated.
type Score struct {
	Score      float64
	Confidence float64
}

// Predictor maps a feature vector to a score. Implementations must be
// deterministic and safe for concurrent use.
type Predictor interface {
	// Predict scores one opportunity. Vectors shorter than features.Count
	// yield the neutral fallback result, not an error.
	Predict(f features.Vector) (Score, error)

	// Name identifies the active model on the health endpoint.
	Name() string
}

// SimplePredictor is the rule-based placeholder model. It reads only
// profitUSD and gasEstimate; the remaining positions are reserved for the
// trained model. Stateless and reentrant, so a single instance is shared
// across all requests.
type SimplePredictor struct{}

// NewSimplePredictor returns the rule model.
func NewSimplePredictor() *SimplePredictor {
	return &SimplePredictor{}
}

func (p *SimplePredictor) Name() string { return common.SimpleModel }

// Predict scores on a linear profit ramp saturating at $20, with a flat 20%
// haircut above the high-gas threshold. Confidence is a binary step on
// profitUSD alone.
func (p *SimplePredictor) Predict(f features.Vector) (Score, error) {
	if !f.Complete() {
		return Score{Score: common.FallbackScore, Confidence: common.FallbackConfidence}, nil
	}

	profitUSD := f.At(features.ProfitUSD)
	gasEstimate := f.At(features.GasEstimate)

	score := clamp(profitUSD/common.ProfitSaturationUSD, 0, 1)
	if gasEstimate > common.HighGasThreshold {
		score *= common.HighGasPenalty
	}

	confidence := common.LowConfidence
	if profitUSD > common.ConfidentProfitUSD {
		confidence = common.HighConfidence
	}

	return Score{Score: score, Confidence: confidence}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
