// Package features defines the fixed-order feature vector that describes one
// arbitrage opportunity. Feature positions are part of the wire contract with
// the opportunity scanner and the Python training pipeline, so the index
// constants here must stay in sync with python/model/train.py.
package features

// Feature positions within a vector. Only ProfitUSD and GasEstimate are read
// by the current rule model; the rest are reserved inputs for the trained
// model and must keep their positions.
const (
	Profit = iota
	ProfitUSD
	GasEstimate
	InputAmount
	OutputAmount
	PathLength
	DexCount
	Freshness

	Count // expected vector length
)

// Vector is an ordered sequence of opportunity features. Vectors shorter than
// Count are degenerate input, not an error; callers get the neutral fallback
// prediction. Extra trailing elements are ignored.
type Vector []float64

// Complete reports whether the vector carries all expected positions.
func (v Vector) Complete() bool {
	return len(v) >= Count
}

// At returns the feature at position i, or 0 for out-of-range positions.
func (v Vector) At(i int) float64 {
	if i < 0 || i >= len(v) {
		return 0
	}
	return v[i]
}
