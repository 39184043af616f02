package ml

// Policy turns a score into the caller-visible approval flag. A single global
// threshold gates every request; it is not configurable per request.
type Policy struct {
	Threshold float64
}

// NewPolicy creates a decision policy with the given approval threshold.
func NewPolicy(threshold float64) Policy {
	return Policy{Threshold: threshold}
}

// Approve reports whether a score clears the threshold. Boundary scores are
// approved (score >= threshold).
func (p Policy) Approve(score float64) bool {
	return score >= p.Threshold
}
