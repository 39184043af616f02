package ml

// MetricsInterface defines the metrics hooks needed by the scoring path.
// Implemented by metrics.Wrapper; kept here to avoid a circular import.
type MetricsInterface interface {
	PredictionsInc()
	FailuresInc()
	ApprovalsInc()
	LatencyObserve(float64)
	ScoreObserve(float64)
	FallbackInc()
	TimeoutsInc()
}
