package metrics

// Wrapper adapts Metrics to the small interfaces consumed by the ml and
// service packages, avoiding circular imports.
type Wrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *Wrapper {
	return &Wrapper{m: m}
}

func (w *Wrapper) PredictionsInc() {
	w.m.PredictionsTotal.Inc()
}

func (w *Wrapper) FailuresInc() {
	w.m.PredictionFailures.Inc()
	w.m.ErrorsTotal.Inc()
}

func (w *Wrapper) ApprovalsInc() {
	w.m.ApprovalsTotal.Inc()
}

func (w *Wrapper) LatencyObserve(v float64) {
	w.m.PredictionLatency.Observe(v)
}

func (w *Wrapper) ScoreObserve(v float64) {
	w.m.PredictionScores.Observe(v)
}

func (w *Wrapper) FallbackInc() {
	w.m.FallbackUse.Inc()
}

func (w *Wrapper) TimeoutsInc() {
	w.m.InferenceTimeouts.Inc()
}

func (w *Wrapper) BatchObserve(size int) {
	w.m.BatchRequests.Inc()
	w.m.BatchSize.Observe(float64(size))
}
