package service

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apex-ml/internal/features"
	"apex-ml/internal/ml"
	"apex-ml/internal/storage"
)

type mockMetrics struct {
	mu          sync.Mutex
	predictions int
	failures    int
	approvals   int
	scores      []float64
	latencies   int
	batches     []int
}

func (m *mockMetrics) PredictionsInc() { m.mu.Lock(); defer m.mu.Unlock(); m.predictions++ }
func (m *mockMetrics) FailuresInc()    { m.mu.Lock(); defer m.mu.Unlock(); m.failures++ }
func (m *mockMetrics) ApprovalsInc()   { m.mu.Lock(); defer m.mu.Unlock(); m.approvals++ }
func (m *mockMetrics) LatencyObserve(float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencies++
}
func (m *mockMetrics) ScoreObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, v)
}
func (m *mockMetrics) FallbackInc() {}
func (m *mockMetrics) TimeoutsInc() {}
func (m *mockMetrics) BatchObserve(size int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, size)
}

type mockRecorder struct {
	mu      sync.Mutex
	samples []storage.Sample
	err     error
}

func (r *mockRecorder) StoreSample(s storage.Sample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.samples = append(r.samples, s)
	return nil
}

type errPredictor struct{}

func (errPredictor) Predict(features.Vector) (ml.Score, error) {
	return ml.Score{}, fmt.Errorf("model exploded")
}
func (errPredictor) Name() string { return "err_predictor" }

func newTestService(metrics MetricsInterface, recorder SampleRecorder) *Service {
	return New(ml.NewSimplePredictor(), ml.NewPolicy(0.6), metrics, recorder)
}

func TestPredictOne_EchoesOpportunityID(t *testing.T) {
	svc := newTestService(nil, nil)

	ids := []string{"opp-1", "", "id with spaces / 漢字 \x00\"quotes\""}
	for _, id := range ids {
		resp, err := svc.PredictOne(PredictionRequest{
			Features:      []float64{0, 10, 100000, 0, 0, 0, 0, 0},
			OpportunityID: id,
		})
		require.NoError(t, err)
		assert.Equal(t, id, resp.OpportunityID)
	}
}

func TestPredictOne_AppliesPolicy(t *testing.T) {
	svc := newTestService(nil, nil)

	approved, err := svc.PredictOne(PredictionRequest{
		Features: []float64{0, 20, 100000, 0, 0, 0, 0, 0}, OpportunityID: "hi",
	})
	require.NoError(t, err)
	assert.True(t, approved.Approved)
	assert.Equal(t, 1.0, approved.Score)

	rejected, err := svc.PredictOne(PredictionRequest{
		Features: []float64{0, 10, 600000, 0, 0, 0, 0, 0}, OpportunityID: "lo",
	})
	require.NoError(t, err)
	assert.False(t, rejected.Approved)
	assert.Equal(t, 0.4, rejected.Score)
}

func TestPredictOne_ShortVectorNeutralResult(t *testing.T) {
	svc := newTestService(nil, nil)

	resp, err := svc.PredictOne(PredictionRequest{Features: []float64{1, 2}, OpportunityID: "d"})
	require.NoError(t, err)
	assert.Equal(t, 0.5, resp.Score)
	assert.Equal(t, 0.5, resp.Confidence)
	assert.False(t, resp.Approved)
}

func TestPredictOne_ErrorPropagation(t *testing.T) {
	m := &mockMetrics{}
	svc := New(errPredictor{}, ml.NewPolicy(0.6), m, nil)

	_, err := svc.PredictOne(PredictionRequest{Features: []float64{0, 0, 0, 0, 0, 0, 0, 0}, OpportunityID: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model exploded")
	assert.Equal(t, 1, m.failures)
	assert.Equal(t, 0, m.predictions)
}

func TestPredictBatch_PreservesOrderAndMatchesSingles(t *testing.T) {
	svc := newTestService(nil, nil)

	reqs := []PredictionRequest{
		{Features: []float64{0, 0, 0, 0, 0, 0, 0, 0}, OpportunityID: "a"},
		{Features: []float64{0, 20, 100000, 0, 0, 0, 0, 0}, OpportunityID: "b"},
		{Features: []float64{0, 10, 600000, 0, 0, 0, 0, 0}, OpportunityID: "c"},
		{Features: []float64{1, 2}, OpportunityID: "d"},
	}

	batch, err := svc.PredictBatch(reqs)
	require.NoError(t, err)
	require.Len(t, batch, len(reqs))

	for i, req := range reqs {
		single, err := svc.PredictOne(req)
		require.NoError(t, err)
		assert.Equal(t, single, batch[i], "batch item %d diverged from single call", i)
	}
}

func TestPredictBatch_Empty(t *testing.T) {
	svc := newTestService(nil, nil)

	batch, err := svc.PredictBatch(nil)
	require.NoError(t, err)
	assert.Empty(t, batch)
}

func TestPredictBatch_FailureAbortsWholeBatch(t *testing.T) {
	m := &mockMetrics{}
	svc := New(errPredictor{}, ml.NewPolicy(0.6), m, nil)

	reqs := []PredictionRequest{
		{Features: []float64{0, 20, 0, 0, 0, 0, 0, 0}, OpportunityID: "a"},
		{Features: []float64{0, 20, 0, 0, 0, 0, 0, 0}, OpportunityID: "b"},
	}
	batch, err := svc.PredictBatch(reqs)
	require.Error(t, err)
	assert.Nil(t, batch)
	assert.Contains(t, err.Error(), "batch item 0")
	assert.Equal(t, []int{2}, m.batches)
}

func TestPredictOne_MetricsTracking(t *testing.T) {
	m := &mockMetrics{}
	svc := newTestService(m, nil)

	for i := 0; i < 3; i++ {
		_, err := svc.PredictOne(PredictionRequest{
			Features: []float64{0, 20, 100000, 0, 0, 0, 0, 0}, OpportunityID: "m",
		})
		require.NoError(t, err)
	}

	assert.Equal(t, 3, m.predictions)
	assert.Equal(t, 3, m.approvals)
	assert.Equal(t, 3, m.latencies)
	assert.Equal(t, []float64{1, 1, 1}, m.scores)
}

func TestPredictOne_RecordsSample(t *testing.T) {
	rec := &mockRecorder{}
	svc := newTestService(nil, rec)

	_, err := svc.PredictOne(PredictionRequest{
		Features: []float64{0, 20, 100000, 0, 0, 0, 0, 0}, OpportunityID: "rec-1",
	})
	require.NoError(t, err)

	require.Len(t, rec.samples, 1)
	sample := rec.samples[0]
	assert.Equal(t, "rec-1", sample.OpportunityID)
	assert.Equal(t, 1.0, sample.Score)
	assert.True(t, sample.Approved)
	assert.False(t, sample.Timestamp.IsZero())
}

func TestPredictOne_RecorderFailureDoesNotAffectResponse(t *testing.T) {
	rec := &mockRecorder{err: fmt.Errorf("disk full")}
	svc := newTestService(nil, rec)

	resp, err := svc.PredictOne(PredictionRequest{
		Features: []float64{0, 20, 100000, 0, 0, 0, 0, 0}, OpportunityID: "rec-2",
	})
	require.NoError(t, err)
	assert.True(t, resp.Approved)
}

func TestPredictOne_ConcurrentRequests(t *testing.T) {
	m := &mockMetrics{}
	svc := newTestService(m, nil)

	const goroutines = 10
	const calls = 50

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < calls; i++ {
				_, err := svc.PredictOne(PredictionRequest{
					Features: []float64{0, 10, 100000, 0, 0, 0, 0, 0}, OpportunityID: "c",
				})
				if err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*calls, m.predictions)
}
