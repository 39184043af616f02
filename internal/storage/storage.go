// Package storage provides optional persistence of scored feature samples
// using BoltDB. Captured samples feed the decoupled training pipeline; the
// serving path never reads them back. The store is only created when a data
// path is configured, and the service runs fine without it.
package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const samplesBucket = "samples"

// Sample records one model invocation: the feature vector that went in and
// the decision that came out, timestamped for range export.
type Sample struct {
	OpportunityID string    `json:"opportunity_id"`
	Timestamp     time.Time `json:"timestamp"`
	Features      []float64 `json:"features"`
	Score         float64   `json:"score"`
	Confidence    float64   `json:"confidence"`
	Approved      bool      `json:"approved"`
}

// Store persists training samples in a BoltDB database.
type Store struct {
	db *bbolt.DB
}

// New opens (or creates) the sample database under dataPath.
func New(dataPath string) (*Store, error) {
	dbPath := filepath.Join(dataPath, "apex-samples.db")

	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(samplesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create samples bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// StoreSample appends a scored sample. Keys are zero-padded nanosecond
// timestamps so cursor scans come back in time order.
func (s *Store) StoreSample(sample Sample) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(samplesBucket))

		data, err := json.Marshal(sample)
		if err != nil {
			return fmt.Errorf("marshal sample: %w", err)
		}

		key := fmt.Sprintf("%020d_%s", sample.Timestamp.UnixNano(), sample.OpportunityID)
		return b.Put([]byte(key), data)
	})
}

// SamplesInRange returns samples recorded within [start, end], oldest first.
func (s *Store) SamplesInRange(start, end time.Time) ([]Sample, error) {
	var samples []Sample

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(samplesBucket))
		c := b.Cursor()

		startKey := []byte(fmt.Sprintf("%020d", start.UnixNano()))
		endKey := []byte(fmt.Sprintf("%020d", end.UnixNano()+1))

		for k, v := c.Seek(startKey); k != nil && string(k) < string(endKey); k, v = c.Next() {
			var sample Sample
			if err := json.Unmarshal(v, &sample); err != nil {
				continue // Skip malformed records
			}
			samples = append(samples, sample)
		}
		return nil
	})

	return samples, err
}
