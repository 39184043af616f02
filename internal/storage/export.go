package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"apex-ml/internal/features"
)

// csvHeader matches the column layout expected by python/model/train.py.
var csvHeader = []string{
	"opportunity_id", "timestamp",
	"profit", "profit_usd", "gas_estimate", "input_amount",
	"output_amount", "path_length", "dex_count", "freshness",
	"score", "confidence", "approved",
}

// ExportCSV writes all samples in [start, end] as CSV for the training
// pipeline. Vectors shorter than the expected length are padded with zeros so
// every row has the full column set.
func (s *Store) ExportCSV(w io.Writer, start, end time.Time) (int, error) {
	samples, err := s.SamplesInRange(start, end)
	if err != nil {
		return 0, err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return 0, fmt.Errorf("write csv header: %w", err)
	}

	for _, sample := range samples {
		row := make([]string, 0, len(csvHeader))
		row = append(row, sample.OpportunityID, sample.Timestamp.Format(time.RFC3339Nano))
		for i := 0; i < features.Count; i++ {
			row = append(row, strconv.FormatFloat(features.Vector(sample.Features).At(i), 'g', -1, 64))
		}
		row = append(row,
			strconv.FormatFloat(sample.Score, 'g', -1, 64),
			strconv.FormatFloat(sample.Confidence, 'g', -1, 64),
			strconv.FormatBool(sample.Approved),
		)
		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("write csv row: %w", err)
		}
	}

	cw.Flush()
	return len(samples), cw.Error()
}
