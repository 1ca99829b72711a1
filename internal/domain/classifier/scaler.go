package classifier

import (
	"encoding/json"
	"fmt"
	"os"
)

// Scaler normalizes the raw Time and Amount values consistently with the
// scaling applied at training time. V1..V28 are already normalized in the
// dataset and pass through untouched.
type Scaler interface {
	Transform(txTime, amount float64) (scaledTime, scaledAmount float64)
}

// scalerArtifact is the on-disk JSON layout of the fitted scaler.
type scalerArtifact struct {
	Columns []string  `json:"columns"`
	Mean    []float64 `json:"mean"`
	Scale   []float64 `json:"scale"`
}

// StandardScaler applies the linear transform (x - mean) / scale per column.
type StandardScaler struct {
	timeMean    float64
	timeScale   float64
	amountMean  float64
	amountScale float64
}

// LoadStandardScaler decodes a fitted scaler artifact from path. The
// artifact must cover exactly the Time and Amount columns, in that order.
func LoadStandardScaler(path string) (*StandardScaler, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scaler artifact: %w", err)
	}
	return NewStandardScaler(raw)
}

// NewStandardScaler decodes a fitted scaler artifact from raw JSON bytes.
func NewStandardScaler(raw []byte) (*StandardScaler, error) {
	var art scalerArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("decode scaler artifact: %w", err)
	}
	if len(art.Columns) != 2 || art.Columns[0] != "Time" || art.Columns[1] != "Amount" {
		return nil, fmt.Errorf("%w: scaler must cover [Time, Amount], got %v", ErrInvalidArtifact, art.Columns)
	}
	if len(art.Mean) != 2 || len(art.Scale) != 2 {
		return nil, fmt.Errorf("%w: scaler mean/scale must have 2 entries", ErrInvalidArtifact)
	}
	for i, s := range art.Scale {
		if s <= 0 {
			return nil, fmt.Errorf("%w: scale for %s must be positive", ErrInvalidArtifact, art.Columns[i])
		}
	}

	return &StandardScaler{
		timeMean:    art.Mean[0],
		timeScale:   art.Scale[0],
		amountMean:  art.Mean[1],
		amountScale: art.Scale[1],
	}, nil
}

// Transform normalizes a raw (Time, Amount) pair.
func (s *StandardScaler) Transform(txTime, amount float64) (float64, float64) {
	return (txTime - s.timeMean) / s.timeScale, (amount - s.amountMean) / s.amountScale
}
