// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"math"
)

// NumFeatures is the width of the feature vector the classifier consumes.
const NumFeatures = 30

// Transaction is a single card transaction. Field names and JSON keys mirror
// the column names of the training dataset; V1..V28 are anonymized
// continuous features with an unrestricted domain.
type Transaction struct {
	Time   float64 `json:"Time"`
	V1     float64 `json:"V1"`
	V2     float64 `json:"V2"`
	V3     float64 `json:"V3"`
	V4     float64 `json:"V4"`
	V5     float64 `json:"V5"`
	V6     float64 `json:"V6"`
	V7     float64 `json:"V7"`
	V8     float64 `json:"V8"`
	V9     float64 `json:"V9"`
	V10    float64 `json:"V10"`
	V11    float64 `json:"V11"`
	V12    float64 `json:"V12"`
	V13    float64 `json:"V13"`
	V14    float64 `json:"V14"`
	V15    float64 `json:"V15"`
	V16    float64 `json:"V16"`
	V17    float64 `json:"V17"`
	V18    float64 `json:"V18"`
	V19    float64 `json:"V19"`
	V20    float64 `json:"V20"`
	V21    float64 `json:"V21"`
	V22    float64 `json:"V22"`
	V23    float64 `json:"V23"`
	V24    float64 `json:"V24"`
	V25    float64 `json:"V25"`
	V26    float64 `json:"V26"`
	V27    float64 `json:"V27"`
	V28    float64 `json:"V28"`
	Amount float64 `json:"Amount"`
}

// FeatureNames lists the feature columns in the exact order the classifier
// was trained on: Time first, then V1..V28, then Amount.
func FeatureNames() []string {
	names := make([]string, 0, NumFeatures)
	names = append(names, "Time")
	for i := 1; i <= 28; i++ {
		names = append(names, fmt.Sprintf("V%d", i))
	}
	return append(names, "Amount")
}

// Vector returns the transaction as a feature vector in training column
// order. Callers that scale Time/Amount must do so on the returned slice.
func (t Transaction) Vector() []float64 {
	return []float64{
		t.Time,
		t.V1, t.V2, t.V3, t.V4, t.V5, t.V6, t.V7,
		t.V8, t.V9, t.V10, t.V11, t.V12, t.V13, t.V14,
		t.V15, t.V16, t.V17, t.V18, t.V19, t.V20, t.V21,
		t.V22, t.V23, t.V24, t.V25, t.V26, t.V27, t.V28,
		t.Amount,
	}
}

// AnonymizedFeature returns the value of V<i> for i in [1,28].
func (t Transaction) AnonymizedFeature(i int) (float64, bool) {
	if i < 1 || i > 28 {
		return 0, false
	}
	return t.Vector()[i], true
}

// Validate rejects transactions with non-finite fields. All 30 fields must
// be present and finite before the classifier may be evaluated.
func (t Transaction) Validate() error {
	for i, v := range t.Vector() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("field %s is not finite", FeatureNames()[i])
		}
	}
	return nil
}
