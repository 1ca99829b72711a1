package model

import (
	"strconv"
	"time"
)

// Alert is a transaction the classifier flagged as fraud, waiting for an
// analyst verdict. The ID is synthetic and assigned by the queue at enqueue
// time; identity by (Time, Amount) alone is ambiguous because two distinct
// transactions can share both values.
type Alert struct {
	ID string `json:"id"`
	Transaction
	ModelPrediction int       `json:"model_prediction"`
	PredictionScore float64   `json:"prediction_score"`
	CreatedAt       time.Time `json:"created_at"`
}

// Matches reports whether the alert carries the given (time, amount) pair.
// Exact float equality on purpose: feedback submissions echo back the very
// values the alert was created with.
func (a Alert) Matches(txTime, amount float64) bool {
	return a.Time == txTime && a.Amount == amount
}

// FeedbackRecord is one analyst verdict: the reviewed transaction, what the
// model said, and the analyst-asserted ground truth. Records are append-only
// and never rewritten.
type FeedbackRecord struct {
	Transaction
	ModelPrediction int `json:"model_prediction"`
	UserFeedback    int `json:"user_feedback"`
}

// FeedbackHeader is the column header written once, lazily, when the
// feedback log is first created.
func FeedbackHeader() []string {
	return append(FeatureNames(), "model_prediction", "user_feedback")
}

// Row renders the record as one CSV row in feedback log column order.
func (r FeedbackRecord) Row() []string {
	vec := r.Vector()
	row := make([]string, 0, len(vec)+2)
	for _, v := range vec {
		row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
	}
	row = append(row, strconv.Itoa(r.ModelPrediction), strconv.Itoa(r.UserFeedback))
	return row
}

// LabeledTransaction is a historical transaction with its known class label
// (0 legitimate, 1 fraud). Served to dashboards for charting and used for
// anomaly attribution.
type LabeledTransaction struct {
	Transaction
	Class int `json:"Class"`
}
