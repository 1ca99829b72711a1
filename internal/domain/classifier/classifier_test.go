package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"fraudtriage/internal/domain/model"
)

// stumpArtifact builds a one-tree artifact that splits on Amount (index 29):
// amounts below the threshold score margin -2, at or above score +2.
func stumpArtifact(t *testing.T, threshold float64) []byte {
	t.Helper()
	art := modelArtifact{
		Version:      1,
		FeatureNames: model.FeatureNames(),
		BaseScore:    0,
		Trees: []tree{{
			Nodes: []treeNode{
				{Feature: 29, Threshold: threshold, Left: 1, Right: 2},
				{Leaf: true, Value: -2},
				{Leaf: true, Value: 2},
			},
		}},
	}
	raw, err := json.Marshal(art)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	return raw
}

func vectorWithAmount(amount float64) []float64 {
	vec := make([]float64, model.NumFeatures)
	vec[model.NumFeatures-1] = amount
	return vec
}

func TestBoostedTrees_Predict(t *testing.T) {
	c, err := NewBoostedTrees(stumpArtifact(t, 100))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	ctx := context.Background()

	pred, err := c.Predict(ctx, vectorWithAmount(250))
	if err != nil {
		t.Fatalf("unexpected predict error: %v", err)
	}
	if pred.Label != 1 {
		t.Errorf("expected label 1 above threshold, got %d", pred.Label)
	}
	if want := 1.0 / (1.0 + math.Exp(-2)); math.Abs(pred.Probability-want) > 1e-12 {
		t.Errorf("expected probability %v, got %v", want, pred.Probability)
	}

	pred, err = c.Predict(ctx, vectorWithAmount(10))
	if err != nil {
		t.Fatalf("unexpected predict error: %v", err)
	}
	if pred.Label != 0 {
		t.Errorf("expected label 0 below threshold, got %d", pred.Label)
	}
	if pred.Probability >= 0.5 {
		t.Errorf("expected probability below 0.5, got %v", pred.Probability)
	}
}

func TestBoostedTrees_MultipleTreesSumMargins(t *testing.T) {
	art := modelArtifact{
		FeatureNames: model.FeatureNames(),
		BaseScore:    0.5,
		Trees: []tree{
			{Nodes: []treeNode{{Leaf: true, Value: 1}}},
			{Nodes: []treeNode{{Leaf: true, Value: -0.25}}},
		},
	}
	raw, err := json.Marshal(art)
	if err != nil {
		t.Fatalf("marshal artifact: %v", err)
	}
	c, err := NewBoostedTrees(raw)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	pred, err := c.Predict(context.Background(), vectorWithAmount(0))
	if err != nil {
		t.Fatalf("unexpected predict error: %v", err)
	}
	want := 1.0 / (1.0 + math.Exp(-(0.5 + 1 - 0.25)))
	if math.Abs(pred.Probability-want) > 1e-12 {
		t.Errorf("expected probability %v, got %v", want, pred.Probability)
	}
}

func TestBoostedTrees_DecisionThresholdOption(t *testing.T) {
	// sigmoid(2) ~= 0.88: label 1 at the default threshold, 0 at 0.9.
	c, err := NewBoostedTrees(stumpArtifact(t, 100), WithDecisionThreshold(0.9))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	pred, err := c.Predict(context.Background(), vectorWithAmount(250))
	if err != nil {
		t.Fatalf("unexpected predict error: %v", err)
	}
	if pred.Label != 0 {
		t.Errorf("expected label 0 with raised threshold, got %d", pred.Label)
	}
}

func TestBoostedTrees_FeatureWidth(t *testing.T) {
	c, err := NewBoostedTrees(stumpArtifact(t, 100))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	_, err = c.Predict(context.Background(), make([]float64, 5))
	if !errors.Is(err, ErrFeatureWidth) {
		t.Errorf("expected ErrFeatureWidth, got %v", err)
	}
}

func TestBoostedTrees_CancelledContext(t *testing.T) {
	c, err := NewBoostedTrees(stumpArtifact(t, 100))
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Predict(ctx, vectorWithAmount(10)); err == nil {
		t.Error("expected error from cancelled context")
	}
}

func TestNewBoostedTrees_InvalidArtifacts(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"not json", `{"trees": [`},
		{"no trees", `{"feature_names": ["Time"], "trees": []}`},
		{"no features", `{"feature_names": [], "trees": [{"nodes": [{"leaf": true, "value": 1}]}]}`},
		{"empty tree", `{"feature_names": ["Time"], "trees": [{"nodes": []}]}`},
		{"feature out of range", `{"feature_names": ["Time"], "trees": [{"nodes": [{"feature": 5, "threshold": 0, "left": 1, "right": 2}, {"leaf": true}, {"leaf": true}]}]}`},
		{"child out of range", `{"feature_names": ["Time"], "trees": [{"nodes": [{"feature": 0, "threshold": 0, "left": 1, "right": 9}, {"leaf": true}]}]}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewBoostedTrees([]byte(tc.raw)); err == nil {
				t.Error("expected load to fail")
			}
		})
	}
}

func TestLoadBoostedTrees_MissingFile(t *testing.T) {
	if _, err := LoadBoostedTrees("no/such/model.json"); err == nil {
		t.Error("expected missing artifact to fail")
	}
}
