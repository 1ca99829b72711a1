// Package classifier loads the pre-trained fraud model and exposes it as an
// opaque prediction capability. There is no training path: the ensemble is
// decoded once from a serialized artifact at process start and is immutable
// and safe for concurrent reads afterwards.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// defaultDecisionThreshold converts the positive-class probability into the
// binary label the same way the model was evaluated during training.
const defaultDecisionThreshold = 0.5

// Prediction is the classifier output for one feature vector.
type Prediction struct {
	// Label is 1 when the probability crossed the decision boundary.
	Label int
	// Probability is the positive-class (fraud) score in [0,1].
	Probability float64
}

// Classifier evaluates a feature vector and returns a binary verdict with
// its fraud probability.
type Classifier interface {
	Predict(ctx context.Context, features []float64) (Prediction, error)
}

// treeNode is one node of a regression tree. Leaves carry the margin value;
// internal nodes route on features[Feature] < Threshold.
type treeNode struct {
	Feature   int     `json:"feature"`
	Threshold float64 `json:"threshold"`
	Left      int     `json:"left"`
	Right     int     `json:"right"`
	Leaf      bool    `json:"leaf"`
	Value     float64 `json:"value"`
}

type tree struct {
	Nodes []treeNode `json:"nodes"`
}

// modelArtifact is the on-disk JSON layout of the trained ensemble.
type modelArtifact struct {
	Version      int      `json:"version"`
	FeatureNames []string `json:"feature_names"`
	BaseScore    float64  `json:"base_score"`
	Trees        []tree   `json:"trees"`
}

// BoostedTrees implements Classifier with a gradient-boosted tree ensemble.
// The probability is the sigmoid of the base score plus the summed leaf
// margins of every tree.
type BoostedTrees struct {
	numFeatures int
	baseScore   float64
	trees       []tree
	threshold   float64
}

// LoadBoostedTrees decodes a model artifact from path.
func LoadBoostedTrees(path string, opts ...Option) (*BoostedTrees, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}
	return NewBoostedTrees(raw, opts...)
}

// NewBoostedTrees decodes a model artifact from raw JSON bytes.
func NewBoostedTrees(raw []byte, opts ...Option) (*BoostedTrees, error) {
	var art modelArtifact
	if err := json.Unmarshal(raw, &art); err != nil {
		return nil, fmt.Errorf("decode model artifact: %w", err)
	}
	if len(art.Trees) == 0 {
		return nil, fmt.Errorf("%w: artifact contains no trees", ErrInvalidArtifact)
	}
	if len(art.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: artifact declares no features", ErrInvalidArtifact)
	}

	c := &BoostedTrees{
		numFeatures: len(art.FeatureNames),
		baseScore:   art.BaseScore,
		trees:       art.Trees,
		threshold:   defaultDecisionThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// validate checks every node index and feature index once at load time so
// Predict can walk trees without bounds checks failing mid-request.
func (c *BoostedTrees) validate() error {
	for ti, t := range c.trees {
		if len(t.Nodes) == 0 {
			return fmt.Errorf("%w: tree %d is empty", ErrInvalidArtifact, ti)
		}
		for ni, n := range t.Nodes {
			if n.Leaf {
				continue
			}
			if n.Feature < 0 || n.Feature >= c.numFeatures {
				return fmt.Errorf("%w: tree %d node %d references feature %d", ErrInvalidArtifact, ti, ni, n.Feature)
			}
			if n.Left < 0 || n.Left >= len(t.Nodes) || n.Right < 0 || n.Right >= len(t.Nodes) {
				return fmt.Errorf("%w: tree %d node %d has child out of range", ErrInvalidArtifact, ti, ni)
			}
		}
	}
	return nil
}

// NumFeatures returns the feature-vector width the model expects.
func (c *BoostedTrees) NumFeatures() int {
	return c.numFeatures
}

// Predict evaluates the ensemble on a single feature vector.
func (c *BoostedTrees) Predict(ctx context.Context, features []float64) (Prediction, error) {
	if err := ctx.Err(); err != nil {
		return Prediction{}, fmt.Errorf("predict cancelled: %w", err)
	}
	if len(features) != c.numFeatures {
		return Prediction{}, fmt.Errorf("%w: got %d features, model expects %d", ErrFeatureWidth, len(features), c.numFeatures)
	}

	margin := c.baseScore
	for i := range c.trees {
		margin += c.trees[i].walk(features)
	}

	probability := sigmoid(margin)
	label := 0
	if probability >= c.threshold {
		label = 1
	}
	return Prediction{Label: label, Probability: probability}, nil
}

// walk routes the vector from the root to a leaf and returns its margin.
func (t *tree) walk(features []float64) float64 {
	i := 0
	for {
		n := t.Nodes[i]
		if n.Leaf {
			return n.Value
		}
		if features[n.Feature] < n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
