package historical

import (
	"context"
	"math"

	"fraudtriage/internal/domain/model"
)

// outOfDistributionZ is the |z| above which a feature is considered out of
// the historical norm.
const outOfDistributionZ = 3.0

// Attribution names the feature of a transaction that deviates most from
// the historical sample, with its z-score.
type Attribution struct {
	Feature           string  `json:"feature"`
	ZScore            float64 `json:"z_score"`
	OutOfDistribution bool    `json:"out_of_distribution"`
}

// featureStats holds the sample mean and standard deviation of one feature.
type featureStats struct {
	name   string
	vector int // index into the transaction feature vector
	mean   float64
	std    float64
}

// attributionFeatures lists the features scored for anomaly attribution:
// V1..V28 and Amount. Time is excluded; its scale says nothing about how
// unusual a transaction is.
func attributionFeatures() []featureStats {
	names := model.FeatureNames()
	out := make([]featureStats, 0, model.NumFeatures-1)
	for i := 1; i < model.NumFeatures; i++ {
		out = append(out, featureStats{name: names[i], vector: i})
	}
	return out
}

// computeStats derives per-feature mean and stddev from the sample.
func computeStats(sample []model.LabeledTransaction) []featureStats {
	stats := attributionFeatures()
	if len(sample) == 0 {
		return stats
	}

	n := float64(len(sample))
	for si := range stats {
		sum := 0.0
		for _, row := range sample {
			sum += row.Vector()[stats[si].vector]
		}
		mean := sum / n

		var sq float64
		for _, row := range sample {
			d := row.Vector()[stats[si].vector] - mean
			sq += d * d
		}

		stats[si].mean = mean
		stats[si].std = math.Sqrt(sq / n)
	}
	return stats
}

// MostAnomalousFeature returns the feature of tx with the largest |z|
// against the sample distribution. Features with zero sample variance are
// skipped.
func (p *CSVProvider) MostAnomalousFeature(ctx context.Context, tx model.Transaction) (Attribution, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureLoadedLocked(ctx); err != nil {
		return Attribution{}, err
	}
	if len(p.cache) == 0 {
		return Attribution{}, ErrEmptyDataset
	}

	vec := tx.Vector()
	best := Attribution{}
	found := false
	for _, fs := range p.stats {
		if fs.std == 0 {
			continue
		}
		z := math.Abs(vec[fs.vector]-fs.mean) / fs.std
		if !found || z > best.ZScore {
			best = Attribution{Feature: fs.name, ZScore: z}
			found = true
		}
	}
	if !found {
		return Attribution{}, ErrEmptyDataset
	}

	best.OutOfDistribution = best.ZScore > outOfDistributionZ
	return best, nil
}
