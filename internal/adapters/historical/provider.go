// Package historical serves a sampled slice of the labeled historical
// dataset for dashboards and anomaly attribution.
//
// The provider is read-only and fail-soft: loading applies a bounded
// timeout, and any failure falls back to the last good sample (or an empty
// one) instead of failing the caller.
package historical

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"sync"
	"time"

	"fraudtriage/internal/domain/model"
	"fraudtriage/pkg/logger"
	"fraudtriage/pkg/metrics"
)

// Defaults mirror the reference dataset sampling: 10k rows, fixed seed so
// repeated loads see the same sample.
const (
	defaultSampleSize  = 10000
	defaultSampleSeed  = 42
	defaultLoadTimeout = 5 * time.Second

	ctxCheckEvery = 4096 // rows between context checks during the scan
)

// Provider supplies the sampled historical dataset.
type Provider interface {
	// Sample returns the cached sample, loading it on first use. On load
	// failure it returns whatever is cached (possibly nothing) plus the
	// error, so callers can choose to fail soft.
	Sample(ctx context.Context) ([]model.LabeledTransaction, error)

	// MostAnomalousFeature scores tx against the sample distribution and
	// returns the feature with the largest |z|.
	MostAnomalousFeature(ctx context.Context, tx model.Transaction) (Attribution, error)
}

// CSVProvider implements Provider over a local CSV file with a header row
// of Time, V1..V28, Amount, Class columns.
type CSVProvider struct {
	path        string
	sampleSize  int
	seed        int64
	loadTimeout time.Duration
	logger      logger.Logger

	mu     sync.Mutex
	loaded bool
	cache  []model.LabeledTransaction
	stats  []featureStats // indexed like the attribution feature list
}

// NewCSVProvider creates a provider reading from the file at path. Nothing
// is loaded until the first Sample or MostAnomalousFeature call.
func NewCSVProvider(path string, opts ...Option) *CSVProvider {
	p := &CSVProvider{
		path:        path,
		sampleSize:  defaultSampleSize,
		seed:        defaultSampleSeed,
		loadTimeout: defaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("historical")
	}
	return p
}

// Sample returns the cached sample, loading it on first use.
func (p *CSVProvider) Sample(ctx context.Context) ([]model.LabeledTransaction, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureLoadedLocked(ctx); err != nil {
		metrics.RecordHistoricalFallback()
		out := make([]model.LabeledTransaction, len(p.cache))
		copy(out, p.cache)
		return out, err
	}

	out := make([]model.LabeledTransaction, len(p.cache))
	copy(out, p.cache)
	return out, nil
}

// ensureLoadedLocked loads and samples the dataset once. Subsequent calls
// after a failure retry the load; a success is cached for process lifetime.
func (p *CSVProvider) ensureLoadedLocked(ctx context.Context) error {
	if p.loaded {
		return nil
	}

	loadCtx, cancel := context.WithTimeout(ctx, p.loadTimeout)
	defer cancel()

	sample, err := p.load(loadCtx)
	if err != nil {
		p.logger.Warn(ctx, "historical data load failed, serving fallback",
			logger.String("path", p.path),
			logger.Error(err),
		)
		return err
	}

	p.cache = sample
	p.stats = computeStats(sample)
	p.loaded = true
	metrics.UpdateHistoricalRows(len(sample))
	p.logger.Info(ctx, "historical sample loaded",
		logger.String("path", p.path),
		logger.Int("rows", len(sample)),
	)
	return nil
}

// load scans the CSV once and reservoir-samples sampleSize rows.
func (p *CSVProvider) load(ctx context.Context) ([]model.LabeledTransaction, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("open historical data: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read historical header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(p.seed)) //nolint:gosec // deterministic sampling, not crypto
	reservoir := make([]model.LabeledTransaction, 0, p.sampleSize)
	seen := 0

	for {
		if seen%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("historical load timed out: %w", err)
			}
		}

		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read historical row %d: %w", seen+1, err)
		}

		row, err := parseRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("parse historical row %d: %w", seen+1, err)
		}

		seen++
		if len(reservoir) < p.sampleSize {
			reservoir = append(reservoir, row)
			continue
		}
		if j := rng.Intn(seen); j < p.sampleSize {
			reservoir[j] = row
		}
	}

	if len(reservoir) == 0 {
		return nil, fmt.Errorf("%w: %s has no data rows", ErrEmptyDataset, p.path)
	}
	return reservoir, nil
}

// columnIndex maps the 30 feature columns plus the optional Class column to
// their positions in the CSV header.
type columnIndex struct {
	features [model.NumFeatures]int
	class    int // -1 when the dataset carries no label column
}

func mapColumns(header []string) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	for i, name := range header {
		byName[name] = i
	}

	var cols columnIndex
	for i, name := range model.FeatureNames() {
		idx, ok := byName[name]
		if !ok {
			return columnIndex{}, fmt.Errorf("%w: missing column %s", ErrBadHeader, name)
		}
		cols.features[i] = idx
	}

	// Label column is optional; rows default to class 0 without it.
	cols.class = -1
	if idx, ok := byName["Class"]; ok {
		cols.class = idx
	}
	return cols, nil
}

func parseRow(record []string, cols columnIndex) (model.LabeledTransaction, error) {
	var vec [model.NumFeatures]float64
	for i, idx := range cols.features {
		if idx >= len(record) {
			return model.LabeledTransaction{}, fmt.Errorf("%w: row too short", ErrBadHeader)
		}
		v, err := strconv.ParseFloat(record[idx], 64)
		if err != nil {
			return model.LabeledTransaction{}, fmt.Errorf("column %s: %w", model.FeatureNames()[i], err)
		}
		vec[i] = v
	}

	row := model.LabeledTransaction{Transaction: fromVector(vec)}
	if cols.class >= 0 && cols.class < len(record) {
		c, err := strconv.Atoi(record[cols.class])
		if err != nil {
			return model.LabeledTransaction{}, fmt.Errorf("column Class: %w", err)
		}
		row.Class = c
	}
	return row, nil
}

// fromVector rebuilds a Transaction from a vector in training column order.
func fromVector(v [model.NumFeatures]float64) model.Transaction {
	return model.Transaction{
		Time: v[0],
		V1:   v[1], V2: v[2], V3: v[3], V4: v[4], V5: v[5], V6: v[6], V7: v[7],
		V8: v[8], V9: v[9], V10: v[10], V11: v[11], V12: v[12], V13: v[13], V14: v[14],
		V15: v[15], V16: v[16], V17: v[17], V18: v[18], V19: v[19], V20: v[20], V21: v[21],
		V22: v[22], V23: v[23], V24: v[24], V25: v[25], V26: v[26], V27: v[27], V28: v[28],
		Amount: v[29],
	}
}
