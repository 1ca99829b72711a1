package replay

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"fraudtriage/internal/domain/model"
	"fraudtriage/pkg/logger"
)

// Run replays the configured dataset against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting dataset replay",
		logger.String("baseURL", config.BaseURL),
		logger.String("dataset", config.DataPath),
		logger.Int("limit", config.Limit),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("batch", config.Batch))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	txs, labels, err := loadDataset(config.DataPath, config.Limit)
	if err != nil {
		return fmt.Errorf("dataset load failed: %w", err)
	}
	logger.Get().Info(ctx, "dataset loaded", logger.Int("transactions", len(txs)))

	if config.Batch {
		err = submitBatches(ctx, config, txs, labels, stats)
	} else {
		err = submitSingles(ctx, config, txs, labels, stats)
	}
	if err != nil {
		return fmt.Errorf("submission failed: %w", err)
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, stats)
	return nil
}

// checkServiceHealth verifies the service is reachable before replaying.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)

	resp, err := client.Get(ctx, config.BaseURL+"/health")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read health response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	var health healthResponse
	if err := unmarshalJSON(body, &health); err == nil && health.Status != "ok" {
		logger.Get().Warn(ctx, "service is degraded; predictions may fail",
			logger.String("message", health.Message))
	}
	return nil
}

// submitSingles posts one transaction per request using a worker pool.
func submitSingles(ctx context.Context, config *Config, txs []model.Transaction, labels []int, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/predict"

	workers := config.Workers
	if workers <= 0 {
		workers = 1
	}

	var (
		submitted int64
		flagged   int64
		failed    int64
		agreed    int64
	)

	type job struct {
		tx    model.Transaction
		label int
	}
	jobs := make(chan job, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				pred, err := submitOne(ctx, client, url, j.tx)
				atomic.AddInt64(&submitted, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				if pred.Prediction == 1 {
					atomic.AddInt64(&flagged, 1)
				}
				if pred.Prediction == j.label {
					atomic.AddInt64(&agreed, 1)
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range txs {
			select {
			case <-ctx.Done():
				return
			case jobs <- job{tx: txs[i], label: labels[i]}:
			}
		}
	}()

	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Flagged = int(atomic.LoadInt64(&flagged))
	stats.Failed = int(atomic.LoadInt64(&failed))
	stats.AgreeWithTag = int(atomic.LoadInt64(&agreed))
	return nil
}

// submitOne posts a single transaction and decodes the prediction.
func submitOne(ctx context.Context, client *HTTPClient, url string, tx model.Transaction) (*predictionResponse, error) {
	resp, err := client.Post(ctx, url, tx)
	if err != nil {
		return nil, err
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prediction returned status %d", resp.StatusCode)
	}

	var pred predictionResponse
	if err := unmarshalJSON(body, &pred); err != nil {
		return nil, fmt.Errorf("failed to decode prediction: %w", err)
	}
	return &pred, nil
}

// submitBatches posts transactions in chunks via the batch endpoint.
// Batch predictions never touch the alert queue, so this mode is safe
// to run against a service an analyst is actively triaging.
func submitBatches(ctx context.Context, config *Config, txs []model.Transaction, labels []int, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/predict_batch"

	size := config.BatchSize
	if size <= 0 {
		size = len(txs)
	}

	for start := 0; start < len(txs); start += size {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		end := start + size
		if end > len(txs) {
			end = len(txs)
		}
		chunk := txs[start:end]

		resp, err := client.Post(ctx, url, batchRequest{Transactions: chunk})
		if err != nil {
			stats.Submitted += len(chunk)
			stats.Failed += len(chunk)
			continue
		}
		body, err := readResponseBody(resp)
		if err != nil || resp.StatusCode != http.StatusOK {
			stats.Submitted += len(chunk)
			stats.Failed += len(chunk)
			continue
		}

		var batch batchResponse
		if err := unmarshalJSON(body, &batch); err != nil || len(batch.Predictions) != len(chunk) {
			stats.Submitted += len(chunk)
			stats.Failed += len(chunk)
			continue
		}

		stats.Submitted += len(chunk)
		for i, pred := range batch.Predictions {
			if pred == 1 {
				stats.Flagged++
			}
			if pred == labels[start+i] {
				stats.AgreeWithTag++
			}
		}
	}
	return nil
}

// displayFinalStats logs the replay outcome.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var agreement, perSecond float64
	scored := stats.Submitted - stats.Failed
	if scored > 0 {
		agreement = float64(stats.AgreeWithTag) / float64(scored) * 100
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Submitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "replay completed",
		logger.Int("submitted", stats.Submitted),
		logger.Int("flagged", stats.Flagged),
		logger.Int("failed", stats.Failed),
		logger.Int("agreeWithLabel", stats.AgreeWithTag),
		logger.Float64("labelAgreementPct", agreement),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("transactionsPerSecond", perSecond))
}
