package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"fraudtriage/internal/replay"
	"fraudtriage/pkg/logger"
)

// Default configuration constants.
const (
	defaultLimit         = 1000
	defaultBatchSize     = 500
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultReplayTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:8000", "Base URL of the service")
		dataPath  = flag.String("data", "data/creditcard_cleaned.csv", "CSV dataset to replay")
		limit     = flag.Int("limit", defaultLimit, "Max transactions to submit (0 = all)")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		batch     = flag.Bool("batch", false, "Use the batch endpoint (does not touch the alert queue)")
		batchSize = flag.Int("batch-size", defaultBatchSize, "Rows per batch request")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("Failed to initialize logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultReplayTimeout)
	defer cancel()

	config := &replay.Config{
		BaseURL:   *baseURL,
		DataPath:  *dataPath,
		Limit:     *limit,
		Workers:   *workers,
		Timeout:   *timeout,
		Batch:     *batch,
		BatchSize: *batchSize,
	}

	if err := replay.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Replay failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
