// Command extract turns raw decoder output (full per-message value arrays,
// possibly preceded by build noise) into the compact record payload the
// comparator consumes: statistics, spot checks, and sampled or exhaustive
// value arrays per message.
//
// Usage:
//
//	go run ./cmd/extract -input decoder_raw.json -out decoder_records.json
//
// With -publish the payload is also written to the configured Kafka records
// topic, keyed by -run-id.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	kafkaadapter "github.com/couchcryptid/grib-parity/internal/adapter/kafka"
	"github.com/couchcryptid/grib-parity/internal/config"
	"github.com/couchcryptid/grib-parity/internal/domain"
	"github.com/couchcryptid/grib-parity/internal/observability"
)

func main() {
	input := flag.String("input", "", "path to raw decoder output (use - for stdin)")
	out := flag.String("out", "", "output path for the record payload JSON")
	publish := flag.Bool("publish", false, "also publish the payload to the Kafka records topic")
	runID := flag.String("run-id", "", "run identifier for the published payload (default: timestamp)")
	flag.Parse()

	if *input == "" || (*out == "" && !*publish) {
		flag.Usage()
		os.Exit(2)
	}

	os.Exit(run(*input, *out, *publish, *runID))
}

func run(input, out string, publish bool, runID string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 2
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	raws, err := loadRawMessages(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 2
	}

	records := domain.BuildRecords(raws, cfg.Sampling)
	metrics.RecordsExtracted.Add(float64(len(records)))
	logger.Info("extracted records", "messages", len(records))

	payload, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: encode records: %v\n", err)
		return 2
	}
	payload = append(payload, '\n')

	if out != "" {
		if err := writePayload(out, payload); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: write %s: %v\n", out, err)
			return 2
		}
		logger.Info("wrote record payload", "path", out, "bytes", len(payload))
	}

	if publish {
		if runID == "" {
			runID = "run-" + domain.Now().UTC().Format("20060102T150405Z")
		}
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer writer.Close()

		if err := writer.PublishRecords(context.Background(), runID, payload); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: publish payload: %v\n", err)
			return 2
		}
		metrics.PayloadsPublished.Inc()
	}

	return 0
}

func loadRawMessages(input string) ([]domain.RawMessage, error) {
	if input == "-" {
		return domain.DecodeRawMessages(os.Stdin)
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	raws, err := domain.DecodeRawMessages(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", input, err)
	}
	return raws, nil
}

func writePayload(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
