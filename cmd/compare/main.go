// Command compare checks two GRIB decoder output payloads against each other
// and prints a categorized parity report. The reference side is typically a
// pygrib dump, the candidate a port under test; both are JSON record arrays,
// optionally preceded by build noise.
//
// Usage:
//
//	go run ./cmd/compare -reference pygrib_output.json -candidate decoder_output.json
//
// With -source=kafka the payloads are consumed from the configured reference
// and candidate topics instead of files.
//
// Exit codes: 0 all records match, 1 discrepancies found, 2 fatal error
// (malformed payload or record count mismatch).
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	httpadapter "github.com/couchcryptid/grib-parity/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/grib-parity/internal/adapter/kafka"
	"github.com/couchcryptid/grib-parity/internal/config"
	"github.com/couchcryptid/grib-parity/internal/domain"
	"github.com/couchcryptid/grib-parity/internal/observability"
	"github.com/couchcryptid/grib-parity/internal/report"
)

func main() {
	reference := flag.String("reference", "", "path to the reference decoder output")
	candidate := flag.String("candidate", "", "path to the candidate decoder output")
	configFile := flag.String("config", "", "optional YAML file overriding tolerances and sampling")
	source := flag.String("source", "file", "payload source: file or kafka")
	flag.Parse()

	os.Exit(run(*reference, *candidate, *configFile, *source))
}

func run(reference, candidate, configFile, source string) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load config: %v\n", err)
		return 2
	}
	if configFile != "" {
		if err := cfg.ApplyFile(configFile); err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 2
		}
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	agg := report.New(os.Stdout, cfg.Tolerances, metrics)

	// The metrics server is for harnesses that loop over many decoder builds;
	// one-shot CLI runs leave HTTP_ADDR unset.
	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, agg, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	var ref, cand []domain.MessageRecord
	switch source {
	case "file":
		if reference == "" || candidate == "" {
			fmt.Fprintln(os.Stderr, "FATAL: -reference and -candidate are required with -source=file")
			return 2
		}
		ref, err = loadRecordsFile(reference)
		if err == nil {
			cand, err = loadRecordsFile(candidate)
		}
	case "kafka":
		ref, cand, err = loadRecordsKafka(cfg, metrics, logger)
	default:
		fmt.Fprintf(os.Stderr, "FATAL: unknown source %q\n", source)
		return 2
	}
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 2
	}

	result, err := agg.Run(ref, cand)
	if err != nil {
		metrics.RunsTotal.WithLabelValues("error").Inc()
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 2
	}

	if !result.AllMatch() {
		metrics.RunsTotal.WithLabelValues("mismatch").Inc()
		logger.Info("comparison finished",
			"records", result.RecordCount, "discrepancies", result.Total())
		return 1
	}

	metrics.RunsTotal.WithLabelValues("match").Inc()
	logger.Info("comparison finished", "records", result.RecordCount, "discrepancies", 0)
	return 0
}

func loadRecordsFile(path string) ([]domain.MessageRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := domain.DecodeRecords(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// loadRecordsKafka consumes one payload from each decode-run topic. Payloads
// are expected to already be waiting; the reads time out rather than blocking
// a harness forever.
func loadRecordsKafka(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) ([]domain.MessageRecord, []domain.MessageRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	ref, err := consumeRecords(ctx, cfg, cfg.KafkaReferenceTopic, metrics, logger)
	if err != nil {
		return nil, nil, err
	}
	cand, err := consumeRecords(ctx, cfg, cfg.KafkaCandidateTopic, metrics, logger)
	if err != nil {
		return nil, nil, err
	}
	return ref, cand, nil
}

func consumeRecords(ctx context.Context, cfg *config.Config, topic string, metrics *observability.Metrics, logger *slog.Logger) ([]domain.MessageRecord, error) {
	reader := kafkaadapter.NewReader(cfg, topic, logger)
	defer reader.Close()

	payload, runID, err := reader.ReadPayload(ctx)
	if err != nil {
		return nil, err
	}
	metrics.PayloadsConsumed.Inc()

	records, err := domain.DecodeRecords(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("topic %s run %s: %w", topic, runID, err)
	}
	return records, nil
}
