// Package kafka moves decoder output payloads between decode runs and the
// comparator. An extractor publishes its record payload to a topic; the
// comparator can consume reference and candidate payloads from two topics
// instead of reading files.
package kafka

import (
	"context"
	"errors"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/grib-parity/internal/config"
	"github.com/couchcryptid/grib-parity/internal/domain"
)

// Writer produces record payloads to a Kafka topic.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured records topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaRecordsTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// PublishRecords publishes one extracted record payload keyed by run ID.
func (w *Writer) PublishRecords(ctx context.Context, runID string, payload []byte) error {
	if runID == "" {
		return errors.New("run ID is required")
	}
	if len(payload) == 0 {
		return errors.New("empty record payload")
	}

	msg := buildMessage(runID, payload)
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return err
	}
	w.logger.Info("published record payload", "run_id", runID, "bytes", len(payload))
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// buildMessage wraps a payload in a Kafka message keyed by run ID, stamping
// the production time for downstream ordering checks.
func buildMessage(runID string, payload []byte) kafkago.Message {
	return kafkago.Message{
		Key:   []byte(runID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(runID)},
			{Key: "produced_at", Value: []byte(domain.Now().UTC().Format(time.RFC3339))},
		},
	}
}
