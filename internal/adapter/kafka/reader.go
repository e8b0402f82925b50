package kafka

import (
	"context"
	"fmt"
	"log/slog"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/grib-parity/internal/config"
)

// Reader consumes one record payload from a decode-run topic.
type Reader struct {
	reader *kafkago.Reader
	logger *slog.Logger
}

// NewReader creates a Kafka consumer for the given topic. Reference and
// candidate payloads live on separate topics, so the comparator holds one
// Reader per side.
func NewReader(cfg *config.Config, topic string, logger *slog.Logger) *Reader {
	r := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.KafkaBrokers,
		Topic:    topic,
		GroupID:  cfg.KafkaGroupID,
		MinBytes: 1,
		MaxBytes: 64 << 20, // record payloads carry full value arrays
	})
	return &Reader{reader: r, logger: logger}
}

// ReadPayload blocks until one payload message arrives and returns its value
// along with the run ID header, if present.
func (r *Reader) ReadPayload(ctx context.Context) ([]byte, string, error) {
	msg, err := r.reader.ReadMessage(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("read payload from %s: %w", r.reader.Config().Topic, err)
	}

	runID := headerValue(msg, "run_id")
	if runID == "" {
		runID = string(msg.Key)
	}
	r.logger.Info("consumed record payload",
		"topic", msg.Topic, "run_id", runID, "bytes", len(msg.Value), "offset", msg.Offset)
	return msg.Value, runID, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func headerValue(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
