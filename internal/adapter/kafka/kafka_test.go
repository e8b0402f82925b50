package kafka

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/grib-parity/internal/domain"
)

func TestBuildMessage(t *testing.T) {
	fixed := time.Date(2024, 4, 26, 15, 10, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(fixed))
	t.Cleanup(func() { domain.SetClock(nil) })

	payload := []byte(`[{"message":1}]`)
	msg := buildMessage("run-2024-04-26", payload)

	assert.Equal(t, []byte("run-2024-04-26"), msg.Key)
	assert.Equal(t, payload, msg.Value)
	assert.Len(t, msg.Headers, 2)
	assert.Equal(t, "run_id", msg.Headers[0].Key)
	assert.Equal(t, []byte("run-2024-04-26"), msg.Headers[0].Value)
	assert.Equal(t, "produced_at", msg.Headers[1].Key)
	assert.Equal(t, []byte("2024-04-26T15:10:00Z"), msg.Headers[1].Value)
}

func TestHeaderValue(t *testing.T) {
	msg := kafkago.Message{
		Key: []byte("key-1"),
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte("run-7")},
			{Key: "produced_at", Value: []byte("2024-04-26T15:10:00Z")},
		},
	}

	assert.Equal(t, "run-7", headerValue(msg, "run_id"))
	assert.Empty(t, headerValue(msg, "absent"))
}
