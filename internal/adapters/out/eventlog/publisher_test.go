package eventlog_test

import (
	"bytes"
	"log/slog"
	"testing"

	"orderportal/internal/adapters/out/eventlog"
	"orderportal/internal/core/domain/model/kernel"
	"orderportal/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogEventPublisher_WritesStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	publisher := eventlog.NewSlogEventPublisher(logger)

	orderID := kernel.NewUUID()
	publisher.Publish(t.Context(), ports.Event{
		Type:    ports.EventStatusChanged,
		OrderID: orderID,
		Payload: map[string]any{"from": "preparation", "to": "submitted"},
	})

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "order event")
	assert.Contains(t, out, string(ports.EventStatusChanged))
	assert.Contains(t, out, orderID.String())
	assert.Contains(t, out, "submitted")
}

func TestNewSlogEventPublisher_NilLoggerFallsBack(t *testing.T) {
	publisher := eventlog.NewSlogEventPublisher(nil)
	require.NotNil(t, publisher)

	// Must not panic without a configured logger.
	publisher.Publish(t.Context(), ports.Event{
		Type:    ports.EventFieldChanged,
		OrderID: kernel.NewUUID(),
	})
}
