// Package eventlog provides a structured-log implementation of the
// EventPublisher port. Recipient resolution and message delivery happen
// in an external notification pipeline that tails these records; the
// portal's contract ends at emitting them.
package eventlog

import (
	"context"
	"log/slog"

	"orderportal/internal/core/ports"
)

// SlogEventPublisher writes change events as structured log records.
type SlogEventPublisher struct {
	logger *slog.Logger
}

// NewSlogEventPublisher creates a publisher writing to the given logger.
// A nil logger falls back to slog.Default.
func NewSlogEventPublisher(logger *slog.Logger) *SlogEventPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogEventPublisher{logger: logger}
}

// Publish records the event. Fire-and-forget: it never fails and never
// blocks on delivery.
func (p *SlogEventPublisher) Publish(ctx context.Context, event ports.Event) {
	p.logger.InfoContext(ctx, "order event",
		slog.String("type", string(event.Type)),
		slog.String("order_id", event.OrderID.String()),
		slog.Any("payload", event.Payload),
	)
}
