package jobs

import (
	"context"
	"log/slog"
	"time"

	"orderportal/internal/core/application/usecases/queries"
	"orderportal/internal/core/domain/services/workflow"
	"orderportal/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// StaleOrderReminderJob emits reminder events for orders that have been
// sitting in a non-terminal status longer than the configured age.
// Runs hourly; the notification pipeline consuming the events handles
// deduplication across runs.
type StaleOrderReminderJob struct {
	handler   queries.GetStaleOrdersQueryHandler
	publisher ports.EventPublisher
	engine    workflow.Engine
	age       time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewStaleOrderReminderJob creates a new reminder job.
// age is how long an order may sit untouched before a reminder fires.
func NewStaleOrderReminderJob(
	handler queries.GetStaleOrdersQueryHandler,
	publisher ports.EventPublisher,
	engine workflow.Engine,
	age time.Duration,
	logger *slog.Logger,
) *StaleOrderReminderJob {
	return &StaleOrderReminderJob{
		handler:   handler,
		publisher: publisher,
		engine:    engine,
		age:       age,
		cron:      cron.New(),
		logger:    logger.With("component", "stale_order_reminder_job"),
	}
}

// nonTerminalStatuses lists the enabled statuses that have outgoing
// transitions. Orders parked in a terminal status never get reminders.
func (j *StaleOrderReminderJob) nonTerminalStatuses() []string {
	statuses := make([]string, 0)
	for _, st := range j.engine.Config().Statuses() {
		if !st.Enabled {
			continue
		}
		if _, ok := j.engine.Config().Transition(st.ID); ok {
			statuses = append(statuses, st.ID)
		}
	}
	return statuses
}

// run executes one sweep.
func (j *StaleOrderReminderJob) run() {
	ctx := context.Background()

	statuses := j.nonTerminalStatuses()
	if len(statuses) == 0 {
		return
	}

	query, err := queries.NewGetStaleOrdersQuery(statuses, time.Now().UTC().Add(-j.age))
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale order reminder job failed to build query", "error", err)
		return
	}

	orders, err := j.handler.Handle(ctx, query)
	if err != nil {
		j.logger.ErrorContext(ctx, "Stale order reminder job failed", "error", err)
		return
	}

	for _, o := range orders {
		j.publisher.Publish(ctx, ports.Event{
			Type:    ports.EventReminder,
			OrderID: o.ID,
			Payload: map[string]any{
				"number":     o.Number,
				"status":     o.Status,
				"updated_at": o.UpdatedAt,
			},
		})
	}

	if len(orders) > 0 {
		j.logger.InfoContext(ctx, "Stale order reminders emitted", "count", len(orders))
	}
}

// Start begins the reminder job to run hourly.
func (j *StaleOrderReminderJob) Start() error {
	_, err := j.cron.AddFunc("@hourly", j.run)
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stale order reminder job started (running hourly)")
	return nil
}

// Stop stops the reminder job.
func (j *StaleOrderReminderJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Stale order reminder job stopped")
}
