package jobs

import (
	"context"
	"log/slog"

	"deliverystate/internal/core/application/usecases/queries"
	"deliverystate/internal/core/domain/model/delivery"

	"github.com/robfig/cron/v3"
)

// DeliveryCounter is the read side the attention job needs: how many
// deliveries sit in a given status.
type DeliveryCounter interface {
	Handle(ctx context.Context, query queries.CountDeliveriesInStatusQuery) (int64, error)
}

// OperatorAttentionJob periodically reports how many deliveries wait for an
// operator. Runs every minute and logs a digest of failed and pending counts.
type OperatorAttentionJob struct {
	counter DeliveryCounter
	cron    *cron.Cron
	logger  *slog.Logger
}

// NewOperatorAttentionJob creates a job that surfaces the operator backlog.
func NewOperatorAttentionJob(counter DeliveryCounter, logger *slog.Logger) *OperatorAttentionJob {
	return &OperatorAttentionJob{
		counter: counter,
		cron:    cron.New(),
		logger:  logger.With("component", "operator_attention_job"),
	}
}

// Start begins the attention job to run every minute.
func (j *OperatorAttentionJob) Start() error {
	_, err := j.cron.AddFunc("* * * * *", func() {
		j.RunOnce(context.Background())
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Operator attention job started (running every minute)")
	return nil
}

// RunOnce executes a single digest tick.
func (j *OperatorAttentionJob) RunOnce(ctx context.Context) {
	failed, err := j.countInStatus(ctx, delivery.DeliveryFailed)
	if err != nil {
		j.logger.ErrorContext(ctx, "Operator attention job failed to count failed deliveries", "error", err)
		return
	}

	pending, err := j.countInStatus(ctx, delivery.PendingByOperator)
	if err != nil {
		j.logger.ErrorContext(ctx, "Operator attention job failed to count pending deliveries", "error", err)
		return
	}

	if failed == 0 && pending == 0 {
		return
	}

	j.logger.InfoContext(ctx, "Deliveries waiting for operator attention",
		"failed", failed,
		"pending_by_operator", pending,
	)
}

func (j *OperatorAttentionJob) countInStatus(ctx context.Context, status delivery.Status) (int64, error) {
	query, err := queries.NewCountDeliveriesInStatusQuery(status)
	if err != nil {
		return 0, err
	}

	return j.counter.Handle(ctx, query)
}

// Stop stops the attention job.
func (j *OperatorAttentionJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Operator attention job stopped")
}
