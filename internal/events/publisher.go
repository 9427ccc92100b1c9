package events

import (
	"context"

	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type Publisher interface {
	PublishBudgetAlert(ctx context.Context, alert *BudgetAlert) error
	Close() error
}

// LogPublisher writes alerts to the request logger. It is used when no broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (LogPublisher) PublishBudgetAlert(ctx context.Context, alert *BudgetAlert) error {
	logger.FromContext(ctx).Info("budget alert",
		"budget_id", alert.BudgetID,
		"category", alert.Category,
		"status", alert.Status,
		"percentage", alert.Percentage,
	)
	return nil
}

func (LogPublisher) Close() error { return nil }
