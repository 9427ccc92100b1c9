package events

import (
	"context"
	"sync"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

// Notifier turns queued budget alerts into owner notifications. Every expense
// on an over-threshold budget produces an alert, so a budget is only notified
// again when its status escalates.
type Notifier struct {
	mu       sync.Mutex
	lastSent map[string]dto.BudgetHealth
}

func NewNotifier() *Notifier {
	return &Notifier{lastSent: make(map[string]dto.BudgetHealth)}
}

func (n *Notifier) HandleBudgetAlert(ctx context.Context, alert *BudgetAlert) error {
	if !ShouldAlert(alert.Status) {
		return nil
	}

	n.mu.Lock()
	prev, seen := n.lastSent[alert.BudgetID]
	escalated := !seen || (prev == dto.HealthWarning && alert.Status == dto.HealthExceeded)
	if escalated {
		n.lastSent[alert.BudgetID] = alert.Status
	}
	n.mu.Unlock()

	log := logger.FromContext(ctx)
	if !escalated {
		log.Debug("suppressed repeat budget alert", "budget_id", alert.BudgetID, "status", alert.Status)
		return nil
	}

	log.Warn("budget threshold crossed",
		"user_id", alert.UserID,
		"budget_id", alert.BudgetID,
		"category", alert.Category,
		"status", alert.Status,
		"spent", alert.Spent,
		"limit", alert.Limit,
		"percentage", alert.Percentage,
	)
	return nil
}

// Sent reports the last status notified for a budget.
func (n *Notifier) Sent(budgetID string) (dto.BudgetHealth, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	status, ok := n.lastSent[budgetID]
	return status, ok
}
