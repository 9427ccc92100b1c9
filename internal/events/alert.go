// Package events publishes notifications about owners' records to the message broker.
package events

import (
	"encoding/json"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
)

// BudgetAlert is emitted when an expense pushes a budget into warning or exceeded.
type BudgetAlert struct {
	UserID     string           `json:"userId"`
	BudgetID   string           `json:"budgetId"`
	Category   string           `json:"category"`
	Limit      float64          `json:"limit"`
	Spent      float64          `json:"spent"`
	Percentage float64          `json:"percentage"`
	Status     dto.BudgetHealth `json:"status"`
	Timestamp  time.Time        `json:"timestamp"`
}

func NewBudgetAlert(status dto.BudgetStatus, at time.Time) *BudgetAlert {
	return &BudgetAlert{
		UserID:     status.UserID,
		BudgetID:   status.BudgetID,
		Category:   status.Category,
		Limit:      status.Limit,
		Spent:      status.Spent,
		Percentage: status.Percentage,
		Status:     status.Status,
		Timestamp:  at,
	}
}

// ShouldAlert reports whether a budget health label warrants a notification.
func ShouldAlert(health dto.BudgetHealth) bool {
	return health == dto.HealthWarning || health == dto.HealthExceeded
}

func (a *BudgetAlert) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

func BudgetAlertFromJSON(data []byte) (*BudgetAlert, error) {
	var alert BudgetAlert
	if err := json.Unmarshal(data, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}
