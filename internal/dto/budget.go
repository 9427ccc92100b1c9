package dto

import "github.com/GregMSThompson/finance-tracker/internal/models"

type CreateBudgetRequest struct {
	Category string              `json:"category"`
	Limit    float64             `json:"limit"`
	Period   models.BudgetPeriod `json:"period"`
}

type UpdateBudgetRequest struct {
	Limit    *float64             `json:"limit,omitempty"`
	Period   *models.BudgetPeriod `json:"period,omitempty"`
	IsActive *bool                `json:"isActive,omitempty"`
}

type BudgetHealth string

const (
	HealthGood     BudgetHealth = "good"
	HealthCaution  BudgetHealth = "caution"
	HealthWarning  BudgetHealth = "warning"
	HealthExceeded BudgetHealth = "exceeded"
)

type BudgetStatus struct {
	models.Budget
	Spent         float64      `json:"spent"`
	Remaining     float64      `json:"remaining"`
	Percentage    float64      `json:"percentage"`
	DaysRemaining int          `json:"daysRemaining"`
	Status        BudgetHealth `json:"status"`
}

type BudgetAnalytics struct {
	TotalBudgets      int     `json:"totalBudgets"`
	ActiveBudgets     int     `json:"activeBudgets"`
	TotalBudgetLimit  float64 `json:"totalBudgetLimit"`
	MonthlyExpenses   float64 `json:"monthlyExpenses"`
	BudgetUtilization float64 `json:"budgetUtilization"`
	RemainingBudget   float64 `json:"remainingBudget"`
}
