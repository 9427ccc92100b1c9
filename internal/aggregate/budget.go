package aggregate

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// SpentInPeriod sums expense amounts for category with dates in [start, now].
func SpentInPeriod(txs []*models.Transaction, category string, start, now time.Time) float64 {
	var spent float64
	for _, tx := range txs {
		if tx.Kind != models.KindExpense || tx.Category != category {
			continue
		}
		if inRange(tx.Date, start, now) {
			spent += tx.Amount
		}
	}
	return spent
}

// Health labels a utilisation percentage; thresholds are checked from the top down.
func Health(percentage float64) dto.BudgetHealth {
	switch {
	case percentage > 100:
		return dto.HealthExceeded
	case percentage > 90:
		return dto.HealthWarning
	case percentage > 70:
		return dto.HealthCaution
	default:
		return dto.HealthGood
	}
}

// BudgetStatus computes spend against limit for the budget's current period.
// Limit is positive for every persisted budget.
func BudgetStatus(b models.Budget, txs []*models.Transaction, now time.Time) dto.BudgetStatus {
	start, end := PeriodWindow(b.Period, b.StartDate, now)
	spent := SpentInPeriod(txs, b.Category, start, now)
	percentage := spent / b.Limit * 100

	return dto.BudgetStatus{
		Budget:        b,
		Spent:         spent,
		Remaining:     b.Limit - spent,
		Percentage:    percentage,
		DaysRemaining: DaysRemaining(end, now),
		Status:        Health(percentage),
	}
}

func BudgetStatuses(budgets []*models.Budget, txs []*models.Transaction, now time.Time) []dto.BudgetStatus {
	out := make([]dto.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, BudgetStatus(*b, txs, now))
	}
	return out
}

// BudgetAnalytics compares this month's total expense against the sum of active limits.
func BudgetAnalytics(budgets []*models.Budget, txs []*models.Transaction, now time.Time) dto.BudgetAnalytics {
	result := dto.BudgetAnalytics{TotalBudgets: len(budgets)}
	for _, b := range budgets {
		if !b.IsActive {
			continue
		}
		result.ActiveBudgets++
		result.TotalBudgetLimit += b.Limit
	}

	monthStart := StartOfMonth(now)
	for _, tx := range txs {
		if tx.Kind == models.KindExpense && !tx.Date.Before(monthStart) {
			result.MonthlyExpenses += tx.Amount
		}
	}

	if result.TotalBudgetLimit > 0 {
		result.BudgetUtilization = result.MonthlyExpenses / result.TotalBudgetLimit * 100
	}
	result.RemainingBudget = max(0, result.TotalBudgetLimit-result.MonthlyExpenses)
	return result
}
