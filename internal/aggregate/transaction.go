package aggregate

import (
	"sort"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// Stats computes all-time totals plus this-month figures and month-over-month growth.
func Stats(txs []*models.Transaction, now time.Time) dto.TransactionStats {
	var s dto.TransactionStats
	var lastIncome, lastExpenses float64
	monthStart := StartOfMonth(now)
	prevStart := StartOfPreviousMonth(now)

	for _, tx := range txs {
		thisMonth := !tx.Date.Before(monthStart)
		lastMonth := !tx.Date.Before(prevStart) && tx.Date.Before(monthStart)

		switch tx.Kind {
		case models.KindIncome:
			s.TotalIncome += tx.Amount
			if thisMonth {
				s.MonthlyIncome += tx.Amount
			}
			if lastMonth {
				lastIncome += tx.Amount
			}
		case models.KindExpense:
			s.TotalExpenses += tx.Amount
			if thisMonth {
				s.MonthlyExpenses += tx.Amount
			}
			if lastMonth {
				lastExpenses += tx.Amount
			}
		}
	}

	s.NetWorth = s.TotalIncome - s.TotalExpenses
	s.MonthlyNet = s.MonthlyIncome - s.MonthlyExpenses
	s.IncomeGrowth = Growth(s.MonthlyIncome, lastIncome)
	s.ExpenseGrowth = Growth(s.MonthlyExpenses, lastExpenses)
	return s
}

// Growth is the percentage change from previous to current, or 0 when there was
// no previous activity.
func Growth(current, previous float64) float64 {
	if previous <= 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// BreakdownFrom returns the lower date bound for a breakdown period; all-time yields the zero time.
func BreakdownFrom(period dto.BreakdownPeriod, now time.Time) time.Time {
	switch period {
	case dto.BreakdownMonth:
		return StartOfMonth(now)
	case dto.BreakdownYear:
		return StartOfYear(now)
	default:
		return time.Time{}
	}
}

// CategoryBreakdown groups expenses by category, largest first. The result is
// never nil; percentages are 0 when the filtered set holds no expense.
func CategoryBreakdown(txs []*models.Transaction, period dto.BreakdownPeriod, now time.Time) []dto.CategoryBreakdownItem {
	from := BreakdownFrom(period, now)
	totals := map[string]float64{}
	var total float64
	for _, tx := range txs {
		if tx.Kind != models.KindExpense || tx.Date.Before(from) {
			continue
		}
		totals[tx.Category] += tx.Amount
		total += tx.Amount
	}

	out := make([]dto.CategoryBreakdownItem, 0, len(totals))
	for category, amount := range totals {
		item := dto.CategoryBreakdownItem{Category: category, Amount: amount}
		if total > 0 {
			item.Percentage = amount / total * 100
		}
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}
