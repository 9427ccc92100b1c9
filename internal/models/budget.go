package models

import (
	"time"
)

type BudgetPeriod string

const (
	PeriodWeekly  BudgetPeriod = "weekly"
	PeriodMonthly BudgetPeriod = "monthly"
	PeriodYearly  BudgetPeriod = "yearly"
)

func (p BudgetPeriod) Valid() bool {
	switch p {
	case PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	default:
		return false
	}
}

// Budget caps expense spending for one category over a recurring calendar period.
// At most one active budget may exist per (UserID, Category).
type Budget struct {
	BudgetID  string       `firestore:"budgetId" json:"budgetId"`
	UserID    string       `firestore:"userId" json:"userId"`
	Category  string       `firestore:"category" json:"category"`
	Limit     float64      `firestore:"limit" json:"limit"`
	Period    BudgetPeriod `firestore:"period" json:"period"`
	StartDate time.Time    `firestore:"startDate" json:"startDate"`
	IsActive  bool         `firestore:"isActive" json:"isActive"`
	CreatedAt time.Time    `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time    `firestore:"updatedAt" json:"updatedAt"`
}
