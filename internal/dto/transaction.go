package dto

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// TransactionQuery is the store-level scan over one owner's transactions.
// DateFrom and DateTo are inclusive; results are newest first unless Asc is set.
type TransactionQuery struct {
	Category *string
	Kind     *models.TransactionKind
	DateFrom *time.Time
	DateTo   *time.Time
	Asc      bool
	Limit    int
}

type ListTransactionsArgs struct {
	Limit    int
	Category *string
	Kind     *models.TransactionKind
}

type CreateTransactionRequest struct {
	Amount      float64                `json:"amount"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	Kind        models.TransactionKind `json:"type"`
	Tags        []string               `json:"tags,omitempty"`
	Notes       *string                `json:"notes,omitempty"`
}

// UpdateTransactionRequest is a partial patch; nil fields are left untouched.
type UpdateTransactionRequest struct {
	Amount      *float64  `json:"amount,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
}

type TransactionStats struct {
	TotalIncome     float64 `json:"totalIncome"`
	TotalExpenses   float64 `json:"totalExpenses"`
	NetWorth        float64 `json:"netWorth"`
	MonthlyIncome   float64 `json:"monthlyIncome"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`
	MonthlyNet      float64 `json:"monthlyNet"`
	IncomeGrowth    float64 `json:"incomeGrowth"`
	ExpenseGrowth   float64 `json:"expenseGrowth"`
}

type BreakdownPeriod string

const (
	BreakdownMonth BreakdownPeriod = "month"
	BreakdownYear  BreakdownPeriod = "year"
	BreakdownAll   BreakdownPeriod = "all"
)

func (p BreakdownPeriod) Valid() bool {
	switch p {
	case BreakdownMonth, BreakdownYear, BreakdownAll:
		return true
	default:
		return false
	}
}

type CategoryBreakdownItem struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}
