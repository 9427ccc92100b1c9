package models

import (
	"time"
)

type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

func (k TransactionKind) Valid() bool {
	switch k {
	case KindIncome, KindExpense:
		return true
	default:
		return false
	}
}

type Transaction struct {
	TransactionID string          `firestore:"transactionId" json:"transactionId"`
	UserID        string          `firestore:"userId" json:"userId"`
	Amount        float64         `firestore:"amount" json:"amount"`
	Description   string          `firestore:"description" json:"description"`
	Category      string          `firestore:"category" json:"category"`
	Kind          TransactionKind `firestore:"kind" json:"type"`
	Date          time.Time       `firestore:"date" json:"date"` // server-assigned at creation
	Tags          []string        `firestore:"tags,omitempty" json:"tags,omitempty"`
	Notes         string          `firestore:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time       `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time       `firestore:"updatedAt" json:"updatedAt"`
}
