package models

import "time"

type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

func (p GoalPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// Goal is a savings target. IsCompleted is derived from CurrentAmount >= TargetAmount
// and is recomputed whenever either amount changes.
type Goal struct {
	GoalID        string       `firestore:"goalId" json:"goalId"`
	UserID        string       `firestore:"userId" json:"userId"`
	Title         string       `firestore:"title" json:"title"`
	TargetAmount  float64      `firestore:"targetAmount" json:"targetAmount"`
	CurrentAmount float64      `firestore:"currentAmount" json:"currentAmount"`
	Deadline      *time.Time   `firestore:"deadline,omitempty" json:"deadline,omitempty"`
	Category      string       `firestore:"category" json:"category"`
	Priority      GoalPriority `firestore:"priority" json:"priority"`
	IsCompleted   bool         `firestore:"isCompleted" json:"isCompleted"`
	Description   string       `firestore:"description,omitempty" json:"description,omitempty"`
	CreatedAt     time.Time    `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time    `firestore:"updatedAt" json:"updatedAt"`
}
