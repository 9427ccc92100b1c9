package dto

import (
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type CreateGoalRequest struct {
	Title        string              `json:"title"`
	TargetAmount float64             `json:"targetAmount"`
	Category     string              `json:"category"`
	Priority     models.GoalPriority `json:"priority"`
	Deadline     *time.Time          `json:"deadline,omitempty"`
	Description  *string             `json:"description,omitempty"`
}

// UpdateGoalRequest is a partial patch. ClearDeadline removes an existing deadline.
type UpdateGoalRequest struct {
	Title         *string              `json:"title,omitempty"`
	TargetAmount  *float64             `json:"targetAmount,omitempty"`
	Deadline      *time.Time           `json:"deadline,omitempty"`
	ClearDeadline bool                 `json:"clearDeadline,omitempty"`
	Category      *string              `json:"category,omitempty"`
	Priority      *models.GoalPriority `json:"priority,omitempty"`
	Description   *string              `json:"description,omitempty"`
}

type UpdateProgressRequest struct {
	Amount float64 `json:"amount"`
}

type GoalProgressResult struct {
	IsCompleted bool    `json:"isCompleted"`
	Progress    float64 `json:"progress"`
	Remaining   float64 `json:"remaining"`
}

type GoalView struct {
	models.Goal
	Progress  float64 `json:"progress"`
	Remaining float64 `json:"remaining"`
}

type GoalStats struct {
	TotalGoals         int           `json:"totalGoals"`
	ActiveGoals        int           `json:"activeGoals"`
	CompletedGoals     int           `json:"completedGoals"`
	OverallProgress    float64       `json:"overallProgress"`
	TotalTargetAmount  float64       `json:"totalTargetAmount"`
	TotalCurrentAmount float64       `json:"totalCurrentAmount"`
	UpcomingDeadlines  []models.Goal `json:"upcomingDeadlines"`
}
