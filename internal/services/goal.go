package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/aggregate"
	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type goalGSStore interface {
	Create(ctx context.Context, g *models.Goal) error
	Get(ctx context.Context, uid, goalID string) (*models.Goal, error)
	Update(ctx context.Context, g *models.Goal) error
	Delete(ctx context.Context, uid, goalID string) error
	List(ctx context.Context, uid string, includeCompleted bool) ([]*models.Goal, error)
}

type goalService struct {
	goals    goalGSStore
	clockNow func() time.Time
}

func NewGoalService(goals goalGSStore, loc *time.Location) *goalService {
	return &goalService{
		goals:    goals,
		clockNow: clockIn(loc),
	}
}

func (s *goalService) ListGoals(ctx context.Context, uid string, includeCompleted bool) ([]dto.GoalView, error) {
	if uid == "" {
		return []dto.GoalView{}, nil
	}
	goals, err := s.goals.List(ctx, uid, includeCompleted)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list goals", "error", err)
		return nil, err
	}

	out := make([]dto.GoalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, aggregate.GoalView(*g))
	}
	return out, nil
}

func (s *goalService) CreateGoal(ctx context.Context, uid string, req dto.CreateGoalRequest) (*models.Goal, error) {
	if err := requireOwner(uid); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	target, err := goalTarget(req.TargetAmount)
	if err != nil {
		return nil, err
	}
	title, err := requireText(req.Title, "Goal title cannot be empty")
	if err != nil {
		return nil, err
	}
	category, err := requireText(req.Category, "Category cannot be empty")
	if err != nil {
		return nil, err
	}
	if !req.Priority.Valid() {
		return nil, errs.NewValidationError("Priority must be low, medium or high")
	}

	now := s.clockNow()
	if req.Deadline != nil {
		if err := futureDeadline(*req.Deadline, now); err != nil {
			return nil, err
		}
	}

	goal := &models.Goal{
		GoalID:       uuid.NewString(),
		UserID:       uid,
		Title:        title,
		TargetAmount: target,
		Deadline:     req.Deadline,
		Category:     category,
		Priority:     req.Priority,
		Description:  optionalText(req.Description),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.goals.Create(ctx, goal); err != nil {
		log.Error("failed to create goal in store", "error", err)
		return nil, err
	}

	log.Info("goal created", "goal_id", goal.GoalID, "priority", goal.Priority)
	return goal, nil
}

// UpdateProgress adds amount to the goal's savings and recomputes completion.
// Completed goals reject further progress.
func (s *goalService) UpdateProgress(ctx context.Context, uid, goalID string, amount float64) (*dto.GoalProgressResult, error) {
	if err := requireOwner(uid); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	goal, err := s.ownedGoal(ctx, uid, goalID)
	if err != nil {
		return nil, err
	}
	if goal.IsCompleted {
		return nil, errs.NewInvalidStateError("Cannot update progress on completed goal")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return nil, errs.NewValidationError("Progress amount must be greater than zero")
	}

	goal.CurrentAmount = helpers.RoundMoney(goal.CurrentAmount + amount)
	goal.IsCompleted = goal.CurrentAmount >= goal.TargetAmount
	goal.UpdatedAt = s.clockNow()

	if err := s.goals.Update(ctx, goal); err != nil {
		log.Error("failed to update goal progress in store", "error", err, "goal_id", goalID)
		return nil, err
	}
	log.Info("goal progress updated", "goal_id", goalID, "completed", goal.IsCompleted)

	progress, remaining := aggregate.GoalProgress(*goal)
	return &dto.GoalProgressResult{
		IsCompleted: goal.IsCompleted,
		Progress:    progress,
		Remaining:   remaining,
	}, nil
}

func (s *goalService) UpdateGoal(ctx context.Context, uid, goalID string, req dto.UpdateGoalRequest) (*models.Goal, error) {
	if err := requireOwner(uid); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	goal, err := s.ownedGoal(ctx, uid, goalID)
	if err != nil {
		return nil, err
	}
	now := s.clockNow()

	if req.Title != nil {
		if goal.Title, err = requireText(*req.Title, "Goal title cannot be empty"); err != nil {
			return nil, err
		}
	}
	if req.TargetAmount != nil {
		if goal.TargetAmount, err = goalTarget(*req.TargetAmount); err != nil {
			return nil, err
		}
		goal.IsCompleted = goal.CurrentAmount >= goal.TargetAmount
	}
	switch {
	case req.ClearDeadline:
		goal.Deadline = nil
	case req.Deadline != nil:
		if err := futureDeadline(*req.Deadline, now); err != nil {
			return nil, err
		}
		goal.Deadline = req.Deadline
	}
	if req.Category != nil {
		if goal.Category, err = requireText(*req.Category, "Category cannot be empty"); err != nil {
			return nil, err
		}
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, errs.NewValidationError("Priority must be low, medium or high")
		}
		goal.Priority = *req.Priority
	}
	if req.Description != nil {
		goal.Description = optionalText(req.Description)
	}
	goal.UpdatedAt = now

	if err := s.goals.Update(ctx, goal); err != nil {
		log.Error("failed to update goal in store", "error", err, "goal_id", goalID)
		return nil, err
	}
	log.Info("goal updated", "goal_id", goalID)
	return goal, nil
}

func (s *goalService) DeleteGoal(ctx context.Context, uid, goalID string) error {
	if err := requireOwner(uid); err != nil {
		return err
	}
	if _, err := s.ownedGoal(ctx, uid, goalID); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	if err := s.goals.Delete(ctx, uid, goalID); err != nil {
		log.Error("failed to delete goal in store", "error", err, "goal_id", goalID)
		return err
	}
	log.Info("goal deleted", "goal_id", goalID)
	return nil
}

// GetGoalStats returns nil for anonymous callers.
func (s *goalService) GetGoalStats(ctx context.Context, uid string) (*dto.GoalStats, error) {
	if uid == "" {
		return nil, nil
	}
	goals, err := s.goals.List(ctx, uid, true)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list goals", "error", err)
		return nil, err
	}
	stats := aggregate.GoalStats(goals)
	return &stats, nil
}

func (s *goalService) ownedGoal(ctx context.Context, uid, goalID string) (*models.Goal, error) {
	goal, err := s.goals.Get(ctx, uid, goalID)
	if isNotFound(err) || (err == nil && goal.UserID != uid) {
		return nil, errs.NewNotFoundError("Goal not found or access denied")
	}
	if err != nil {
		return nil, err
	}
	return goal, nil
}
