package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type goalStore struct {
	mu    sync.RWMutex
	goals map[string]*models.Goal
}

func NewGoalStore() *goalStore {
	return &goalStore{goals: make(map[string]*models.Goal)}
}

func (s *goalStore) Create(_ context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.goals[g.GoalID]; ok {
		return errs.NewAlreadyExistsError("goal already exists")
	}
	s.goals[g.GoalID] = cloneGoal(g)
	return nil
}

func (s *goalStore) Get(_ context.Context, uid, goalID string) (*models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.goals[goalID]
	if !ok || g.UserID != uid {
		return nil, notFound("goal")
	}
	return cloneGoal(g), nil
}

func (s *goalStore) Update(_ context.Context, g *models.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.goals[g.GoalID]
	if !ok || existing.UserID != g.UserID {
		return notFound("goal")
	}
	s.goals[g.GoalID] = cloneGoal(g)
	return nil
}

func (s *goalStore) Delete(_ context.Context, uid, goalID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.goals[goalID]
	if !ok || g.UserID != uid {
		return notFound("goal")
	}
	delete(s.goals, goalID)
	return nil
}

// List returns goals newest first, skipping completed ones unless includeCompleted is set.
func (s *goalStore) List(_ context.Context, uid string, includeCompleted bool) ([]*models.Goal, error) {
	s.mu.RLock()
	out := make([]*models.Goal, 0)
	for _, g := range s.goals {
		if g.UserID != uid || (!includeCompleted && g.IsCompleted) {
			continue
		}
		out = append(out, cloneGoal(g))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].GoalID > out[j].GoalID
	})
	return out, nil
}
