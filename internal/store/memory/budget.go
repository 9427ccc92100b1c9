package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type budgetStore struct {
	mu      sync.RWMutex
	budgets map[string]*models.Budget
}

func NewBudgetStore() *budgetStore {
	return &budgetStore{budgets: make(map[string]*models.Budget)}
}

// Create refuses a second active budget for the same owner and category.
func (s *budgetStore) Create(_ context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.budgets[b.BudgetID]; ok {
		return errs.NewAlreadyExistsError("budget already exists")
	}
	if b.IsActive && s.activeLocked(b.UserID, b.Category, b.BudgetID) != nil {
		return activeConflict(b.Category)
	}
	s.budgets[b.BudgetID] = cloneBudget(b)
	return nil
}

func (s *budgetStore) Get(_ context.Context, uid, budgetID string) (*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.budgets[budgetID]
	if !ok || b.UserID != uid {
		return nil, notFound("budget")
	}
	return cloneBudget(b), nil
}

func (s *budgetStore) Update(_ context.Context, b *models.Budget) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.budgets[b.BudgetID]
	if !ok || existing.UserID != b.UserID {
		return notFound("budget")
	}
	if b.IsActive && s.activeLocked(b.UserID, b.Category, b.BudgetID) != nil {
		return activeConflict(b.Category)
	}
	s.budgets[b.BudgetID] = cloneBudget(b)
	return nil
}

func (s *budgetStore) Delete(_ context.Context, uid, budgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.budgets[budgetID]
	if !ok || b.UserID != uid {
		return notFound("budget")
	}
	delete(s.budgets, budgetID)
	return nil
}

// List returns budgets newest start date first.
func (s *budgetStore) List(_ context.Context, uid string, activeOnly bool) ([]*models.Budget, error) {
	s.mu.RLock()
	out := make([]*models.Budget, 0)
	for _, b := range s.budgets {
		if b.UserID != uid || (activeOnly && !b.IsActive) {
			continue
		}
		out = append(out, cloneBudget(b))
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.After(out[j].StartDate)
		}
		return out[i].BudgetID > out[j].BudgetID
	})
	return out, nil
}

// FindActive returns the active budget for category, or nil when there is none.
func (s *budgetStore) FindActive(_ context.Context, uid, category string) (*models.Budget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if b := s.activeLocked(uid, category, ""); b != nil {
		return cloneBudget(b), nil
	}
	return nil, nil
}

func (s *budgetStore) activeLocked(uid, category, exceptID string) *models.Budget {
	for _, b := range s.budgets {
		if b.UserID == uid && b.Category == category && b.IsActive && b.BudgetID != exceptID {
			return b
		}
	}
	return nil
}

func activeConflict(category string) error {
	return errs.NewAlreadyExistsError("Active budget already exists for category: " + category)
}
