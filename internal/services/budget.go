package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/finance-tracker/internal/aggregate"
	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type budgetBSStore interface {
	Create(ctx context.Context, b *models.Budget) error
	Get(ctx context.Context, uid, budgetID string) (*models.Budget, error)
	Update(ctx context.Context, b *models.Budget) error
	Delete(ctx context.Context, uid, budgetID string) error
	List(ctx context.Context, uid string, activeOnly bool) ([]*models.Budget, error)
	FindActive(ctx context.Context, uid, category string) (*models.Budget, error)
}

type budgetService struct {
	budgets  budgetBSStore
	txs      transactionQuerier
	owners   *keyedMutex
	clockNow func() time.Time
}

func NewBudgetService(budgets budgetBSStore, txs transactionQuerier, loc *time.Location) *budgetService {
	return &budgetService{
		budgets:  budgets,
		txs:      txs,
		owners:   newKeyedMutex(),
		clockNow: clockIn(loc),
	}
}

// ListBudgets returns active budgets, or every budget when includeInactive is set.
func (s *budgetService) ListBudgets(ctx context.Context, uid string, includeInactive bool) ([]*models.Budget, error) {
	if uid == "" {
		return []*models.Budget{}, nil
	}
	budgets, err := s.budgets.List(ctx, uid, !includeInactive)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list budgets", "error", err)
		return nil, err
	}
	return budgets, nil
}

func (s *budgetService) CreateBudget(ctx context.Context, uid string, req dto.CreateBudgetRequest) (*models.Budget, error) {
	if err := requireOwner(uid); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	limit, err := budgetLimit(req.Limit)
	if err != nil {
		return nil, err
	}
	category, err := requireText(req.Category, "Category cannot be empty")
	if err != nil {
		return nil, err
	}
	if !req.Period.Valid() {
		return nil, errs.NewValidationError("Period must be weekly, monthly or yearly")
	}

	unlock := s.owners.Lock(uid)
	defer unlock()

	if err := s.ensureNoActive(ctx, uid, category, ""); err != nil {
		return nil, err
	}

	now := s.clockNow()
	budget := &models.Budget{
		BudgetID:  uuid.NewString(),
		UserID:    uid,
		Category:  category,
		Limit:     limit,
		Period:    req.Period,
		StartDate: now,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.budgets.Create(ctx, budget); err != nil {
		log.Error("failed to create budget in store", "error", err)
		return nil, err
	}

	log.Info("budget created", "budget_id", budget.BudgetID, "category", category, "period", budget.Period)
	return budget, nil
}

func (s *budgetService) UpdateBudget(ctx context.Context, uid, budgetID string, req dto.UpdateBudgetRequest) (*models.Budget, error) {
	if err := requireOwner(uid); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	unlock := s.owners.Lock(uid)
	defer unlock()

	budget, err := s.ownedBudget(ctx, uid, budgetID)
	if err != nil {
		return nil, err
	}

	if req.Limit != nil {
		if budget.Limit, err = budgetLimit(*req.Limit); err != nil {
			return nil, err
		}
	}
	if req.Period != nil {
		if !req.Period.Valid() {
			return nil, errs.NewValidationError("Period must be weekly, monthly or yearly")
		}
		budget.Period = *req.Period
	}
	if req.IsActive != nil {
		if *req.IsActive && !budget.IsActive {
			if err := s.ensureNoActive(ctx, uid, budget.Category, budget.BudgetID); err != nil {
				return nil, err
			}
		}
		budget.IsActive = *req.IsActive
	}
	budget.UpdatedAt = s.clockNow()

	if err := s.budgets.Update(ctx, budget); err != nil {
		log.Error("failed to update budget in store", "error", err, "budget_id", budgetID)
		return nil, err
	}
	log.Info("budget updated", "budget_id", budgetID, "active", budget.IsActive)
	return budget, nil
}

func (s *budgetService) DeleteBudget(ctx context.Context, uid, budgetID string) error {
	if err := requireOwner(uid); err != nil {
		return err
	}
	if _, err := s.ownedBudget(ctx, uid, budgetID); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	if err := s.budgets.Delete(ctx, uid, budgetID); err != nil {
		log.Error("failed to delete budget in store", "error", err, "budget_id", budgetID)
		return err
	}
	log.Info("budget deleted", "budget_id", budgetID)
	return nil
}

// GetBudgetStatus reports spend against every active budget for its current period.
func (s *budgetService) GetBudgetStatus(ctx context.Context, uid string) ([]dto.BudgetStatus, error) {
	if uid == "" {
		return []dto.BudgetStatus{}, nil
	}

	budgets, txs, err := s.snapshot(ctx, uid, true, dto.TransactionQuery{
		Kind: helpers.Ptr(models.KindExpense),
	})
	if err != nil {
		return nil, err
	}
	return aggregate.BudgetStatuses(budgets, txs, s.clockNow()), nil
}

// GetBudgetAnalytics returns nil for anonymous callers.
func (s *budgetService) GetBudgetAnalytics(ctx context.Context, uid string) (*dto.BudgetAnalytics, error) {
	if uid == "" {
		return nil, nil
	}

	now := s.clockNow()
	monthStart := aggregate.StartOfMonth(now)
	budgets, txs, err := s.snapshot(ctx, uid, false, dto.TransactionQuery{
		Kind:     helpers.Ptr(models.KindExpense),
		DateFrom: &monthStart,
	})
	if err != nil {
		return nil, err
	}
	analytics := aggregate.BudgetAnalytics(budgets, txs, now)
	return &analytics, nil
}

// snapshot loads the owner's budgets and matching transactions concurrently.
func (s *budgetService) snapshot(ctx context.Context, uid string, activeOnly bool, q dto.TransactionQuery) ([]*models.Budget, []*models.Transaction, error) {
	var budgets []*models.Budget
	var txs []*models.Transaction

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		budgets, err = s.budgets.List(gctx, uid, activeOnly)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = collectTransactions(gctx, s.txs, uid, q)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.FromContext(ctx).Error("failed to load budget snapshot", "error", err)
		return nil, nil, err
	}
	return budgets, txs, nil
}

func (s *budgetService) ensureNoActive(ctx context.Context, uid, category, exceptID string) error {
	existing, err := s.budgets.FindActive(ctx, uid, category)
	if err != nil {
		return err
	}
	if existing != nil && existing.BudgetID != exceptID {
		return errs.NewAlreadyExistsError("Active budget already exists for category: " + category)
	}
	return nil
}

func (s *budgetService) ownedBudget(ctx context.Context, uid, budgetID string) (*models.Budget, error) {
	budget, err := s.budgets.Get(ctx, uid, budgetID)
	if isNotFound(err) || (err == nil && budget.UserID != uid) {
		return nil, errs.NewNotFoundError("Budget not found or access denied")
	}
	if err != nil {
		return nil, err
	}
	return budget, nil
}
