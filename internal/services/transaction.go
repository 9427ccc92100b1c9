package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/aggregate"
	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/events"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type transactionQuerier interface {
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

type transactionTSStore interface {
	transactionQuerier
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, uid, transactionID string) error
}

type budgetTSStore interface {
	FindActive(ctx context.Context, uid, category string) (*models.Budget, error)
}

type alertPublisher interface {
	PublishBudgetAlert(ctx context.Context, alert *events.BudgetAlert) error
}

type transactionService struct {
	txs      transactionTSStore
	budgets  budgetTSStore
	alerts   alertPublisher
	clockNow func() time.Time
}

// NewTransactionService builds the transaction service. Calendar figures are
// computed in loc.
func NewTransactionService(txs transactionTSStore, budgets budgetTSStore, alerts alertPublisher, loc *time.Location) *transactionService {
	return &transactionService{
		txs:      txs,
		budgets:  budgets,
		alerts:   alerts,
		clockNow: clockIn(loc),
	}
}

func clockIn(loc *time.Location) func() time.Time {
	if loc == nil {
		return time.Now
	}
	return func() time.Time { return time.Now().In(loc) }
}

func (s *transactionService) ListTransactions(ctx context.Context, uid string, args dto.ListTransactionsArgs) ([]*models.Transaction, error) {
	if uid == "" {
		return []*models.Transaction{}, nil
	}

	limit := args.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	txs, err := collectTransactions(ctx, s.txs, uid, dto.TransactionQuery{
		Category: args.Category,
		Kind:     args.Kind,
		Limit:    limit,
	})
	if err != nil {
		logger.FromContext(ctx).Error("failed to list transactions", "error", err)
		return nil, err
	}
	return txs, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, uid string, req dto.CreateTransactionRequest) (*models.Transaction, error) {
	if err := requireOwner(uid); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	amount, err := transactionAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	description, err := transactionDescription(req.Description)
	if err != nil {
		return nil, err
	}
	category, err := requireText(req.Category, "Category cannot be empty")
	if err != nil {
		return nil, err
	}
	if !req.Kind.Valid() {
		return nil, errs.NewValidationError("Type must be income or expense")
	}

	now := s.clockNow()
	tx := &models.Transaction{
		TransactionID: uuid.NewString(),
		UserID:        uid,
		Amount:        amount,
		Description:   description,
		Category:      category,
		Kind:          req.Kind,
		Date:          now,
		Tags:          cleanTags(req.Tags),
		Notes:         optionalText(req.Notes),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.txs.Create(ctx, tx); err != nil {
		log.Error("failed to create transaction in store", "error", err)
		return nil, err
	}
	log.Info("transaction created", "transaction_id", tx.TransactionID, "type", tx.Kind, "category", tx.Category)

	if tx.Kind == models.KindExpense {
		s.checkBudget(ctx, uid, tx.Category)
	}
	return tx, nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, uid, transactionID string, req dto.UpdateTransactionRequest) (*models.Transaction, error) {
	if err := requireOwner(uid); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)

	tx, err := s.ownedTransaction(ctx, uid, transactionID)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		if tx.Amount, err = transactionAmount(*req.Amount); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if tx.Description, err = transactionDescription(*req.Description); err != nil {
			return nil, err
		}
	}
	if req.Category != nil {
		if tx.Category, err = requireText(*req.Category, "Category cannot be empty"); err != nil {
			return nil, err
		}
	}
	if req.Tags != nil {
		tx.Tags = cleanTags(*req.Tags)
	}
	if req.Notes != nil {
		tx.Notes = optionalText(req.Notes)
	}
	tx.UpdatedAt = s.clockNow()

	if err := s.txs.Update(ctx, tx); err != nil {
		log.Error("failed to update transaction in store", "error", err, "transaction_id", transactionID)
		return nil, err
	}
	log.Info("transaction updated", "transaction_id", transactionID)

	if tx.Kind == models.KindExpense && (req.Amount != nil || req.Category != nil) {
		s.checkBudget(ctx, uid, tx.Category)
	}
	return tx, nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, uid, transactionID string) error {
	if err := requireOwner(uid); err != nil {
		return err
	}
	if _, err := s.ownedTransaction(ctx, uid, transactionID); err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	if err := s.txs.Delete(ctx, uid, transactionID); err != nil {
		log.Error("failed to delete transaction in store", "error", err, "transaction_id", transactionID)
		return err
	}
	log.Info("transaction deleted", "transaction_id", transactionID)
	return nil
}

// GetStats returns nil for anonymous callers.
func (s *transactionService) GetStats(ctx context.Context, uid string) (*dto.TransactionStats, error) {
	if uid == "" {
		return nil, nil
	}
	txs, err := collectTransactions(ctx, s.txs, uid, dto.TransactionQuery{})
	if err != nil {
		return nil, err
	}
	stats := aggregate.Stats(txs, s.clockNow())
	return &stats, nil
}

// GetCategoryBreakdown groups expenses by category. An empty period means all time.
func (s *transactionService) GetCategoryBreakdown(ctx context.Context, uid string, period dto.BreakdownPeriod) ([]dto.CategoryBreakdownItem, error) {
	if period == "" {
		period = dto.BreakdownAll
	}
	if !period.Valid() {
		return nil, errs.NewValidationError("Period must be one of month, year or all")
	}
	if uid == "" {
		return []dto.CategoryBreakdownItem{}, nil
	}

	now := s.clockNow()
	q := dto.TransactionQuery{Kind: helpers.Ptr(models.KindExpense)}
	if period != dto.BreakdownAll {
		from := aggregate.BreakdownFrom(period, now)
		q.DateFrom = &from
	}

	txs, err := collectTransactions(ctx, s.txs, uid, q)
	if err != nil {
		return nil, err
	}
	return aggregate.CategoryBreakdown(txs, period, now), nil
}

func (s *transactionService) ownedTransaction(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	tx, err := s.txs.Get(ctx, uid, transactionID)
	if isNotFound(err) || (err == nil && tx.UserID != uid) {
		return nil, errs.NewNotFoundError("Transaction not found or access denied")
	}
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// checkBudget publishes an alert when the active budget for category is at
// warning or beyond. Failures are logged; the mutation has already committed.
func (s *transactionService) checkBudget(ctx context.Context, uid, category string) {
	if s.budgets == nil || s.alerts == nil {
		return
	}
	log := logger.FromContext(ctx)

	budget, err := s.budgets.FindActive(ctx, uid, category)
	if err != nil {
		log.Warn("failed to load budget for alert", "error", err, "category", category)
		return
	}
	if budget == nil {
		return
	}

	now := s.clockNow()
	start, _ := aggregate.PeriodWindow(budget.Period, budget.StartDate, now)
	txs, err := collectTransactions(ctx, s.txs, uid, dto.TransactionQuery{
		Category: &category,
		Kind:     helpers.Ptr(models.KindExpense),
		DateFrom: &start,
		DateTo:   &now,
	})
	if err != nil {
		log.Warn("failed to load transactions for alert", "error", err, "budget_id", budget.BudgetID)
		return
	}

	status := aggregate.BudgetStatus(*budget, txs, now)
	if !events.ShouldAlert(status.Status) {
		return
	}
	if err := s.alerts.PublishBudgetAlert(ctx, events.NewBudgetAlert(status, now)); err != nil {
		log.Warn("failed to publish budget alert", "error", err, "budget_id", budget.BudgetID)
	}
}

func collectTransactions(ctx context.Context, store transactionQuerier, uid string, q dto.TransactionQuery) ([]*models.Transaction, error) {
	txs := []*models.Transaction{}
	err := store.Query(ctx, uid, q, func(tx *models.Transaction) error {
		txs = append(txs, tx)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txs, nil
}
