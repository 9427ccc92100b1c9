package store

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type budgetStore struct {
	client *firestore.Client
}

func NewBudgetStore(client *firestore.Client) *budgetStore {
	return &budgetStore{client: client}
}

func (s *budgetStore) collection(uid string) *firestore.CollectionRef {
	return s.client.Collection("users").Doc(uid).Collection("budgets")
}

func (s *budgetStore) activeQuery(uid, category string) firestore.Query {
	return s.collection(uid).
		Where("category", "==", category).
		Where("isActive", "==", true)
}

// Create inserts the budget inside a transaction that first checks for another
// active budget in the same category.
func (s *budgetStore) Create(ctx context.Context, b *models.Budget) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if b.IsActive {
			if err := s.checkNoOtherActive(tx, b); err != nil {
				return err
			}
		}
		return tx.Create(s.collection(b.UserID).Doc(b.BudgetID), b)
	})
	return budgetWriteError(err, "create", "failed to create budget")
}

func (s *budgetStore) Update(ctx context.Context, b *models.Budget) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if b.IsActive {
			if err := s.checkNoOtherActive(tx, b); err != nil {
				return err
			}
		}
		return tx.Set(s.collection(b.UserID).Doc(b.BudgetID), b)
	})
	return budgetWriteError(err, "update", "failed to update budget")
}

func (s *budgetStore) checkNoOtherActive(tx *firestore.Transaction, b *models.Budget) error {
	docs, err := tx.Documents(s.activeQuery(b.UserID, b.Category)).GetAll()
	if err != nil {
		return err
	}
	for _, d := range docs {
		if d.Ref.ID != b.BudgetID {
			return activeConflict(b.Category)
		}
	}
	return nil
}

func (s *budgetStore) Get(ctx context.Context, uid, budgetID string) (*models.Budget, error) {
	doc, err := s.collection(uid).Doc(budgetID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("budget not found")
		}
		return nil, errs.NewDatabaseError("read", "failed to get budget", err)
	}
	var b models.Budget
	if err := doc.DataTo(&b); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
	}
	return &b, nil
}

func (s *budgetStore) Delete(ctx context.Context, uid, budgetID string) error {
	_, err := s.collection(uid).Doc(budgetID).Delete(ctx, firestore.Exists)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errs.NewNotFoundError("budget not found")
		}
		return errs.NewDatabaseError("delete", "failed to delete budget", err)
	}
	return nil
}

func (s *budgetStore) List(ctx context.Context, uid string, activeOnly bool) ([]*models.Budget, error) {
	query := s.collection(uid).Query
	if activeOnly {
		query = query.Where("isActive", "==", true)
	}
	docs, err := query.OrderBy("startDate", firestore.Desc).Documents(ctx).GetAll()
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to list budgets", err)
	}

	budgets := make([]*models.Budget, 0, len(docs))
	for _, d := range docs {
		var b models.Budget
		if err := d.DataTo(&b); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
		}
		budgets = append(budgets, &b)
	}
	return budgets, nil
}

// FindActive returns the active budget for category, or nil when there is none.
func (s *budgetStore) FindActive(ctx context.Context, uid, category string) (*models.Budget, error) {
	iter := s.activeQuery(uid, category).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to find active budget", err)
	}
	var b models.Budget
	if err := doc.DataTo(&b); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse budget data", err)
	}
	return &b, nil
}

func activeConflict(category string) error {
	return errs.NewAlreadyExistsError("Active budget already exists for category: " + category)
}

func budgetWriteError(err error, op, message string) error {
	if err == nil {
		return nil
	}
	var exists *errs.AlreadyExistsError
	if errors.As(err, &exists) {
		return err
	}
	return errs.NewDatabaseError(op, message, err)
}
