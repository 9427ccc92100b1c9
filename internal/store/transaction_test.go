package store

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

func newEmulatorClient(t *testing.T) *firestore.Client {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	client, err := firestore.NewClient(context.Background(), "test-project")
	if err != nil {
		t.Fatalf("firestore client error: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestTransactionQueryWithEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	store := NewTransactionStore(client)
	uid := "user-" + uuid.NewString()

	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)
	txs := []models.Transaction{
		{TransactionID: "t1", UserID: uid, Amount: 3, Description: "Coffee", Category: "Food", Kind: models.KindExpense, Date: now.AddDate(0, 0, -5)},
		{TransactionID: "t2", UserID: uid, Amount: 12, Description: "Lunch", Category: "Food", Kind: models.KindExpense, Date: now},
		{TransactionID: "t3", UserID: uid, Amount: 900, Description: "Pay", Category: "Salary", Kind: models.KindIncome, Date: now.AddDate(0, 0, -1)},
	}
	for i := range txs {
		if err := store.Create(ctx, &txs[i]); err != nil {
			t.Fatalf("seed transaction error: %v", err)
		}
	}

	var results []string
	err := store.Query(ctx, uid, dto.TransactionQuery{
		DateFrom: helpers.Ptr(now.AddDate(0, 0, -2)),
		DateTo:   helpers.Ptr(now),
	}, func(tx *models.Transaction) error {
		results = append(results, tx.TransactionID)
		return nil
	})
	if err != nil {
		t.Fatalf("query error: %v", err)
	}
	if len(results) != 2 || results[0] != "t2" || results[1] != "t3" {
		t.Fatalf("unexpected results: %v", results)
	}

	if err := store.Delete(ctx, uid, "t1"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	var nf *errs.NotFoundError
	if _, err := store.Get(ctx, uid, "t1"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if err := store.Delete(ctx, uid, "t1"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError on second delete, got %v", err)
	}
}

func TestBudgetActiveUniquenessGetWithEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	store := NewBudgetStore(client)
	uid := "user-" + uuid.NewString()

	budget := func(id string) *models.Budget {
		return &models.Budget{BudgetID: id, UserID: uid, Category: "Food", Limit: 100, Period: models.PeriodMonthly, IsActive: true}
	}
	if err := store.Create(ctx, budget("b1")); err != nil {
		t.Fatalf("create error: %v", err)
	}

	var exists *errs.AlreadyExistsError
	if err := store.Create(ctx, budget("b2")); !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}

	b1, err := store.Get(ctx, uid, "b1")
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	b1.IsActive = false
	if err := store.Update(ctx, b1); err != nil {
		t.Fatalf("deactivate error: %v", err)
	}
	if err := store.Create(ctx, budget("b2")); err != nil {
		t.Fatalf("create after deactivate error: %v", err)
	}

	active, err := store.FindActive(ctx, uid, "Food")
	if err != nil || active == nil || active.BudgetID != "b2" {
		t.Fatalf("FindActive = %+v, %v", active, err)
	}
}

func TestGoalListWithEmulator(t *testing.T) {
	client := newEmulatorClient(t)
	ctx := context.Background()
	store := NewGoalStore(client)
	uid := "user-" + uuid.NewString()
	now := time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC)

	_ = store.Create(ctx, &models.Goal{GoalID: "g1", UserID: uid, Title: "Car", TargetAmount: 10, CreatedAt: now})
	_ = store.Create(ctx, &models.Goal{GoalID: "g2", UserID: uid, Title: "Bike", TargetAmount: 10, CurrentAmount: 10, IsCompleted: true, CreatedAt: now.Add(time.Hour)})

	open, err := store.List(ctx, uid, false)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(open) != 1 || open[0].GoalID != "g1" {
		t.Fatalf("unexpected open goals: %+v", open)
	}
	all, _ := store.List(ctx, uid, true)
	if len(all) != 2 || all[0].GoalID != "g2" {
		t.Fatalf("unexpected goals: %+v", all)
	}
}
