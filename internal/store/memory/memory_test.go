package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

var base = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func seedTransactions(t *testing.T, s *transactionStore) {
	t.Helper()
	txs := []*models.Transaction{
		{TransactionID: "t1", UserID: "u1", Amount: 10, Category: "Food", Kind: models.KindExpense, Date: base},
		{TransactionID: "t2", UserID: "u1", Amount: 20, Category: "Food", Kind: models.KindExpense, Date: base.Add(48 * time.Hour)},
		{TransactionID: "t3", UserID: "u1", Amount: 500, Category: "Salary", Kind: models.KindIncome, Date: base.Add(24 * time.Hour)},
		{TransactionID: "t4", UserID: "u2", Amount: 99, Category: "Food", Kind: models.KindExpense, Date: base},
	}
	for _, tx := range txs {
		if err := s.Create(context.Background(), tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func queryIDs(t *testing.T, s *transactionStore, uid string, q dto.TransactionQuery) []string {
	t.Helper()
	var ids []string
	err := s.Query(context.Background(), uid, q, func(tx *models.Transaction) error {
		ids = append(ids, tx.TransactionID)
		return nil
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	return ids
}

func TestTransactionQueryFilters(t *testing.T) {
	s := NewTransactionStore()
	seedTransactions(t, s)

	tests := []struct {
		name string
		q    dto.TransactionQuery
		want []string
	}{
		{"newest first", dto.TransactionQuery{}, []string{"t2", "t3", "t1"}},
		{"ascending", dto.TransactionQuery{Asc: true}, []string{"t1", "t3", "t2"}},
		{"category", dto.TransactionQuery{Category: helpers.Ptr("Food")}, []string{"t2", "t1"}},
		{"kind", dto.TransactionQuery{Kind: helpers.Ptr(models.KindIncome)}, []string{"t3"}},
		{"inclusive range", dto.TransactionQuery{
			DateFrom: helpers.Ptr(base.Add(24 * time.Hour)),
			DateTo:   helpers.Ptr(base.Add(48 * time.Hour)),
		}, []string{"t2", "t3"}},
		{"limit", dto.TransactionQuery{Limit: 1}, []string{"t2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := queryIDs(t, s, "u1", tt.q)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestTransactionQueryHandlerErrorStops(t *testing.T) {
	s := NewTransactionStore()
	seedTransactions(t, s)

	stop := errors.New("stop")
	calls := 0
	err := s.Query(context.Background(), "u1", dto.TransactionQuery{}, func(*models.Transaction) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("expected handler error after one call, got err=%v calls=%d", err, calls)
	}
}

func TestTransactionOwnerScoping(t *testing.T) {
	s := NewTransactionStore()
	seedTransactions(t, s)
	ctx := context.Background()

	var nf *errs.NotFoundError
	if _, err := s.Get(ctx, "u2", "t1"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for foreign get, got %v", err)
	}
	if err := s.Delete(ctx, "u2", "t1"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for foreign delete, got %v", err)
	}
	if err := s.Delete(ctx, "u1", "t1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.Get(ctx, "u1", "t1"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError after delete, got %v", err)
	}
}

func TestTransactionGetReturnsCopy(t *testing.T) {
	s := NewTransactionStore()
	ctx := context.Background()
	if err := s.Create(ctx, &models.Transaction{TransactionID: "t1", UserID: "u1", Tags: []string{"a"}}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, _ := s.Get(ctx, "u1", "t1")
	got.Tags[0] = "changed"
	got.Amount = 42

	again, _ := s.Get(ctx, "u1", "t1")
	if again.Tags[0] != "a" || again.Amount != 0 {
		t.Fatalf("store state leaked through returned record: %+v", again)
	}
}

func TestBudgetActiveUniqueness(t *testing.T) {
	s := NewBudgetStore()
	ctx := context.Background()

	first := &models.Budget{BudgetID: "b1", UserID: "u1", Category: "Food", Limit: 100, IsActive: true, StartDate: base}
	if err := s.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	var exists *errs.AlreadyExistsError
	dup := &models.Budget{BudgetID: "b2", UserID: "u1", Category: "Food", Limit: 50, IsActive: true, StartDate: base}
	if err := s.Create(ctx, dup); !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}

	other := &models.Budget{BudgetID: "b3", UserID: "u2", Category: "Food", Limit: 50, IsActive: true, StartDate: base}
	if err := s.Create(ctx, other); err != nil {
		t.Fatalf("other owner create: %v", err)
	}

	first.IsActive = false
	if err := s.Update(ctx, first); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := s.Create(ctx, dup); err != nil {
		t.Fatalf("create after deactivate: %v", err)
	}

	first.IsActive = true
	if err := s.Update(ctx, first); !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError on reactivation, got %v", err)
	}

	active, err := s.FindActive(ctx, "u1", "Food")
	if err != nil || active == nil || active.BudgetID != "b2" {
		t.Fatalf("FindActive = %+v, %v", active, err)
	}
	none, err := s.FindActive(ctx, "u1", "Travel")
	if err != nil || none != nil {
		t.Fatalf("expected no active budget, got %+v, %v", none, err)
	}
}

func TestBudgetList(t *testing.T) {
	s := NewBudgetStore()
	ctx := context.Background()
	_ = s.Create(ctx, &models.Budget{BudgetID: "old", UserID: "u1", Category: "A", IsActive: false, StartDate: base})
	_ = s.Create(ctx, &models.Budget{BudgetID: "new", UserID: "u1", Category: "B", IsActive: true, StartDate: base.Add(time.Hour)})

	all, _ := s.List(ctx, "u1", false)
	if len(all) != 2 || all[0].BudgetID != "new" {
		t.Fatalf("unexpected list: %+v", all)
	}
	active, _ := s.List(ctx, "u1", true)
	if len(active) != 1 || active[0].BudgetID != "new" {
		t.Fatalf("unexpected active list: %+v", active)
	}
}

func TestGoalListFiltersCompleted(t *testing.T) {
	s := NewGoalStore()
	ctx := context.Background()
	deadline := base.Add(72 * time.Hour)
	_ = s.Create(ctx, &models.Goal{GoalID: "g1", UserID: "u1", IsCompleted: true, CreatedAt: base})
	_ = s.Create(ctx, &models.Goal{GoalID: "g2", UserID: "u1", Deadline: &deadline, CreatedAt: base.Add(time.Hour)})
	_ = s.Create(ctx, &models.Goal{GoalID: "g3", UserID: "u2", CreatedAt: base})

	open, _ := s.List(ctx, "u1", false)
	if len(open) != 1 || open[0].GoalID != "g2" {
		t.Fatalf("unexpected open goals: %+v", open)
	}
	all, _ := s.List(ctx, "u1", true)
	if len(all) != 2 || all[0].GoalID != "g2" || all[1].GoalID != "g1" {
		t.Fatalf("unexpected goals: %+v", all)
	}

	*all[0].Deadline = base
	again, _ := s.Get(ctx, "u1", "g2")
	if !again.Deadline.Equal(deadline) {
		t.Fatalf("deadline leaked through returned record")
	}
}
