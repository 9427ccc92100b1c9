package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/helpers"
)

var base = time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "tracker.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	db.Close()

	db, err = Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	db.Close()
}

func TestTransactionRoundTrip(t *testing.T) {
	s := NewTransactionStore(openTestDB(t))
	ctx := context.Background()

	tx := &models.Transaction{
		TransactionID: "t1",
		UserID:        "u1",
		Amount:        12.34,
		Description:   "Lunch",
		Category:      "Food",
		Kind:          models.KindExpense,
		Date:          base,
		Tags:          []string{"work"},
		Notes:         "team",
		CreatedAt:     base,
		UpdatedAt:     base,
	}
	if err := s.Create(ctx, tx); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, "u1", "t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Amount != 12.34 || got.Kind != models.KindExpense || !got.Date.Equal(base) {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "work" || got.Notes != "team" {
		t.Fatalf("unexpected optional fields: %+v", got)
	}

	got.Amount = 20
	got.Tags = nil
	got.UpdatedAt = base.Add(time.Hour)
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := s.Get(ctx, "u1", "t1")
	if again.Amount != 20 || again.Tags != nil || !again.UpdatedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("update not persisted: %+v", again)
	}

	var nf *errs.NotFoundError
	if _, err := s.Get(ctx, "u2", "t1"); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for other owner, got %v", err)
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

func TestTransactionQuery(t *testing.T) {
	s := NewTransactionStore(openTestDB(t))
	ctx := context.Background()

	seed := []*models.Transaction{
		{TransactionID: "t1", UserID: "u1", Amount: 10, Description: "a", Category: "Food", Kind: models.KindExpense, Date: base},
		{TransactionID: "t2", UserID: "u1", Amount: 20, Description: "b", Category: "Food", Kind: models.KindExpense, Date: base.Add(48 * time.Hour)},
		{TransactionID: "t3", UserID: "u1", Amount: 500, Description: "c", Category: "Salary", Kind: models.KindIncome, Date: base.Add(24 * time.Hour)},
		{TransactionID: "t4", UserID: "u2", Amount: 99, Description: "d", Category: "Food", Kind: models.KindExpense, Date: base},
	}
	for _, tx := range seed {
		tx.CreatedAt, tx.UpdatedAt = tx.Date, tx.Date
		if err := s.Create(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	tests := []struct {
		name string
		q    dto.TransactionQuery
		want []string
	}{
		{"newest first", dto.TransactionQuery{}, []string{"t2", "t3", "t1"}},
		{"ascending", dto.TransactionQuery{Asc: true}, []string{"t1", "t3", "t2"}},
		{"category and kind", dto.TransactionQuery{
			Category: helpers.Ptr("Food"),
			Kind:     helpers.Ptr(models.KindExpense),
		}, []string{"t2", "t1"}},
		{"inclusive range", dto.TransactionQuery{
			DateFrom: helpers.Ptr(base.Add(24 * time.Hour)),
			DateTo:   helpers.Ptr(base.Add(48 * time.Hour)),
		}, []string{"t2", "t3"}},
		{"limit", dto.TransactionQuery{Limit: 2}, []string{"t2", "t3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			err := s.Query(ctx, "u1", tt.q, func(tx *models.Transaction) error {
				got = append(got, tx.TransactionID)
				return nil
			})
			if err != nil {
				t.Fatalf("query: %v", err)
			}
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

func TestBudgetPartialUniqueIndex(t *testing.T) {
	s := NewBudgetStore(openTestDB(t))
	ctx := context.Background()

	newBudget := func(id string, active bool) *models.Budget {
		return &models.Budget{
			BudgetID: id, UserID: "u1", Category: "Food", Limit: 100,
			Period: models.PeriodMonthly, StartDate: base, IsActive: active,
			CreatedAt: base, UpdatedAt: base,
		}
	}

	if err := s.Create(ctx, newBudget("b1", true)); err != nil {
		t.Fatalf("create: %v", err)
	}

	var exists *errs.AlreadyExistsError
	if err := s.Create(ctx, newBudget("b2", true)); !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError, got %v", err)
	}
	if err := s.Create(ctx, newBudget("b3", false)); err != nil {
		t.Fatalf("inactive duplicates are allowed: %v", err)
	}

	b1, _ := s.Get(ctx, "u1", "b1")
	b1.IsActive = false
	if err := s.Update(ctx, b1); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if err := s.Create(ctx, newBudget("b2", true)); err != nil {
		t.Fatalf("create after deactivate: %v", err)
	}

	b1.IsActive = true
	if err := s.Update(ctx, b1); !errors.As(err, &exists) {
		t.Fatalf("expected AlreadyExistsError on reactivation, got %v", err)
	}

	active, err := s.FindActive(ctx, "u1", "Food")
	if err != nil || active == nil || active.BudgetID != "b2" {
		t.Fatalf("FindActive = %+v, %v", active, err)
	}
	none, err := s.FindActive(ctx, "u1", "Travel")
	if err != nil || none != nil {
		t.Fatalf("expected nil, got %+v, %v", none, err)
	}

	all, _ := s.List(ctx, "u1", false)
	onlyActive, _ := s.List(ctx, "u1", true)
	if len(all) != 3 || len(onlyActive) != 1 {
		t.Fatalf("all=%d active=%d", len(all), len(onlyActive))
	}
}

func TestGoalRoundTrip(t *testing.T) {
	s := NewGoalStore(openTestDB(t))
	ctx := context.Background()
	deadline := base.AddDate(0, 3, 0)

	g := &models.Goal{
		GoalID: "g1", UserID: "u1", Title: "Car", TargetAmount: 1000, Category: "Savings",
		Priority: models.PriorityMedium, Deadline: &deadline, CreatedAt: base, UpdatedAt: base,
	}
	if err := s.Create(ctx, g); err != nil {
		t.Fatalf("create: %v", err)
	}
	done := &models.Goal{
		GoalID: "g2", UserID: "u1", Title: "Phone", TargetAmount: 10, CurrentAmount: 10,
		IsCompleted: true, Category: "Tech", Priority: models.PriorityLow,
		CreatedAt: base.Add(time.Hour), UpdatedAt: base.Add(time.Hour),
	}
	if err := s.Create(ctx, done); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get(ctx, "u1", "g1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Deadline == nil || !got.Deadline.Equal(deadline) || got.Priority != models.PriorityMedium {
		t.Fatalf("unexpected goal: %+v", got)
	}

	got.CurrentAmount = 1000
	got.IsCompleted = true
	got.Deadline = nil
	if err := s.Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := s.Get(ctx, "u1", "g1")
	if !again.IsCompleted || again.Deadline != nil || again.CurrentAmount != 1000 {
		t.Fatalf("update not persisted: %+v", again)
	}

	open, _ := s.List(ctx, "u1", false)
	if len(open) != 0 {
		t.Fatalf("expected no open goals, got %d", len(open))
	}
	all, _ := s.List(ctx, "u1", true)
	if len(all) != 2 || all[0].GoalID != "g2" {
		t.Fatalf("unexpected list order: %+v", all)
	}

	var nf *errs.NotFoundError
	if err := s.Update(ctx, &models.Goal{GoalID: "g1", UserID: "u2"}); !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for foreign update, got %v", err)
	}
}
