package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const budgetColumns = `id, user_id, category, limit_amount, period, start_date_ms, is_active, created_at_ms, updated_at_ms`

type budgetStore struct {
	db *sql.DB
}

func NewBudgetStore(db *sql.DB) *budgetStore {
	return &budgetStore{db: db}
}

// Create relies on the partial unique index over active budgets to refuse duplicates.
func (s *budgetStore) Create(ctx context.Context, b *models.Budget) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO budgets (`+budgetColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.BudgetID, b.UserID, b.Category, b.Limit, string(b.Period), toMillis(b.StartDate),
		boolToInt(b.IsActive), toMillis(b.CreatedAt), toMillis(b.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return activeConflict(b.Category)
		}
		return dbError("create budget", err)
	}
	return nil
}

func (s *budgetStore) Get(ctx context.Context, uid, budgetID string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE id = ? AND user_id = ?`, budgetID, uid)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("budget not found")
	}
	if err != nil {
		return nil, dbError("get budget", err)
	}
	return b, nil
}

func (s *budgetStore) Update(ctx context.Context, b *models.Budget) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE budgets SET limit_amount = ?, period = ?, is_active = ?, updated_at_ms = ?
		  WHERE id = ? AND user_id = ?`,
		b.Limit, string(b.Period), boolToInt(b.IsActive), toMillis(b.UpdatedAt), b.BudgetID, b.UserID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return activeConflict(b.Category)
		}
		return dbError("update budget", err)
	}
	return affectedOne(res, "budget", "update budget")
}

func (s *budgetStore) Delete(ctx context.Context, uid, budgetID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE id = ? AND user_id = ?`, budgetID, uid)
	if err != nil {
		return dbError("delete budget", err)
	}
	return affectedOne(res, "budget", "delete budget")
}

func (s *budgetStore) List(ctx context.Context, uid string, activeOnly bool) ([]*models.Budget, error) {
	query := `SELECT ` + budgetColumns + ` FROM budgets WHERE user_id = ?`
	if activeOnly {
		query += ` AND is_active = 1`
	}
	query += ` ORDER BY start_date_ms DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, dbError("list budgets", err)
	}
	defer rows.Close()

	out := make([]*models.Budget, 0)
	for rows.Next() {
		b, err := scanBudget(rows)
		if err != nil {
			return nil, dbError("list budgets", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list budgets", err)
	}
	return out, nil
}

func (s *budgetStore) FindActive(ctx context.Context, uid, category string) (*models.Budget, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+budgetColumns+` FROM budgets WHERE user_id = ? AND category = ? AND is_active = 1`,
		uid, category)
	b, err := scanBudget(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, dbError("find active budget", err)
	}
	return b, nil
}

func scanBudget(row rowScanner) (*models.Budget, error) {
	var (
		b                                 models.Budget
		period                            string
		active                            int
		startMs, createdAtMs, updatedAtMs int64
	)
	err := row.Scan(&b.BudgetID, &b.UserID, &b.Category, &b.Limit, &period, &startMs,
		&active, &createdAtMs, &updatedAtMs)
	if err != nil {
		return nil, err
	}
	b.Period = models.BudgetPeriod(period)
	b.StartDate = fromMillis(startMs)
	b.IsActive = active == 1
	b.CreatedAt = fromMillis(createdAtMs)
	b.UpdatedAt = fromMillis(updatedAtMs)
	return &b, nil
}

func activeConflict(category string) error {
	return errs.NewAlreadyExistsError("Active budget already exists for category: " + category)
}
