package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const goalColumns = `id, user_id, title, target_amount, current_amount, deadline_ms, category, priority, is_completed, description, created_at_ms, updated_at_ms`

type goalStore struct {
	db *sql.DB
}

func NewGoalStore(db *sql.DB) *goalStore {
	return &goalStore{db: db}
}

func (s *goalStore) Create(ctx context.Context, g *models.Goal) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goals (`+goalColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.GoalID, g.UserID, g.Title, g.TargetAmount, g.CurrentAmount, deadlineMillis(g),
		g.Category, string(g.Priority), boolToInt(g.IsCompleted), g.Description,
		toMillis(g.CreatedAt), toMillis(g.UpdatedAt),
	)
	if err != nil {
		return dbError("create goal", err)
	}
	return nil
}

func (s *goalStore) Get(ctx context.Context, uid, goalID string) (*models.Goal, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM goals WHERE id = ? AND user_id = ?`, goalID, uid)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("goal not found")
	}
	if err != nil {
		return nil, dbError("get goal", err)
	}
	return g, nil
}

func (s *goalStore) Update(ctx context.Context, g *models.Goal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals
		    SET title = ?, target_amount = ?, current_amount = ?, deadline_ms = ?, category = ?,
		        priority = ?, is_completed = ?, description = ?, updated_at_ms = ?
		  WHERE id = ? AND user_id = ?`,
		g.Title, g.TargetAmount, g.CurrentAmount, deadlineMillis(g), g.Category,
		string(g.Priority), boolToInt(g.IsCompleted), g.Description, toMillis(g.UpdatedAt),
		g.GoalID, g.UserID,
	)
	if err != nil {
		return dbError("update goal", err)
	}
	return affectedOne(res, "goal", "update goal")
}

func (s *goalStore) Delete(ctx context.Context, uid, goalID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ? AND user_id = ?`, goalID, uid)
	if err != nil {
		return dbError("delete goal", err)
	}
	return affectedOne(res, "goal", "delete goal")
}

func (s *goalStore) List(ctx context.Context, uid string, includeCompleted bool) ([]*models.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals WHERE user_id = ?`
	if !includeCompleted {
		query += ` AND is_completed = 0`
	}
	query += ` ORDER BY created_at_ms DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, uid)
	if err != nil {
		return nil, dbError("list goals", err)
	}
	defer rows.Close()

	out := make([]*models.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, dbError("list goals", err)
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError("list goals", err)
	}
	return out, nil
}

func deadlineMillis(g *models.Goal) sql.NullInt64 {
	if g.Deadline == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*g.Deadline), Valid: true}
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	var (
		g                        models.Goal
		priority                 string
		completed                int
		deadline                 sql.NullInt64
		createdAtMs, updatedAtMs int64
	)
	err := row.Scan(&g.GoalID, &g.UserID, &g.Title, &g.TargetAmount, &g.CurrentAmount, &deadline,
		&g.Category, &priority, &completed, &g.Description, &createdAtMs, &updatedAtMs)
	if err != nil {
		return nil, err
	}
	if deadline.Valid {
		d := fromMillis(deadline.Int64)
		g.Deadline = &d
	}
	g.Priority = models.GoalPriority(priority)
	g.IsCompleted = completed == 1
	g.CreatedAt = fromMillis(createdAtMs)
	g.UpdatedAt = fromMillis(updatedAtMs)
	return &g, nil
}
