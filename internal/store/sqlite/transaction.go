package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

const transactionColumns = `id, user_id, amount, description, category, kind, date_ms, tags, notes, created_at_ms, updated_at_ms`

type transactionStore struct {
	db *sql.DB
}

func NewTransactionStore(db *sql.DB) *transactionStore {
	return &transactionStore{db: db}
}

func (s *transactionStore) Create(ctx context.Context, tx *models.Transaction) error {
	tags, err := json.Marshal(tagsOrEmpty(tx.Tags))
	if err != nil {
		return dbError("create transaction", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.TransactionID, tx.UserID, tx.Amount, tx.Description, tx.Category, string(tx.Kind),
		toMillis(tx.Date), string(tags), tx.Notes, toMillis(tx.CreatedAt), toMillis(tx.UpdatedAt),
	)
	if err != nil {
		return dbError("create transaction", err)
	}
	return nil
}

func (s *transactionStore) Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ? AND user_id = ?`,
		transactionID, uid,
	)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewNotFoundError("transaction not found")
	}
	if err != nil {
		return nil, dbError("get transaction", err)
	}
	return tx, nil
}

// Update rewrites the mutable fields. Owner, kind and date are fixed at creation.
func (s *transactionStore) Update(ctx context.Context, tx *models.Transaction) error {
	tags, err := json.Marshal(tagsOrEmpty(tx.Tags))
	if err != nil {
		return dbError("update transaction", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE transactions
		    SET amount = ?, description = ?, category = ?, tags = ?, notes = ?, updated_at_ms = ?
		  WHERE id = ? AND user_id = ?`,
		tx.Amount, tx.Description, tx.Category, string(tags), tx.Notes, toMillis(tx.UpdatedAt),
		tx.TransactionID, tx.UserID,
	)
	if err != nil {
		return dbError("update transaction", err)
	}
	return affectedOne(res, "transaction", "update transaction")
}

func (s *transactionStore) Delete(ctx context.Context, uid, transactionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ? AND user_id = ?`, transactionID, uid)
	if err != nil {
		return dbError("delete transaction", err)
	}
	return affectedOne(res, "transaction", "delete transaction")
}

// Query streams the owner's matching transactions to handle, newest first unless q.Asc.
func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = ?`)
	args := []any{uid}

	if q.Category != nil {
		sb.WriteString(` AND category = ?`)
		args = append(args, *q.Category)
	}
	if q.Kind != nil {
		sb.WriteString(` AND kind = ?`)
		args = append(args, string(*q.Kind))
	}
	if q.DateFrom != nil {
		sb.WriteString(` AND date_ms >= ?`)
		args = append(args, toMillis(*q.DateFrom))
	}
	if q.DateTo != nil {
		sb.WriteString(` AND date_ms <= ?`)
		args = append(args, toMillis(*q.DateTo))
	}
	if q.Asc {
		sb.WriteString(` ORDER BY date_ms ASC, id ASC`)
	} else {
		sb.WriteString(` ORDER BY date_ms DESC, id DESC`)
	}
	if q.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return dbError("query transactions", err)
	}
	defer rows.Close()

	// Collect first: the handler may issue further queries and the pool holds a single connection.
	var txs []*models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return dbError("query transactions", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return dbError("query transactions", err)
	}
	rows.Close()

	for _, tx := range txs {
		if err := handle(tx); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx                               models.Transaction
		kind, tags                       string
		dateMs, createdAtMs, updatedAtMs int64
	)
	err := row.Scan(&tx.TransactionID, &tx.UserID, &tx.Amount, &tx.Description, &tx.Category,
		&kind, &dateMs, &tags, &tx.Notes, &createdAtMs, &updatedAtMs)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &tx.Tags); err != nil {
		return nil, err
	}
	if len(tx.Tags) == 0 {
		tx.Tags = nil
	}
	tx.Kind = models.TransactionKind(kind)
	tx.Date = fromMillis(dateMs)
	tx.CreatedAt = fromMillis(createdAtMs)
	tx.UpdatedAt = fromMillis(updatedAtMs)
	return &tx, nil
}

func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
