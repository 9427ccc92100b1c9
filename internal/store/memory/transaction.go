package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

type transactionStore struct {
	mu  sync.RWMutex
	txs map[string]*models.Transaction
}

func NewTransactionStore() *transactionStore {
	return &transactionStore{txs: make(map[string]*models.Transaction)}
}

func (s *transactionStore) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.txs[tx.TransactionID]; ok {
		return errs.NewAlreadyExistsError("transaction already exists")
	}
	s.txs[tx.TransactionID] = cloneTransaction(tx)
	return nil
}

func (s *transactionStore) Get(_ context.Context, uid, transactionID string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.txs[transactionID]
	if !ok || tx.UserID != uid {
		return nil, notFound("transaction")
	}
	return cloneTransaction(tx), nil
}

func (s *transactionStore) Update(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.txs[tx.TransactionID]
	if !ok || existing.UserID != tx.UserID {
		return notFound("transaction")
	}
	s.txs[tx.TransactionID] = cloneTransaction(tx)
	return nil
}

func (s *transactionStore) Delete(_ context.Context, uid, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.txs[transactionID]
	if !ok || tx.UserID != uid {
		return notFound("transaction")
	}
	delete(s.txs, transactionID)
	return nil
}

// Query streams the owner's matching transactions to handle, newest first unless q.Asc.
func (s *transactionStore) Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error {
	s.mu.RLock()
	matched := make([]*models.Transaction, 0)
	for _, tx := range s.txs {
		if tx.UserID == uid && matches(tx, q) {
			matched = append(matched, cloneTransaction(tx))
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if q.Asc {
			a, b = b, a
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.TransactionID > b.TransactionID
	})
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}

	for _, tx := range matched {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := handle(tx); err != nil {
			return err
		}
	}
	return nil
}

func matches(tx *models.Transaction, q dto.TransactionQuery) bool {
	if q.Category != nil && tx.Category != *q.Category {
		return false
	}
	if q.Kind != nil && tx.Kind != *q.Kind {
		return false
	}
	if q.DateFrom != nil && tx.Date.Before(*q.DateFrom) {
		return false
	}
	if q.DateTo != nil && tx.Date.After(*q.DateTo) {
		return false
	}
	return true
}
