// Package memory keeps records in process memory. It backs local development
// and tests; nothing survives a restart.
package memory

import (
	"slices"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
)

// Records are copied on the way in and out so callers never share state with the store.

func cloneTransaction(tx *models.Transaction) *models.Transaction {
	c := *tx
	c.Tags = slices.Clone(tx.Tags)
	return &c
}

func cloneBudget(b *models.Budget) *models.Budget {
	c := *b
	return &c
}

func cloneGoal(g *models.Goal) *models.Goal {
	c := *g
	if g.Deadline != nil {
		d := *g.Deadline
		c.Deadline = &d
	}
	return &c
}

func notFound(kind string) error {
	return errs.NewNotFoundError(kind + " not found")
}
