package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/events"
)

// Wednesday 19 March 2025, midday UTC.
var fixedNow = time.Date(2025, time.March, 19, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type stubPublisher struct {
	mu     sync.Mutex
	alerts []*events.BudgetAlert
	err    error
}

func (p *stubPublisher) PublishBudgetAlert(_ context.Context, alert *events.BudgetAlert) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.alerts = append(p.alerts, alert)
	return p.err
}

func (p *stubPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.alerts)
}

func assertValidation(t *testing.T, err error) {
	t.Helper()
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func assertNotFound(t *testing.T, err error) {
	t.Helper()
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %T: %v", err, err)
	}
}

func assertAuthRequired(t *testing.T, err error) {
	t.Helper()
	var ae *errs.AuthenticationRequiredError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthenticationRequiredError, got %T: %v", err, err)
	}
}
