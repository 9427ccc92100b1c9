package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/firestore"
	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/finance-tracker/internal/config"
	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/events"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/internal/store"
	"github.com/GregMSThompson/finance-tracker/internal/store/memory"
	"github.com/GregMSThompson/finance-tracker/internal/store/sqlite"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

type TransactionStore interface {
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, uid, transactionID string) (*models.Transaction, error)
	Update(ctx context.Context, tx *models.Transaction) error
	Delete(ctx context.Context, uid, transactionID string) error
	Query(ctx context.Context, uid string, q dto.TransactionQuery, handle func(*models.Transaction) error) error
}

type BudgetStore interface {
	Create(ctx context.Context, b *models.Budget) error
	Get(ctx context.Context, uid, budgetID string) (*models.Budget, error)
	Update(ctx context.Context, b *models.Budget) error
	Delete(ctx context.Context, uid, budgetID string) error
	List(ctx context.Context, uid string, activeOnly bool) ([]*models.Budget, error)
	FindActive(ctx context.Context, uid, category string) (*models.Budget, error)
}

type GoalStore interface {
	Create(ctx context.Context, g *models.Goal) error
	Get(ctx context.Context, uid, goalID string) (*models.Goal, error)
	Update(ctx context.Context, g *models.Goal) error
	Delete(ctx context.Context, uid, goalID string) error
	List(ctx context.Context, uid string, includeCompleted bool) ([]*models.Goal, error)
}

type Stores struct {
	Transactions TransactionStore
	Budgets      BudgetStore
	Goals        GoalStore
}

type Bootstrap struct {
	Log      *slog.Logger
	Location *time.Location
	Stores   Stores
	Alerts   events.Publisher

	// Nil when requests are served without token verification.
	Auth *auth.Client

	Firestore *firestore.Client
	SQL       *sql.DB
}

// Run builds every long-lived dependency. On error the returned Bootstrap
// still carries a usable Log.
func Run(cfg *config.Config) (*Bootstrap, error) {
	var err error
	applicationCtx := context.Background()
	bs := new(Bootstrap)

	bs.Log = logger.New(cfg.LogLevel, logger.ForFormat(cfg.LogFormat))
	slog.SetDefault(bs.Log)

	bs.Location, err = cfg.Location()
	if err != nil {
		return bs, fmt.Errorf("load timezone: %w", err)
	}

	switch cfg.StoreBackend {
	case config.BackendFirestore:
		bs.Firestore, err = firestore.NewClient(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, fmt.Errorf("init firestore: %w", err)
		}
		bs.Stores = Stores{
			Transactions: store.NewTransactionStore(bs.Firestore),
			Budgets:      store.NewBudgetStore(bs.Firestore),
			Goals:        store.NewGoalStore(bs.Firestore),
		}
	case config.BackendSQLite:
		bs.SQL, err = sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			return bs, fmt.Errorf("init sqlite: %w", err)
		}
		bs.Stores = Stores{
			Transactions: sqlite.NewTransactionStore(bs.SQL),
			Budgets:      sqlite.NewBudgetStore(bs.SQL),
			Goals:        sqlite.NewGoalStore(bs.SQL),
		}
	case config.BackendMemory:
		bs.Stores = Stores{
			Transactions: memory.NewTransactionStore(),
			Budgets:      memory.NewBudgetStore(),
			Goals:        memory.NewGoalStore(),
		}
	default:
		return bs, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
	bs.Log.Info("record store ready", "backend", cfg.StoreBackend)

	if cfg.ProjectID != "" {
		bs.Auth, err = InitFirebase(applicationCtx, cfg.ProjectID)
		if err != nil {
			return bs, fmt.Errorf("init firebase: %w", err)
		}
	} else {
		bs.Log.Warn("no PROJECTID set, bearer tokens will be rejected")
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return bs, fmt.Errorf("init amqp publisher: %w", err)
		}
		bs.Alerts = publisher
		bs.Log.Info("budget alerts published to broker", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		bs.Alerts = events.NewLogPublisher()
	}

	return bs, nil
}

// Close releases whatever Run opened.
func (bs *Bootstrap) Close() error {
	var errList []error
	if bs.Alerts != nil {
		errList = append(errList, bs.Alerts.Close())
	}
	if bs.Firestore != nil {
		errList = append(errList, bs.Firestore.Close())
	}
	if bs.SQL != nil {
		errList = append(errList, bs.SQL.Close())
	}
	return errors.Join(errList...)
}
