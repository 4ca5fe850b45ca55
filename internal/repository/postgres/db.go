// Package postgres implements the domain repositories on PostgreSQL
// through pgx. Every repository is bound to a DBTX, either the shared
// pool or one transaction, so the same query code runs in both scopes.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/monedero/monedero-backend/internal/domain"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements domain.Store on a pgx connection pool.
type Store struct {
	pool  *pgxpool.Pool
	repos *domain.Repositories
}

// NewStore creates a Store with repositories bound to the pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:  pool,
		repos: newRepositories(pool),
	}
}

// Repos returns repositories bound to the shared pool.
func (s *Store) Repos() *domain.Repositories {
	return s.repos
}

// ExecTx runs fn with repositories bound to a single transaction. The
// transaction commits when fn returns nil and rolls back otherwise.
func (s *Store) ExecTx(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(newRepositories(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func newRepositories(db DBTX) *domain.Repositories {
	return &domain.Repositories{
		Accounts:          NewAccountRepository(db),
		Budgets:           NewBudgetRepository(db),
		Categories:        NewCategoryRepository(db),
		Incomes:           NewIncomeRepository(db),
		Expenses:          NewExpenseRepository(db),
		Transfers:         NewTransferRepository(db),
		ExternalTransfers: NewExternalTransferRepository(db),
		Saves:             NewSaveRepository(db),
		SavingGoals:       NewSavingGoalRepository(db),
		Dashboards:        NewDashboardRepository(db),
		Users:             NewUserRepository(db),
	}
}
