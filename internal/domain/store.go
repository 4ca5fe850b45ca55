package domain

import "context"

// Repositories bundles every repository bound to one database handle,
// either the shared pool or a single transaction.
type Repositories struct {
	Accounts          AccountRepository
	Budgets           BudgetRepository
	Categories        CategoryRepository
	Incomes           IncomeRepository
	Expenses          ExpenseRepository
	Transfers         TransferRepository
	ExternalTransfers ExternalTransferRepository
	Saves             SaveRepository
	SavingGoals       SavingGoalRepository
	Dashboards        DashboardRepository
	Users             UserRepository
}

// Store gives services repository access plus an explicit transaction
// scope. ExecTx runs fn against repositories bound to one transaction;
// every write inside commits or rolls back together.
type Store interface {
	Repos() *Repositories
	ExecTx(ctx context.Context, fn func(repos *Repositories) error) error
}
