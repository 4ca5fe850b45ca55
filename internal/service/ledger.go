package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
)

// Ledger is the only path through which balances change. It applies a
// signed delta to one holder with a per-holder lock around the
// read-modify-write, so concurrent adjustments to the same holder
// cannot lose updates. A delta that would leave a balance negative is
// rejected with ErrInsufficientFunds and nothing is written.
//
// Callers run adjustments inside a Store.ExecTx scope by passing the
// transaction-bound repositories, so a later failure in the same
// operation rolls the balance write back too.
type Ledger struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLedger creates a Ledger.
func NewLedger() *Ledger {
	return &Ledger{locks: make(map[string]*sync.Mutex)}
}

func (l *Ledger) holderLock(key string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	return lock
}

// AdjustAccount applies delta to an account balance.
func (l *Ledger) AdjustAccount(ctx context.Context, repos *domain.Repositories, userID, accountID uuid.UUID, delta decimal.Decimal) (*domain.Account, error) {
	lock := l.holderLock("account:" + accountID.String())
	lock.Lock()
	defer lock.Unlock()

	account, err := repos.Accounts.GetByID(ctx, userID, accountID)
	if err != nil {
		return nil, err
	}

	balance := account.Balance.Add(delta)
	if balance.IsNegative() {
		return nil, domain.ErrInsufficientFunds
	}

	if err := repos.Accounts.UpdateBalance(ctx, account.ID, balance); err != nil {
		return nil, err
	}

	account.Balance = balance
	return account, nil
}

// AdjustGoal applies delta to a saving goal balance.
func (l *Ledger) AdjustGoal(ctx context.Context, repos *domain.Repositories, goalID uuid.UUID, delta decimal.Decimal) (*domain.SavingGoal, error) {
	lock := l.holderLock("goal:" + goalID.String())
	lock.Lock()
	defer lock.Unlock()

	goal, err := repos.SavingGoals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}

	balance := goal.Balance.Add(delta)
	if balance.IsNegative() {
		return nil, domain.ErrInsufficientFunds
	}

	if err := repos.SavingGoals.UpdateBalance(ctx, goal.ID, balance); err != nil {
		return nil, err
	}

	goal.Balance = balance
	return goal, nil
}

// AdjustBudgetExpended applies delta to a budget's expended total. The
// budget balance is Amount - Expended, so growing Expended past Amount
// would leave it negative and is rejected.
func (l *Ledger) AdjustBudgetExpended(ctx context.Context, repos *domain.Repositories, userID, budgetID uuid.UUID, delta decimal.Decimal) (*domain.Budget, error) {
	lock := l.holderLock("budget:" + budgetID.String())
	lock.Lock()
	defer lock.Unlock()

	budget, err := repos.Budgets.GetByID(ctx, userID, budgetID)
	if err != nil {
		return nil, err
	}

	expended := budget.Expended.Add(delta)
	if expended.GreaterThan(budget.Amount) {
		return nil, domain.ErrInsufficientFunds
	}
	if expended.IsNegative() {
		expended = decimal.Zero
	}

	if err := repos.Budgets.UpdateExpended(ctx, budget.ID, expended); err != nil {
		return nil, err
	}

	budget.Expended = expended
	return budget, nil
}
