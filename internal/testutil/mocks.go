// Package testutil provides hand-written in-memory fakes for service
// tests. Every repository mock keeps records in a map and exposes
// optional ...Fn override hooks for error injection.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
)

// MockStore satisfies domain.Store. ExecTx runs the callback against
// the same repositories; rollback is not simulated, tests that need a
// failing transaction use ExecTxFn.
type MockStore struct {
	repos    *domain.Repositories
	ExecTxFn func(ctx context.Context, fn func(repos *domain.Repositories) error) error
}

// NewMockStore creates a store backed by fresh in-memory repositories.
func NewMockStore() *MockStore {
	return &MockStore{
		repos: &domain.Repositories{
			Accounts:          NewAccountRepoMock(),
			Budgets:           NewBudgetRepoMock(),
			Categories:        NewCategoryRepoMock(),
			Incomes:           NewIncomeRepoMock(),
			Expenses:          NewExpenseRepoMock(),
			Transfers:         NewTransferRepoMock(),
			ExternalTransfers: NewExternalTransferRepoMock(),
			Saves:             NewSaveRepoMock(),
			SavingGoals:       NewSavingGoalRepoMock(),
			Dashboards:        NewDashboardRepoMock(),
			Users:             NewUserRepoMock(),
		},
	}
}

func (s *MockStore) Repos() *domain.Repositories { return s.repos }

func (s *MockStore) ExecTx(ctx context.Context, fn func(repos *domain.Repositories) error) error {
	if s.ExecTxFn != nil {
		return s.ExecTxFn(ctx, fn)
	}
	return fn(s.repos)
}

// Accounts returns the account mock for seeding and overrides.
func (s *MockStore) Accounts() *AccountRepoMock {
	return s.repos.Accounts.(*AccountRepoMock)
}

// Budgets returns the budget mock.
func (s *MockStore) Budgets() *BudgetRepoMock {
	return s.repos.Budgets.(*BudgetRepoMock)
}

// Categories returns the category mock.
func (s *MockStore) Categories() *CategoryRepoMock {
	return s.repos.Categories.(*CategoryRepoMock)
}

// Incomes returns the income mock.
func (s *MockStore) Incomes() *IncomeRepoMock {
	return s.repos.Incomes.(*IncomeRepoMock)
}

// Expenses returns the expense mock.
func (s *MockStore) Expenses() *ExpenseRepoMock {
	return s.repos.Expenses.(*ExpenseRepoMock)
}

// Transfers returns the transfer mock.
func (s *MockStore) Transfers() *TransferRepoMock {
	return s.repos.Transfers.(*TransferRepoMock)
}

// ExternalTransfers returns the external transfer mock.
func (s *MockStore) ExternalTransfers() *ExternalTransferRepoMock {
	return s.repos.ExternalTransfers.(*ExternalTransferRepoMock)
}

// Saves returns the save mock.
func (s *MockStore) Saves() *SaveRepoMock {
	return s.repos.Saves.(*SaveRepoMock)
}

// SavingGoals returns the saving goal mock.
func (s *MockStore) SavingGoals() *SavingGoalRepoMock {
	return s.repos.SavingGoals.(*SavingGoalRepoMock)
}

// Users returns the user mock.
func (s *MockStore) Users() *UserRepoMock {
	return s.repos.Users.(*UserRepoMock)
}

// FixedClock pins Today for date validations and month windows.
type FixedClock struct {
	Date time.Time
}

func (c FixedClock) Today() time.Time { return c.Date }

// Notification is one recorded Notify call.
type Notification struct {
	UserID   uuid.UUID
	Title    string
	Message  string
	Severity domain.Severity
}

// RecordingNotifier collects notifications for assertions.
type RecordingNotifier struct {
	mu            sync.Mutex
	Notifications []Notification
}

func (n *RecordingNotifier) Notify(userID uuid.UUID, title, message string, severity domain.Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Notifications = append(n.Notifications, Notification{
		UserID:   userID,
		Title:    title,
		Message:  message,
		Severity: severity,
	})
}

// Titles returns the recorded notification titles in order.
func (n *RecordingNotifier) Titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	titles := make([]string, 0, len(n.Notifications))
	for _, notification := range n.Notifications {
		titles = append(titles, notification.Title)
	}
	return titles
}

// StaticConverter converts through per-currency rates relative to a
// base unit. Unknown codes error, including in self-conversions.
type StaticConverter struct {
	Rates map[string]decimal.Decimal
}

// NewStaticConverter builds a converter with 1:1 rates for the given
// codes.
func NewStaticConverter(codes ...string) *StaticConverter {
	rates := make(map[string]decimal.Decimal, len(codes))
	for _, code := range codes {
		rates[code] = decimal.NewFromInt(1)
	}
	return &StaticConverter{Rates: rates}
}

func (c *StaticConverter) Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error) {
	fromRate, ok := c.Rates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown currency %q", from)
	}
	toRate, ok := c.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown currency %q", to)
	}
	if from == to {
		return amount, nil
	}
	return amount.Mul(fromRate).Div(toRate), nil
}

// ---------------------------------------------------------------------
// Account repository mock

type AccountRepoMock struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*domain.Account

	CreateFn        func(ctx context.Context, account *domain.Account) (*domain.Account, error)
	UpdateBalanceFn func(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

func NewAccountRepoMock() *AccountRepoMock {
	return &AccountRepoMock{accounts: make(map[uuid.UUID]*domain.Account)}
}

// Seed inserts an account directly, assigning an ID when missing.
func (m *AccountRepoMock) Seed(account *domain.Account) *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	clone := *account
	m.accounts[account.ID] = &clone
	return account
}

func (m *AccountRepoMock) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	clone := *account
	m.accounts[account.ID] = &clone
	result := *account
	return &result, nil
}

func (m *AccountRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok || account.UserID != userID {
		return nil, domain.ErrAccountNotFound
	}
	clone := *account
	return &clone, nil
}

func (m *AccountRepoMock) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts {
		if account.UserID == userID && account.Name == name {
			clone := *account
			return &clone, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *AccountRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Account
	for _, account := range m.accounts {
		if account.UserID != userID {
			continue
		}
		if !includeArchived && !account.Active {
			continue
		}
		clone := *account
		result = append(result, &clone)
	}
	return result, nil
}

func (m *AccountRepoMock) CountByCurrency(ctx context.Context, userID uuid.UUID, currency string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, account := range m.accounts {
		if account.UserID == userID && account.Currency == currency {
			count++
		}
	}
	return count, nil
}

func (m *AccountRepoMock) Update(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.accounts[account.ID]
	if !ok || existing.UserID != account.UserID {
		return nil, domain.ErrAccountNotFound
	}
	// The balance column is out of reach for plain updates.
	clone := *account
	clone.Balance = existing.Balance
	clone.UpdatedAt = time.Now()
	m.accounts[account.ID] = &clone
	result := clone
	return &result, nil
}

func (m *AccountRepoMock) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	if m.UpdateBalanceFn != nil {
		return m.UpdateBalanceFn(ctx, id, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}
	account.Balance = balance
	account.UpdatedAt = time.Now()
	return nil
}

func (m *AccountRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	account, ok := m.accounts[id]
	if !ok || account.UserID != userID {
		return domain.ErrAccountNotFound
	}
	delete(m.accounts, id)
	return nil
}

// ---------------------------------------------------------------------
// Budget repository mock

type BudgetRepoMock struct {
	mu      sync.Mutex
	budgets map[uuid.UUID]*domain.Budget

	UpdateExpendedFn func(ctx context.Context, id uuid.UUID, expended decimal.Decimal) error
}

func NewBudgetRepoMock() *BudgetRepoMock {
	return &BudgetRepoMock{budgets: make(map[uuid.UUID]*domain.Budget)}
}

func (m *BudgetRepoMock) Seed(budget *domain.Budget) *domain.Budget {
	m.mu.Lock()
	defer m.mu.Unlock()
	if budget.ID == uuid.Nil {
		budget.ID = uuid.New()
	}
	clone := *budget
	m.budgets[budget.ID] = &clone
	return budget
}

func (m *BudgetRepoMock) Create(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget.ID = uuid.New()
	budget.CreatedAt = time.Now()
	budget.UpdatedAt = budget.CreatedAt
	clone := *budget
	m.budgets[budget.ID] = &clone
	result := *budget
	return &result, nil
}

func (m *BudgetRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget, ok := m.budgets[id]
	if !ok || budget.UserID != userID {
		return nil, domain.ErrBudgetNotFound
	}
	clone := *budget
	return &clone, nil
}

func (m *BudgetRepoMock) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, budget := range m.budgets {
		if budget.UserID == userID && budget.Name == name {
			clone := *budget
			return &clone, nil
		}
	}
	return nil, domain.ErrBudgetNotFound
}

func (m *BudgetRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Budget
	for _, budget := range m.budgets {
		if budget.UserID != userID {
			continue
		}
		if !includeArchived && !budget.Active {
			continue
		}
		clone := *budget
		result = append(result, &clone)
	}
	return result, nil
}

func (m *BudgetRepoMock) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, budget := range m.budgets {
		if budget.UserID == userID && budget.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (m *BudgetRepoMock) CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, budget := range m.budgets {
		if budget.UserID == userID && budget.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *BudgetRepoMock) Update(ctx context.Context, budget *domain.Budget) (*domain.Budget, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.budgets[budget.ID]
	if !ok || existing.UserID != budget.UserID {
		return nil, domain.ErrBudgetNotFound
	}
	clone := *budget
	clone.Expended = existing.Expended
	clone.UpdatedAt = time.Now()
	m.budgets[budget.ID] = &clone
	result := clone
	return &result, nil
}

func (m *BudgetRepoMock) UpdateExpended(ctx context.Context, id uuid.UUID, expended decimal.Decimal) error {
	if m.UpdateExpendedFn != nil {
		return m.UpdateExpendedFn(ctx, id, expended)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	budget, ok := m.budgets[id]
	if !ok {
		return domain.ErrBudgetNotFound
	}
	budget.Expended = expended
	budget.UpdatedAt = time.Now()
	return nil
}

func (m *BudgetRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	budget, ok := m.budgets[id]
	if !ok || budget.UserID != userID {
		return domain.ErrBudgetNotFound
	}
	delete(m.budgets, id)
	return nil
}

// ---------------------------------------------------------------------
// Category repository mock

type CategoryRepoMock struct {
	mu         sync.Mutex
	categories map[uuid.UUID]*domain.Category
}

func NewCategoryRepoMock() *CategoryRepoMock {
	return &CategoryRepoMock{categories: make(map[uuid.UUID]*domain.Category)}
}

func (m *CategoryRepoMock) Seed(category *domain.Category) *domain.Category {
	m.mu.Lock()
	defer m.mu.Unlock()
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	clone := *category
	m.categories[category.ID] = &clone
	return category
}

func (m *CategoryRepoMock) Create(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category.ID = uuid.New()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	clone := *category
	m.categories[category.ID] = &clone
	result := *category
	return &result, nil
}

func (m *CategoryRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *category
	return &clone, nil
}

func (m *CategoryRepoMock) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, category := range m.categories {
		if category.UserID == userID && category.Name == name {
			clone := *category
			return &clone, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *CategoryRepoMock) GetAdjustment(ctx context.Context, userID uuid.UUID) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, category := range m.categories {
		if category.UserID == userID && category.Type == domain.CategoryTypeNA {
			clone := *category
			return &clone, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (m *CategoryRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Category
	for _, category := range m.categories {
		if category.UserID != userID {
			continue
		}
		if !includeArchived && !category.Active {
			continue
		}
		clone := *category
		result = append(result, &clone)
	}
	return result, nil
}

func (m *CategoryRepoMock) CountChildren(ctx context.Context, userID, parentID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, category := range m.categories {
		if category.UserID == userID && category.ParentID != nil && *category.ParentID == parentID {
			count++
		}
	}
	return count, nil
}

func (m *CategoryRepoMock) Update(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.categories[category.ID]
	if !ok || existing.UserID != category.UserID {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *category
	clone.UpdatedAt = time.Now()
	m.categories[category.ID] = &clone
	result := clone
	return &result, nil
}

func (m *CategoryRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	category, ok := m.categories[id]
	if !ok || category.UserID != userID {
		return domain.ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

// ---------------------------------------------------------------------
// Income repository mock

type IncomeRepoMock struct {
	mu      sync.Mutex
	incomes map[uuid.UUID]*domain.Income
}

func NewIncomeRepoMock() *IncomeRepoMock {
	return &IncomeRepoMock{incomes: make(map[uuid.UUID]*domain.Income)}
}

func (m *IncomeRepoMock) Seed(income *domain.Income) *domain.Income {
	m.mu.Lock()
	defer m.mu.Unlock()
	if income.ID == uuid.Nil {
		income.ID = uuid.New()
	}
	clone := *income
	m.incomes[income.ID] = &clone
	return income
}

func (m *IncomeRepoMock) Create(ctx context.Context, income *domain.Income) (*domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	income.ID = uuid.New()
	income.CreatedAt = time.Now()
	income.UpdatedAt = income.CreatedAt
	clone := *income
	m.incomes[income.ID] = &clone
	result := *income
	return &result, nil
}

func (m *IncomeRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	income, ok := m.incomes[id]
	if !ok || income.UserID != userID {
		return nil, domain.ErrIncomeNotFound
	}
	clone := *income
	return &clone, nil
}

func (m *IncomeRepoMock) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, income := range m.incomes {
		if income.UserID == userID && income.Name == name {
			clone := *income
			return &clone, nil
		}
	}
	return nil, domain.ErrIncomeNotFound
}

func (m *IncomeRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Income
	for _, income := range m.incomes {
		if income.UserID != userID {
			continue
		}
		if !includeArchived && !income.Active {
			continue
		}
		clone := *income
		result = append(result, &clone)
	}
	return result, nil
}

func (m *IncomeRepoMock) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Income
	for _, income := range m.incomes {
		if income.UserID != userID || !income.Active {
			continue
		}
		if income.Date.Before(from) || !income.Date.Before(to) {
			continue
		}
		clone := *income
		result = append(result, &clone)
	}
	return result, nil
}

func (m *IncomeRepoMock) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, income := range m.incomes {
		if income.UserID == userID && income.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (m *IncomeRepoMock) CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, income := range m.incomes {
		if income.UserID == userID && income.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *IncomeRepoMock) Update(ctx context.Context, income *domain.Income) (*domain.Income, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.incomes[income.ID]
	if !ok || existing.UserID != income.UserID {
		return nil, domain.ErrIncomeNotFound
	}
	clone := *income
	clone.UpdatedAt = time.Now()
	m.incomes[income.ID] = &clone
	result := clone
	return &result, nil
}

func (m *IncomeRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	income, ok := m.incomes[id]
	if !ok || income.UserID != userID {
		return domain.ErrIncomeNotFound
	}
	delete(m.incomes, id)
	return nil
}

// ---------------------------------------------------------------------
// Expense repository mock

type ExpenseRepoMock struct {
	mu       sync.Mutex
	expenses map[uuid.UUID]*domain.Expense
}

func NewExpenseRepoMock() *ExpenseRepoMock {
	return &ExpenseRepoMock{expenses: make(map[uuid.UUID]*domain.Expense)}
}

func (m *ExpenseRepoMock) Seed(expense *domain.Expense) *domain.Expense {
	m.mu.Lock()
	defer m.mu.Unlock()
	if expense.ID == uuid.Nil {
		expense.ID = uuid.New()
	}
	clone := *expense
	m.expenses[expense.ID] = &clone
	return expense
}

func (m *ExpenseRepoMock) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expense.ID = uuid.New()
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = expense.CreatedAt
	clone := *expense
	m.expenses[expense.ID] = &clone
	result := *expense
	return &result, nil
}

func (m *ExpenseRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expense, ok := m.expenses[id]
	if !ok || expense.UserID != userID {
		return nil, domain.ErrExpenseNotFound
	}
	clone := *expense
	return &clone, nil
}

func (m *ExpenseRepoMock) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, expense := range m.expenses {
		if expense.UserID == userID && expense.Name == name {
			clone := *expense
			return &clone, nil
		}
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *ExpenseRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Expense
	for _, expense := range m.expenses {
		if expense.UserID != userID {
			continue
		}
		if !includeArchived && !expense.Active {
			continue
		}
		clone := *expense
		result = append(result, &clone)
	}
	return result, nil
}

func (m *ExpenseRepoMock) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Expense
	for _, expense := range m.expenses {
		if expense.UserID != userID || !expense.Active {
			continue
		}
		if expense.Date.Before(from) || !expense.Date.Before(to) {
			continue
		}
		clone := *expense
		result = append(result, &clone)
	}
	return result, nil
}

func (m *ExpenseRepoMock) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, expense := range m.expenses {
		if expense.UserID == userID && expense.AccountID != nil && *expense.AccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (m *ExpenseRepoMock) CountByBudget(ctx context.Context, userID, budgetID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, expense := range m.expenses {
		if expense.UserID == userID && expense.BudgetID != nil && *expense.BudgetID == budgetID {
			count++
		}
	}
	return count, nil
}

func (m *ExpenseRepoMock) CountByCategory(ctx context.Context, userID, categoryID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, expense := range m.expenses {
		if expense.UserID == userID && expense.CategoryID == categoryID {
			count++
		}
	}
	return count, nil
}

func (m *ExpenseRepoMock) Update(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.expenses[expense.ID]
	if !ok || existing.UserID != expense.UserID {
		return nil, domain.ErrExpenseNotFound
	}
	clone := *expense
	clone.UpdatedAt = time.Now()
	m.expenses[expense.ID] = &clone
	result := clone
	return &result, nil
}

func (m *ExpenseRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	expense, ok := m.expenses[id]
	if !ok || expense.UserID != userID {
		return domain.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

// ---------------------------------------------------------------------
// Transfer repository mock

type TransferRepoMock struct {
	mu        sync.Mutex
	transfers map[uuid.UUID]*domain.Transfer
}

func NewTransferRepoMock() *TransferRepoMock {
	return &TransferRepoMock{transfers: make(map[uuid.UUID]*domain.Transfer)}
}

func (m *TransferRepoMock) Seed(transfer *domain.Transfer) *domain.Transfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if transfer.ID == uuid.Nil {
		transfer.ID = uuid.New()
	}
	clone := *transfer
	m.transfers[transfer.ID] = &clone
	return transfer
}

func (m *TransferRepoMock) Create(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transfer.ID = uuid.New()
	transfer.CreatedAt = time.Now()
	transfer.UpdatedAt = transfer.CreatedAt
	clone := *transfer
	m.transfers[transfer.ID] = &clone
	result := *transfer
	return &result, nil
}

func (m *TransferRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transfer, ok := m.transfers[id]
	if !ok || transfer.UserID != userID {
		return nil, domain.ErrTransferNotFound
	}
	clone := *transfer
	return &clone, nil
}

func (m *TransferRepoMock) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, transfer := range m.transfers {
		if transfer.UserID == userID && transfer.Name == name {
			clone := *transfer
			return &clone, nil
		}
	}
	return nil, domain.ErrTransferNotFound
}

func (m *TransferRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Transfer
	for _, transfer := range m.transfers {
		if transfer.UserID != userID {
			continue
		}
		if !includeArchived && !transfer.Active {
			continue
		}
		clone := *transfer
		result = append(result, &clone)
	}
	return result, nil
}

func (m *TransferRepoMock) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Transfer
	for _, transfer := range m.transfers {
		if transfer.UserID != userID || !transfer.Active {
			continue
		}
		if transfer.Date.Before(from) || !transfer.Date.Before(to) {
			continue
		}
		clone := *transfer
		result = append(result, &clone)
	}
	return result, nil
}

func (m *TransferRepoMock) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, transfer := range m.transfers {
		if transfer.UserID != userID {
			continue
		}
		if transfer.SourceAccountID == accountID || transfer.DestinationAccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (m *TransferRepoMock) Update(ctx context.Context, transfer *domain.Transfer) (*domain.Transfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.transfers[transfer.ID]
	if !ok || existing.UserID != transfer.UserID {
		return nil, domain.ErrTransferNotFound
	}
	clone := *transfer
	clone.UpdatedAt = time.Now()
	m.transfers[transfer.ID] = &clone
	result := clone
	return &result, nil
}

func (m *TransferRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	transfer, ok := m.transfers[id]
	if !ok || transfer.UserID != userID {
		return domain.ErrTransferNotFound
	}
	delete(m.transfers, id)
	return nil
}

// ---------------------------------------------------------------------
// External transfer repository mock

type ExternalTransferRepoMock struct {
	mu        sync.Mutex
	transfers map[uuid.UUID]*domain.ExternalTransfer
}

func NewExternalTransferRepoMock() *ExternalTransferRepoMock {
	return &ExternalTransferRepoMock{transfers: make(map[uuid.UUID]*domain.ExternalTransfer)}
}

func (m *ExternalTransferRepoMock) Seed(transfer *domain.ExternalTransfer) *domain.ExternalTransfer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if transfer.ID == uuid.Nil {
		transfer.ID = uuid.New()
	}
	clone := *transfer
	m.transfers[transfer.ID] = &clone
	return transfer
}

func (m *ExternalTransferRepoMock) Create(ctx context.Context, transfer *domain.ExternalTransfer) (*domain.ExternalTransfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transfer.ID = uuid.New()
	transfer.CreatedAt = time.Now()
	transfer.UpdatedAt = transfer.CreatedAt
	clone := *transfer
	m.transfers[transfer.ID] = &clone
	result := *transfer
	return &result, nil
}

func (m *ExternalTransferRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.ExternalTransfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	transfer, ok := m.transfers[id]
	if !ok || transfer.UserID != userID {
		return nil, domain.ErrExternalTransferNotFound
	}
	clone := *transfer
	return &clone, nil
}

func (m *ExternalTransferRepoMock) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.ExternalTransfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, transfer := range m.transfers {
		if transfer.UserID == userID && transfer.Name == name {
			clone := *transfer
			return &clone, nil
		}
	}
	return nil, domain.ErrExternalTransferNotFound
}

func (m *ExternalTransferRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.ExternalTransfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.ExternalTransfer
	for _, transfer := range m.transfers {
		if transfer.UserID != userID {
			continue
		}
		if !includeArchived && !transfer.Active {
			continue
		}
		clone := *transfer
		result = append(result, &clone)
	}
	return result, nil
}

func (m *ExternalTransferRepoMock) ListSentByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.ExternalTransfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.ExternalTransfer
	for _, transfer := range m.transfers {
		if transfer.UserID != userID || !transfer.Active {
			continue
		}
		if transfer.Date.Before(from) || !transfer.Date.Before(to) {
			continue
		}
		clone := *transfer
		result = append(result, &clone)
	}
	return result, nil
}

func (m *ExternalTransferRepoMock) ListReceivedByUserAndDateRange(ctx context.Context, externalUserID uuid.UUID, from, to time.Time) ([]*domain.ExternalTransfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.ExternalTransfer
	for _, transfer := range m.transfers {
		if transfer.ExternalUserID != externalUserID || !transfer.Active {
			continue
		}
		if transfer.Date.Before(from) || !transfer.Date.Before(to) {
			continue
		}
		clone := *transfer
		result = append(result, &clone)
	}
	return result, nil
}

func (m *ExternalTransferRepoMock) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, transfer := range m.transfers {
		if transfer.SourceAccountID == accountID || transfer.DestinationAccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (m *ExternalTransferRepoMock) Update(ctx context.Context, transfer *domain.ExternalTransfer) (*domain.ExternalTransfer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.transfers[transfer.ID]
	if !ok || existing.UserID != transfer.UserID {
		return nil, domain.ErrExternalTransferNotFound
	}
	clone := *transfer
	clone.UpdatedAt = time.Now()
	m.transfers[transfer.ID] = &clone
	result := clone
	return &result, nil
}

// ---------------------------------------------------------------------
// Save repository mock

type SaveRepoMock struct {
	mu    sync.Mutex
	saves map[uuid.UUID]*domain.Save
}

func NewSaveRepoMock() *SaveRepoMock {
	return &SaveRepoMock{saves: make(map[uuid.UUID]*domain.Save)}
}

func (m *SaveRepoMock) Seed(save *domain.Save) *domain.Save {
	m.mu.Lock()
	defer m.mu.Unlock()
	if save.ID == uuid.Nil {
		save.ID = uuid.New()
	}
	clone := *save
	m.saves[save.ID] = &clone
	return save
}

func (m *SaveRepoMock) Create(ctx context.Context, save *domain.Save) (*domain.Save, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	save.ID = uuid.New()
	save.CreatedAt = time.Now()
	save.UpdatedAt = save.CreatedAt
	clone := *save
	m.saves[save.ID] = &clone
	result := *save
	return &result, nil
}

func (m *SaveRepoMock) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Save, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	save, ok := m.saves[id]
	if !ok || save.UserID != userID {
		return nil, domain.ErrSaveNotFound
	}
	clone := *save
	return &clone, nil
}

func (m *SaveRepoMock) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Save, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, save := range m.saves {
		if save.UserID == userID && save.Name == name {
			clone := *save
			return &clone, nil
		}
	}
	return nil, domain.ErrSaveNotFound
}

func (m *SaveRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Save, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Save
	for _, save := range m.saves {
		if save.UserID != userID {
			continue
		}
		if !includeArchived && !save.Active {
			continue
		}
		clone := *save
		result = append(result, &clone)
	}
	return result, nil
}

func (m *SaveRepoMock) ListByUserAndDateRange(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]*domain.Save, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.Save
	for _, save := range m.saves {
		if save.UserID != userID || !save.Active {
			continue
		}
		if save.Date.Before(from) || !save.Date.Before(to) {
			continue
		}
		clone := *save
		result = append(result, &clone)
	}
	return result, nil
}

func (m *SaveRepoMock) CountByAccount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, save := range m.saves {
		if save.UserID == userID && save.SourceAccountID == accountID {
			count++
		}
	}
	return count, nil
}

func (m *SaveRepoMock) CountByGoal(ctx context.Context, goalID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, save := range m.saves {
		if save.SavingGoalID == goalID {
			count++
		}
	}
	return count, nil
}

func (m *SaveRepoMock) Update(ctx context.Context, save *domain.Save) (*domain.Save, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.saves[save.ID]
	if !ok || existing.UserID != save.UserID {
		return nil, domain.ErrSaveNotFound
	}
	clone := *save
	clone.UpdatedAt = time.Now()
	m.saves[save.ID] = &clone
	result := clone
	return &result, nil
}

func (m *SaveRepoMock) Delete(ctx context.Context, userID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	save, ok := m.saves[id]
	if !ok || save.UserID != userID {
		return domain.ErrSaveNotFound
	}
	delete(m.saves, id)
	return nil
}

// ---------------------------------------------------------------------
// Saving goal repository mock

type SavingGoalRepoMock struct {
	mu    sync.Mutex
	goals map[uuid.UUID]*domain.SavingGoal

	UpdateBalanceFn func(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error
}

func NewSavingGoalRepoMock() *SavingGoalRepoMock {
	return &SavingGoalRepoMock{goals: make(map[uuid.UUID]*domain.SavingGoal)}
}

func (m *SavingGoalRepoMock) Seed(goal *domain.SavingGoal) *domain.SavingGoal {
	m.mu.Lock()
	defer m.mu.Unlock()
	if goal.ID == uuid.Nil {
		goal.ID = uuid.New()
	}
	clone := *goal
	m.goals[goal.ID] = &clone
	return goal
}

func (m *SavingGoalRepoMock) Create(ctx context.Context, goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal.ID = uuid.New()
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = goal.CreatedAt
	clone := *goal
	m.goals[goal.ID] = &clone
	result := *goal
	return &result, nil
}

func (m *SavingGoalRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavingGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, ok := m.goals[id]
	if !ok {
		return nil, domain.ErrSavingGoalNotFound
	}
	clone := *goal
	return &clone, nil
}

func (m *SavingGoalRepoMock) GetByName(ctx context.Context, name string) (*domain.SavingGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, goal := range m.goals {
		if goal.Name == name {
			clone := *goal
			return &clone, nil
		}
	}
	return nil, domain.ErrSavingGoalNotFound
}

func (m *SavingGoalRepoMock) List(ctx context.Context, includeArchived bool) ([]*domain.SavingGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*domain.SavingGoal
	for _, goal := range m.goals {
		if !includeArchived && !goal.Active {
			continue
		}
		clone := *goal
		result = append(result, &clone)
	}
	return result, nil
}

func (m *SavingGoalRepoMock) Update(ctx context.Context, goal *domain.SavingGoal) (*domain.SavingGoal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.goals[goal.ID]
	if !ok {
		return nil, domain.ErrSavingGoalNotFound
	}
	clone := *goal
	clone.Balance = existing.Balance
	clone.UpdatedAt = time.Now()
	m.goals[goal.ID] = &clone
	result := clone
	return &result, nil
}

func (m *SavingGoalRepoMock) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal) error {
	if m.UpdateBalanceFn != nil {
		return m.UpdateBalanceFn(ctx, id, balance)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	goal, ok := m.goals[id]
	if !ok {
		return domain.ErrSavingGoalNotFound
	}
	goal.Balance = balance
	goal.UpdatedAt = time.Now()
	return nil
}

func (m *SavingGoalRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.goals[id]; !ok {
		return domain.ErrSavingGoalNotFound
	}
	delete(m.goals, id)
	return nil
}

// ---------------------------------------------------------------------
// Dashboard repository mock

type DashboardRepoMock struct {
	mu         sync.Mutex
	dashboards map[uuid.UUID]*domain.Dashboard
}

func NewDashboardRepoMock() *DashboardRepoMock {
	return &DashboardRepoMock{dashboards: make(map[uuid.UUID]*domain.Dashboard)}
}

func (m *DashboardRepoMock) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dashboard, ok := m.dashboards[userID]
	if !ok {
		return nil, domain.ErrDashboardNotFound
	}
	clone := *dashboard
	return &clone, nil
}

func (m *DashboardRepoMock) Upsert(ctx context.Context, dashboard *domain.Dashboard) (*domain.Dashboard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.dashboards[dashboard.UserID]
	if ok {
		dashboard.ID = existing.ID
		dashboard.CreatedAt = existing.CreatedAt
	} else {
		dashboard.ID = uuid.New()
		dashboard.CreatedAt = time.Now()
	}
	dashboard.UpdatedAt = time.Now()
	clone := *dashboard
	m.dashboards[dashboard.UserID] = &clone
	result := *dashboard
	return &result, nil
}

// ---------------------------------------------------------------------
// User repository mock

type UserRepoMock struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func NewUserRepoMock() *UserRepoMock {
	return &UserRepoMock{users: make(map[uuid.UUID]*domain.User)}
}

func (m *UserRepoMock) Seed(user *domain.User) *domain.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	clone := *user
	m.users[user.ID] = &clone
	return user
}

func (m *UserRepoMock) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	m.users[user.ID] = &clone
	result := *user
	return &result, nil
}

func (m *UserRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *UserRepoMock) GetBySubject(ctx context.Context, subject string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Subject == subject {
			clone := *user
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}
