package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
)

// AccountService manages account lifecycle.
type AccountService struct {
	store      domain.Store
	notifier   domain.Notifier
	converter  domain.CurrencyConverter
	dashboards *DashboardService
}

// NewAccountService creates an AccountService.
func NewAccountService(store domain.Store, notifier domain.Notifier, converter domain.CurrencyConverter, dashboards *DashboardService) *AccountService {
	return &AccountService{
		store:      store,
		notifier:   notifier,
		converter:  converter,
		dashboards: dashboards,
	}
}

// CreateAccountInput contains the fields to create an account.
type CreateAccountInput struct {
	Name     string
	Type     domain.AccountType
	Currency string
	Balance  decimal.Decimal
	Note     *string
}

// UpdateAccountInput contains the partial fields to update an account.
// Balance is accepted only to be rejected: balances change through
// movements, never through an account update.
type UpdateAccountInput struct {
	Name     domain.Optional[string]
	Type     domain.Optional[domain.AccountType]
	Currency domain.Optional[string]
	Note     domain.Optional[*string]
	Active   domain.Optional[bool]
	Balance  domain.Optional[decimal.Decimal]
}

// Create validates and persists a new account. The opening balance may
// be zero or positive; it is the only balance write that does not go
// through the ledger.
func (s *AccountService) Create(ctx context.Context, userID uuid.UUID, input CreateAccountInput) (*domain.Account, error) {
	name, err := domain.CanonicalName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, userID, name, uuid.Nil); err != nil {
		return nil, err
	}
	if !domain.ValidAccountType(input.Type) {
		return nil, domain.ErrInvalidInput
	}
	if err := s.checkCurrency(input.Currency); err != nil {
		return nil, err
	}
	if input.Balance.IsNegative() {
		return nil, domain.ErrNegativeBalance
	}
	note, err := cleanNotePtr(input.Note)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		UserID:   userID,
		Name:     name,
		Type:     input.Type,
		Currency: input.Currency,
		Balance:  input.Balance,
		Note:     note,
		Active:   true,
	}

	var created *domain.Account
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.Accounts.Create(ctx, account)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("account_id", created.ID.String()).
		Msg("Account created")

	s.notifier.Notify(userID, "Account created", created.Name, domain.SeveritySuccess)
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one account.
func (s *AccountService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Account, error) {
	return s.store.Repos().Accounts.GetByID(ctx, userID, id)
}

// List returns the user's accounts.
func (s *AccountService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Account, error) {
	return s.store.Repos().Accounts.ListByUser(ctx, userID, includeArchived)
}

// Update applies a partial update. Type and currency are frozen while
// any movement references the account.
func (s *AccountService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateAccountInput) (*domain.Account, error) {
	if input.Balance.IsSet() {
		return nil, domain.ErrManualBalanceEdit
	}

	account, err := s.store.Repos().Accounts.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if name, ok := input.Name.Get(); ok {
		canonical, err := domain.CanonicalName(name)
		if err != nil {
			return nil, err
		}
		if canonical != account.Name {
			if err := s.ensureNameFree(ctx, userID, canonical, account.ID); err != nil {
				return nil, err
			}
			account.Name = canonical
		}
	}

	structural := false
	if accountType, ok := input.Type.Get(); ok && accountType != account.Type {
		if !domain.ValidAccountType(accountType) {
			return nil, domain.ErrInvalidInput
		}
		account.Type = accountType
		structural = true
	}
	if currency, ok := input.Currency.Get(); ok && currency != account.Currency {
		if err := s.checkCurrency(currency); err != nil {
			return nil, err
		}
		account.Currency = currency
		structural = true
	}
	if structural {
		refs, err := s.referenceCount(ctx, userID, account.ID)
		if err != nil {
			return nil, err
		}
		if refs > 0 {
			return nil, domain.ErrEntityInUse
		}
	}

	account.Note, err = applyNote(account.Note, input.Note)
	if err != nil {
		return nil, err
	}
	if active, ok := input.Active.Get(); ok {
		account.Active = active
	}

	var updated *domain.Account
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		updated, err = repos.Accounts.Update(ctx, account)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(userID, "Account updated", updated.Name, domain.SeverityInfo)
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an account that no movement references. The last
// account in the dashboard's display currency stays.
func (s *AccountService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	repos := s.store.Repos()
	account, err := repos.Accounts.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	refs, err := s.referenceCount(ctx, userID, account.ID)
	if err != nil {
		return err
	}
	if refs > 0 {
		return domain.ErrEntityInUse
	}

	dashboard, err := repos.Dashboards.GetByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrDashboardNotFound) {
		return err
	}
	if err == nil && dashboard.Currency == account.Currency {
		inCurrency, err := repos.Accounts.CountByCurrency(ctx, userID, account.Currency)
		if err != nil {
			return err
		}
		if inCurrency <= 1 {
			return domain.ErrLastAccountInCurrency
		}
	}

	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		return repos.Accounts.Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("account_id", id.String()).
		Msg("Account deleted")

	s.notifier.Notify(userID, "Account deleted", account.Name, domain.SeverityWarning)
	_, err = s.dashboards.Recalculate(ctx, userID)
	return err
}

func (s *AccountService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.store.Repos().Accounts.GetByName(ctx, userID, name)
	if errors.Is(err, domain.ErrAccountNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == selfID {
		return nil
	}
	return domain.ErrDuplicateName
}

func (s *AccountService) checkCurrency(currency string) error {
	if _, err := s.converter.Convert(decimal.NewFromInt(1), currency, currency); err != nil {
		return domain.ErrUnknownCurrency
	}
	return nil
}

// referenceCount sums every movement kind that points at the account.
func (s *AccountService) referenceCount(ctx context.Context, userID, accountID uuid.UUID) (int64, error) {
	repos := s.store.Repos()
	var total int64

	n, err := repos.Incomes.CountByAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}
	total += n

	n, err = repos.Expenses.CountByAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}
	total += n

	n, err = repos.Budgets.CountByAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}
	total += n

	n, err = repos.Transfers.CountByAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}
	total += n

	n, err = repos.Saves.CountByAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}
	total += n

	n, err = repos.ExternalTransfers.CountByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	total += n

	return total, nil
}
