package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/util"
)

// TransferService manages transfers between two accounts of the same
// user.
type TransferService struct {
	store      domain.Store
	ledger     *Ledger
	notifier   domain.Notifier
	clock      domain.Clock
	dashboards *DashboardService
}

// NewTransferService creates a TransferService.
func NewTransferService(store domain.Store, ledger *Ledger, notifier domain.Notifier, clock domain.Clock, dashboards *DashboardService) *TransferService {
	return &TransferService{
		store:      store,
		ledger:     ledger,
		notifier:   notifier,
		clock:      clock,
		dashboards: dashboards,
	}
}

// CreateTransferInput contains the fields to create a transfer.
type CreateTransferInput struct {
	Name                 string
	SourceAccountID      uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Date                 time.Time
	Note                 *string
}

// UpdateTransferInput contains the partial fields to update a transfer.
type UpdateTransferInput struct {
	Name                 domain.Optional[string]
	SourceAccountID      domain.Optional[uuid.UUID]
	DestinationAccountID domain.Optional[uuid.UUID]
	Amount               domain.Optional[decimal.Decimal]
	Date                 domain.Optional[time.Time]
	Note                 domain.Optional[*string]
	Active               domain.Optional[bool]
}

// Create validates the transfer and moves the money in one
// transaction. Both accounts must share a currency; no conversion
// happens on transfer.
func (s *TransferService) Create(ctx context.Context, userID uuid.UUID, input CreateTransferInput) (*domain.Transfer, error) {
	name, err := domain.CanonicalName(input.Name)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, userID, name, uuid.Nil); err != nil {
		return nil, err
	}
	if err := validateAmount(input.Amount); err != nil {
		return nil, err
	}
	if err := validateDate(input.Date, s.clock); err != nil {
		return nil, err
	}
	if input.SourceAccountID == input.DestinationAccountID {
		return nil, domain.ErrSameAccount
	}

	repos := s.store.Repos()
	source, err := repos.Accounts.GetByID(ctx, userID, input.SourceAccountID)
	if err != nil {
		return nil, err
	}
	destination, err := repos.Accounts.GetByID(ctx, userID, input.DestinationAccountID)
	if err != nil {
		return nil, err
	}
	if source.Currency != destination.Currency {
		return nil, domain.ErrCurrencyMismatch
	}
	if input.Amount.GreaterThan(source.Balance) {
		return nil, domain.ErrInsufficientFunds
	}

	note, err := cleanNotePtr(input.Note)
	if err != nil {
		return nil, err
	}

	transfer := &domain.Transfer{
		UserID:               userID,
		Name:                 name,
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Currency:             source.Currency,
		Amount:               input.Amount,
		Date:                 util.DateOnly(input.Date),
		Note:                 note,
		Active:               true,
	}

	var created *domain.Transfer
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.Transfers.Create(ctx, transfer)
		if err != nil {
			return err
		}
		if _, err := s.ledger.AdjustAccount(ctx, repos, userID, source.ID, input.Amount.Neg()); err != nil {
			return err
		}
		_, err = s.ledger.AdjustAccount(ctx, repos, userID, destination.ID, input.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("transfer_id", created.ID.String()).
		Str("amount", created.Amount.String()).
		Msg("Transfer created")

	s.notifier.Notify(userID, "Balance updated", created.Name, domain.SeveritySuccess)
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one transfer.
func (s *TransferService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.Transfer, error) {
	return s.store.Repos().Transfers.GetByID(ctx, userID, id)
}

// List returns the user's transfers.
func (s *TransferService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.Transfer, error) {
	return s.store.Repos().Transfers.ListByUser(ctx, userID, includeArchived)
}

// Update applies a partial update. Whenever the amount or either
// account changes the whole movement is undone against the old pair
// before being replayed against the new one.
func (s *TransferService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateTransferInput) (*domain.Transfer, error) {
	repos := s.store.Repos()
	transfer, err := repos.Transfers.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	oldAmount := transfer.Amount
	oldSourceID := transfer.SourceAccountID
	oldDestinationID := transfer.DestinationAccountID

	if name, ok := input.Name.Get(); ok {
		canonical, err := domain.CanonicalName(name)
		if err != nil {
			return nil, err
		}
		if canonical != transfer.Name {
			if err := s.ensureNameFree(ctx, userID, canonical, transfer.ID); err != nil {
				return nil, err
			}
			transfer.Name = canonical
		}
	}

	if amount, ok := input.Amount.Get(); ok {
		if err := validateAmount(amount); err != nil {
			return nil, err
		}
		transfer.Amount = amount
	}
	if date, ok := input.Date.Get(); ok {
		if err := validateDate(date, s.clock); err != nil {
			return nil, err
		}
		transfer.Date = util.DateOnly(date)
	}
	if sourceID, ok := input.SourceAccountID.Get(); ok {
		transfer.SourceAccountID = sourceID
	}
	if destinationID, ok := input.DestinationAccountID.Get(); ok {
		transfer.DestinationAccountID = destinationID
	}
	if transfer.SourceAccountID == transfer.DestinationAccountID {
		return nil, domain.ErrSameAccount
	}

	source, err := repos.Accounts.GetByID(ctx, userID, transfer.SourceAccountID)
	if err != nil {
		return nil, err
	}
	destination, err := repos.Accounts.GetByID(ctx, userID, transfer.DestinationAccountID)
	if err != nil {
		return nil, err
	}
	if source.Currency != transfer.Currency || destination.Currency != transfer.Currency {
		return nil, domain.ErrCurrencyMismatch
	}

	transfer.Note, err = applyNote(transfer.Note, input.Note)
	if err != nil {
		return nil, err
	}
	if active, ok := input.Active.Get(); ok {
		transfer.Active = active
	}

	moved := transfer.SourceAccountID != oldSourceID ||
		transfer.DestinationAccountID != oldDestinationID ||
		!transfer.Amount.Equal(oldAmount)

	var updated *domain.Transfer
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		if moved {
			// Undo against the old pair first so a move between the
			// same two accounts nets out correctly.
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, oldSourceID, oldAmount); err != nil {
				return err
			}
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, oldDestinationID, oldAmount.Neg()); err != nil {
				return err
			}
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, transfer.SourceAccountID, transfer.Amount.Neg()); err != nil {
				return err
			}
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, transfer.DestinationAccountID, transfer.Amount); err != nil {
				return err
			}
		}
		updated, err = repos.Transfers.Update(ctx, transfer)
		return err
	})
	if err != nil {
		return nil, err
	}

	if moved {
		s.notifier.Notify(userID, "Balance updated", updated.Name, domain.SeveritySuccess)
	} else {
		s.notifier.Notify(userID, "Transfer updated", updated.Name, domain.SeverityInfo)
	}
	if _, err := s.dashboards.Recalculate(ctx, userID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a transfer and moves the money back. It fails if the
// destination has already spent it.
func (s *TransferService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	transfer, err := s.store.Repos().Transfers.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}

	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		if _, err := s.ledger.AdjustAccount(ctx, repos, userID, transfer.DestinationAccountID, transfer.Amount.Neg()); err != nil {
			return err
		}
		if _, err := s.ledger.AdjustAccount(ctx, repos, userID, transfer.SourceAccountID, transfer.Amount); err != nil {
			return err
		}
		return repos.Transfers.Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("transfer_id", id.String()).
		Msg("Transfer deleted")

	s.notifier.Notify(userID, "Balance updated", transfer.Name, domain.SeverityWarning)
	_, err = s.dashboards.Recalculate(ctx, userID)
	return err
}

func (s *TransferService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.store.Repos().Transfers.GetByName(ctx, userID, name)
	if errors.Is(err, domain.ErrTransferNotFound) {
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
