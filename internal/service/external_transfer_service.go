package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/util"
)

// ExternalTransferService manages transfers into another user's
// account. The money leaves the sender's control on creation, so the
// amount and the destination are frozen afterwards and the record can
// only be archived, never deleted. The source account may still
// change, which moves the debit between the sender's own accounts.
type ExternalTransferService struct {
	store      domain.Store
	ledger     *Ledger
	notifier   domain.Notifier
	clock      domain.Clock
	dashboards *DashboardService
}

// NewExternalTransferService creates an ExternalTransferService.
func NewExternalTransferService(store domain.Store, ledger *Ledger, notifier domain.Notifier, clock domain.Clock, dashboards *DashboardService) *ExternalTransferService {
	return &ExternalTransferService{
		store:      store,
		ledger:     ledger,
		notifier:   notifier,
		clock:      clock,
		dashboards: dashboards,
	}
}

// CreateExternalTransferInput contains the fields to create an
// external transfer.
type CreateExternalTransferInput struct {
	Name                 string
	SourceAccountID      uuid.UUID
	ExternalUserID       uuid.UUID
	DestinationAccountID uuid.UUID
	Amount               decimal.Decimal
	Date                 time.Time
	Note                 *string
}

// UpdateExternalTransferInput contains the partial fields to update an
// external transfer. Amount, destination and external user are frozen;
// setting them to a different value fails with ErrImmutableField.
type UpdateExternalTransferInput struct {
	Name                 domain.Optional[string]
	SourceAccountID      domain.Optional[uuid.UUID]
	ExternalUserID       domain.Optional[uuid.UUID]
	DestinationAccountID domain.Optional[uuid.UUID]
	Amount               domain.Optional[decimal.Decimal]
	Date                 domain.Optional[time.Time]
	Note                 domain.Optional[*string]
	Active               domain.Optional[bool]
}

// Create validates the transfer and moves the money across users in
// one transaction, then rebuilds both dashboards.
func (s *ExternalTransferService) Create(ctx context.Context, userID uuid.UUID, input CreateExternalTransferInput) (*domain.ExternalTransfer, error) {
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
	if input.ExternalUserID == userID {
		return nil, domain.ErrInvalidInput
	}

	repos := s.store.Repos()
	if _, err := repos.Users.GetByID(ctx, input.ExternalUserID); err != nil {
		return nil, err
	}
	source, err := repos.Accounts.GetByID(ctx, userID, input.SourceAccountID)
	if err != nil {
		return nil, err
	}
	destination, err := repos.Accounts.GetByID(ctx, input.ExternalUserID, input.DestinationAccountID)
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

	transfer := &domain.ExternalTransfer{
		UserID:               userID,
		ExternalUserID:       input.ExternalUserID,
		Name:                 name,
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Currency:             source.Currency,
		Amount:               input.Amount,
		Date:                 util.DateOnly(input.Date),
		Note:                 note,
		Active:               true,
	}

	var created *domain.ExternalTransfer
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		created, err = repos.ExternalTransfers.Create(ctx, transfer)
		if err != nil {
			return err
		}
		if _, err := s.ledger.AdjustAccount(ctx, repos, userID, source.ID, input.Amount.Neg()); err != nil {
			return err
		}
		_, err = s.ledger.AdjustAccount(ctx, repos, input.ExternalUserID, destination.ID, input.Amount)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("external_user_id", input.ExternalUserID.String()).
		Str("external_transfer_id", created.ID.String()).
		Str("amount", created.Amount.String()).
		Msg("External transfer created")

	s.notifier.Notify(userID, "Balance updated", created.Name, domain.SeveritySuccess)
	s.notifier.Notify(input.ExternalUserID, "Transfer received", created.Name, domain.SeveritySuccess)
	if err := s.recalculateBoth(ctx, userID, input.ExternalUserID); err != nil {
		return nil, err
	}
	return created, nil
}

// Get returns one external transfer.
func (s *ExternalTransferService) Get(ctx context.Context, userID, id uuid.UUID) (*domain.ExternalTransfer, error) {
	return s.store.Repos().ExternalTransfers.GetByID(ctx, userID, id)
}

// List returns the user's sent external transfers.
func (s *ExternalTransferService) List(ctx context.Context, userID uuid.UUID, includeArchived bool) ([]*domain.ExternalTransfer, error) {
	return s.store.Repos().ExternalTransfers.ListByUser(ctx, userID, includeArchived)
}

// Update applies a partial update within the immutability rules. A
// source change moves the debit from the old account to the new one.
func (s *ExternalTransferService) Update(ctx context.Context, userID, id uuid.UUID, input UpdateExternalTransferInput) (*domain.ExternalTransfer, error) {
	repos := s.store.Repos()
	transfer, err := repos.ExternalTransfers.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	oldSourceID := transfer.SourceAccountID

	if amount, ok := input.Amount.Get(); ok && !amount.Equal(transfer.Amount) {
		return nil, domain.ErrImmutableField
	}
	if destinationID, ok := input.DestinationAccountID.Get(); ok && destinationID != transfer.DestinationAccountID {
		return nil, domain.ErrImmutableField
	}
	if externalUserID, ok := input.ExternalUserID.Get(); ok && externalUserID != transfer.ExternalUserID {
		return nil, domain.ErrImmutableField
	}

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

	if date, ok := input.Date.Get(); ok {
		if err := validateDate(date, s.clock); err != nil {
			return nil, err
		}
		transfer.Date = util.DateOnly(date)
	}

	if sourceID, ok := input.SourceAccountID.Get(); ok && sourceID != oldSourceID {
		source, err := repos.Accounts.GetByID(ctx, userID, sourceID)
		if err != nil {
			return nil, err
		}
		if source.Currency != transfer.Currency {
			return nil, domain.ErrCurrencyMismatch
		}
		transfer.SourceAccountID = sourceID
	}

	transfer.Note, err = applyNote(transfer.Note, input.Note)
	if err != nil {
		return nil, err
	}
	if active, ok := input.Active.Get(); ok {
		transfer.Active = active
	}

	sourceChanged := transfer.SourceAccountID != oldSourceID

	var updated *domain.ExternalTransfer
	err = s.store.ExecTx(ctx, func(repos *domain.Repositories) error {
		if sourceChanged {
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, oldSourceID, transfer.Amount); err != nil {
				return err
			}
			if _, err := s.ledger.AdjustAccount(ctx, repos, userID, transfer.SourceAccountID, transfer.Amount.Neg()); err != nil {
				return err
			}
		}
		updated, err = repos.ExternalTransfers.Update(ctx, transfer)
		return err
	})
	if err != nil {
		return nil, err
	}

	if sourceChanged {
		s.notifier.Notify(userID, "Balance updated", updated.Name, domain.SeveritySuccess)
	} else {
		s.notifier.Notify(userID, "Transfer updated", updated.Name, domain.SeverityInfo)
	}
	if err := s.recalculateBoth(ctx, userID, transfer.ExternalUserID); err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete always refuses. External transfers are archived through
// Update instead.
func (s *ExternalTransferService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.store.Repos().ExternalTransfers.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return domain.ErrExternalTransferDelete
}

// recalculateBoth rebuilds the sender's and the receiver's dashboards.
// Each side is consistent with its own records; the two rebuilds are
// not atomic with each other.
func (s *ExternalTransferService) recalculateBoth(ctx context.Context, userID, externalUserID uuid.UUID) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.dashboards.Recalculate(ctx, userID)
		return err
	})
	g.Go(func() error {
		_, err := s.dashboards.Recalculate(ctx, externalUserID)
		return err
	})
	return g.Wait()
}

func (s *ExternalTransferService) ensureNameFree(ctx context.Context, userID uuid.UUID, name string, selfID uuid.UUID) error {
	existing, err := s.store.Repos().ExternalTransfers.GetByName(ctx, userID, name)
	if errors.Is(err, domain.ErrExternalTransferNotFound) {
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
