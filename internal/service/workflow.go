// Package service implements the business rules: one lifecycle service
// per entity, the balance ledger and the dashboard aggregator. Every
// operation follows the same pipeline: clean input, check uniqueness,
// validate, reconcile balances inside one transaction, notify, then
// recalculate the affected dashboards.
package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/util"
)

// cleanNotePtr cleans an optional note. Empty notes become nil.
func cleanNotePtr(note *string) (*string, error) {
	if note == nil {
		return nil, nil
	}
	cleaned, err := domain.CleanInput(*note, domain.TextNote)
	if err != nil {
		return nil, err
	}
	if cleaned == "" {
		return nil, nil
	}
	return &cleaned, nil
}

// applyNote resolves an optional note update against the current value.
func applyNote(current *string, update domain.Optional[*string]) (*string, error) {
	if !update.IsSet() {
		return current, nil
	}
	return cleanNotePtr(update.Value())
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidAmount
	}
	return nil
}

// validateDate rejects dates after today. Time of day is ignored.
func validateDate(date time.Time, clock domain.Clock) error {
	if util.DateOnly(date).After(util.DateOnly(clock.Today())) {
		return domain.ErrDateInFuture
	}
	return nil
}
