package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyConverter converts an amount between currency codes at the
// current point in time. No historical rates are kept; re-running a
// conversion later may yield a different result.
type CurrencyConverter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// Clock supplies the current date for validations and month windows.
// Injected so tests can pin it.
type Clock interface {
	Today() time.Time
}

// Severity classifies a user notification
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notifier delivers user-facing notifications. Delivery is best effort
// and never fails the operation that triggered it.
type Notifier interface {
	Notify(userID uuid.UUID, title, message string, severity Severity)
}
