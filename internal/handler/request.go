package handler

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
)

const dateLayout = "2006-01-02"

var errBadDate = errors.New("invalid date")

// parseIDParam parses a UUID path parameter.
func parseIDParam(c echo.Context, name string) (uuid.UUID, error) {
	return uuid.Parse(c.Param(name))
}

// parseDate accepts a plain date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, errBadDate
}

// includeArchived reads the includeArchived query flag.
func includeArchived(c echo.Context) bool {
	return c.QueryParam("includeArchived") == "true"
}

// optionalOf lifts a bound pointer field into an update Optional. A nil
// pointer means the field was absent from the request body.
func optionalOf[T any](p *T) domain.Optional[T] {
	if p == nil {
		return domain.None[T]()
	}
	return domain.Some(*p)
}

// optionalAmount parses an optional decimal field.
func optionalAmount(p *string) (domain.Optional[decimal.Decimal], error) {
	if p == nil {
		return domain.None[decimal.Decimal](), nil
	}
	amount, err := decimal.NewFromString(*p)
	if err != nil {
		return domain.None[decimal.Decimal](), err
	}
	return domain.Some(amount), nil
}

// optionalDate parses an optional date field.
func optionalDate(p *string) (domain.Optional[time.Time], error) {
	if p == nil {
		return domain.None[time.Time](), nil
	}
	date, err := parseDate(*p)
	if err != nil {
		return domain.None[time.Time](), err
	}
	return domain.Some(date), nil
}

// optionalID parses an optional UUID field.
func optionalID(p *string) (domain.Optional[uuid.UUID], error) {
	if p == nil {
		return domain.None[uuid.UUID](), nil
	}
	id, err := uuid.Parse(*p)
	if err != nil {
		return domain.None[uuid.UUID](), err
	}
	return domain.Some(id), nil
}

// optionalIDPtr parses an optional nullable UUID field: absent leaves
// the value alone, an empty string clears it.
func optionalIDPtr(p *string) (domain.Optional[*uuid.UUID], error) {
	if p == nil {
		return domain.None[*uuid.UUID](), nil
	}
	if *p == "" {
		return domain.Some[*uuid.UUID](nil), nil
	}
	id, err := uuid.Parse(*p)
	if err != nil {
		return domain.None[*uuid.UUID](), err
	}
	return domain.Some(&id), nil
}

// fieldError is shorthand for a one-field validation response.
func fieldError(c echo.Context, field, message string) error {
	return NewValidationError(c, "Validation failed", []ValidationError{
		{Field: field, Message: message},
	})
}
