package domain

import "errors"

// Not-found errors, one per entity
var (
	ErrAccountNotFound          = errors.New("account not found")
	ErrBudgetNotFound           = errors.New("budget not found")
	ErrCategoryNotFound         = errors.New("category not found")
	ErrIncomeNotFound           = errors.New("income not found")
	ErrExpenseNotFound          = errors.New("expense not found")
	ErrTransferNotFound         = errors.New("transfer not found")
	ErrExternalTransferNotFound = errors.New("external transfer not found")
	ErrSaveNotFound             = errors.New("save not found")
	ErrSavingGoalNotFound       = errors.New("saving goal not found")
	ErrDashboardNotFound        = errors.New("dashboard not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrReceiptNotFound          = errors.New("receipt not found")
)

// Input and validation errors. All of these are raised before any
// persisted write, so a failed operation leaves no partial state.
var (
	// ErrInvalidInput indicates a name or note containing characters
	// outside the allowed set.
	ErrInvalidInput = errors.New("input contains invalid characters")

	// ErrDuplicateName indicates a name collision within the owner's
	// namespace. Comparison is case-insensitive.
	ErrDuplicateName = errors.New("name already in use")

	ErrInvalidAmount        = errors.New("amount must be greater than zero")
	ErrNegativeBalance      = errors.New("initial balance cannot be negative")
	ErrDateInFuture         = errors.New("date cannot be in the future")
	ErrCurrencyMismatch     = errors.New("currency does not match")
	ErrSameAccount          = errors.New("source and destination accounts must differ")
	ErrEndDateNotAfterStart = errors.New("end date must be after start date")
	ErrAmountBelowExpended  = errors.New("amount cannot be below the expended total")
	ErrNoExpenseTarget      = errors.New("expense requires an account or a budget")
	ErrTwoExpenseTargets    = errors.New("expense cannot target both an account and a budget")
	ErrInvalidCategoryType  = errors.New("category type not allowed for this record")
	ErrUnknownCurrency      = errors.New("unknown currency code")
)

// Category errors around the balance-adjustment singleton
var (
	ErrReservedCategoryName     = errors.New("category name is reserved for balance adjustments")
	ErrCategoryNameFixed        = errors.New("the adjustment category cannot be renamed")
	ErrCategoryTypeFixed        = errors.New("the adjustment category cannot change type")
	ErrAdjustmentCategoryExists = errors.New("an adjustment category already exists")
	ErrAdjustmentCategoryParent = errors.New("the adjustment category cannot be part of a hierarchy")
)

// Funds, integrity and immutability errors
var (
	// ErrInsufficientFunds indicates a mutation that would leave a
	// balance negative. Nothing is written when it is returned.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrEntityInUse indicates a delete or a structural change blocked
	// by records that still reference the entity.
	ErrEntityInUse = errors.New("entity is referenced by other records")

	// ErrLastAccountInCurrency blocks deleting the only account left in
	// the dashboard's display currency.
	ErrLastAccountInCurrency = errors.New("cannot delete the last account in the dashboard currency")

	// ErrManualBalanceEdit indicates a direct write to a derived balance
	// field. Balances change only through the movements that affect them.
	ErrManualBalanceEdit = errors.New("balance cannot be edited directly")

	// ErrImmutableField indicates an update to a frozen field, such as
	// the amount or destination of an external transfer.
	ErrImmutableField = errors.New("field cannot be changed after creation")

	// ErrExternalTransferDelete indicates an attempt to delete an
	// external transfer. They can only be archived.
	ErrExternalTransferDelete = errors.New("external transfers cannot be deleted")
)
