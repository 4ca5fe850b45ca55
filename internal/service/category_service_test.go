package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monedero/monedero-backend/internal/domain"
)

func TestCategoryCreateAdjustmentSingleton(t *testing.T) {
	e := newEnv()

	category, err := e.categories().Create(context.Background(), e.userID, CreateCategoryInput{
		Name: "ajuste de saldo",
		Type: domain.CategoryTypeNA,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.AdjustmentCategoryName, category.Name)
	assert.True(t, category.IsAdjustment())
	assert.Nil(t, category.ParentID)
}

func TestCategoryCreateAdjustmentWrongName(t *testing.T) {
	e := newEnv()

	_, err := e.categories().Create(context.Background(), e.userID, CreateCategoryInput{
		Name: "Balance fix",
		Type: domain.CategoryTypeNA,
	})
	assert.ErrorIs(t, err, domain.ErrReservedCategoryName)
}

func TestCategoryCreateSecondAdjustmentRefused(t *testing.T) {
	e := newEnv()
	e.seedCategory(domain.AdjustmentCategoryName, domain.CategoryTypeNA)

	_, err := e.categories().Create(context.Background(), e.userID, CreateCategoryInput{
		Name: "AJUSTE DE SALDO",
		Type: domain.CategoryTypeNA,
	})
	assert.ErrorIs(t, err, domain.ErrAdjustmentCategoryExists)
}

func TestCategoryCreateAdjustmentWithParentRefused(t *testing.T) {
	e := newEnv()
	parent := e.seedCategory("Groceries", domain.CategoryTypeExpense)
	parentID := parent.ID

	_, err := e.categories().Create(context.Background(), e.userID, CreateCategoryInput{
		Name:     "ajuste de saldo",
		Type:     domain.CategoryTypeNA,
		ParentID: &parentID,
	})
	assert.ErrorIs(t, err, domain.ErrAdjustmentCategoryParent)
}

func TestCategoryCreateReservedNameRefused(t *testing.T) {
	e := newEnv()

	for _, name := range []string{"Ajuste", "ajustar saldo", "AJUSTE DE SALDO"} {
		_, err := e.categories().Create(context.Background(), e.userID, CreateCategoryInput{
			Name: name,
			Type: domain.CategoryTypeExpense,
		})
		assert.ErrorIs(t, err, domain.ErrReservedCategoryName, name)
	}
}

func TestCategoryAdjustmentIsImmutable(t *testing.T) {
	e := newEnv()
	adjustment := e.seedCategory(domain.AdjustmentCategoryName, domain.CategoryTypeNA)

	_, err := e.categories().Update(context.Background(), e.userID, adjustment.ID, UpdateCategoryInput{
		Name: domain.Some("Groceries"),
	})
	assert.ErrorIs(t, err, domain.ErrCategoryNameFixed)

	_, err = e.categories().Update(context.Background(), e.userID, adjustment.ID, UpdateCategoryInput{
		Type: domain.Some(domain.CategoryTypeExpense),
	})
	assert.ErrorIs(t, err, domain.ErrCategoryTypeFixed)
}

func TestCategoryUpdateRename(t *testing.T) {
	e := newEnv()
	category := e.seedCategory("Groceries", domain.CategoryTypeExpense)

	updated, err := e.categories().Update(context.Background(), e.userID, category.ID, UpdateCategoryInput{
		Name: domain.Some("food AND drink"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Food and drink", updated.Name)
}

func TestCategoryUpdateTypeFrozenWhileReferenced(t *testing.T) {
	e := newEnv()
	account := e.seedAccount("Main", "USD", "0")
	category := e.seedCategory("Salary", domain.CategoryTypeIncome)
	e.store.Incomes().Seed(&domain.Income{
		UserID: e.userID, Name: "June pay", AccountID: account.ID,
		CategoryID: category.ID, Currency: "USD", Amount: amount("100"),
		Date: june(10), Active: true,
	})

	_, err := e.categories().Update(context.Background(), e.userID, category.ID, UpdateCategoryInput{
		Type: domain.Some(domain.CategoryTypeExpense),
	})
	assert.ErrorIs(t, err, domain.ErrEntityInUse)
}

func TestCategoryUpdateParentCycleRefused(t *testing.T) {
	e := newEnv()
	parent := e.seedCategory("Food", domain.CategoryTypeExpense)
	parentID := parent.ID
	child := e.store.Categories().Seed(&domain.Category{
		UserID:   e.userID,
		Name:     "Groceries",
		Type:     domain.CategoryTypeExpense,
		ParentID: &parentID,
		Active:   true,
	})
	childID := child.ID

	_, err := e.categories().Update(context.Background(), e.userID, parent.ID, UpdateCategoryInput{
		ParentID: domain.Some(&childID),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCategoryDeleteBlockedByChildren(t *testing.T) {
	e := newEnv()
	parent := e.seedCategory("Food", domain.CategoryTypeExpense)
	parentID := parent.ID
	e.store.Categories().Seed(&domain.Category{
		UserID:   e.userID,
		Name:     "Groceries",
		Type:     domain.CategoryTypeExpense,
		ParentID: &parentID,
		Active:   true,
	})

	err := e.categories().Delete(context.Background(), e.userID, parent.ID)
	assert.ErrorIs(t, err, domain.ErrEntityInUse)
}
