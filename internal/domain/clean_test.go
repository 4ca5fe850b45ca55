package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanInput(t *testing.T) {
	t.Run("collapses whitespace and trims", func(t *testing.T) {
		got, err := CleanInput("  monthly   salary \t payment ", TextTitle)
		require.NoError(t, err)
		assert.Equal(t, "monthly salary payment", got)
	})

	t.Run("title allows hyphen and underscore", func(t *testing.T) {
		got, err := CleanInput("rent_2026-03", TextTitle)
		require.NoError(t, err)
		assert.Equal(t, "rent_2026-03", got)
	})

	t.Run("title rejects punctuation", func(t *testing.T) {
		_, err := CleanInput("groceries, etc.", TextTitle)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("note allows commas and periods", func(t *testing.T) {
		got, err := CleanInput("paid in cash, see folder B.", TextNote)
		require.NoError(t, err)
		assert.Equal(t, "paid in cash, see folder B.", got)
	})

	t.Run("rejects symbols in any kind", func(t *testing.T) {
		for _, input := range []string{"salary!", "100%", "a;b", "x<y"} {
			_, err := CleanInput(input, TextNote)
			assert.ErrorIs(t, err, ErrInvalidInput, input)
		}
	})

	t.Run("accented letters are fine", func(t *testing.T) {
		got, err := CleanInput("Alquiler de enero", TextTitle)
		require.NoError(t, err)
		assert.Equal(t, "Alquiler de enero", got)
	})
}

func TestCanonicalName(t *testing.T) {
	t.Run("lowercases then capitalizes first rune", func(t *testing.T) {
		got, err := CanonicalName("MONTHLY SALARY")
		require.NoError(t, err)
		assert.Equal(t, "Monthly salary", got)
	})

	t.Run("case variants map to one stored form", func(t *testing.T) {
		a, err := CanonicalName("Rent")
		require.NoError(t, err)
		b, err := CanonicalName("rENT")
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("empty after cleaning is invalid", func(t *testing.T) {
		_, err := CanonicalName("   ")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestReservedCategoryName(t *testing.T) {
	reserved := []string{"ajuste", "Ajustar", "AJUSTE SALDO", "ajustar saldo", "Ajuste De Saldo"}
	for _, name := range reserved {
		assert.True(t, ReservedCategoryName(name), name)
	}
	assert.False(t, ReservedCategoryName("ajustes varios"))
	assert.False(t, ReservedCategoryName("comida"))
}
