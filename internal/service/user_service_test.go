package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureUserProvisionsOnFirstSight(t *testing.T) {
	e := newEnv()
	users := NewUserService(e.store)

	first, err := users.EnsureUser(context.Background(), "auth0|abc", "a@example.com", "Ana")
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", first.Email)

	second, err := users.EnsureUser(context.Background(), "auth0|abc", "a@example.com", "Ana")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestEnsureUserDistinctSubjects(t *testing.T) {
	e := newEnv()
	users := NewUserService(e.store)

	a, err := users.EnsureUser(context.Background(), "auth0|a", "a@example.com", "Ana")
	require.NoError(t, err)
	b, err := users.EnsureUser(context.Background(), "auth0|b", "b@example.com", "Ben")
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}
