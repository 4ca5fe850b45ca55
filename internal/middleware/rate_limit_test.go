package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitedContext(e *echo.Echo, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 5)
	defer rl.Stop()

	userID := uuid.New()
	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(userID), "request %d should pass", i)
	}
	assert.False(t, rl.Allow(userID))
}

func TestRateLimiterIsPerUser(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	first := uuid.New()
	second := uuid.New()

	assert.True(t, rl.Allow(first))
	assert.False(t, rl.Allow(first))
	assert.True(t, rl.Allow(second))
}

func TestRateLimitMiddlewareRejectsAfterBurst(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	e := echo.New()
	handler := RateLimitMiddleware(rl)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	userID := uuid.New()

	c, rec := newRateLimitedContext(e, userID)
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, rec = newRateLimitedContext(e, userID)
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
}

func TestRateLimitMiddlewareSkipsAnonymous(t *testing.T) {
	rl := NewRateLimiterWithConfig(60, 1)
	defer rl.Stop()

	e := echo.New()
	handler := RateLimitMiddleware(rl)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		c, rec := newRateLimitedContext(e, uuid.Nil)
		require.NoError(t, handler(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestGetUserIDDefaultsToNil(t *testing.T) {
	e := echo.New()
	c, _ := newRateLimitedContext(e, uuid.Nil)
	assert.Equal(t, uuid.Nil, GetUserID(c))
}
