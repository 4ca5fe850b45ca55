package handler

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/monedero/monedero-backend/internal/middleware"
	"github.com/monedero/monedero-backend/internal/service"
	"github.com/monedero/monedero-backend/internal/testutil"
)

// fixture wires the service stack onto in-memory repositories.
type fixture struct {
	store      *testutil.MockStore
	notifier   *testutil.RecordingNotifier
	clock      testutil.FixedClock
	converter  *testutil.StaticConverter
	ledger     *service.Ledger
	dashboards *service.DashboardService
	userID     uuid.UUID
}

func newFixture() *fixture {
	store := testutil.NewMockStore()
	converter := testutil.NewStaticConverter("USD", "EUR")
	clock := testutil.FixedClock{Date: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)}

	return &fixture{
		store:      store,
		notifier:   &testutil.RecordingNotifier{},
		clock:      clock,
		converter:  converter,
		ledger:     service.NewLedger(),
		dashboards: service.NewDashboardService(store, converter, clock, "USD"),
		userID:     uuid.New(),
	}
}

func (f *fixture) accountService() *service.AccountService {
	return service.NewAccountService(f.store, f.notifier, f.converter, f.dashboards)
}

func (f *fixture) incomeService() *service.IncomeService {
	return service.NewIncomeService(f.store, f.ledger, f.notifier, f.clock, f.dashboards)
}

// newTestContext builds an Echo context carrying the resolved user, the
// way the auth middleware leaves it.
func newTestContext(e *echo.Echo, method, target, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
		req = req.WithContext(ctx)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withIDParam(c echo.Context, id uuid.UUID) {
	c.SetParamNames("id")
	c.SetParamValues(id.String())
}
