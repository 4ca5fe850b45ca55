package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/middleware"
	"github.com/monedero/monedero-backend/internal/service"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboards *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboards *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards}
}

// SetDashboardCurrencyRequest represents the currency switch request
type SetDashboardCurrencyRequest struct {
	Currency string `json:"currency"`
}

// NamedTotalResponse is one grouped total in the dashboard currency
type NamedTotalResponse struct {
	Name  string `json:"name"`
	Total string `json:"total"`
}

// KindStatsResponse represents the monthly statistics of one movement
// kind
type KindStatsResponse struct {
	MonthTotal     string               `json:"monthTotal"`
	LastMonthTotal string               `json:"lastMonthTotal"`
	Groups         []NamedTotalResponse `json:"groups"`
	Top            NamedTotalResponse   `json:"top"`
	Variation      float64              `json:"variation"`
	TopVariation   float64              `json:"topVariation"`
}

// DashboardResponse represents the dashboard snapshot in API responses
type DashboardResponse struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`

	AccountsTotal string `json:"accountsTotal"`
	BudgetsTotal  string `json:"budgetsTotal"`
	GoalsTotal    string `json:"goalsTotal"`
	NetTotal      string `json:"netTotal"`

	Income           KindStatsResponse `json:"income"`
	Expense          KindStatsResponse `json:"expense"`
	Save             KindStatsResponse `json:"save"`
	Transfer         KindStatsResponse `json:"transfer"`
	ExternalSent     KindStatsResponse `json:"externalSent"`
	ExternalReceived KindStatsResponse `json:"externalReceived"`

	RecalculatedAt string `json:"recalculatedAt"`
}

// GetDashboard handles GET /api/v1/dashboard
func (h *DashboardHandler) GetDashboard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	dashboard, err := h.dashboards.Get(c.Request().Context(), userID)
	if err != nil {
		return RespondServiceError(c, err, "Failed to get dashboard")
	}
	return c.JSON(http.StatusOK, toDashboardResponse(dashboard))
}

// RecalculateDashboard handles POST /api/v1/dashboard/recalculate
func (h *DashboardHandler) RecalculateDashboard(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	dashboard, err := h.dashboards.Recalculate(c.Request().Context(), userID)
	if err != nil {
		return RespondServiceError(c, err, "Failed to recalculate dashboard")
	}
	return c.JSON(http.StatusOK, toDashboardResponse(dashboard))
}

// SetDashboardCurrency handles PUT /api/v1/dashboard/currency
func (h *DashboardHandler) SetDashboardCurrency(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req SetDashboardCurrencyRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}
	if req.Currency == "" {
		return fieldError(c, "currency", "Currency is required")
	}

	dashboard, err := h.dashboards.SetCurrency(c.Request().Context(), userID, req.Currency)
	if err != nil {
		return RespondServiceError(c, err, "Failed to set dashboard currency")
	}
	return c.JSON(http.StatusOK, toDashboardResponse(dashboard))
}

func toDashboardResponse(dashboard *domain.Dashboard) DashboardResponse {
	return DashboardResponse{
		ID:               dashboard.ID.String(),
		Currency:         dashboard.Currency,
		AccountsTotal:    dashboard.AccountsTotal.StringFixed(2),
		BudgetsTotal:     dashboard.BudgetsTotal.StringFixed(2),
		GoalsTotal:       dashboard.GoalsTotal.StringFixed(2),
		NetTotal:         dashboard.NetTotal.StringFixed(2),
		Income:           toKindStatsResponse(dashboard.Income),
		Expense:          toKindStatsResponse(dashboard.Expense),
		Save:             toKindStatsResponse(dashboard.Save),
		Transfer:         toKindStatsResponse(dashboard.Transfer),
		ExternalSent:     toKindStatsResponse(dashboard.ExternalSent),
		ExternalReceived: toKindStatsResponse(dashboard.ExternalReceived),
		RecalculatedAt:   dashboard.RecalculatedAt.Format(time.RFC3339),
	}
}

func toKindStatsResponse(stats domain.KindStats) KindStatsResponse {
	groups := make([]NamedTotalResponse, len(stats.Groups))
	for i, group := range stats.Groups {
		groups[i] = NamedTotalResponse{Name: group.Name, Total: group.Total.StringFixed(2)}
	}
	return KindStatsResponse{
		MonthTotal:     stats.MonthTotal.StringFixed(2),
		LastMonthTotal: stats.LastMonthTotal.StringFixed(2),
		Groups:         groups,
		Top:            NamedTotalResponse{Name: stats.Top.Name, Total: stats.Top.Total.StringFixed(2)},
		Variation:      stats.Variation,
		TopVariation:   stats.TopVariation,
	}
}
