package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/monedero/monedero-backend/internal/domain"
	"github.com/monedero/monedero-backend/internal/util"
)

// DashboardService rebuilds the per-user statistics snapshot. It only
// ever reads movement data and writes the dashboard row, never any
// balance.
type DashboardService struct {
	store           domain.Store
	converter       domain.CurrencyConverter
	clock           domain.Clock
	defaultCurrency string
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(store domain.Store, converter domain.CurrencyConverter, clock domain.Clock, defaultCurrency string) *DashboardService {
	return &DashboardService{
		store:           store,
		converter:       converter,
		clock:           clock,
		defaultCurrency: defaultCurrency,
	}
}

// Get returns the user's dashboard, building it on first access.
func (s *DashboardService) Get(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	dashboard, err := s.store.Repos().Dashboards.GetByUser(ctx, userID)
	if errors.Is(err, domain.ErrDashboardNotFound) {
		return s.recalculate(ctx, userID, s.defaultCurrency)
	}
	if err != nil {
		return nil, err
	}
	return dashboard, nil
}

// Recalculate rebuilds every derived field in the user's display
// currency. It is idempotent and safe to call after any mutation.
func (s *DashboardService) Recalculate(ctx context.Context, userID uuid.UUID) (*domain.Dashboard, error) {
	currency := s.defaultCurrency
	existing, err := s.store.Repos().Dashboards.GetByUser(ctx, userID)
	if err == nil {
		currency = existing.Currency
	} else if !errors.Is(err, domain.ErrDashboardNotFound) {
		return nil, err
	}
	return s.recalculate(ctx, userID, currency)
}

// SetCurrency switches the display currency and rebuilds the snapshot,
// re-converting every total.
func (s *DashboardService) SetCurrency(ctx context.Context, userID uuid.UUID, currency string) (*domain.Dashboard, error) {
	// A self-conversion probes that the code is known to the rate table.
	if _, err := s.converter.Convert(decimal.NewFromInt(1), currency, currency); err != nil {
		return nil, domain.ErrUnknownCurrency
	}
	return s.recalculate(ctx, userID, currency)
}

// statLine is one movement flattened to a group name and an amount in
// its original currency.
type statLine struct {
	name     string
	amount   decimal.Decimal
	currency string
}

func (s *DashboardService) recalculate(ctx context.Context, userID uuid.UUID, currency string) (*domain.Dashboard, error) {
	repos := s.store.Repos()
	now := s.clock.Today()
	curStart, curEnd := util.MonthRange(now)
	lastStart, lastEnd := util.PreviousMonthRange(now)

	accounts, err := repos.Accounts.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	budgets, err := repos.Budgets.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	saves, err := repos.Saves.ListByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	categories, err := repos.Categories.ListByUser(ctx, userID, true)
	if err != nil {
		return nil, err
	}
	categoryByID := make(map[uuid.UUID]*domain.Category, len(categories))
	for _, c := range categories {
		categoryByID[c.ID] = c
	}

	dashboard := &domain.Dashboard{
		UserID:   userID,
		Currency: currency,
	}

	dashboard.AccountsTotal = decimal.Zero
	for _, a := range accounts {
		converted, err := s.converter.Convert(a.Balance, a.Currency, currency)
		if err != nil {
			return nil, err
		}
		dashboard.AccountsTotal = dashboard.AccountsTotal.Add(converted)
	}

	dashboard.BudgetsTotal = decimal.Zero
	for _, b := range budgets {
		converted, err := s.converter.Convert(b.Balance(), b.Currency, currency)
		if err != nil {
			return nil, err
		}
		dashboard.BudgetsTotal = dashboard.BudgetsTotal.Add(converted)
	}

	// The goals total is the user's own contribution, not the shared
	// goal balances.
	dashboard.GoalsTotal = decimal.Zero
	for _, sv := range saves {
		converted, err := s.converter.Convert(sv.Amount, sv.Currency, currency)
		if err != nil {
			return nil, err
		}
		dashboard.GoalsTotal = dashboard.GoalsTotal.Add(converted)
	}

	dashboard.NetTotal = dashboard.AccountsTotal.Add(dashboard.BudgetsTotal).Add(dashboard.GoalsTotal)

	incomeCur, incomeLast, err := s.incomeLines(ctx, userID, categoryByID, curStart, curEnd, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	dashboard.Income, err = s.buildStats(incomeCur, incomeLast, currency, false)
	if err != nil {
		return nil, err
	}

	expenseCur, expenseLast, err := s.expenseLines(ctx, userID, categoryByID, curStart, curEnd, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	dashboard.Expense, err = s.buildStats(expenseCur, expenseLast, currency, false)
	if err != nil {
		return nil, err
	}

	saveCur, err := s.saveLines(ctx, userID, curStart, curEnd)
	if err != nil {
		return nil, err
	}
	saveLast, err := s.saveLines(ctx, userID, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	dashboard.Save, err = s.buildStats(saveCur, saveLast, currency, true)
	if err != nil {
		return nil, err
	}

	transferCur, err := s.transferLines(ctx, userID, curStart, curEnd)
	if err != nil {
		return nil, err
	}
	transferLast, err := s.transferLines(ctx, userID, lastStart, lastEnd)
	if err != nil {
		return nil, err
	}
	dashboard.Transfer, err = s.buildStats(transferCur, transferLast, currency, true)
	if err != nil {
		return nil, err
	}

	sentCur, err := s.externalLines(ctx, userID, curStart, curEnd, false)
	if err != nil {
		return nil, err
	}
	sentLast, err := s.externalLines(ctx, userID, lastStart, lastEnd, false)
	if err != nil {
		return nil, err
	}
	dashboard.ExternalSent, err = s.buildStats(sentCur, sentLast, currency, true)
	if err != nil {
		return nil, err
	}

	receivedCur, err := s.externalLines(ctx, userID, curStart, curEnd, true)
	if err != nil {
		return nil, err
	}
	receivedLast, err := s.externalLines(ctx, userID, lastStart, lastEnd, true)
	if err != nil {
		return nil, err
	}
	dashboard.ExternalReceived, err = s.buildStats(receivedCur, receivedLast, currency, true)
	if err != nil {
		return nil, err
	}

	dashboard.RecalculatedAt = time.Now().UTC()

	saved, err := repos.Dashboards.Upsert(ctx, dashboard)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("currency", currency).
		Msg("Dashboard recalculated")

	return saved, nil
}

// incomeLines flattens the month's incomes into category-named lines.
// Adjustment-category records are bookkeeping noise and stay out of the
// statistics.
func (s *DashboardService) incomeLines(ctx context.Context, userID uuid.UUID, categories map[uuid.UUID]*domain.Category, curStart, curEnd, lastStart, lastEnd time.Time) (cur, last []statLine, err error) {
	repos := s.store.Repos()
	for _, window := range []struct {
		from, to time.Time
		out      *[]statLine
	}{
		{curStart, curEnd, &cur},
		{lastStart, lastEnd, &last},
	} {
		incomes, err := repos.Incomes.ListByUserAndDateRange(ctx, userID, window.from, window.to)
		if err != nil {
			return nil, nil, err
		}
		for _, in := range incomes {
			category, ok := categories[in.CategoryID]
			if !ok || category.IsAdjustment() {
				continue
			}
			*window.out = append(*window.out, statLine{name: category.Name, amount: in.Amount, currency: in.Currency})
		}
	}
	return cur, last, nil
}

func (s *DashboardService) expenseLines(ctx context.Context, userID uuid.UUID, categories map[uuid.UUID]*domain.Category, curStart, curEnd, lastStart, lastEnd time.Time) (cur, last []statLine, err error) {
	repos := s.store.Repos()
	for _, window := range []struct {
		from, to time.Time
		out      *[]statLine
	}{
		{curStart, curEnd, &cur},
		{lastStart, lastEnd, &last},
	} {
		expenses, err := repos.Expenses.ListByUserAndDateRange(ctx, userID, window.from, window.to)
		if err != nil {
			return nil, nil, err
		}
		for _, ex := range expenses {
			category, ok := categories[ex.CategoryID]
			if !ok || category.IsAdjustment() {
				continue
			}
			*window.out = append(*window.out, statLine{name: category.Name, amount: ex.Amount, currency: ex.Currency})
		}
	}
	return cur, last, nil
}

func (s *DashboardService) saveLines(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]statLine, error) {
	saves, err := s.store.Repos().Saves.ListByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	lines := make([]statLine, 0, len(saves))
	for _, sv := range saves {
		lines = append(lines, statLine{name: sv.Name, amount: sv.Amount, currency: sv.Currency})
	}
	return lines, nil
}

func (s *DashboardService) transferLines(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]statLine, error) {
	transfers, err := s.store.Repos().Transfers.ListByUserAndDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	lines := make([]statLine, 0, len(transfers))
	for _, tr := range transfers {
		lines = append(lines, statLine{name: tr.Name, amount: tr.Amount, currency: tr.Currency})
	}
	return lines, nil
}

func (s *DashboardService) externalLines(ctx context.Context, userID uuid.UUID, from, to time.Time, received bool) ([]statLine, error) {
	repos := s.store.Repos()
	var (
		transfers []*domain.ExternalTransfer
		err       error
	)
	if received {
		transfers, err = repos.ExternalTransfers.ListReceivedByUserAndDateRange(ctx, userID, from, to)
	} else {
		transfers, err = repos.ExternalTransfers.ListSentByUserAndDateRange(ctx, userID, from, to)
	}
	if err != nil {
		return nil, err
	}
	lines := make([]statLine, 0, len(transfers))
	for _, tr := range transfers {
		lines = append(lines, statLine{name: tr.Name, amount: tr.Amount, currency: tr.Currency})
	}
	return lines, nil
}

// buildStats aggregates both month windows into one KindStats. With
// shareTop set the top "variation" is the top entry's share of the
// month total instead of a month-over-month comparison.
func (s *DashboardService) buildStats(current, last []statLine, currency string, shareTop bool) (domain.KindStats, error) {
	stats := domain.KindStats{
		MonthTotal:     decimal.Zero,
		LastMonthTotal: decimal.Zero,
	}

	currentGroups, currentTotal, err := s.groupLines(current, currency)
	if err != nil {
		return stats, err
	}
	lastGroups, lastTotal, err := s.groupLines(last, currency)
	if err != nil {
		return stats, err
	}

	stats.MonthTotal = currentTotal
	stats.LastMonthTotal = lastTotal
	stats.Groups = currentGroups
	stats.Variation = Variation(currentTotal, lastTotal)

	if len(currentGroups) > 0 {
		stats.Top = currentGroups[0]
		if shareTop {
			stats.TopVariation = share(stats.Top.Total, currentTotal)
		} else {
			lastForTop := decimal.Zero
			for _, g := range lastGroups {
				if g.Name == stats.Top.Name {
					lastForTop = g.Total
					break
				}
			}
			stats.TopVariation = Variation(stats.Top.Total, lastForTop)
		}
	}

	return stats, nil
}

// groupLines converts each line into the display currency, sums by
// name and sorts descending. Ties keep first-encountered order.
func (s *DashboardService) groupLines(lines []statLine, currency string) ([]domain.NamedTotal, decimal.Decimal, error) {
	totals := make(map[string]decimal.Decimal)
	order := make([]string, 0)
	sum := decimal.Zero

	for _, line := range lines {
		converted, err := s.converter.Convert(line.amount, line.currency, currency)
		if err != nil {
			return nil, decimal.Zero, err
		}
		if _, ok := totals[line.name]; !ok {
			order = append(order, line.name)
		}
		totals[line.name] = totals[line.name].Add(converted)
		sum = sum.Add(converted)
	}

	groups := make([]domain.NamedTotal, 0, len(order))
	for _, name := range order {
		groups = append(groups, domain.NamedTotal{Name: name, Total: totals[name]})
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Total.GreaterThan(groups[j].Total)
	})

	return groups, sum, nil
}

// Variation compares a current total against the previous month's.
// The formula is deliberately asymmetric: growth reports the plain
// current/last ratio as a percentage while decline reports the ratio
// shifted down by 100.
func Variation(current, last decimal.Decimal) float64 {
	if current.Equal(last) {
		return 0
	}
	if last.IsZero() {
		return 100
	}
	ratio, _ := current.Div(last).Mul(decimal.NewFromInt(100)).Float64()
	if current.GreaterThan(last) {
		return ratio
	}
	return ratio - 100
}

// share returns part's percentage of total, 0 when total is zero.
func share(part, total decimal.Decimal) float64 {
	if total.IsZero() {
		return 0
	}
	pct, _ := part.Div(total).Mul(decimal.NewFromInt(100)).Float64()
	return pct
}
