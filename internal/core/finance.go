package core

import (
	"context"
	"slices"

	"github.com/shopspring/decimal"

	"lifetrack/pkg/calendar"
	"lifetrack/pkg/domain"
)

// FinanceStore owns the monthly budget: planned and actual income and
// expenses, debts, and the category lists offered for each.
type FinanceStore struct {
	*recordStore[domain.FinanceRecord]
}

// FinanceStats sums the current month. Non-numeric amounts count as zero.
type FinanceStats struct {
	IncomePlan         decimal.Decimal `json:"incomePlan"`
	IncomeActual       decimal.Decimal `json:"incomeActual"`
	ExpensesPlan       decimal.Decimal `json:"expensesPlan"`
	ExpensesActual     decimal.Decimal `json:"expensesActual"`
	BalancePlan        decimal.Decimal `json:"balancePlan"`
	BalanceActual      decimal.Decimal `json:"balanceActual"`
	TotalBalancePlan   decimal.Decimal `json:"totalBalancePlan"`
	TotalBalanceActual decimal.Decimal `json:"totalBalanceActual"`
	Debts              decimal.Decimal `json:"debts"`
}

// CategoryTotal is the summed actual amount of one source.
type CategoryTotal struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

var financeCodec = recordCodec[domain.FinanceRecord]{
	fresh:     domain.DefaultFinanceRecord,
	normalize: (*domain.FinanceRecord).Normalize,
	clone:     domain.FinanceRecord.Clone,
}

// NewFinanceStore loads the finance record from slots.
func NewFinanceStore(ctx context.Context, slots domain.SlotStore, opts ...Option) (*FinanceStore, error) {
	rs, err := openRecordStore(ctx, domain.SlotFinance, slots, financeCodec, opts)
	if err != nil {
		return nil, err
	}
	return &FinanceStore{recordStore: rs}, nil
}

// Record returns a copy of the current record.
func (s *FinanceStore) Record() domain.FinanceRecord { return s.snapshot() }

// CurrentMonth returns the month being edited.
func (s *FinanceStore) CurrentMonth() string {
	var m string
	s.view(func(r *domain.FinanceRecord) { m = r.CurrentMonth })
	return m
}

// SetMonth switches to month (yyyy-MM). Invalid months are ignored.
func (s *FinanceStore) SetMonth(ctx context.Context, month string) error {
	return s.mutate(ctx, "finance.set_month", func(r *domain.FinanceRecord) bool {
		m, err := calendar.ParseMonth(month)
		if err != nil {
			return false
		}
		r.CurrentMonth = m.String()
		return true
	})
}

// NextMonth advances by one month.
func (s *FinanceStore) NextMonth(ctx context.Context) error {
	return s.mutate(ctx, "finance.next_month", func(r *domain.FinanceRecord) bool {
		r.CurrentMonth = shiftMonth(r.CurrentMonth, 1, s.opts.clock).String()
		return true
	})
}

// PrevMonth moves back by one month.
func (s *FinanceStore) PrevMonth(ctx context.Context) error {
	return s.mutate(ctx, "finance.prev_month", func(r *domain.FinanceRecord) bool {
		r.CurrentMonth = shiftMonth(r.CurrentMonth, -1, s.opts.clock).String()
		return true
	})
}

// SetStartingAmount parses the leading number of raw; anything else is 0.
func (s *FinanceStore) SetStartingAmount(ctx context.Context, raw string) error {
	amount, _ := domain.ParseLeadingDecimal(raw).Float64()
	return s.mutate(ctx, "finance.set_starting_amount", func(r *domain.FinanceRecord) bool {
		r.StartingAmount = amount
		return true
	})
}

// UpdateIncome merges patch into income row index of the current month, or
// appends a new row when index equals the row count.
func (s *FinanceStore) UpdateIncome(ctx context.Context, index int, patch domain.PlanRowPatch) error {
	return s.mutate(ctx, "finance.update_income", func(r *domain.FinanceRecord) bool {
		md := currentMonthData(r)
		rows, ok := upsertRowAt(md.Income, index, domain.ZeroPlanRow(), patch.Apply)
		if !ok {
			return false
		}
		md.Income = rows
		r.MonthlyData[r.CurrentMonth] = md
		return true
	})
}

// UpdateExpense is UpdateIncome for expense rows.
func (s *FinanceStore) UpdateExpense(ctx context.Context, index int, patch domain.PlanRowPatch) error {
	return s.mutate(ctx, "finance.update_expense", func(r *domain.FinanceRecord) bool {
		md := currentMonthData(r)
		rows, ok := upsertRowAt(md.Expenses, index, domain.ZeroPlanRow(), patch.Apply)
		if !ok {
			return false
		}
		md.Expenses = rows
		r.MonthlyData[r.CurrentMonth] = md
		return true
	})
}

// UpdateDebt is UpdateIncome for debt rows.
func (s *FinanceStore) UpdateDebt(ctx context.Context, index int, patch domain.DebtRowPatch) error {
	return s.mutate(ctx, "finance.update_debt", func(r *domain.FinanceRecord) bool {
		md := currentMonthData(r)
		rows, ok := upsertRowAt(md.Debts, index, domain.ZeroDebtRow(), patch.Apply)
		if !ok {
			return false
		}
		md.Debts = rows
		r.MonthlyData[r.CurrentMonth] = md
		return true
	})
}

// AddCategory appends name to the list of kind unless it is empty or
// already listed.
func (s *FinanceStore) AddCategory(ctx context.Context, kind domain.CategoryKind, name string) error {
	return s.mutate(ctx, "finance.add_category", func(r *domain.FinanceRecord) bool {
		list := r.Categories(kind)
		if name == "" || list == nil || slices.Contains(list, name) {
			return false
		}
		r.SetCategories(kind, append(list, name))
		return true
	})
}

// DeleteCategory removes name from the list of kind. Rows that use it are
// left as they are.
func (s *FinanceStore) DeleteCategory(ctx context.Context, kind domain.CategoryKind, name string) error {
	return s.mutate(ctx, "finance.delete_category", func(r *domain.FinanceRecord) bool {
		list := r.Categories(kind)
		kept := slices.DeleteFunc(list, func(c string) bool { return c == name })
		if len(kept) == len(list) {
			return false
		}
		r.SetCategories(kind, kept)
		return true
	})
}

// ResetAll restores the default record and clears the slot.
func (s *FinanceStore) ResetAll(ctx context.Context) error {
	return s.reset(ctx, "finance.reset_all")
}

// Categories returns a copy of the list of kind.
func (s *FinanceStore) Categories(kind domain.CategoryKind) []string {
	var out []string
	s.view(func(r *domain.FinanceRecord) { out = slices.Clone(r.Categories(kind)) })
	return out
}

// MonthData returns the rows of the current month, empty when nothing was
// entered yet. The month is not created.
func (s *FinanceStore) MonthData() domain.MonthData {
	var md domain.MonthData
	s.view(func(r *domain.FinanceRecord) {
		if stored, ok := r.MonthlyData[r.CurrentMonth]; ok {
			md = stored.Clone()
			return
		}
		md = domain.EmptyMonthData()
	})
	return md
}

// Stats sums the current month's rows.
func (s *FinanceStore) Stats() FinanceStats {
	var (
		st       FinanceStats
		starting decimal.Decimal
	)
	s.view(func(r *domain.FinanceRecord) {
		md := r.MonthlyData[r.CurrentMonth]
		starting = decimal.NewFromFloat(r.StartingAmount)
		for _, row := range md.Income {
			st.IncomePlan = st.IncomePlan.Add(row.Plan.Decimal())
			st.IncomeActual = st.IncomeActual.Add(row.Actual.Decimal())
		}
		for _, row := range md.Expenses {
			st.ExpensesPlan = st.ExpensesPlan.Add(row.Plan.Decimal())
			st.ExpensesActual = st.ExpensesActual.Add(row.Actual.Decimal())
		}
		var owed, paid decimal.Decimal
		for _, row := range md.Debts {
			owed = owed.Add(row.Debt.Decimal())
			paid = paid.Add(row.PaidOut.Decimal())
		}
		st.Debts = owed.Sub(paid)
	})
	st.BalancePlan = st.IncomePlan.Sub(st.ExpensesPlan)
	st.BalanceActual = st.IncomeActual.Sub(st.ExpensesActual)
	st.TotalBalancePlan = starting.Add(st.BalancePlan)
	st.TotalBalanceActual = starting.Add(st.BalanceActual)
	return st
}

// ExpensesByCategory sums actual expenses per source in first-seen order,
// skipping rows without a source or with a non-positive actual amount.
func (s *FinanceStore) ExpensesByCategory() []CategoryTotal {
	var out []CategoryTotal
	s.view(func(r *domain.FinanceRecord) { out = groupBySource(r.MonthlyData[r.CurrentMonth].Expenses) })
	return out
}

// IncomeByCategory is ExpensesByCategory for income rows.
func (s *FinanceStore) IncomeByCategory() []CategoryTotal {
	var out []CategoryTotal
	s.view(func(r *domain.FinanceRecord) { out = groupBySource(r.MonthlyData[r.CurrentMonth].Income) })
	return out
}

func currentMonthData(r *domain.FinanceRecord) domain.MonthData {
	if md, ok := r.MonthlyData[r.CurrentMonth]; ok {
		return md
	}
	return domain.EmptyMonthData()
}

// upsertRowAt merges into rows[index], or appends apply(zero) when index is
// the row count. Any other index is rejected.
func upsertRowAt[T any](rows []T, index int, zero T, apply func(T) T) ([]T, bool) {
	switch {
	case index < 0 || index > len(rows):
		return rows, false
	case index == len(rows):
		return append(rows, apply(zero)), true
	default:
		rows[index] = apply(rows[index])
		return rows, true
	}
}

func groupBySource(rows []domain.PlanRow) []CategoryTotal {
	out := []CategoryTotal{}
	at := map[string]int{}
	for _, row := range rows {
		actual := row.Actual.Decimal()
		if row.Source == "" || !actual.IsPositive() {
			continue
		}
		i, seen := at[row.Source]
		if !seen {
			i = len(out)
			at[row.Source] = i
			out = append(out, CategoryTotal{Name: row.Source})
		}
		out[i].Value = out[i].Value.Add(actual)
	}
	return out
}
