package domain

import (
	"time"

	"lifetrack/pkg/calendar"
)

// CategoryKind selects one of the three finance category lists.
type CategoryKind string

// Finance category kinds.
const (
	KindIncome  CategoryKind = "income"
	KindExpense CategoryKind = "expense"
	KindDebt    CategoryKind = "debt"
)

// FinanceRecord is the root record of the finance tracker.
type FinanceRecord struct {
	CurrentMonth      string               `json:"currentMonth"`
	StartingAmount    float64              `json:"startingAmount"`
	IncomeCategories  []string             `json:"incomeCategories"`
	ExpenseCategories []string             `json:"expenseCategories"`
	DebtCategories    []string             `json:"debtCategories"`
	MonthlyData       map[string]MonthData `json:"monthlyData"`
}

// MonthData holds the rows entered for one month.
type MonthData struct {
	Income   []PlanRow `json:"income"`
	Expenses []PlanRow `json:"expenses"`
	Debts    []DebtRow `json:"debts"`
}

// PlanRow is an income or expense line: a source with planned and actual amounts.
type PlanRow struct {
	Source string `json:"source"`
	Plan   Amount `json:"plan"`
	Actual Amount `json:"actual"`
}

// DebtRow is a debt line: what is owed and what was paid this month.
type DebtRow struct {
	Source  string `json:"source"`
	Debt    Amount `json:"debt"`
	PaidOut Amount `json:"paidOut"`
}

// PlanRowPatch lists PlanRow fields to overwrite; nil fields are kept.
type PlanRowPatch struct {
	Source *string
	Plan   *Amount
	Actual *Amount
}

// Apply returns r with the set fields of p merged in.
func (p PlanRowPatch) Apply(r PlanRow) PlanRow {
	if p.Source != nil {
		r.Source = *p.Source
	}
	if p.Plan != nil {
		r.Plan = *p.Plan
	}
	if p.Actual != nil {
		r.Actual = *p.Actual
	}
	return r
}

// DebtRowPatch lists DebtRow fields to overwrite; nil fields are kept.
type DebtRowPatch struct {
	Source  *string
	Debt    *Amount
	PaidOut *Amount
}

// Apply returns r with the set fields of p merged in.
func (p DebtRowPatch) Apply(r DebtRow) DebtRow {
	if p.Source != nil {
		r.Source = *p.Source
	}
	if p.Debt != nil {
		r.Debt = *p.Debt
	}
	if p.PaidOut != nil {
		r.PaidOut = *p.PaidOut
	}
	return r
}

// ZeroPlanRow is the template a new income or expense row starts from.
func ZeroPlanRow() PlanRow {
	return PlanRow{Plan: AmountFromFloat(0), Actual: AmountFromFloat(0)}
}

// ZeroDebtRow is the template a new debt row starts from.
func ZeroDebtRow() DebtRow {
	return DebtRow{Debt: AmountFromFloat(0), PaidOut: AmountFromFloat(0)}
}

// EmptyMonthData returns a month with no rows.
func EmptyMonthData() MonthData {
	return MonthData{Income: []PlanRow{}, Expenses: []PlanRow{}, Debts: []DebtRow{}}
}

// DefaultIncomeCategories returns the seeded income categories.
func DefaultIncomeCategories() []string {
	return []string{
		"Salary", "Bonus", "Freelance", "Business / Dividends", "Investments & Deposits",
		"Real Estate", "Transfer from family / friends", "Debt repayment", "Selling items",
		"Scholarship / Grant", "Social benefits", "Other income",
	}
}

// DefaultExpenseCategories returns the seeded expense categories.
func DefaultExpenseCategories() []string {
	return []string{
		"Rent", "Mobile phone", "Internet", "Insurance", "Subscriptions", "Utilities",
		"Family", "Pets", "Personal", "Self-care", "Charity", "Transportation",
		"Taxi", "Food", "Cafes & Restaurants", "Car", "Gasoline", "Travel", "Hobbies",
	}
}

// DefaultDebtCategories returns the seeded debt categories.
func DefaultDebtCategories() []string {
	return []string{"Loans", "Debts", "Credit Cards", "Mortgage", "Liabilities"}
}

// DefaultFinanceRecord builds the record used when nothing is persisted.
func DefaultFinanceRecord(now time.Time) FinanceRecord {
	return FinanceRecord{
		CurrentMonth:      calendar.MonthOf(now).String(),
		IncomeCategories:  DefaultIncomeCategories(),
		ExpenseCategories: DefaultExpenseCategories(),
		DebtCategories:    DefaultDebtCategories(),
		MonthlyData:       map[string]MonthData{},
	}
}

// Categories returns the list for kind.
func (r FinanceRecord) Categories(kind CategoryKind) []string {
	switch kind {
	case KindIncome:
		return r.IncomeCategories
	case KindExpense:
		return r.ExpenseCategories
	case KindDebt:
		return r.DebtCategories
	}
	return nil
}

// SetCategories replaces the list for kind. Unknown kinds are ignored.
func (r *FinanceRecord) SetCategories(kind CategoryKind, list []string) {
	switch kind {
	case KindIncome:
		r.IncomeCategories = list
	case KindExpense:
		r.ExpenseCategories = list
	case KindDebt:
		r.DebtCategories = list
	}
}

// Normalize backfills collections a stored payload left null.
func (r *FinanceRecord) Normalize() {
	if r.IncomeCategories == nil {
		r.IncomeCategories = DefaultIncomeCategories()
	}
	if r.ExpenseCategories == nil {
		r.ExpenseCategories = DefaultExpenseCategories()
	}
	if r.DebtCategories == nil {
		r.DebtCategories = DefaultDebtCategories()
	}
	if r.MonthlyData == nil {
		r.MonthlyData = map[string]MonthData{}
	}
	for key, md := range r.MonthlyData {
		r.MonthlyData[key] = md.normalized()
	}
}

func (m MonthData) normalized() MonthData {
	if m.Income == nil {
		m.Income = []PlanRow{}
	}
	if m.Expenses == nil {
		m.Expenses = []PlanRow{}
	}
	if m.Debts == nil {
		m.Debts = []DebtRow{}
	}
	return m
}

// Clone returns a deep copy.
func (r FinanceRecord) Clone() FinanceRecord {
	out := r
	out.IncomeCategories = cloneSlice(r.IncomeCategories)
	out.ExpenseCategories = cloneSlice(r.ExpenseCategories)
	out.DebtCategories = cloneSlice(r.DebtCategories)
	out.MonthlyData = make(map[string]MonthData, len(r.MonthlyData))
	for key, md := range r.MonthlyData {
		out.MonthlyData[key] = md.Clone()
	}
	return out
}

// Clone returns a deep copy.
func (m MonthData) Clone() MonthData {
	return MonthData{
		Income:   cloneSlice(m.Income),
		Expenses: cloneSlice(m.Expenses),
		Debts:    cloneSlice(m.Debts),
	}
}
