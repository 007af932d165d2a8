package cli

import (
	"context"
	"io"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"lifetrack/internal/core"
	"lifetrack/pkg/domain"
)

func financeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "finance",
		Short: "Monthly budget: income, expenses and debts against a plan",
	}
	store := func(cmd *cobra.Command) (*core.FinanceStore, error) { return a.financeStore(cmd.Context()) }
	cmd.AddCommand(
		&cobra.Command{
			Use:   "month <yyyy-MM>",
			Short: "Switch to a month",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.SetMonth(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "next",
			Short: "Move to the following month",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.NextMonth(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "prev",
			Short: "Move to the previous month",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.PrevMonth(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "starting <amount>",
			Short: "Set the balance carried into every month",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.SetStartingAmount(cmd.Context(), args[0])
			},
		},
		planRowCmd(a, "income", func(s *core.FinanceStore) planUpdater { return s.UpdateIncome }),
		planRowCmd(a, "expense", func(s *core.FinanceStore) planUpdater { return s.UpdateExpense }),
		debtRowCmd(a),
		&cobra.Command{
			Use:   "add-category <income|expense|debt> <name>",
			Short: "Offer a new source name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				kind, err := categoryKind(args[0])
				if err != nil {
					return err
				}
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.AddCategory(cmd.Context(), kind, args[1])
			},
		},
		&cobra.Command{
			Use:   "delete-category <income|expense|debt> <name>",
			Short: "Stop offering a source name",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				kind, err := categoryKind(args[0])
				if err != nil {
					return err
				}
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.DeleteCategory(cmd.Context(), kind, args[1])
			},
		},
		&cobra.Command{
			Use:   "categories <income|expense|debt>",
			Short: "List the source names of a kind",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				kind, err := categoryKind(args[0])
				if err != nil {
					return err
				}
				s, err := store(cmd)
				if err != nil {
					return err
				}
				for _, c := range s.Categories(kind) {
					printf(cmd.OutOrStdout(), "%s\n", c)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the current month's rows",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				a.showMonth(cmd.OutOrStdout(), s)
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Print the current month's totals",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				a.showStats(cmd.OutOrStdout(), s.CurrentMonth(), s.Stats())
				return nil
			},
		},
		&cobra.Command{
			Use:   "by-category",
			Short: "Print actual income and expenses per source",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				header(w, "Income")
				for _, c := range s.IncomeByCategory() {
					printf(w, "  %-32s %s\n", c.Name, a.money(c.Value))
				}
				header(w, "Expenses")
				for _, c := range s.ExpensesByCategory() {
					printf(w, "  %-32s %s\n", c.Name, a.money(c.Value))
				}
				return nil
			},
		},
		resetCmd("finance tracker", func(cmd *cobra.Command) error {
			s, err := store(cmd)
			if err != nil {
				return err
			}
			return s.ResetAll(cmd.Context())
		}),
	)
	return cmd
}

type planUpdater = func(ctx context.Context, index int, patch domain.PlanRowPatch) error

func planRowCmd(a *app, kind string, update func(*core.FinanceStore) planUpdater) *cobra.Command {
	var source, plan, actual string
	cmd := &cobra.Command{
		Use:   kind + " <row>",
		Short: "Edit " + kind + " row <row>, or append one when <row> is the row count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var patch domain.PlanRowPatch
			if f.Changed("source") {
				patch.Source = &source
			}
			if f.Changed("plan") {
				v := domain.AmountFromString(plan)
				patch.Plan = &v
			}
			if f.Changed("actual") {
				v := domain.AmountFromString(actual)
				patch.Actual = &v
			}
			s, err := a.financeStore(cmd.Context())
			if err != nil {
				return err
			}
			return update(s)(cmd.Context(), index, patch)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "category name")
	cmd.Flags().StringVar(&plan, "plan", "", "planned amount")
	cmd.Flags().StringVar(&actual, "actual", "", "actual amount")
	return cmd
}

func debtRowCmd(a *app) *cobra.Command {
	var source, debt, paid string
	cmd := &cobra.Command{
		Use:   "debt <row>",
		Short: "Edit debt row <row>, or append one when <row> is the row count",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var patch domain.DebtRowPatch
			if f.Changed("source") {
				patch.Source = &source
			}
			if f.Changed("debt") {
				v := domain.AmountFromString(debt)
				patch.Debt = &v
			}
			if f.Changed("paid") {
				v := domain.AmountFromString(paid)
				patch.PaidOut = &v
			}
			s, err := a.financeStore(cmd.Context())
			if err != nil {
				return err
			}
			return s.UpdateDebt(cmd.Context(), index, patch)
		},
	}
	cmd.Flags().StringVar(&source, "source", "", "category name")
	cmd.Flags().StringVar(&debt, "debt", "", "amount owed")
	cmd.Flags().StringVar(&paid, "paid", "", "amount paid out")
	return cmd
}

func categoryKind(s string) (domain.CategoryKind, error) {
	switch k := domain.CategoryKind(s); k {
	case domain.KindIncome, domain.KindExpense, domain.KindDebt:
		return k, nil
	}
	return "", usagef("unknown category kind %q", s)
}

func (a *app) money(d decimal.Decimal) string { return formatMoney(d, a.cfg.Currency) }

func (a *app) showMonth(w io.Writer, s *core.FinanceStore) {
	md := s.MonthData()
	header(w, "%s", s.CurrentMonth())
	header(w, "Income")
	for i, r := range md.Income {
		printf(w, "  %2d %-32s %14s %14s\n", i, r.Source, a.money(r.Plan.Decimal()), a.money(r.Actual.Decimal()))
	}
	header(w, "Expenses")
	for i, r := range md.Expenses {
		printf(w, "  %2d %-32s %14s %14s\n", i, r.Source, a.money(r.Plan.Decimal()), a.money(r.Actual.Decimal()))
	}
	header(w, "Debts")
	for i, r := range md.Debts {
		printf(w, "  %2d %-32s %14s %14s\n", i, r.Source, a.money(r.Debt.Decimal()), a.money(r.PaidOut.Decimal()))
	}
}

func (a *app) showStats(w io.Writer, month string, st core.FinanceStats) {
	header(w, "%-20s %14s %14s", month, "plan", "actual")
	printf(w, "%-20s %14s %14s\n", "income", a.money(st.IncomePlan), a.money(st.IncomeActual))
	printf(w, "%-20s %14s %14s\n", "expenses", a.money(st.ExpensesPlan), a.money(st.ExpensesActual))
	printf(w, "%-20s %14s %14s\n", "balance", signedMoney(st.BalancePlan, a.cfg.Currency), signedMoney(st.BalanceActual, a.cfg.Currency))
	printf(w, "%-20s %14s %14s\n", "total balance", signedMoney(st.TotalBalancePlan, a.cfg.Currency), signedMoney(st.TotalBalanceActual, a.cfg.Currency))
	printf(w, "%-20s %14s\n", "debts", a.money(st.Debts))
}
