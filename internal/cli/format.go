package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"lifetrack/pkg/calendar"
)

var (
	doneColor    = color.New(color.FgGreen)
	overdueColor = color.New(color.FgRed)
	mutedColor   = color.New(color.FgHiBlack)
	headerColor  = color.New(color.Bold)
)

func checkbox(done bool) string {
	if done {
		return doneColor.Sprint("[x]")
	}
	return "[ ]"
}

// formatMoney renders d in currency using its symbol and fraction digits.
// Unknown currency codes fall back to two decimals with the code as suffix.
func formatMoney(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(strings.ToUpper(currency))
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// signedMoney colours negative amounts red and positive ones green.
func signedMoney(d decimal.Decimal, currency string) string {
	s := formatMoney(d, currency)
	switch {
	case d.IsNegative():
		return overdueColor.Sprint(s)
	case d.IsPositive():
		return doneColor.Sprint(s)
	}
	return s
}

func percentBar(p int) string {
	const width = 20
	filled := max(0, min(width, p*width/100))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "] " + strconv.Itoa(p) + "%"
}

func header(w io.Writer, format string, args ...any) {
	headerColor.Fprintf(w, format+"\n", args...)
}

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, usagef("invalid row index %q", s)
	}
	return i, nil
}

// resolveDate accepts yyyy-MM-dd or "today".
func (a *app) resolveDate(s string) string {
	if s == "today" {
		return calendar.FromTime(a.now()).String()
	}
	return s
}

func (a *app) now() time.Time {
	if a.opts.Clock != nil {
		return a.opts.Clock.Now()
	}
	return time.Now()
}

// resetCmd guards a destructive reset behind --yes.
func resetCmd(what string, reset func(cmd *cobra.Command) error) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the " + what + " to its defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return usagef("reset discards all %s data; pass --yes to confirm", what)
			}
			return reset(cmd)
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
