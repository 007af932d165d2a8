package cli

import (
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"lifetrack/internal/core"
	"lifetrack/pkg/domain"
)

func habitsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "habits",
		Short: "Monthly habit tracker with mood and motivation scores",
	}
	store := func(cmd *cobra.Command) (*core.HabitStore, error) { return a.habitStore(cmd.Context()) }
	cmd.AddCommand(
		habitAddCmd(a),
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove a habit and its completions",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.DeleteHabit(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "toggle <id> <date>",
			Short: "Mark or unmark a habit on a day",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.ToggleCompletion(cmd.Context(), args[0], a.resolveDate(args[1]))
			},
		},
		mentalCmd(a, domain.FieldMood),
		mentalCmd(a, domain.FieldMotivation),
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
			Use:   "show",
			Short: "Print the month grid",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				showHabitMonth(cmd.OutOrStdout(), s)
				return nil
			},
		},
		&cobra.Command{
			Use:   "day <date>",
			Short: "Print one day's completions and scores",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				date := a.resolveDate(args[0])
				w := cmd.OutOrStdout()
				ds := s.DayStats(date)
				header(w, "%s  %d/%d  %s", date, ds.Done, ds.Total, percentBar(ds.Percentage))
				for _, h := range s.Record().Habits {
					printf(w, "  %s %s %s\n", checkbox(s.IsCompleted(h.ID, date)), habitLabel(h), mutedColor.Sprint(h.ID))
				}
				ms := s.MentalState(date)
				printf(w, "mood: %s  motivation: %s\n", score(ms.Mood), score(ms.Motivation))
				return nil
			},
		},
		&cobra.Command{
			Use:   "year",
			Short: "Print completion rates for the last twelve months",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				for _, m := range s.YearlyStats() {
					printf(w, "%-8s %4d  %s\n", m.Month, m.Completed, percentBar(m.Percentage))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "streak <id>",
			Short: "Print a habit's current run of consecutive days",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%d\n", s.Streak(args[0]))
				return nil
			},
		},
		resetCmd("habit tracker", func(cmd *cobra.Command) error {
			s, err := store(cmd)
			if err != nil {
				return err
			}
			return s.ResetAll(cmd.Context())
		}),
	)
	return cmd
}

func habitAddCmd(a *app) *cobra.Command {
	var emoji string
	var goal int
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Start tracking a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if goal < 0 {
				return usagef("goal must not be negative")
			}
			s, err := a.habitStore(cmd.Context())
			if err != nil {
				return err
			}
			h, err := s.AddHabit(cmd.Context(), args[0], emoji, goal)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", h.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&emoji, "emoji", "", "emoji shown next to the habit")
	cmd.Flags().IntVar(&goal, "goal", domain.DefaultHabitGoal, "completions per month")
	return cmd
}

func mentalCmd(a *app, field domain.MentalField) *cobra.Command {
	return &cobra.Command{
		Use:   string(field) + " <date> <1-10|clear>",
		Short: "Record or clear the " + string(field) + " score of a day",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var value *int
			if args[1] != "clear" {
				v, err := strconv.Atoi(args[1])
				if err != nil {
					return usagef("invalid %s score %q", field, args[1])
				}
				value = &v
			}
			s, err := a.habitStore(cmd.Context())
			if err != nil {
				return err
			}
			return s.SetMentalState(cmd.Context(), a.resolveDate(args[0]), field, value)
		},
	}
}

func showHabitMonth(w io.Writer, s *core.HabitStore) {
	days := s.MonthDays()
	ms := s.MonthStats()
	header(w, "%s  %s", s.CurrentMonth(), percentBar(ms.Percentage))

	var labels, numbers strings.Builder
	for _, d := range days {
		labels.WriteString(core.WeekdayLabels[d.DayOfWeek][:1])
		numbers.WriteString(strconv.Itoa(d.Day % 10))
	}
	printf(w, "%-24s %s\n", "", mutedColor.Sprint(labels.String()))
	printf(w, "%-24s %s\n", "", mutedColor.Sprint(numbers.String()))
	for _, h := range s.Record().Habits {
		var row strings.Builder
		for _, d := range days {
			if s.IsCompleted(h.ID, d.Date) {
				row.WriteByte('x')
			} else {
				row.WriteByte('.')
			}
		}
		st := s.HabitStats(h.ID)
		printf(w, "%-24s %s %d/%d %3d%% %s\n", habitLabel(h), row.String(), st.Actual, st.Goal, st.Percentage, mutedColor.Sprint(h.ID))
	}
}

func habitLabel(h domain.Habit) string {
	if h.Emoji == "" {
		return h.Name
	}
	return h.Emoji + " " + h.Name
}

func score(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
