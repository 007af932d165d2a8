package cli

import (
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"lifetrack/internal/core"
	"lifetrack/pkg/domain"
)

func weeklyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Weekly planner: tasks per day, habits, notes and a quote",
	}
	cmd.AddCommand(
		weeklySetupCmd(a),
		&cobra.Command{
			Use:   "quote <text>",
			Short: "Replace the quote of the week",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				return s.UpdateQuote(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "week-start <date>",
			Short: "Move the planner to the week starting on date",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				return s.UpdateWeekStart(cmd.Context(), a.resolveDate(args[0]))
			},
		},
		&cobra.Command{
			Use:   "add-task <date> <text>",
			Short: "Add a task to a day",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				task, err := s.AddTask(cmd.Context(), a.resolveDate(args[0]), args[1])
				if err != nil {
					return err
				}
				if task.ID != "" {
					printf(cmd.OutOrStdout(), "%s\n", task.ID)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle-task <date> <id>",
			Short: "Flip a task between done and open",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				return s.ToggleTask(cmd.Context(), a.resolveDate(args[0]), args[1])
			},
		},
		&cobra.Command{
			Use:   "delete-task <date> <id>",
			Short: "Remove a task from a day",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				return s.DeleteTask(cmd.Context(), a.resolveDate(args[0]), args[1])
			},
		},
		&cobra.Command{
			Use:   "add-habit <name>",
			Short: "Track a habit across the week",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				h, err := s.AddHabit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s\n", h.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle-habit <id> <date>",
			Short: "Mark or unmark a habit on a day",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				return s.ToggleHabitDay(cmd.Context(), args[0], a.resolveDate(args[1]))
			},
		},
		&cobra.Command{
			Use:   "delete-habit <id>",
			Short: "Stop tracking a habit",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				return s.DeleteHabit(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "note <date> <notes|improvements|thanks> <line> <text>",
			Short: "Write one line of a day's notes",
			Args:  cobra.ExactArgs(4),
			RunE: func(cmd *cobra.Command, args []string) error {
				section := domain.NoteSection(args[1])
				if !section.Valid() {
					return usagef("unknown notes section %q", args[1])
				}
				line, err := strconv.Atoi(args[2])
				if err != nil || line < 0 {
					return usagef("invalid line %q", args[2])
				}
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				return s.UpdateNote(cmd.Context(), a.resolveDate(args[0]), section, line, args[3])
			},
		},
		&cobra.Command{
			Use:   "notes <date>",
			Short: "Print a day's notes",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				notes := s.Notes(a.resolveDate(args[0]))
				w := cmd.OutOrStdout()
				for _, sec := range []domain.NoteSection{domain.SectionNotes, domain.SectionImprovements, domain.SectionThanks} {
					header(w, "%s", sec)
					for i, line := range notes.Section(sec) {
						printf(w, "  %d. %s\n", i, line)
					}
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the current week",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := a.weeklyStore(cmd.Context())
				if err != nil {
					return err
				}
				showWeek(cmd.OutOrStdout(), s)
				return nil
			},
		},
		resetCmd("weekly planner", func(cmd *cobra.Command) error {
			s, err := a.weeklyStore(cmd.Context())
			if err != nil {
				return err
			}
			return s.ResetAll(cmd.Context())
		}),
	)
	return cmd
}

func weeklySetupCmd(a *app) *cobra.Command {
	var weekStart, quote string
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Finish the planner's first-run setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.weeklyStore(cmd.Context())
			if err != nil {
				return err
			}
			rec := s.Record()
			start := rec.WeekStartDate
			if weekStart != "" {
				start = a.resolveDate(weekStart)
			}
			q := rec.Quote
			if cmd.Flags().Changed("quote") {
				q = quote
			}
			return s.CompleteSetup(cmd.Context(), start, q)
		},
	}
	cmd.Flags().StringVar(&weekStart, "week-start", "", "first day of the week (yyyy-MM-dd)")
	cmd.Flags().StringVar(&quote, "quote", "", "quote of the week")
	return cmd
}

func showWeek(w io.Writer, s *core.WeeklyStore) {
	rec := s.Record()
	stats := s.TaskStats()
	header(w, "Week of %s  %s", rec.WeekStartDate, percentBar(stats.Percentage))
	printf(w, "%q\n", rec.Quote)
	for _, day := range s.WeekDates() {
		ds := stats.DailyStats[day]
		header(w, "%s  %d/%d", day, ds.Completed, ds.Total)
		for _, t := range rec.Tasks[day] {
			printf(w, "  %s %s %s\n", checkbox(t.Completed), t.Text, mutedColor.Sprint(t.ID))
		}
	}
	if len(rec.Habits) == 0 {
		return
	}
	header(w, "Habits")
	for _, h := range rec.Habits {
		marks := make([]byte, 0, 7)
		for _, day := range s.WeekDates() {
			if s.IsHabitDone(h.ID, day) {
				marks = append(marks, 'x')
			} else {
				marks = append(marks, '.')
			}
		}
		printf(w, "  %-20s %s %3d%% %s\n", h.Name, marks, s.HabitProgress(h.ID), mutedColor.Sprint(h.ID))
	}
}
