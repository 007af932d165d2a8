package cli

import (
	"io"

	"github.com/spf13/cobra"

	"lifetrack/internal/core"
	"lifetrack/pkg/calendar"
	"lifetrack/pkg/domain"
)

func tasksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Categorised task list with priorities and statuses",
	}
	store := func(cmd *cobra.Command) (*core.TaskListStore, error) { return a.taskStore(cmd.Context()) }
	cmd.AddCommand(
		&cobra.Command{
			Use:   "setup",
			Short: "Finish the task list's first-run setup",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.CompleteSetup(cmd.Context())
			},
		},
		taskAddCmd(a),
		taskUpdateCmd(a),
		&cobra.Command{
			Use:   "toggle <id>",
			Short: "Flip a task between done and not started",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.ToggleTaskComplete(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Remove a task",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.DeleteTask(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "add-category <name> [emoji]",
			Short: "Add a task category",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				var emoji string
				if len(args) == 2 {
					emoji = args[1]
				}
				c, err := s.AddCategory(cmd.Context(), args[0], emoji)
				if err != nil {
					return err
				}
				printf(cmd.OutOrStdout(), "%s\n", c.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "delete-category <id>",
			Short: "Remove a category; its tasks keep the id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				return s.DeleteCategory(cmd.Context(), args[0])
			},
		},
		&cobra.Command{
			Use:   "categories",
			Short: "List categories",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				for _, c := range s.Record().Categories {
					printf(cmd.OutOrStdout(), "%-4s %s %s\n", c.ID, c.Emoji, c.Name)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print every task",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				listTasks(cmd.OutOrStdout(), s.Record(), calendar.FromTime(a.now()))
				return nil
			},
		},
		&cobra.Command{
			Use:   "stats",
			Short: "Print task counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				s, err := store(cmd)
				if err != nil {
					return err
				}
				st := s.Stats()
				w := cmd.OutOrStdout()
				printf(w, "total:         %d\n", st.Total)
				printf(w, "completed:     %d\n", st.Completed)
				printf(w, "not completed: %d\n", st.NotCompleted)
				printf(w, "due today:     %d\n", st.Today)
				printf(w, "overdue:       %s\n", overdueCount(st.Overdue))
				printf(w, "progress:      %s\n", percentBar(st.Percentage))
				return nil
			},
		},
		resetCmd("task list", func(cmd *cobra.Command) error {
			s, err := store(cmd)
			if err != nil {
				return err
			}
			return s.ResetAll(cmd.Context())
		}),
	)
	return cmd
}

func taskAddCmd(a *app) *cobra.Command {
	var draft domain.TaskDraft
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.taskStore(cmd.Context())
			if err != nil {
				return err
			}
			draft.Text = args[0]
			if draft.DueDate != "" {
				draft.DueDate = a.resolveDate(draft.DueDate)
			}
			t, err := s.AddTask(cmd.Context(), draft)
			if err != nil {
				return err
			}
			printf(cmd.OutOrStdout(), "%s\n", t.ID)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&draft.DueDate, "due", "", "due date (yyyy-MM-dd or today)")
	f.StringVar(&draft.Priority, "priority", "", "high, medium, low or optional (default medium)")
	f.StringVar(&draft.Status, "status", "", "done, in-progress, not-started or canceled (default not-started)")
	f.StringVar(&draft.Category, "category", "", "category id (default the first category)")
	f.StringVar(&draft.Note, "note", "", "free-form note")
	return cmd
}

func taskUpdateCmd(a *app) *cobra.Command {
	var text, due, priority, status, category, note string
	var completed bool
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			var patch domain.TaskPatch
			set := func(name string, v *string) *string {
				if f.Changed(name) {
					return v
				}
				return nil
			}
			patch.Text = set("text", &text)
			patch.Priority = set("priority", &priority)
			patch.Status = set("status", &status)
			patch.Category = set("category", &category)
			patch.Note = set("note", &note)
			if f.Changed("due") {
				d := due
				if d != "" {
					d = a.resolveDate(d)
				}
				patch.DueDate = &d
			}
			if f.Changed("completed") {
				patch.Completed = &completed
			}
			s, err := a.taskStore(cmd.Context())
			if err != nil {
				return err
			}
			return s.UpdateTask(cmd.Context(), args[0], patch)
		},
	}
	f := cmd.Flags()
	f.StringVar(&text, "text", "", "task text")
	f.StringVar(&due, "due", "", "due date; empty clears it")
	f.StringVar(&priority, "priority", "", "priority id")
	f.StringVar(&status, "status", "", "status id")
	f.StringVar(&category, "category", "", "category id")
	f.StringVar(&note, "note", "", "note")
	f.BoolVar(&completed, "completed", false, "completed flag")
	return cmd
}

func listTasks(w io.Writer, rec domain.TaskListRecord, today calendar.Date) {
	categories := make(map[string]domain.Category, len(rec.Categories))
	for _, c := range rec.Categories {
		categories[c.ID] = c
	}
	for _, t := range rec.Tasks {
		due := t.DueDate
		if d, err := calendar.Parse(t.DueDate); err == nil && !t.Completed && d.Before(today) {
			due = overdueColor.Sprint(due)
		}
		cat := t.Category
		if c, ok := categories[t.Category]; ok {
			cat = c.Emoji + " " + c.Name
		}
		printf(w, "%s %-30s %-10s %-8s %-12s %s %s\n",
			checkbox(t.Completed), t.Text, due, t.Priority, t.Status, cat, mutedColor.Sprint(t.ID))
	}
}

func overdueCount(n int) string {
	if n == 0 {
		return "0"
	}
	return overdueColor.Sprint(n)
}
