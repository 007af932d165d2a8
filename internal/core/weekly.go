package core

import (
	"context"
	"math"
	"slices"

	"lifetrack/pkg/calendar"
	"lifetrack/pkg/domain"
)

// WeeklyStore owns the weekly planner record: day-scoped tasks, a habit grid
// and daily notes for one seven-day window.
type WeeklyStore struct {
	*recordStore[domain.WeeklyRecord]
}

// DayTaskStats summarises the tasks of one day.
type DayTaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Percentage int `json:"percentage"`
}

// WeekTaskStats summarises the tasks of the current week.
type WeekTaskStats struct {
	TotalTasks     int                     `json:"totalTasks"`
	CompletedTasks int                     `json:"completedTasks"`
	Percentage     int                     `json:"percentage"`
	DailyStats     map[string]DayTaskStats `json:"dailyStats"`
}

var weeklyCodec = recordCodec[domain.WeeklyRecord]{
	fresh:     domain.DefaultWeeklyRecord,
	normalize: (*domain.WeeklyRecord).Normalize,
	clone:     domain.WeeklyRecord.Clone,
}

// NewWeeklyStore loads the weekly record from slots.
func NewWeeklyStore(ctx context.Context, slots domain.SlotStore, opts ...Option) (*WeeklyStore, error) {
	rs, err := openRecordStore(ctx, domain.SlotWeekly, slots, weeklyCodec, opts)
	if err != nil {
		return nil, err
	}
	return &WeeklyStore{recordStore: rs}, nil
}

// Record returns a copy of the current record.
func (s *WeeklyStore) Record() domain.WeeklyRecord { return s.snapshot() }

// CompleteSetup marks the planner as configured with the given week start and quote.
func (s *WeeklyStore) CompleteSetup(ctx context.Context, weekStart, quote string) error {
	return s.mutate(ctx, "weekly.complete_setup", func(r *domain.WeeklyRecord) bool {
		r.IsSetupComplete = true
		r.WeekStartDate = weekStart
		r.Quote = quote
		return true
	})
}

// UpdateQuote replaces the quote.
func (s *WeeklyStore) UpdateQuote(ctx context.Context, quote string) error {
	return s.mutate(ctx, "weekly.update_quote", func(r *domain.WeeklyRecord) bool {
		r.Quote = quote
		return true
	})
}

// UpdateWeekStart moves the week window.
func (s *WeeklyStore) UpdateWeekStart(ctx context.Context, weekStart string) error {
	return s.mutate(ctx, "weekly.update_week_start", func(r *domain.WeeklyRecord) bool {
		r.WeekStartDate = weekStart
		return true
	})
}

// AddTask appends a new open task to date. The created task is returned; a
// date that is not an ISO calendar date leaves the record untouched and
// yields the zero task.
func (s *WeeklyStore) AddTask(ctx context.Context, date, text string) (domain.WeeklyTask, error) {
	var created domain.WeeklyTask
	err := s.mutate(ctx, "weekly.add_task", func(r *domain.WeeklyRecord) bool {
		day, ok := dayKey(date)
		if !ok {
			return false
		}
		created = domain.WeeklyTask{ID: s.newID(), Text: text}
		r.Tasks[day] = append(r.Tasks[day], created)
		return true
	})
	return created, err
}

// ToggleTask flips the completed flag of a task.
func (s *WeeklyStore) ToggleTask(ctx context.Context, date, id string) error {
	return s.mutate(ctx, "weekly.toggle_task", func(r *domain.WeeklyRecord) bool {
		day, ok := dayKey(date)
		if !ok {
			return false
		}
		tasks := r.Tasks[day]
		i := slices.IndexFunc(tasks, func(t domain.WeeklyTask) bool { return t.ID == id })
		if i < 0 {
			return false
		}
		tasks[i].Completed = !tasks[i].Completed
		return true
	})
}

// DeleteTask removes a task from date.
func (s *WeeklyStore) DeleteTask(ctx context.Context, date, id string) error {
	return s.mutate(ctx, "weekly.delete_task", func(r *domain.WeeklyRecord) bool {
		day, ok := dayKey(date)
		if !ok {
			return false
		}
		tasks, present := r.Tasks[day]
		if !present {
			return false
		}
		kept := slices.DeleteFunc(tasks, func(t domain.WeeklyTask) bool { return t.ID == id })
		if len(kept) == len(tasks) {
			return false
		}
		r.Tasks[day] = kept
		return true
	})
}

// AddHabit appends a habit row with no completed days.
func (s *WeeklyStore) AddHabit(ctx context.Context, name string) (domain.WeeklyHabit, error) {
	var created domain.WeeklyHabit
	err := s.mutate(ctx, "weekly.add_habit", func(r *domain.WeeklyRecord) bool {
		created = domain.WeeklyHabit{ID: s.newID(), Name: name, CompletedDays: []string{}}
		r.Habits = append(r.Habits, created)
		return true
	})
	return created, err
}

// ToggleHabitDay adds date to the habit's completed days, or removes it when present.
func (s *WeeklyStore) ToggleHabitDay(ctx context.Context, id, date string) error {
	return s.mutate(ctx, "weekly.toggle_habit_day", func(r *domain.WeeklyRecord) bool {
		day, ok := dayKey(date)
		if !ok {
			return false
		}
		i := slices.IndexFunc(r.Habits, func(h domain.WeeklyHabit) bool { return h.ID == id })
		if i < 0 {
			return false
		}
		h := &r.Habits[i]
		if slices.Contains(h.CompletedDays, day) {
			h.CompletedDays = slices.DeleteFunc(h.CompletedDays, func(d string) bool { return d == day })
		} else {
			h.CompletedDays = append(h.CompletedDays, day)
		}
		return true
	})
}

// DeleteHabit removes a habit together with its completed days.
func (s *WeeklyStore) DeleteHabit(ctx context.Context, id string) error {
	return s.mutate(ctx, "weekly.delete_habit", func(r *domain.WeeklyRecord) bool {
		n := len(r.Habits)
		r.Habits = slices.DeleteFunc(r.Habits, func(h domain.WeeklyHabit) bool { return h.ID == id })
		return len(r.Habits) != n
	})
}

// UpdateNote sets line index of a notes section for date, creating the day's
// notes and padding the section with empty lines as needed. Unknown
// sections and negative indexes are ignored.
func (s *WeeklyStore) UpdateNote(ctx context.Context, date string, section domain.NoteSection, index int, value string) error {
	return s.mutate(ctx, "weekly.update_note", func(r *domain.WeeklyRecord) bool {
		day, ok := dayKey(date)
		if !ok || !section.Valid() || index < 0 {
			return false
		}
		notes, present := r.Notes[day]
		if !present {
			notes = domain.DefaultDayNotes()
		}
		for _, sec := range []domain.NoteSection{domain.SectionNotes, domain.SectionImprovements, domain.SectionThanks} {
			if notes.Section(sec) == nil {
				notes = notes.WithSection(sec, make([]string, domain.NotesSlots))
			}
		}
		lines := slices.Clone(notes.Section(section))
		for len(lines) <= index {
			lines = append(lines, "")
		}
		lines[index] = value
		r.Notes[day] = notes.WithSection(section, lines)
		return true
	})
}

// ResetAll restores the default record, with the week starting on the
// current Sunday, and clears the slot.
func (s *WeeklyStore) ResetAll(ctx context.Context) error {
	return s.reset(ctx, "weekly.reset_all")
}

// WeekDates lists the seven ISO dates starting at the week start. It is
// empty when the stored week start is not a valid date.
func (s *WeeklyStore) WeekDates() []string {
	var dates []string
	s.view(func(r *domain.WeeklyRecord) { dates = weekDates(r.WeekStartDate) })
	return dates
}

// TaskStats computes per-day and whole-week completion for the current week.
func (s *WeeklyStore) TaskStats() WeekTaskStats {
	stats := WeekTaskStats{DailyStats: map[string]DayTaskStats{}}
	s.view(func(r *domain.WeeklyRecord) {
		for _, date := range weekDates(r.WeekStartDate) {
			tasks := r.Tasks[date]
			done := 0
			for _, t := range tasks {
				if t.Completed {
					done++
				}
			}
			stats.TotalTasks += len(tasks)
			stats.CompletedTasks += done
			stats.DailyStats[date] = DayTaskStats{Total: len(tasks), Completed: done, Percentage: percent(done, len(tasks))}
		}
	})
	stats.Percentage = percent(stats.CompletedTasks, stats.TotalTasks)
	return stats
}

// HabitProgress is the share of the current week's days on which the habit
// was done, 0 for an unknown habit.
func (s *WeeklyStore) HabitProgress(id string) int {
	progress := 0
	s.view(func(r *domain.WeeklyRecord) {
		i := slices.IndexFunc(r.Habits, func(h domain.WeeklyHabit) bool { return h.ID == id })
		if i < 0 {
			return
		}
		done := 0
		for _, date := range weekDates(r.WeekStartDate) {
			if slices.Contains(r.Habits[i].CompletedDays, date) {
				done++
			}
		}
		progress = percent(done, 7)
	})
	return progress
}

// IsHabitDone reports whether the habit is marked done on date.
func (s *WeeklyStore) IsHabitDone(id, date string) bool {
	done := false
	s.view(func(r *domain.WeeklyRecord) {
		day, ok := dayKey(date)
		if !ok {
			return
		}
		for _, h := range r.Habits {
			if h.ID == id {
				done = slices.Contains(h.CompletedDays, day)
				return
			}
		}
	})
	return done
}

// Notes returns the notes stored for date, or three empty sections.
func (s *WeeklyStore) Notes(date string) domain.DayNotes {
	notes := domain.DefaultDayNotes()
	s.view(func(r *domain.WeeklyRecord) {
		day, ok := dayKey(date)
		if !ok {
			return
		}
		if n, present := r.Notes[day]; present {
			notes = domain.DayNotes{
				Notes:        slices.Clone(n.Notes),
				Improvements: slices.Clone(n.Improvements),
				Thanks:       slices.Clone(n.Thanks),
			}
		}
	})
	return notes
}

func weekDates(start string) []string {
	d, err := calendar.Parse(start)
	if err != nil {
		return []string{}
	}
	out := make([]string, 7)
	for i := range out {
		out[i] = d.Add(i).String()
	}
	return out
}

// dayKey canonicalises an ISO date so "2025-6-1" and "2025-06-01" address
// the same entry.
func dayKey(s string) (string, bool) {
	d, err := calendar.Parse(s)
	if err != nil {
		return "", false
	}
	return d.String(), true
}

// percent is round(100*part/whole), 0 when whole is 0.
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(whole)))
}

func today(c Clock) calendar.Date { return calendar.FromTime(c.Now()) }
