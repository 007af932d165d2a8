package core

import (
	"context"
	"fmt"
	"slices"

	"lifetrack/pkg/calendar"
	"lifetrack/pkg/domain"
)

// HabitStore owns the monthly habit tracker: habits with monthly goals,
// per-day completions and per-day mood and motivation scores.
type HabitStore struct {
	*recordStore[domain.HabitRecord]
}

// MonthDay is one calendar day of the tracker's month. DayOfWeek counts from
// Saturday (0) through Friday (6).
type MonthDay struct {
	Day       int    `json:"day"`
	Date      string `json:"date"`
	DayOfWeek int    `json:"dayOfWeek"`
}

// WeekdayLabels maps MonthDay.DayOfWeek to its two-letter label.
var WeekdayLabels = [7]string{"Sa", "Su", "Mo", "Tu", "We", "Th", "Fr"}

// HabitStats is a habit's progress towards its goal in the current month.
type HabitStats struct {
	Goal       int `json:"goal"`
	Actual     int `json:"actual"`
	Percentage int `json:"percentage"`
}

// MonthStats aggregates completions of every habit over every day of the month.
type MonthStats struct {
	NumberOfHabits  int `json:"numberOfHabits"`
	CompletedHabits int `json:"completedHabits"`
	Percentage      int `json:"percentage"`
}

// DayStats aggregates completions of every habit on one day.
type DayStats struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	NotDone    int `json:"notDone"`
	Percentage int `json:"percentage"`
}

// MonthSummary is one entry of the trailing-year overview.
type MonthSummary struct {
	Month          string `json:"month"`
	MonthKey       string `json:"monthKey"`
	NumberOfHabits int    `json:"numberOfHabits"`
	Completed      int    `json:"completed"`
	Percentage     int    `json:"percentage"`
}

var habitCodec = recordCodec[domain.HabitRecord]{
	fresh:     domain.DefaultHabitRecord,
	normalize: (*domain.HabitRecord).Normalize,
	clone:     domain.HabitRecord.Clone,
}

// NewHabitStore loads the habit record from slots.
func NewHabitStore(ctx context.Context, slots domain.SlotStore, opts ...Option) (*HabitStore, error) {
	rs, err := openRecordStore(ctx, domain.SlotHabits, slots, habitCodec, opts)
	if err != nil {
		return nil, err
	}
	return &HabitStore{recordStore: rs}, nil
}

// Record returns a copy of the current record.
func (s *HabitStore) Record() domain.HabitRecord { return s.snapshot() }

// CurrentMonth returns the month the tracker is showing.
func (s *HabitStore) CurrentMonth() string {
	var m string
	s.view(func(r *domain.HabitRecord) { m = r.CurrentMonth })
	return m
}

// AddHabit appends a habit. A goal of zero or less uses DefaultHabitGoal.
func (s *HabitStore) AddHabit(ctx context.Context, name, emoji string, goal int) (domain.Habit, error) {
	if goal <= 0 {
		goal = domain.DefaultHabitGoal
	}
	var created domain.Habit
	err := s.mutate(ctx, "habits.add_habit", func(r *domain.HabitRecord) bool {
		created = domain.Habit{
			ID:        s.newID(),
			Name:      name,
			Emoji:     emoji,
			Goal:      goal,
			CreatedAt: today(s.opts.clock).String(),
		}
		r.Habits = append(r.Habits, created)
		return true
	})
	return created, err
}

// DeleteHabit removes a habit and all of its completions.
func (s *HabitStore) DeleteHabit(ctx context.Context, id string) error {
	return s.mutate(ctx, "habits.delete_habit", func(r *domain.HabitRecord) bool {
		n := len(r.Habits)
		r.Habits = slices.DeleteFunc(r.Habits, func(h domain.Habit) bool { return h.ID == id })
		_, had := r.Completions[id]
		delete(r.Completions, id)
		return len(r.Habits) != n || had
	})
}

// ToggleCompletion flips the completion of a known habit on date.
func (s *HabitStore) ToggleCompletion(ctx context.Context, id, date string) error {
	return s.mutate(ctx, "habits.toggle_completion", func(r *domain.HabitRecord) bool {
		day, ok := dayKey(date)
		if !ok {
			return false
		}
		if _, found := r.FindHabit(id); !found {
			return false
		}
		days := r.Completions[id]
		if days == nil {
			days = map[string]bool{}
			r.Completions[id] = days
		}
		days[day] = !days[day]
		return true
	})
}

// SetMentalState sets or, with a nil value, clears one score of date.
// Values are clamped to MinMentalScore..MaxMentalScore.
func (s *HabitStore) SetMentalState(ctx context.Context, date string, field domain.MentalField, value *int) error {
	return s.mutate(ctx, "habits.set_mental_state", func(r *domain.HabitRecord) bool {
		day, ok := dayKey(date)
		if !ok {
			return false
		}
		var v *int
		if value != nil {
			clamped := min(max(*value, domain.MinMentalScore), domain.MaxMentalScore)
			v = &clamped
		}
		state := r.MentalStates[day]
		switch field {
		case domain.FieldMood:
			state.Mood = v
		case domain.FieldMotivation:
			state.Motivation = v
		default:
			return false
		}
		if state.IsEmpty() {
			delete(r.MentalStates, day)
		} else {
			r.MentalStates[day] = state
		}
		return true
	})
}

// SetMonth moves the tracker to month (yyyy-MM). Invalid months are ignored.
func (s *HabitStore) SetMonth(ctx context.Context, month string) error {
	return s.mutate(ctx, "habits.set_month", func(r *domain.HabitRecord) bool {
		m, err := calendar.ParseMonth(month)
		if err != nil {
			return false
		}
		r.CurrentMonth = m.String()
		return true
	})
}

// NextMonth advances the tracker by one month.
func (s *HabitStore) NextMonth(ctx context.Context) error {
	return s.mutate(ctx, "habits.next_month", func(r *domain.HabitRecord) bool {
		r.CurrentMonth = shiftMonth(r.CurrentMonth, 1, s.opts.clock).String()
		return true
	})
}

// PrevMonth moves the tracker back by one month.
func (s *HabitStore) PrevMonth(ctx context.Context) error {
	return s.mutate(ctx, "habits.prev_month", func(r *domain.HabitRecord) bool {
		r.CurrentMonth = shiftMonth(r.CurrentMonth, -1, s.opts.clock).String()
		return true
	})
}

// ResetAll restores the default record and clears the slot.
func (s *HabitStore) ResetAll(ctx context.Context) error {
	return s.reset(ctx, "habits.reset_all")
}

// IsCompleted reports whether the habit is marked done on date.
func (s *HabitStore) IsCompleted(id, date string) bool {
	done := false
	s.view(func(r *domain.HabitRecord) {
		if day, ok := dayKey(date); ok {
			done = r.Completions[id][day]
		}
	})
	return done
}

// MentalState returns the scores recorded for date.
func (s *HabitStore) MentalState(date string) domain.MentalState {
	var out domain.MentalState
	s.view(func(r *domain.HabitRecord) {
		day, ok := dayKey(date)
		if !ok {
			return
		}
		state := r.MentalStates[day]
		if state.Mood != nil {
			v := *state.Mood
			out.Mood = &v
		}
		if state.Motivation != nil {
			v := *state.Motivation
			out.Motivation = &v
		}
	})
	return out
}

// MonthDays lists the days of the current month.
func (s *HabitStore) MonthDays() []MonthDay {
	var days []MonthDay
	s.view(func(r *domain.HabitRecord) {
		m, err := calendar.ParseMonth(r.CurrentMonth)
		if err != nil {
			days = []MonthDay{}
			return
		}
		days = monthDays(m)
	})
	return days
}

// HabitStats counts the habit's completions in the current month against
// its goal. A zero goal reports 0%.
func (s *HabitStore) HabitStats(id string) HabitStats {
	var stats HabitStats
	s.view(func(r *domain.HabitRecord) {
		h, ok := r.FindHabit(id)
		if !ok {
			return
		}
		stats.Goal = h.Goal
		if m, err := calendar.ParseMonth(r.CurrentMonth); err == nil {
			stats.Actual = completedIn(r.Completions[id], m)
		}
		stats.Percentage = percent(stats.Actual, stats.Goal)
	})
	return stats
}

// MonthStats aggregates the current month.
func (s *HabitStore) MonthStats() MonthStats {
	var stats MonthStats
	s.view(func(r *domain.HabitRecord) {
		m, err := calendar.ParseMonth(r.CurrentMonth)
		stats.NumberOfHabits = len(r.Habits)
		if err != nil {
			return
		}
		sum := summarise(r, m)
		stats.CompletedHabits = sum.Completed
		stats.Percentage = sum.Percentage
	})
	return stats
}

// DayStats aggregates every habit on date.
func (s *HabitStore) DayStats(date string) DayStats {
	var stats DayStats
	s.view(func(r *domain.HabitRecord) {
		stats.Total = len(r.Habits)
		if day, ok := dayKey(date); ok {
			for _, h := range r.Habits {
				if r.Completions[h.ID][day] {
					stats.Done++
				}
			}
		}
		stats.NotDone = stats.Total - stats.Done
		stats.Percentage = percent(stats.Done, stats.Total)
	})
	return stats
}

// YearlyStats summarises the twelve months ending at the clock's current
// month, oldest first, regardless of the month being viewed.
func (s *HabitStore) YearlyStats() []MonthSummary {
	end := calendar.MonthOf(s.now())
	out := make([]MonthSummary, 0, 12)
	s.view(func(r *domain.HabitRecord) {
		for i := 11; i >= 0; i-- {
			out = append(out, summarise(r, end.Add(-i)))
		}
	})
	return out
}

// Streak is the length of the run of consecutive completed days ending at
// the habit's most recent completion.
func (s *HabitStore) Streak(id string) int {
	streak := 0
	s.view(func(r *domain.HabitRecord) {
		var latest calendar.Date
		done := map[calendar.Date]bool{}
		for key, ok := range r.Completions[id] {
			if !ok {
				continue
			}
			d, err := calendar.Parse(key)
			if err != nil {
				continue
			}
			done[d] = true
			if latest.IsZero() || d.After(latest) {
				latest = d
			}
		}
		for d := latest; !latest.IsZero() && done[d]; d = d.Add(-1) {
			streak++
		}
	})
	return streak
}

func monthDays(m calendar.Month) []MonthDay {
	n := m.Days()
	days := make([]MonthDay, n)
	for i := range days {
		d := m.Day(i + 1)
		days[i] = MonthDay{Day: i + 1, Date: d.String(), DayOfWeek: (int(d.Weekday()) + 1) % 7}
	}
	return days
}

func completedIn(done map[string]bool, m calendar.Month) int {
	count := 0
	for day := 1; day <= m.Days(); day++ {
		if done[m.Day(day).String()] {
			count++
		}
	}
	return count
}

func summarise(r *domain.HabitRecord, m calendar.Month) MonthSummary {
	sum := MonthSummary{
		Month:          fmt.Sprintf("%s %d", m.Label(), m.Year()),
		MonthKey:       m.String(),
		NumberOfHabits: len(r.Habits),
	}
	for _, h := range r.Habits {
		sum.Completed += completedIn(r.Completions[h.ID], m)
	}
	sum.Percentage = percent(sum.Completed, len(r.Habits)*m.Days())
	return sum
}

// shiftMonth moves key by delta months, starting from the clock's month when
// key does not parse.
func shiftMonth(key string, delta int, c Clock) calendar.Month {
	m, err := calendar.ParseMonth(key)
	if err != nil {
		m = calendar.MonthOf(c.Now())
	}
	return m.Add(delta)
}
