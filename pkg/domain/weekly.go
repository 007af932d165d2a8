package domain

import (
	"time"

	"lifetrack/pkg/calendar"
)

// DefaultQuote is the motivational quote a fresh weekly record starts with.
const DefaultQuote = "Inspiration comes only during work"

// NotesSlots is the number of lines each notes section shows.
const NotesSlots = 3

// NoteSection names one of the three lists kept per day.
type NoteSection string

// Recognised note sections.
const (
	SectionNotes        NoteSection = "notes"
	SectionImprovements NoteSection = "improvements"
	SectionThanks       NoteSection = "thanks"
)

// Valid reports whether s is one of the recognised sections.
func (s NoteSection) Valid() bool {
	switch s {
	case SectionNotes, SectionImprovements, SectionThanks:
		return true
	}
	return false
}

// WeeklyRecord is the root record of the weekly planner.
type WeeklyRecord struct {
	IsSetupComplete bool                    `json:"isSetupComplete"`
	WeekStartDate   string                  `json:"weekStartDate"`
	Quote           string                  `json:"quote"`
	Tasks           map[string][]WeeklyTask `json:"tasks"`
	Habits          []WeeklyHabit           `json:"habits"`
	Notes           map[string]DayNotes     `json:"notes"`
}

// WeeklyTask is a to-do item scheduled on one day.
type WeeklyTask struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// WeeklyHabit is a habit row of the weekly grid. Its completions live inside
// the habit, so deleting the habit deletes them too.
type WeeklyHabit struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	CompletedDays []string `json:"completedDays"`
}

// DayNotes holds the three free-text lists of a day.
type DayNotes struct {
	Notes        []string `json:"notes"`
	Improvements []string `json:"improvements"`
	Thanks       []string `json:"thanks"`
}

// DefaultDayNotes returns three empty sections of NotesSlots lines each.
func DefaultDayNotes() DayNotes {
	return DayNotes{
		Notes:        make([]string, NotesSlots),
		Improvements: make([]string, NotesSlots),
		Thanks:       make([]string, NotesSlots),
	}
}

// Section returns the lines of the named section.
func (n DayNotes) Section(s NoteSection) []string {
	switch s {
	case SectionNotes:
		return n.Notes
	case SectionImprovements:
		return n.Improvements
	case SectionThanks:
		return n.Thanks
	}
	return nil
}

// WithSection returns a copy of n with the named section replaced.
func (n DayNotes) WithSection(s NoteSection, lines []string) DayNotes {
	switch s {
	case SectionNotes:
		n.Notes = lines
	case SectionImprovements:
		n.Improvements = lines
	case SectionThanks:
		n.Thanks = lines
	}
	return n
}

// DefaultWeekStart is the Sunday on or before now's calendar day.
func DefaultWeekStart(now time.Time) string {
	return calendar.StartOfWeek(calendar.FromTime(now), time.Sunday).String()
}

// DefaultWeeklyRecord builds the record used when nothing is persisted.
func DefaultWeeklyRecord(now time.Time) WeeklyRecord {
	return WeeklyRecord{
		WeekStartDate: DefaultWeekStart(now),
		Quote:         DefaultQuote,
		Tasks:         map[string][]WeeklyTask{},
		Habits:        []WeeklyHabit{},
		Notes:         map[string]DayNotes{},
	}
}

// Normalize backfills collections a stored payload left null.
func (r *WeeklyRecord) Normalize() {
	if r.Tasks == nil {
		r.Tasks = map[string][]WeeklyTask{}
	}
	if r.Habits == nil {
		r.Habits = []WeeklyHabit{}
	}
	if r.Notes == nil {
		r.Notes = map[string]DayNotes{}
	}
	for i := range r.Habits {
		if r.Habits[i].CompletedDays == nil {
			r.Habits[i].CompletedDays = []string{}
		}
	}
}

// Clone returns a deep copy.
func (r WeeklyRecord) Clone() WeeklyRecord {
	out := r
	out.Tasks = make(map[string][]WeeklyTask, len(r.Tasks))
	for day, tasks := range r.Tasks {
		out.Tasks[day] = cloneSlice(tasks)
	}
	out.Habits = cloneSlice(r.Habits)
	for i, h := range out.Habits {
		h.CompletedDays = cloneSlice(h.CompletedDays)
		out.Habits[i] = h
	}
	out.Notes = make(map[string]DayNotes, len(r.Notes))
	for day, n := range r.Notes {
		out.Notes[day] = n.clone()
	}
	return out
}

func (n DayNotes) clone() DayNotes {
	return DayNotes{
		Notes:        cloneSlice(n.Notes),
		Improvements: cloneSlice(n.Improvements),
		Thanks:       cloneSlice(n.Thanks),
	}
}
