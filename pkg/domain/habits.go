package domain

import (
	"time"

	"lifetrack/pkg/calendar"
)

// DefaultHabitGoal is the monthly completion target of a new habit.
const DefaultHabitGoal = 30

// Mental-state scores range over 1..10.
const (
	MinMentalScore = 1
	MaxMentalScore = 10
)

// MentalField names one of the scores kept per day.
type MentalField string

// Recognised mental-state fields.
const (
	FieldMood       MentalField = "mood"
	FieldMotivation MentalField = "motivation"
)

// HabitRecord is the root record of the monthly habit tracker.
type HabitRecord struct {
	CurrentMonth string                     `json:"currentMonth"`
	Habits       []Habit                    `json:"habits"`
	Completions  map[string]map[string]bool `json:"completions"`
	MentalStates map[string]MentalState     `json:"mentalStates"`
}

// Habit is a tracked monthly habit.
type Habit struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Emoji     string `json:"emoji"`
	Goal      int    `json:"goal"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// MentalState holds the optional scores recorded for a day.
type MentalState struct {
	Mood       *int `json:"mood,omitempty"`
	Motivation *int `json:"motivation,omitempty"`
}

// Field returns the named score, nil when unset or unknown.
func (m MentalState) Field(f MentalField) *int {
	switch f {
	case FieldMood:
		return m.Mood
	case FieldMotivation:
		return m.Motivation
	}
	return nil
}

// IsEmpty reports whether no score is set.
func (m MentalState) IsEmpty() bool { return m.Mood == nil && m.Motivation == nil }

// DefaultHabitRecord builds the record used when nothing is persisted.
func DefaultHabitRecord(now time.Time) HabitRecord {
	return HabitRecord{
		CurrentMonth: calendar.MonthOf(now).String(),
		Habits:       []Habit{},
		Completions:  map[string]map[string]bool{},
		MentalStates: map[string]MentalState{},
	}
}

// Normalize backfills collections a stored payload left null.
func (r *HabitRecord) Normalize() {
	if r.Habits == nil {
		r.Habits = []Habit{}
	}
	if r.Completions == nil {
		r.Completions = map[string]map[string]bool{}
	}
	if r.MentalStates == nil {
		r.MentalStates = map[string]MentalState{}
	}
}

// FindHabit returns the habit with the given id.
func (r HabitRecord) FindHabit(id string) (Habit, bool) {
	for _, h := range r.Habits {
		if h.ID == id {
			return h, true
		}
	}
	return Habit{}, false
}

// Clone returns a deep copy.
func (r HabitRecord) Clone() HabitRecord {
	out := r
	out.Habits = cloneSlice(r.Habits)
	out.Completions = make(map[string]map[string]bool, len(r.Completions))
	for id, days := range r.Completions {
		cp := make(map[string]bool, len(days))
		for day, done := range days {
			cp[day] = done
		}
		out.Completions[id] = cp
	}
	out.MentalStates = make(map[string]MentalState, len(r.MentalStates))
	for day, ms := range r.MentalStates {
		out.MentalStates[day] = MentalState{Mood: cloneInt(ms.Mood), Motivation: cloneInt(ms.Motivation)}
	}
	return out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
