package domain

import "time"

// Seeded priority ids.
const (
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
	PriorityLow      = "low"
	PriorityOptional = "optional"
)

// Seeded status ids.
const (
	StatusDone       = "done"
	StatusInProgress = "in-progress"
	StatusNotStarted = "not-started"
	StatusCanceled   = "canceled"
)

// TaskListRecord is the root record of the task list.
type TaskListRecord struct {
	IsSetupComplete bool       `json:"isSetupComplete"`
	Categories      []Category `json:"categories"`
	Priorities      []Priority `json:"priorities"`
	Statuses        []Status   `json:"statuses"`
	Tasks           []Task     `json:"tasks"`
}

// Category groups tasks by life area.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
}

// Priority is a fixed urgency level.
type Priority struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Status is a fixed workflow state.
type Status struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Task is an entry of the task list. DueDate is an ISO date or empty.
type Task struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	DueDate   string    `json:"dueDate,omitempty"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	Category  string    `json:"category"`
	Note      string    `json:"note"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskDraft carries the caller-supplied fields of a new task. Empty fields
// take their defaults.
type TaskDraft struct {
	Text     string
	DueDate  string
	Priority string
	Status   string
	Category string
	Note     string
}

// TaskPatch lists the fields to overwrite on a task; nil fields are kept.
type TaskPatch struct {
	Text      *string
	DueDate   *string
	Priority  *string
	Status    *string
	Category  *string
	Note      *string
	Completed *bool
}

// Apply returns t with the set fields of p merged in.
func (p TaskPatch) Apply(t Task) Task {
	if p.Text != nil {
		t.Text = *p.Text
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	if p.Note != nil {
		t.Note = *p.Note
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}

// DefaultCategories returns the seeded categories.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Health", Emoji: "💪"},
		{ID: "2", Name: "Work", Emoji: "💼"},
		{ID: "3", Name: "Money", Emoji: "💰"},
		{ID: "4", Name: "Family", Emoji: "👨‍👩‍👧"},
		{ID: "5", Name: "Personal Growth", Emoji: "📚"},
		{ID: "6", Name: "Chores", Emoji: "🧹"},
		{ID: "7", Name: "Ideas", Emoji: "💡"},
		{ID: "8", Name: "Leisure", Emoji: "🎮"},
		{ID: "9", Name: "Spirituality", Emoji: "🧘"},
	}
}

// DefaultPriorities returns the fixed priorities.
func DefaultPriorities() []Priority {
	return []Priority{
		{ID: PriorityHigh, Name: "High", Color: "#e53935"},
		{ID: PriorityMedium, Name: "Medium", Color: "#fdd835"},
		{ID: PriorityLow, Name: "Low", Color: "#1e88e5"},
		{ID: PriorityOptional, Name: "Optional", Color: "#9e9e9e"},
	}
}

// DefaultStatuses returns the fixed statuses.
func DefaultStatuses() []Status {
	return []Status{
		{ID: StatusDone, Name: "Done", Icon: "✅"},
		{ID: StatusInProgress, Name: "In Progress", Icon: "✏️"},
		{ID: StatusNotStarted, Name: "Not Started", Icon: "⚠️"},
		{ID: StatusCanceled, Name: "Canceled", Icon: "❌"},
	}
}

// DefaultTaskListRecord builds the record used when nothing is persisted.
func DefaultTaskListRecord() TaskListRecord {
	return TaskListRecord{
		Categories: DefaultCategories(),
		Priorities: DefaultPriorities(),
		Statuses:   DefaultStatuses(),
		Tasks:      []Task{},
	}
}

// Normalize backfills collections a stored payload left null.
func (r *TaskListRecord) Normalize() {
	if r.Categories == nil {
		r.Categories = DefaultCategories()
	}
	if r.Priorities == nil {
		r.Priorities = DefaultPriorities()
	}
	if r.Statuses == nil {
		r.Statuses = DefaultStatuses()
	}
	if r.Tasks == nil {
		r.Tasks = []Task{}
	}
}

// Clone returns a deep copy. All entities are flat values.
func (r TaskListRecord) Clone() TaskListRecord {
	out := r
	out.Categories = cloneSlice(r.Categories)
	out.Priorities = cloneSlice(r.Priorities)
	out.Statuses = cloneSlice(r.Statuses)
	out.Tasks = cloneSlice(r.Tasks)
	return out
}
