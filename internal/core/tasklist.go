package core

import (
	"context"
	"slices"
	"time"

	"lifetrack/pkg/calendar"
	"lifetrack/pkg/domain"
)

// TaskListStore owns the categorised task list.
type TaskListStore struct {
	*recordStore[domain.TaskListRecord]
}

// TaskListStats summarises the task list against the current calendar day.
type TaskListStats struct {
	Total        int `json:"total"`
	Completed    int `json:"completed"`
	Today        int `json:"today"`
	Overdue      int `json:"overdue"`
	NotCompleted int `json:"notCompleted"`
	Percentage   int `json:"percentage"`
}

var taskListCodec = recordCodec[domain.TaskListRecord]{
	fresh:     func(time.Time) domain.TaskListRecord { return domain.DefaultTaskListRecord() },
	normalize: (*domain.TaskListRecord).Normalize,
	clone:     domain.TaskListRecord.Clone,
}

// NewTaskListStore loads the task-list record from slots.
func NewTaskListStore(ctx context.Context, slots domain.SlotStore, opts ...Option) (*TaskListStore, error) {
	rs, err := openRecordStore(ctx, domain.SlotTaskList, slots, taskListCodec, opts)
	if err != nil {
		return nil, err
	}
	return &TaskListStore{recordStore: rs}, nil
}

// Record returns a copy of the current record.
func (s *TaskListStore) Record() domain.TaskListRecord { return s.snapshot() }

// Tasks returns a copy of the tasks in insertion order.
func (s *TaskListStore) Tasks() []domain.Task {
	var tasks []domain.Task
	s.view(func(r *domain.TaskListRecord) { tasks = slices.Clone(r.Tasks) })
	return tasks
}

// CompleteSetup marks the task list as configured.
func (s *TaskListStore) CompleteSetup(ctx context.Context) error {
	return s.mutate(ctx, "tasks.complete_setup", func(r *domain.TaskListRecord) bool {
		r.IsSetupComplete = true
		return true
	})
}

// AddTask appends a task built from draft. Empty priority, status and
// category fall back to medium, not-started and the first category.
func (s *TaskListStore) AddTask(ctx context.Context, draft domain.TaskDraft) (domain.Task, error) {
	var created domain.Task
	err := s.mutate(ctx, "tasks.add_task", func(r *domain.TaskListRecord) bool {
		created = domain.Task{
			ID:        s.newID(),
			Text:      draft.Text,
			DueDate:   draft.DueDate,
			Priority:  draft.Priority,
			Status:    draft.Status,
			Category:  draft.Category,
			Note:      draft.Note,
			CreatedAt: s.now().UTC(),
		}
		if created.Priority == "" {
			created.Priority = domain.PriorityMedium
		}
		if created.Status == "" {
			created.Status = domain.StatusNotStarted
		}
		if created.Category == "" && len(r.Categories) > 0 {
			created.Category = r.Categories[0].ID
		}
		r.Tasks = append(r.Tasks, created)
		return true
	})
	return created, err
}

// UpdateTask merges the set fields of patch into a task. Editing the status
// does not touch the completed flag.
func (s *TaskListStore) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) error {
	return s.mutate(ctx, "tasks.update_task", func(r *domain.TaskListRecord) bool {
		i := s.indexOf(r, id)
		if i < 0 {
			return false
		}
		r.Tasks[i] = patch.Apply(r.Tasks[i])
		return true
	})
}

// ToggleTaskComplete flips completion and moves the status to done or back
// to not-started along with it.
func (s *TaskListStore) ToggleTaskComplete(ctx context.Context, id string) error {
	return s.mutate(ctx, "tasks.toggle_complete", func(r *domain.TaskListRecord) bool {
		i := s.indexOf(r, id)
		if i < 0 {
			return false
		}
		t := &r.Tasks[i]
		t.Completed = !t.Completed
		if t.Completed {
			t.Status = domain.StatusDone
		} else {
			t.Status = domain.StatusNotStarted
		}
		return true
	})
}

// DeleteTask removes a task.
func (s *TaskListStore) DeleteTask(ctx context.Context, id string) error {
	return s.mutate(ctx, "tasks.delete_task", func(r *domain.TaskListRecord) bool {
		n := len(r.Tasks)
		r.Tasks = slices.DeleteFunc(r.Tasks, func(t domain.Task) bool { return t.ID == id })
		return len(r.Tasks) != n
	})
}

// AddCategory appends a category.
func (s *TaskListStore) AddCategory(ctx context.Context, name, emoji string) (domain.Category, error) {
	var created domain.Category
	err := s.mutate(ctx, "tasks.add_category", func(r *domain.TaskListRecord) bool {
		created = domain.Category{ID: s.newID(), Name: name, Emoji: emoji}
		r.Categories = append(r.Categories, created)
		return true
	})
	return created, err
}

// DeleteCategory removes a category. Tasks keep their category id.
func (s *TaskListStore) DeleteCategory(ctx context.Context, id string) error {
	return s.mutate(ctx, "tasks.delete_category", func(r *domain.TaskListRecord) bool {
		n := len(r.Categories)
		r.Categories = slices.DeleteFunc(r.Categories, func(c domain.Category) bool { return c.ID == id })
		return len(r.Categories) != n
	})
}

// ResetAll restores the default record and clears the slot.
func (s *TaskListStore) ResetAll(ctx context.Context) error {
	return s.reset(ctx, "tasks.reset_all")
}

// Stats counts tasks relative to the clock's calendar day. A task is overdue
// when it is open and due strictly before today.
func (s *TaskListStore) Stats() TaskListStats {
	now := today(s.opts.clock)
	var stats TaskListStats
	s.view(func(r *domain.TaskListRecord) {
		stats.Total = len(r.Tasks)
		for _, t := range r.Tasks {
			if t.Completed {
				stats.Completed++
			} else {
				stats.NotCompleted++
			}
			if t.DueDate == "" {
				continue
			}
			due, err := calendar.Parse(t.DueDate)
			if err != nil {
				continue
			}
			if due.Equal(now) {
				stats.Today++
			}
			if !t.Completed && due.Before(now) {
				stats.Overdue++
			}
		}
	})
	stats.Percentage = percent(stats.Completed, stats.Total)
	return stats
}

func (s *TaskListStore) indexOf(r *domain.TaskListRecord, id string) int {
	return slices.IndexFunc(r.Tasks, func(t domain.Task) bool { return t.ID == id })
}
