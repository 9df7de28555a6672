// Package care computes due dates and overdue status for a plant's
// recurring task list and applies or undoes completion events.
package care

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/errors"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

// TaskState classifies a task relative to now. A never-done task is a
// distinct state, not conflated with overdue.
type TaskState string

const (
	StateNever    TaskState = "never"
	StateOverdue  TaskState = "overdue"
	StateUpcoming TaskState = "upcoming"
)

// TaskStatus is the computed schedule position of one task.
type TaskStatus struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	State    TaskState `json:"state"`
	DueAt    time.Time `json:"dueAt,omitempty"`    // zero for never-done tasks
	DaysLeft int       `json:"daysLeft,omitempty"` // ceiling of time to due, 0 when due or overdue
}

// DueDate returns when the task next requires action. The second return
// is false for a never-done task, which is due immediately.
func DueDate(task *model.CareTask) (time.Time, bool) {
	if task.NeverDone() {
		return time.Time{}, false
	}
	return task.LastDoneAt.Add(time.Duration(task.FrequencyDays) * 24 * time.Hour), true
}

// IsOverdue reports whether a task with a completion on record has
// reached its due date. Never-done tasks report false here; they are
// surfaced through StateNever instead.
func IsOverdue(task *model.CareTask, now time.Time) bool {
	due, done := DueDate(task)
	if !done {
		return false
	}
	return !now.Before(due)
}

// Status computes the schedule position of a task at the given time.
func Status(task *model.CareTask, now time.Time) TaskStatus {
	status := TaskStatus{Key: task.Key, Label: task.Label}

	due, done := DueDate(task)
	switch {
	case !done:
		status.State = StateNever
	case !now.Before(due):
		status.State = StateOverdue
		status.DueAt = due
	default:
		status.State = StateUpcoming
		status.DueAt = due
		status.DaysLeft = int((due.Sub(now) + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	}
	return status
}

// Statuses computes the status of every task on a plant.
func Statuses(plant *model.PlantRecord, now time.Time) []TaskStatus {
	statuses := make([]TaskStatus, 0, len(plant.Tasks))
	for i := range plant.Tasks {
		statuses = append(statuses, Status(&plant.Tasks[i], now))
	}
	return statuses
}

// MarkDone records a completion for the task with the given key: it sets
// LastDoneAt, appends a history entry and returns the updated plant.
// Repeated calls just advance LastDoneAt.
func MarkDone(plant model.PlantRecord, taskKey string, now time.Time) (model.PlantRecord, error) {
	plant.Tasks = slices.Clone(plant.Tasks)
	plant.History = slices.Clone(plant.History)

	task := plant.Task(taskKey)
	if task == nil {
		return plant, errors.Newf("plant %q has no task %q", plant.Name, taskKey).
			Component("care").
			Category(errors.CategoryNotFound).
			Context("task_key", taskKey).
			Build()
	}

	task.LastDoneAt = now
	plant.History = append(plant.History, model.CareLogEntry{
		ID:      uuid.NewString(),
		Type:    "care",
		TaskKey: taskKey,
		At:      now,
	})
	return plant, nil
}

// UndoCareEntry removes a history entry and rewinds the associated task so
// it shows as due again. The true prior LastDoneAt is not retained, so the
// task is rewound by one full frequency interval rather than restored; the
// information loss is accepted to keep records small.
func UndoCareEntry(plant model.PlantRecord, entryID string, now time.Time) (model.PlantRecord, error) {
	plant.Tasks = slices.Clone(plant.Tasks)
	plant.History = slices.Clone(plant.History)

	idx := slices.IndexFunc(plant.History, func(e model.CareLogEntry) bool { return e.ID == entryID })
	if idx < 0 {
		return plant, errors.Newf("history entry %q not found", entryID).
			Component("care").
			Category(errors.CategoryNotFound).
			Context("entry_id", entryID).
			Build()
	}

	entry := plant.History[idx]
	plant.History = slices.Delete(plant.History, idx, idx+1)

	if task := plant.Task(entry.TaskKey); task != nil && !task.NeverDone() {
		task.LastDoneAt = now.Add(-time.Duration(task.FrequencyDays) * 24 * time.Hour)
	}
	return plant, nil
}
