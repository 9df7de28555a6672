package care

import (
	"testing"
	"time"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/species"
)

var baseTime = time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)

func testPlant() model.PlantRecord {
	plant := model.NewPlantRecord("Fig", "ficus", baseTime)
	plant.Tasks = DefaultTasks()
	return plant
}

func TestDueDate(t *testing.T) {
	t.Parallel()

	task := &model.CareTask{Key: "watering", FrequencyDays: 2, LastDoneAt: baseTime}
	due, done := DueDate(task)
	if !done {
		t.Fatal("expected a due date for a completed task")
	}
	want := baseTime.Add(48 * time.Hour)
	if !due.Equal(want) {
		t.Errorf("DueDate = %v, want %v", due, want)
	}
}

func TestDueDateNeverDone(t *testing.T) {
	t.Parallel()

	task := &model.CareTask{Key: "watering", FrequencyDays: 2}
	if _, done := DueDate(task); done {
		t.Error("never-done task must not report a due date")
	}
}

func TestIsOverdueBoundary(t *testing.T) {
	t.Parallel()

	task := &model.CareTask{Key: "watering", FrequencyDays: 2, LastDoneAt: baseTime}
	due := baseTime.Add(48 * time.Hour)

	if IsOverdue(task, due.Add(-time.Second)) {
		t.Error("task must not be overdue one second before the due date")
	}
	if !IsOverdue(task, due) {
		t.Error("task must be overdue exactly at the due date")
	}
}

func TestStatusStates(t *testing.T) {
	t.Parallel()

	never := &model.CareTask{Key: "pruning", FrequencyDays: 30}
	if got := Status(never, baseTime); got.State != StateNever {
		t.Errorf("never-done task state = %q, want %q", got.State, StateNever)
	}

	done := &model.CareTask{Key: "watering", FrequencyDays: 2, LastDoneAt: baseTime}
	if got := Status(done, baseTime.Add(24*time.Hour)); got.State != StateUpcoming || got.DaysLeft != 1 {
		t.Errorf("upcoming task = %+v, want upcoming with 1 day left", got)
	}
	if got := Status(done, baseTime.Add(72*time.Hour)); got.State != StateOverdue {
		t.Errorf("overdue task state = %q, want %q", got.State, StateOverdue)
	}
}

func TestMarkDoneAppendsHistory(t *testing.T) {
	t.Parallel()

	plant := testPlant()
	now := baseTime.Add(time.Hour)

	updated, err := MarkDone(plant, "watering", now)
	if err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}

	task := updated.Task("watering")
	if !task.LastDoneAt.Equal(now) {
		t.Errorf("LastDoneAt = %v, want %v", task.LastDoneAt, now)
	}
	if len(updated.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(updated.History))
	}
	entry := updated.History[0]
	if entry.Type != "care" || entry.TaskKey != "watering" || !entry.At.Equal(now) {
		t.Errorf("unexpected history entry: %+v", entry)
	}

	// Original plant must be untouched.
	if !plant.Task("watering").NeverDone() {
		t.Error("MarkDone mutated its input")
	}

	// Repeated calls just advance LastDoneAt.
	later := now.Add(48 * time.Hour)
	updated, err = MarkDone(updated, "watering", later)
	if err != nil {
		t.Fatalf("second MarkDone error: %v", err)
	}
	if !updated.Task("watering").LastDoneAt.Equal(later) {
		t.Error("second MarkDone did not advance LastDoneAt")
	}
	if len(updated.History) != 2 {
		t.Errorf("history length = %d, want 2", len(updated.History))
	}
}

func TestMarkDoneUnknownTask(t *testing.T) {
	t.Parallel()

	if _, err := MarkDone(testPlant(), "repainting", baseTime); err == nil {
		t.Fatal("expected an error for an unknown task key")
	}
}

func TestUndoCareEntry(t *testing.T) {
	t.Parallel()

	plant := testPlant()
	now := baseTime.Add(time.Hour)

	plant, err := MarkDone(plant, "watering", now)
	if err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}
	entryID := plant.History[0].ID

	undone, err := UndoCareEntry(plant, entryID, now)
	if err != nil {
		t.Fatalf("UndoCareEntry error: %v", err)
	}
	if len(undone.History) != 0 {
		t.Errorf("history length after undo = %d, want 0", len(undone.History))
	}

	// The task must read as due again immediately.
	task := undone.Task("watering")
	if !IsOverdue(task, now) {
		t.Error("undone task must be due immediately")
	}
}

func TestUndoCareEntryUnknownEntry(t *testing.T) {
	t.Parallel()

	if _, err := UndoCareEntry(testPlant(), "no-such-entry", baseTime); err == nil {
		t.Fatal("expected an error for an unknown history entry")
	}
}

func TestMergeSpeciesTasks(t *testing.T) {
	t.Parallel()

	plant := testPlant()
	var err error
	plant, err = MarkDone(plant, "watering", baseTime)
	if err != nil {
		t.Fatalf("MarkDone error: %v", err)
	}

	merged := MergeSpeciesTasks(plant, []species.TaskDefault{
		{Key: "watering", Label: "Light watering", FrequencyDays: 3}, // override
		{Key: "defoliation", Label: "Partial defoliation", FrequencyDays: 180},
	})

	if len(merged.Tasks) != len(DefaultTasks())+1 {
		t.Fatalf("merged task count = %d, want %d", len(merged.Tasks), len(DefaultTasks())+1)
	}

	watering := merged.Task("watering")
	if watering.FrequencyDays != 3 || watering.Label != "Light watering" {
		t.Errorf("species override not applied: %+v", watering)
	}
	if !watering.LastDoneAt.Equal(baseTime) {
		t.Error("completion state must carry over through a merge")
	}

	if merged.Task("defoliation") == nil {
		t.Error("species-specific task missing after merge")
	}
}
