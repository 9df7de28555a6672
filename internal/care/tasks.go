package care

import (
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/species"
)

// defaultTasks is the built-in checklist every plant starts with.
var defaultTasks = []model.CareTask{
	{Key: "watering", Label: "Watering", FrequencyDays: 2},
	{Key: "fertilizing", Label: "Fertilizing", FrequencyDays: 14},
	{Key: "pruning", Label: "Pruning/Pinching", FrequencyDays: 30},
	{Key: "rotation", Label: "Pot rotation", FrequencyDays: 7},
	{Key: "pest-check", Label: "Pest check", FrequencyDays: 7},
}

// DefaultTasks returns a fresh copy of the built-in task set, all
// never-done.
func DefaultTasks() []model.CareTask {
	tasks := make([]model.CareTask, len(defaultTasks))
	copy(tasks, defaultTasks)
	return tasks
}

// MergeSpeciesTasks builds the effective task list for a plant: the union
// of the built-in defaults and the species-specific checklist, keyed by
// task key, with species entries overriding built-ins of the same key.
// Completion state for any existing key carries over unchanged.
func MergeSpeciesTasks(plant model.PlantRecord, speciesTasks []species.TaskDefault) model.PlantRecord {
	merged := DefaultTasks()

	for _, st := range speciesTasks {
		override := model.CareTask{Key: st.Key, Label: st.Label, FrequencyDays: st.FrequencyDays}
		replaced := false
		for i := range merged {
			if merged[i].Key == st.Key {
				merged[i] = override
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, override)
		}
	}

	// Carry over completion state from the plant's current tasks.
	for i := range merged {
		if existing := plant.Task(merged[i].Key); existing != nil {
			merged[i].LastDoneAt = existing.LastDoneAt
		}
	}

	plant.Tasks = merged
	return plant
}
