package datastore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/errors"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

func openTestStore(t *testing.T) *PlantStore {
	t.Helper()

	store := New(&conf.Settings{Node: conf.NodeSettings{DataPath: ":memory:"}})
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})
	return store
}

func testPlant(t *testing.T) model.PlantRecord {
	t.Helper()

	created := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	plant := model.NewPlantRecord("Office fig", "ficus", created)
	plant.Tasks = []model.CareTask{
		{Key: "watering", Label: "Watering", FrequencyDays: 2, LastDoneAt: created},
		{Key: "pruning", Label: "Pruning", FrequencyDays: 30},
	}
	plant.History = []model.CareLogEntry{
		{ID: "entry-1", Type: "care", TaskKey: "watering", At: created},
	}
	return plant
}

func TestPlantStore_SaveAndGet(t *testing.T) {
	store := openTestStore(t)
	plant := testPlant(t)

	require.NoError(t, store.SavePlant(&plant))

	loaded, err := store.GetPlant(plant.ID)
	require.NoError(t, err)
	assert.Equal(t, plant.Name, loaded.Name)
	assert.Equal(t, plant.SpeciesQuery, loaded.SpeciesQuery)
	require.Len(t, loaded.Tasks, 2)
	assert.True(t, loaded.Tasks[0].LastDoneAt.Equal(plant.Tasks[0].LastDoneAt))
	assert.True(t, loaded.Tasks[1].NeverDone())
	require.Len(t, loaded.History, 1)
	assert.Equal(t, "watering", loaded.History[0].TaskKey)
}

func TestPlantStore_SaveUpdatesExisting(t *testing.T) {
	store := openTestStore(t)
	plant := testPlant(t)

	require.NoError(t, store.SavePlant(&plant))
	plant.Name = "Renamed fig"
	require.NoError(t, store.SavePlant(&plant))

	plants, err := store.ListPlants()
	require.NoError(t, err)
	require.Len(t, plants, 1)
	assert.Equal(t, "Renamed fig", plants[0].Name)
}

func TestPlantStore_GetPlantNotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetPlant("no-such-plant")

	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestPlantStore_ListPlantsOrdered(t *testing.T) {
	store := openTestStore(t)

	older := model.NewPlantRecord("Older", "juniper", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := model.NewPlantRecord("Newer", "maple", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.SavePlant(&newer))
	require.NoError(t, store.SavePlant(&older))

	plants, err := store.ListPlants()
	require.NoError(t, err)
	require.Len(t, plants, 2)
	assert.Equal(t, "Older", plants[0].Name)
	assert.Equal(t, "Newer", plants[1].Name)
}

func TestPlantStore_DeletePlant(t *testing.T) {
	store := openTestStore(t)
	plant := testPlant(t)

	require.NoError(t, store.SavePlant(&plant))
	require.NoError(t, store.DeletePlant(plant.ID))

	_, err := store.GetPlant(plant.ID)
	require.Error(t, err)

	// Deleting an unknown ID is a no-op.
	require.NoError(t, store.DeletePlant("no-such-plant"))
}

func TestPlantStore_NotOpen(t *testing.T) {
	store := New(nil)

	require.Error(t, store.SavePlant(&model.PlantRecord{}))
	_, err := store.GetPlant("x")
	require.Error(t, err)
	_, err = store.ListPlants()
	require.Error(t, err)
	require.Error(t, store.DeletePlant("x"))
}
