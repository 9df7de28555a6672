package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/care"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

// PlantResponse is a plant record with computed task statuses.
type PlantResponse struct {
	model.PlantRecord
	Statuses []care.TaskStatus `json:"statuses"`
}

func (c *Controller) plantResponse(plant *model.PlantRecord) PlantResponse {
	return PlantResponse{
		PlantRecord: *plant,
		Statuses:    care.Statuses(plant, c.now()),
	}
}

// ListPlants returns every plant with its task statuses.
func (c *Controller) ListPlants(ctx echo.Context) error {
	plants, err := c.Store.ListPlants()
	if err != nil {
		return c.HandleError(ctx, err, "Failed to list plants", http.StatusInternalServerError)
	}

	responses := make([]PlantResponse, 0, len(plants))
	for i := range plants {
		responses = append(responses, c.plantResponse(&plants[i]))
	}
	return ctx.JSON(http.StatusOK, responses)
}

// CreatePlantRequest is the body for POST /plants.
type CreatePlantRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
}

// CreatePlant creates a plant with the default task set, merged with the
// species defaults when the species query resolves.
func (c *Controller) CreatePlant(ctx echo.Context) error {
	var req CreatePlantRequest
	if err := ctx.Bind(&req); err != nil {
		return c.HandleError(ctx, err, "Invalid request body", http.StatusBadRequest)
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.HandleError(ctx, nil, "Plant name is required", http.StatusBadRequest)
	}

	plant := model.NewPlantRecord(strings.TrimSpace(req.Name), req.Species, c.now())
	plant.Tasks = care.DefaultTasks()
	if match := c.Resolver.Resolve(req.Species); match != nil && len(match.Record.Tasks) > 0 {
		plant = care.MergeSpeciesTasks(plant, match.Record.Tasks)
	}

	if err := c.Store.SavePlant(&plant); err != nil {
		return c.HandleError(ctx, err, "Failed to save plant", http.StatusInternalServerError)
	}

	logger.Info("Created plant", "plant_id", plant.ID, "name", plant.Name, "species", plant.SpeciesQuery)
	return ctx.JSON(http.StatusCreated, c.plantResponse(&plant))
}

// GetPlant returns one plant by ID.
func (c *Controller) GetPlant(ctx echo.Context) error {
	plant, err := c.Store.GetPlant(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}
	return ctx.JSON(http.StatusOK, c.plantResponse(&plant))
}

// DeletePlant removes a plant by ID.
func (c *Controller) DeletePlant(ctx echo.Context) error {
	if err := c.Store.DeletePlant(ctx.Param("id")); err != nil {
		return c.HandleError(ctx, err, "Failed to delete plant", http.StatusInternalServerError)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// MarkTaskDone records a task completion and returns the updated plant.
func (c *Controller) MarkTaskDone(ctx echo.Context) error {
	plant, err := c.Store.GetPlant(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}

	updated, err := care.MarkDone(plant, ctx.Param("key"), c.now())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to mark task done", http.StatusInternalServerError)
	}
	if err := c.Store.SavePlant(&updated); err != nil {
		return c.HandleError(ctx, err, "Failed to save plant", http.StatusInternalServerError)
	}

	logger.Info("Marked task done", "plant_id", updated.ID, "task_key", ctx.Param("key"))
	return ctx.JSON(http.StatusOK, c.plantResponse(&updated))
}

// UndoCareEntry removes a care history entry; the task rewinds by one
// full interval so it reads as due again.
func (c *Controller) UndoCareEntry(ctx echo.Context) error {
	plant, err := c.Store.GetPlant(ctx.Param("id"))
	if err != nil {
		return c.HandleError(ctx, err, "Failed to get plant", http.StatusInternalServerError)
	}

	updated, err := care.UndoCareEntry(plant, ctx.Param("entry"), c.now())
	if err != nil {
		return c.HandleError(ctx, err, "Failed to undo care entry", http.StatusInternalServerError)
	}
	if err := c.Store.SavePlant(&updated); err != nil {
		return c.HandleError(ctx, err, "Failed to save plant", http.StatusInternalServerError)
	}

	logger.Info("Undid care entry", "plant_id", updated.ID, "entry_id", ctx.Param("entry"))
	return ctx.JSON(http.StatusOK, c.plantResponse(&updated))
}
