package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/advisory"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/datastore"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/species"
)

var testNow = time.Date(2024, 2, 10, 12, 0, 0, 0, time.UTC)

// stubGateway is a scriptable AdvisoryGateway.
type stubGateway struct {
	location     model.Location
	locationErr  error
	days         []model.AstronomyDay
	astronomyErr error
}

func (s *stubGateway) Geocode(query, lang string) (model.Location, error) {
	return s.location, s.locationErr
}

func (s *stubGateway) ReverseGeocode(lat, lon float64, lang string) (model.Location, error) {
	return s.location, s.locationErr
}

func (s *stubGateway) FetchAstronomyDays(lat, lon float64, timezone, start, end string) ([]model.AstronomyDay, error) {
	return s.days, s.astronomyErr
}

func testSettings() *conf.Settings {
	return &conf.Settings{
		Node: conf.NodeSettings{Locale: "en", Timezone: "UTC", DataPath: ":memory:"},
		Location: conf.LocationSettings{
			Latitude:  60.1699,
			Longitude: 24.9384,
			Label:     "Helsinki",
		},
		Advisory: conf.AdvisorySettings{LookaheadDays: 7, LunarRule: true},
	}
}

func newTestController(t *testing.T, gateway AdvisoryGateway) *Controller {
	t.Helper()

	settings := testSettings()

	store := datastore.New(settings)
	require.NoError(t, store.Open())
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	catalog, err := species.DefaultCatalog()
	require.NoError(t, err)

	c := New(echo.New(), store, settings, species.NewResolver(catalog), gateway, advisory.New(nil))
	c.now = func() time.Time { return testNow }
	return c
}

func doRequest(c *Controller, method, target, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c.Echo.ServeHTTP(rec, req)
	return rec
}

func createPlant(t *testing.T, c *Controller, name, speciesQuery string) PlantResponse {
	t.Helper()

	body := fmt.Sprintf(`{"name": %q, "species": %q}`, name, speciesQuery)
	rec := doRequest(c, http.MethodPost, "/api/v1/plants", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var plant PlantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plant))
	return plant
}

func TestCreatePlant(t *testing.T) {
	c := newTestController(t, &stubGateway{})

	plant := createPlant(t, c, "Office fig", "ficus")

	assert.NotEmpty(t, plant.ID)
	assert.Equal(t, "Office fig", plant.Name)
	// Species defaults merge on top of the standard task set.
	assert.NotNil(t, plant.Task("watering"))
	assert.NotNil(t, plant.Task("defoliation"))
	require.NotEmpty(t, plant.Statuses)
}

func TestCreatePlantUnknownSpecies(t *testing.T) {
	c := newTestController(t, &stubGateway{})

	plant := createPlant(t, c, "Mystery tree", "pinus thunbergii")

	// An unresolved species still gets the default task set.
	assert.NotNil(t, plant.Task("watering"))
	assert.Nil(t, plant.Task("defoliation"))
}

func TestCreatePlantMissingName(t *testing.T) {
	c := newTestController(t, &stubGateway{})

	rec := doRequest(c, http.MethodPost, "/api/v1/plants", `{"species": "ficus"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPlants(t *testing.T) {
	c := newTestController(t, &stubGateway{})
	createPlant(t, c, "One", "ficus")
	createPlant(t, c, "Two", "juniper")

	rec := doRequest(c, http.MethodGet, "/api/v1/plants", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var plants []PlantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &plants))
	assert.Len(t, plants, 2)
}

func TestGetPlantNotFound(t *testing.T) {
	c := newTestController(t, &stubGateway{})

	rec := doRequest(c, http.MethodGet, "/api/v1/plants/no-such-id", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMarkTaskDoneAndUndo(t *testing.T) {
	c := newTestController(t, &stubGateway{})
	plant := createPlant(t, c, "Office fig", "ficus")

	rec := doRequest(c, http.MethodPost, "/api/v1/plants/"+plant.ID+"/tasks/watering/done", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated PlantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Len(t, updated.History, 1)
	assert.True(t, updated.Task("watering").LastDoneAt.Equal(testNow))

	rec = doRequest(c, http.MethodPost, "/api/v1/plants/"+plant.ID+"/undo/"+updated.History[0].ID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var undone PlantResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &undone))
	assert.Empty(t, undone.History)
}

func TestMarkTaskDoneUnknownTask(t *testing.T) {
	c := newTestController(t, &stubGateway{})
	plant := createPlant(t, c, "Office fig", "ficus")

	rec := doRequest(c, http.MethodPost, "/api/v1/plants/"+plant.ID+"/tasks/repainting/done", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeletePlant(t *testing.T) {
	c := newTestController(t, &stubGateway{})
	plant := createPlant(t, c, "Office fig", "ficus")

	rec := doRequest(c, http.MethodDelete, "/api/v1/plants/"+plant.ID, "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(c, http.MethodGet, "/api/v1/plants/"+plant.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveSpecies(t *testing.T) {
	c := newTestController(t, &stubGateway{})

	rec := doRequest(c, http.MethodGet, "/api/v1/species/resolve?q=ficus", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp SpeciesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ficus microcarpa", resp.Record.ScientificName)
}

func TestResolveSpeciesNoMatch(t *testing.T) {
	c := newTestController(t, &stubGateway{})

	rec := doRequest(c, http.MethodGet, "/api/v1/species/resolve?q=pinus", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestResolveSpeciesMissingQuery(t *testing.T) {
	c := newTestController(t, &stubGateway{})

	rec := doRequest(c, http.MethodGet, "/api/v1/species/resolve", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvisory(t *testing.T) {
	phase := 0.6
	gateway := &stubGateway{
		location: model.Location{
			Latitude:   60.1699,
			Longitude:  24.9384,
			Timezone:   "Europe/Helsinki",
			Hemisphere: model.HemisphereNorth,
			Label:      "Helsinki, Finland",
		},
		days: []model.AstronomyDay{
			{Date: "2024-02-10", MoonPhase: &phase},
			{Date: "2024-02-11", MoonPhase: &phase},
		},
	}
	c := newTestController(t, gateway)

	rec := doRequest(c, http.MethodGet, "/api/v1/advisory?days=2", "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var items []advisory.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 2)
	assert.Contains(t, items[0].Actions, advisory.ActionRepot)
	assert.Equal(t, advisory.PhaseWaningGibbous, items[0].PhaseName)
}

func TestAdvisoryNoLocation(t *testing.T) {
	c := newTestController(t, &stubGateway{})
	c.Settings.Location = conf.LocationSettings{}

	rec := doRequest(c, http.MethodGet, "/api/v1/advisory", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdvisoryInvalidDays(t *testing.T) {
	c := newTestController(t, &stubGateway{})

	rec := doRequest(c, http.MethodGet, "/api/v1/advisory?days=zero", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
