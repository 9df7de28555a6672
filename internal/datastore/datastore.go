// Package datastore persists plant records in SQLite through GORM.
// Tasks and care history travel as JSON columns; the row schema stays
// flat so migrations remain trivial.
package datastore

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/bonsaikeeper/bonsaikeeper-go/internal/conf"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/errors"
	"github.com/bonsaikeeper/bonsaikeeper-go/internal/model"
)

// slowQueryThreshold marks queries worth logging; plant collections are
// tiny so anything slower than this indicates real trouble.
const slowQueryThreshold = 1 * time.Second

// Store is the persistence interface for plant records.
type Store interface {
	Open() error
	Close() error
	SavePlant(plant *model.PlantRecord) error
	GetPlant(id string) (model.PlantRecord, error)
	ListPlants() ([]model.PlantRecord, error)
	DeletePlant(id string) error
}

// PlantStore implements Store on SQLite.
type PlantStore struct {
	DB       *gorm.DB
	Settings *conf.Settings
}

// New creates a store from settings; call Open before use.
func New(settings *conf.Settings) *PlantStore {
	return &PlantStore{Settings: settings}
}

// plantRow is the flat persisted form of a plant record.
type plantRow struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	SpeciesQuery string
	CreatedAt    time.Time
	Tasks        string `gorm:"type:text"`
	History      string `gorm:"type:text"`
}

func (plantRow) TableName() string {
	return "plants"
}

// Open connects to the SQLite database and migrates the schema.
func (store *PlantStore) Open() error {
	path := store.databasePath()
	if dir := filepath.Dir(path); dir != "." && dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.New(err).
				Component("datastore").
				Category(errors.CategoryFileIO).
				Context("path", dir).
				Build()
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: createGormLogger()})
	if err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("path", path).
			Build()
	}

	if err := db.AutoMigrate(&plantRow{}); err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("operation", "auto_migrate").
			Build()
	}

	store.DB = db
	return nil
}

// Close releases the underlying connection.
func (store *PlantStore) Close() error {
	if store.DB == nil {
		return nil
	}
	sqlDB, err := store.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SavePlant inserts or updates a plant record.
func (store *PlantStore) SavePlant(plant *model.PlantRecord) error {
	if store.DB == nil {
		return errNotOpen()
	}

	row, err := toRow(plant)
	if err != nil {
		return err
	}
	if err := store.DB.Save(&row).Error; err != nil {
		log.Printf("Failed to save plant %s: %v", plant.ID, err)
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("plant_id", plant.ID).
			Build()
	}
	return nil
}

// GetPlant returns a plant record by ID.
func (store *PlantStore) GetPlant(id string) (model.PlantRecord, error) {
	if store.DB == nil {
		return model.PlantRecord{}, errNotOpen()
	}

	var row plantRow
	err := store.DB.First(&row, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return model.PlantRecord{}, errors.Newf("plant %s not found", id).
			Component("datastore").
			Category(errors.CategoryNotFound).
			Build()
	case err != nil:
		return model.PlantRecord{}, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("plant_id", id).
			Build()
	}
	return fromRow(&row)
}

// ListPlants returns all plant records ordered by creation time.
func (store *PlantStore) ListPlants() ([]model.PlantRecord, error) {
	if store.DB == nil {
		return nil, errNotOpen()
	}

	var rows []plantRow
	if err := store.DB.Order("created_at").Find(&rows).Error; err != nil {
		return nil, errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Build()
	}

	plants := make([]model.PlantRecord, 0, len(rows))
	for i := range rows {
		plant, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		plants = append(plants, plant)
	}
	return plants, nil
}

// DeletePlant removes a plant record. Deleting an unknown ID is not an
// error.
func (store *PlantStore) DeletePlant(id string) error {
	if store.DB == nil {
		return errNotOpen()
	}
	if err := store.DB.Delete(&plantRow{}, "id = ?", id).Error; err != nil {
		return errors.New(err).
			Component("datastore").
			Category(errors.CategoryDatabase).
			Context("plant_id", id).
			Build()
	}
	return nil
}

func (store *PlantStore) databasePath() string {
	if store.Settings == nil || store.Settings.Node.DataPath == "" {
		return "bonsaikeeper.db"
	}
	if store.Settings.Node.DataPath == ":memory:" {
		return ":memory:"
	}
	return filepath.Join(store.Settings.Node.DataPath, "bonsaikeeper.db")
}

func toRow(plant *model.PlantRecord) (plantRow, error) {
	tasks, err := json.Marshal(plant.Tasks)
	if err != nil {
		return plantRow{}, marshalError(err, plant.ID)
	}
	history, err := json.Marshal(plant.History)
	if err != nil {
		return plantRow{}, marshalError(err, plant.ID)
	}
	return plantRow{
		ID:           plant.ID,
		Name:         plant.Name,
		SpeciesQuery: plant.SpeciesQuery,
		CreatedAt:    plant.CreatedAt,
		Tasks:        string(tasks),
		History:      string(history),
	}, nil
}

func fromRow(row *plantRow) (model.PlantRecord, error) {
	plant := model.PlantRecord{
		ID:           row.ID,
		Name:         row.Name,
		SpeciesQuery: row.SpeciesQuery,
		CreatedAt:    row.CreatedAt,
	}
	if row.Tasks != "" {
		if err := json.Unmarshal([]byte(row.Tasks), &plant.Tasks); err != nil {
			return model.PlantRecord{}, marshalError(err, row.ID)
		}
	}
	if row.History != "" {
		if err := json.Unmarshal([]byte(row.History), &plant.History); err != nil {
			return model.PlantRecord{}, marshalError(err, row.ID)
		}
	}
	return plant, nil
}

func marshalError(err error, plantID string) error {
	return errors.New(err).
		Component("datastore").
		Category(errors.CategoryDatabase).
		Context("plant_id", plantID).
		Context("operation", "serialize").
		Build()
}

func errNotOpen() error {
	return errors.Newf("database connection is not initialized").
		Component("datastore").
		Category(errors.CategoryState).
		Build()
}

// createGormLogger configures the GORM logger: quiet by default, loud on
// slow queries and errors.
func createGormLogger() gormlogger.Interface {
	return gormlogger.New(
		log.New(os.Stderr, "", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             slowQueryThreshold,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
}
