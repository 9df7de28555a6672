// Package model defines the domain types shared by the care scheduler,
// species resolver, geo-astronomy gateway and advisory engine.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Hemisphere is the derived north/south classification of a location.
type Hemisphere string

const (
	HemisphereNorth Hemisphere = "N"
	HemisphereSouth Hemisphere = "S"
)

// HemisphereOf derives the hemisphere from a latitude. Zero latitude
// counts as north.
func HemisphereOf(lat float64) Hemisphere {
	if lat >= 0 {
		return HemisphereNorth
	}
	return HemisphereSouth
}

// Location is a resolved geographic place with timezone and hemisphere.
// Created by geocoding a query or reverse-geocoding device coordinates.
type Location struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Timezone   string     `json:"timezone"`
	Hemisphere Hemisphere `json:"hemisphere"`
	Label      string     `json:"label"`
}

// AstronomyDay holds the astronomical data for one calendar day.
// Optional fields are nil when the provider could not supply them.
type AstronomyDay struct {
	Date      string     `json:"date"` // YYYY-MM-DD
	Sunrise   *time.Time `json:"sunrise,omitempty"`
	Sunset    *time.Time `json:"sunset,omitempty"`
	MoonPhase *float64   `json:"moonPhase,omitempty"` // fraction in [0,1), 0 = new moon
	Moonrise  *time.Time `json:"moonrise,omitempty"`
	Moonset   *time.Time `json:"moonset,omitempty"`
}

// CareTask is a recurring task on a plant. A task that has never been
// completed has a zero LastDoneAt and is surfaced as due immediately.
type CareTask struct {
	Key           string    `json:"key"`
	Label         string    `json:"label"`
	FrequencyDays int       `json:"frequencyDays"`
	LastDoneAt    time.Time `json:"lastDoneAt,omitempty"`
}

// NeverDone reports whether the task has no completion on record.
func (t *CareTask) NeverDone() bool {
	return t.LastDoneAt.IsZero()
}

// CareLogEntry records a completed care action in a plant's history.
type CareLogEntry struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"` // "care"
	TaskKey string    `json:"key"`
	At      time.Time `json:"at"`
}

// PlantRecord is one plant in the collection. Tasks and History are
// mutated only through the care scheduler.
type PlantRecord struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	SpeciesQuery string         `json:"speciesQuery"`
	CreatedAt    time.Time      `json:"createdAt"`
	Tasks        []CareTask     `json:"tasks"`
	History      []CareLogEntry `json:"history"`
}

// NewPlantRecord creates a plant with a fresh ID and creation time.
func NewPlantRecord(name, speciesQuery string, now time.Time) PlantRecord {
	return PlantRecord{
		ID:           uuid.NewString(),
		Name:         name,
		SpeciesQuery: speciesQuery,
		CreatedAt:    now,
	}
}

// Task returns a pointer to the task with the given key, or nil.
func (p *PlantRecord) Task(key string) *CareTask {
	for i := range p.Tasks {
		if p.Tasks[i].Key == key {
			return &p.Tasks[i]
		}
	}
	return nil
}
