// conf/validate.go

package conf

import (
	"fmt"
	"math"
	"strconv"
)

// ValidationError represents a collection of validation errors
type ValidationError struct {
	Errors []string
}

// Error returns a string representation of the validation errors
func (ve ValidationError) Error() string {
	return fmt.Sprintf("Validation errors: %v", ve.Errors)
}

// ValidateSettings validates the entire Settings struct
func ValidateSettings(settings *Settings) error {
	ve := ValidationError{}

	if err := validateLocationSettings(&settings.Location); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateAstronomySettings(&settings.Astronomy); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateAdvisorySettings(&settings.Advisory); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}
	if err := validateWebServerSettings(&settings.WebServer); err != nil {
		ve.Errors = append(ve.Errors, err.Error())
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}

// ValidCoordinates reports whether lat/lon form a usable coordinate pair.
func ValidCoordinates(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// HasLocation reports whether a usable location has been configured.
// The zero value, coordinates (0, 0) with no label, means unconfigured
// rather than the Gulf of Guinea.
func HasLocation(location *LocationSettings) bool {
	if !ValidCoordinates(location.Latitude, location.Longitude) {
		return false
	}
	return location.Latitude != 0 || location.Longitude != 0 || location.Label != ""
}

func validateLocationSettings(location *LocationSettings) error {
	if !ValidCoordinates(location.Latitude, location.Longitude) {
		return fmt.Errorf("location coordinates out of range: lat %.4f lon %.4f",
			location.Latitude, location.Longitude)
	}
	return nil
}

func validateAstronomySettings(astronomy *AstronomySettings) error {
	if astronomy.Concurrency < 1 {
		return fmt.Errorf("astronomy concurrency must be at least 1, got %d", astronomy.Concurrency)
	}
	return nil
}

func validateAdvisorySettings(advisory *AdvisorySettings) error {
	if advisory.LookaheadDays < 1 {
		return fmt.Errorf("advisory lookahead must be at least 1 day, got %d", advisory.LookaheadDays)
	}
	return nil
}

func validateWebServerSettings(ws *WebServerSettings) error {
	if !ws.Enabled {
		return nil
	}
	port, err := strconv.Atoi(ws.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid web server port: %s", ws.Port)
	}
	return nil
}
