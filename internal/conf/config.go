// config.go: settings struct and functions to load and save the
// BonsaiKeeper configuration.
package conf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/viper"
)

// NodeSettings contains the top-level identity and locale settings.
type NodeSettings struct {
	Name     string // node name, used in log records
	Locale   string // language code for species common names and providers
	Timezone string // IANA timezone used when providers omit one
	DataPath string // directory for the collection database and logs
}

// LocationSettings holds the configured home location of the collection.
type LocationSettings struct {
	Latitude  float64 // latitude in decimal degrees
	Longitude float64 // longitude in decimal degrees
	Label     string  // human readable place name
}

// GeocodingSettings contains settings for the geocoding provider.
type GeocodingSettings struct {
	Endpoint string        // geocoding API base URL
	CacheTTL time.Duration // how long geocoding results stay valid
}

// AstronomySettings contains settings for the astronomy data provider.
type AstronomySettings struct {
	Endpoint    string        // astronomy API base URL
	CacheTTL    time.Duration // how long astronomy results stay valid
	Concurrency int           // max parallel per-day requests in a range fetch
}

// AdvisorySettings controls the recommendation engine.
type AdvisorySettings struct {
	LookaheadDays int  // how many days ahead recommendations cover
	LunarRule     bool // gate actions on moon phase when data is available
}

// WebServerSettings contains settings for the JSON API server.
type WebServerSettings struct {
	Enabled bool   // true to enable the API server
	Port    string // port to listen on
	Debug   bool   // true to enable API debug logging
}

// Settings is the root configuration struct.
type Settings struct {
	Debug bool // true to enable debug output

	Node      NodeSettings
	Location  LocationSettings
	Geocoding GeocodingSettings
	Astronomy AstronomySettings
	Advisory  AdvisorySettings
	WebServer WebServerSettings
}

var (
	settingsInstance *Settings
	settingsMutex    sync.RWMutex
)

// Load reads the configuration file and environment variables into Settings.
func Load() (*Settings, error) {
	settingsMutex.Lock()
	defer settingsMutex.Unlock()

	settings := &Settings{}

	if err := initViper(); err != nil {
		return nil, fmt.Errorf("error initializing viper: %w", err)
	}

	if err := viper.Unmarshal(settings); err != nil {
		return nil, fmt.Errorf("error unmarshaling config into struct: %w", err)
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}

	settingsInstance = settings
	return settingsInstance, nil
}

// GetSettings returns the current settings instance, or nil before Load.
func GetSettings() *Settings {
	settingsMutex.RLock()
	defer settingsMutex.RUnlock()
	return settingsInstance
}

// initViper initializes viper with default values and reads the configuration file.
func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	configPaths, err := GetDefaultConfigPaths()
	if err != nil {
		return fmt.Errorf("error getting default config paths: %w", err)
	}
	for _, path := range configPaths {
		viper.AddConfigPath(path)
	}

	setDefaultConfig()

	err = viper.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			// Config file not found, run on defaults
			return nil
		}
		return fmt.Errorf("fatal error reading config file: %w", err)
	}

	return nil
}

// GetDefaultConfigPaths returns the search paths for config.yaml, the user
// config directory first, then the working directory.
func GetDefaultConfigPaths() ([]string, error) {
	paths := []string{}

	if configDir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, "bonsaikeeper"))
	}
	paths = append(paths, ".")

	if len(paths) == 0 {
		return nil, fmt.Errorf("no config paths available")
	}
	return paths, nil
}

// TimezoneLocation resolves the configured timezone, falling back to the system
// local zone when unset or invalid.
func (s *Settings) TimezoneLocation() *time.Location {
	if s.Node.Timezone != "" {
		if loc, err := time.LoadLocation(s.Node.Timezone); err == nil {
			return loc
		}
	}
	return time.Local
}
