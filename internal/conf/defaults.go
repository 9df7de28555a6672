// conf/defaults.go default values for settings
package conf

import (
	"time"

	"github.com/spf13/viper"
)

// Sets default values for the configuration.
func setDefaultConfig() {
	viper.SetDefault("debug", false)

	viper.SetDefault("node.name", "BonsaiKeeper-Go")
	viper.SetDefault("node.locale", "en")
	viper.SetDefault("node.timezone", "")
	viper.SetDefault("node.datapath", "data/")

	viper.SetDefault("location.latitude", 0.000)
	viper.SetDefault("location.longitude", 0.000)
	viper.SetDefault("location.label", "")

	viper.SetDefault("geocoding.endpoint", "https://geocoding-api.open-meteo.com/v1")
	viper.SetDefault("geocoding.cachettl", 24*time.Hour)

	viper.SetDefault("astronomy.endpoint", "https://api.open-meteo.com/v1")
	viper.SetDefault("astronomy.cachettl", 6*time.Hour)
	viper.SetDefault("astronomy.concurrency", 4)

	viper.SetDefault("advisory.lookaheaddays", 21)
	viper.SetDefault("advisory.lunarrule", true)

	viper.SetDefault("webserver.enabled", false)
	viper.SetDefault("webserver.port", "8090")
	viper.SetDefault("webserver.debug", false)
}
