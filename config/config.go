package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

//go:embed config.yml
var embeddedConfig []byte

type Config struct {
	Mode   string `mapstructure:"mode"`
	Server struct {
		HTTPPort    string        `mapstructure:"HTTPPort"`
		MetricsPort string        `mapstructure:"metricsPort"`
		Timeout     time.Duration `mapstructure:"HTTPTimeout"`
		CORSOrigins []string      `mapstructure:"corsOrigins"`
	} `mapstructure:"server"`
	RateLimit struct {
		Requests int           `mapstructure:"requests"`
		Window   time.Duration `mapstructure:"window"`
	} `mapstructure:"rateLimit"`
	Providers struct {
		Places struct {
			BaseURL string        `mapstructure:"baseURL"`
			APIKey  string        `mapstructure:"apiKey"`
			Timeout time.Duration `mapstructure:"timeout"`
		} `mapstructure:"places"`
		Weather struct {
			BaseURL string        `mapstructure:"baseURL"`
			APIKey  string        `mapstructure:"apiKey"`
			Timeout time.Duration `mapstructure:"timeout"`
		} `mapstructure:"weather"`
	} `mapstructure:"providers"`
	TripPlanner struct {
		TopRatedLimit int           `mapstructure:"topRatedLimit"`
		WellKnownTTL  time.Duration `mapstructure:"wellKnownTTL"`
		DefaultTTL    time.Duration `mapstructure:"defaultTTL"`
		// WellKnownLocations maps a normalized location fragment to the
		// canonical search text used for resolving and caching it.
		WellKnownLocations map[string]string `mapstructure:"wellKnownLocations"`
	} `mapstructure:"tripplanner"`
}

func InitConfig() (Config, error) {
	var config Config
	v := viper.New()

	// Add file-based config paths
	v.AddConfigPath(".")
	v.AddConfigPath("config")
	v.AddConfigPath("/app/config")

	v.SetConfigName("config")
	v.SetConfigType("yml")

	// API keys come from the environment, never from the config file.
	_ = v.BindEnv("providers.places.apiKey", "GOOGLE_PLACES_API_KEY")
	_ = v.BindEnv("providers.weather.apiKey", "OPENWEATHER_API_KEY")
	_ = v.BindEnv("server.HTTPPort", "PORT")
	_ = v.BindEnv("mode", "APP_ENV")

	// Try to load file-based config
	err := v.ReadInConfig()
	if err != nil {
		fmt.Printf("Warning: Failed to find file-based config: %s. Falling back to embedded config.\n", err)
		if err = v.ReadConfig(bytes.NewReader(embeddedConfig)); err != nil {
			return Config{}, fmt.Errorf("failed to read embedded config: %s", err)
		}
	}

	// Unmarshal the config into the Config struct
	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %s", err)
	}
	return config, nil
}
