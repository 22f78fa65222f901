package util

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func ReadConfig() error {
	viper.SetConfigName("config")
	viper.AddConfigPath("./data/")
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("fatal error config file: %w", err)
	}
	return nil
}

// TruncationConfig is the run configuration of one truncation engine.
type TruncationConfig struct {
	Alpha  float64 `mapstructure:"alpha" validate:"gt=0,lte=360"`
	K      int     `mapstructure:"k" validate:"gte=1"`
	Buffer float64 `mapstructure:"buffer" validate:"gte=0"`

	AddEndpoints bool `mapstructure:"add_endpoints"`
	AddStops     bool `mapstructure:"add_stops"`

	StopMinDuration time.Duration `mapstructure:"stop_min_duration" validate:"gt=0"`
	StopRadiusKm    float64       `mapstructure:"stop_radius_km" validate:"gt=0"`
	MaxSpeedKmh     float64       `mapstructure:"max_speed_kmh" validate:"gte=0"`

	PcellsCRS     string `mapstructure:"pcells_crs" validate:"required"`
	TrajectoryCRS string `mapstructure:"trajectory_crs" validate:"required"`

	CatalogDir         string `mapstructure:"catalog_dir" validate:"required"`
	TruncationRegion   string `mapstructure:"truncation_region"`
	SensitiveLocations string `mapstructure:"sensitive_locations"`

	Workers int `mapstructure:"workers" validate:"gte=1"`
}

func setTruncationDefaults() {
	viper.SetDefault("alpha", 60.0)
	viper.SetDefault("k", 4)
	viper.SetDefault("buffer", 0.0)
	viper.SetDefault("add_endpoints", true)
	viper.SetDefault("add_stops", false)
	viper.SetDefault("stop_min_duration", "15m")
	viper.SetDefault("stop_radius_km", 0.2)
	viper.SetDefault("max_speed_kmh", 150.0)
	viper.SetDefault("pcells_crs", "EPSG:3857")
	viper.SetDefault("trajectory_crs", "EPSG:4326")
	viper.SetDefault("catalog_dir", "./data/catalog")
	viper.SetDefault("truncation_region", "")
	viper.SetDefault("sensitive_locations", "")
	viper.SetDefault("workers", runtime.NumCPU())
}

// LoadTruncationConfig reads the truncation keys from viper (config file, env or
// flags bound by the caller) and validates them.
func LoadTruncationConfig() (TruncationConfig, error) {
	setTruncationDefaults()

	cfg := TruncationConfig{
		Alpha:              viper.GetFloat64("alpha"),
		K:                  viper.GetInt("k"),
		Buffer:             viper.GetFloat64("buffer"),
		AddEndpoints:       viper.GetBool("add_endpoints"),
		AddStops:           viper.GetBool("add_stops"),
		StopMinDuration:    viper.GetDuration("stop_min_duration"),
		StopRadiusKm:       viper.GetFloat64("stop_radius_km"),
		MaxSpeedKmh:        viper.GetFloat64("max_speed_kmh"),
		PcellsCRS:          viper.GetString("pcells_crs"),
		TrajectoryCRS:      viper.GetString("trajectory_crs"),
		CatalogDir:         viper.GetString("catalog_dir"),
		TruncationRegion:   viper.GetString("truncation_region"),
		SensitiveLocations: viper.GetString("sensitive_locations"),
		Workers:            viper.GetInt("workers"),
	}

	if err := cfg.Validate(); err != nil {
		return TruncationConfig{}, err
	}
	return cfg, nil
}

func (c TruncationConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return WrapErrorf(err, ErrBadParamInput, "invalid truncation config")
	}
	return nil
}
