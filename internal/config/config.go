// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults; Load() layers file and env.
// - External errors must be wrapped via this package's error helpers.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CleaningsCSV is the path of the cleanings export. Required.
	CleaningsCSV string `koanf:"cleanings_csv"`

	// AdoptionsCSV is the path of the adoptions export. Empty disables
	// adoption loading.
	AdoptionsCSV string `koanf:"adoptions_csv"`

	// TopVolunteersLimit caps the top-volunteers ranking.
	TopVolunteersLimit int `koanf:"top_volunteers_limit"`

	// ReloadIntervalSeconds is how often the CSVs are re-read in the
	// background. 0 disables reloading; the startup load still happens.
	ReloadIntervalSeconds int `koanf:"reload_interval_seconds"`

	// MaxMapPoints caps the number of points returned per map view.
	MaxMapPoints int `koanf:"max_map_points"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		Addr:                  ":8080",
		CleaningsCSV:          "cleanings.csv",
		AdoptionsCSV:          "adoptions.csv",
		TopVolunteersLimit:    10,
		ReloadIntervalSeconds: 3600,
		MaxMapPoints:          1000,
	}
}
