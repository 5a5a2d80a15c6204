package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"covsim/internal/errors"
)

// Default study parameters. A process started with no environment at all
// runs the canonical study: 50000 records, spread 2.0, seed 42.
const (
	DefaultRecords      = 50000
	DefaultSpread       = 2.0
	DefaultSeed         = 42
	DefaultReplications = 3
	DefaultMaxParallel  = 4
)

// DefaultGrid returns the default sweep sample sizes
func DefaultGrid() []int {
	return []int{500, 2000, 10000, 50000}
}

// Config represents the complete application configuration
type Config struct {
	Study StudyConfig
	Sweep SweepConfig
	Log   LogConfig
}

// StudyConfig holds the simulation study parameters
type StudyConfig struct {
	Records int     // sample size n
	Spread  float64 // common standard deviation of every conditional Y draw
	Seed    int64
}

// SweepConfig holds convergence sweep settings
type SweepConfig struct {
	Grid         []int // sample sizes to replicate over
	Replications int
	MaxParallel  int64
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{}

	studyConfig, err := loadStudyConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load study configuration")
	}
	config.Study = *studyConfig

	sweepConfig, err := loadSweepConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load sweep configuration")
	}
	config.Sweep = *sweepConfig

	config.Log = LogConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadStudyConfig() (*StudyConfig, error) {
	return &StudyConfig{
		Records: getEnvIntOrDefault("SIM_RECORDS", DefaultRecords),
		Spread:  getEnvFloatOrDefault("SIM_SPREAD", DefaultSpread),
		Seed:    getEnvInt64OrDefault("SIM_SEED", DefaultSeed),
	}, nil
}

func loadSweepConfig() (*SweepConfig, error) {
	grid := DefaultGrid()
	if raw := os.Getenv("SIM_GRID"); raw != "" {
		parsed, err := parseGrid(raw)
		if err != nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("SIM_GRID is malformed: %v", err))
		}
		grid = parsed
	}

	return &SweepConfig{
		Grid:         grid,
		Replications: getEnvIntOrDefault("SIM_REPLICATIONS", DefaultReplications),
		MaxParallel:  getEnvInt64OrDefault("SIM_MAX_PARALLEL", DefaultMaxParallel),
	}, nil
}

func validateConfig(config *Config) error {
	if config.Study.Records <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("SIM_RECORDS must be > 0, got %d", config.Study.Records))
	}
	if config.Study.Spread <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("SIM_SPREAD must be > 0, got %v", config.Study.Spread))
	}
	if config.Sweep.Replications <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("SIM_REPLICATIONS must be > 0, got %d", config.Sweep.Replications))
	}
	if config.Sweep.MaxParallel <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("SIM_MAX_PARALLEL must be > 0, got %d", config.Sweep.MaxParallel))
	}
	for _, n := range config.Sweep.Grid {
		if n <= 0 {
			return errors.ConfigInvalid(fmt.Sprintf("SIM_GRID entries must be > 0, got %d", n))
		}
	}
	return nil
}

// parseGrid parses a comma-separated list of sample sizes
func parseGrid(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	grid := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad entry %q", part)
		}
		grid = append(grid, n)
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	return grid, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
