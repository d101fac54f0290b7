package evolution

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config manages search configuration using Viper
type Config struct {
	v *viper.Viper
}

// NewConfig creates a new configuration with defaults
func NewConfig() *Config {
	v := viper.New()

	// Search parameters
	v.SetDefault("search.max_time_budget", 1e6) // simulated seconds
	v.SetDefault("search.population_size", 32)
	v.SetDefault("search.tournament_size", 10)
	v.SetDefault("search.mutation_rate", 0.5)
	v.SetDefault("search.random_seed", time.Now().UnixNano())
	v.SetDefault("search.max_spec_attempts", 100000) // 0 = retry forever

	// Logging parameters
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.enable_progress", true)
	v.SetDefault("logging.progress_interval", 100) // queries between progress lines

	return &Config{v: v}
}

// LoadFromFile loads configuration from file
func (c *Config) LoadFromFile(path string) error {
	c.v.SetConfigFile(path)
	return c.v.ReadInConfig()
}

// Getters for search parameters
func (c *Config) MaxTimeBudget() float64 { return c.v.GetFloat64("search.max_time_budget") }
func (c *Config) PopulationSize() int { return c.v.GetInt("search.population_size") }
func (c *Config) TournamentSize() int { return c.v.GetInt("search.tournament_size") }
func (c *Config) MutationRate() float64 { return c.v.GetFloat64("search.mutation_rate") }
func (c *Config) RandomSeed() int64 { return c.v.GetInt64("search.random_seed") }
func (c *Config) MaxSpecAttempts() int { return c.v.GetInt("search.max_spec_attempts") }

func (c *Config) LogLevel() string { return c.v.GetString("logging.level") }
func (c *Config) EnableProgress() bool { return c.v.GetBool("logging.enable_progress") }
func (c *Config) ProgressInterval() int { return c.v.GetInt("logging.progress_interval") }

// Set allows dynamic configuration changes
func (c *Config) Set(key string, value interface{}) {
	c.v.Set(key, value)
}

// CreateLogger creates a zerolog logger based on config
func (c *Config) CreateLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "15:04:05",
	}).Level(level).With().Timestamp().Str("service", "evolution").Logger()
}
