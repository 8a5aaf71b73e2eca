// Package config defines all configuration structures for solarscreen.
// No I/O or parsing logic lives here, only plain data types and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ukgridlab/solarscreen/internal/domain/screening"
)

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatasetConfig selects and parameterises the dataset source.
type DatasetConfig struct {
	// Source is "csv" or "postgres".
	Source string `mapstructure:"source"`

	// CSVPath is the model table location when Source is "csv".
	CSVPath string `mapstructure:"csv_path"`

	// Watch enables reloading the dataset when the CSV file changes on disk.
	Watch bool `mapstructure:"watch"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the postgres
// dataset source.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// RedisConfig holds the optional view-cache connection parameters.
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	ViewTTL      time.Duration `mapstructure:"view_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// DisplayConfig carries the control-surface defaults applied when a request
// omits a parameter. The values mirror the screening UI's initial state.
type DisplayConfig struct {
	Gamma         float64 `mapstructure:"gamma"`
	MaxPoints     int     `mapstructure:"max_points"`
	TopN          int     `mapstructure:"top_n"`
	HistogramBins int     `mapstructure:"histogram_bins"`
}

// LogConfig mirrors logging.Config so the logging package stays independent
// of viper tags.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Display  DisplayConfig  `mapstructure:"display"`
	Log      LogConfig      `mapstructure:"log"`
}

// Validate checks cross-field consistency. It assumes ApplyDefaults has run.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	switch c.Dataset.Source {
	case "csv":
		if c.Dataset.CSVPath == "" {
			return fmt.Errorf("dataset.csv_path is required when dataset.source is csv")
		}
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("database.host is required when dataset.source is postgres")
		}
	default:
		return fmt.Errorf("dataset.source must be csv or postgres, got %q", c.Dataset.Source)
	}
	if c.Display.Gamma < screening.GammaMin || c.Display.Gamma > screening.GammaMax {
		return fmt.Errorf("display.gamma must be in [%v, %v], got %v",
			screening.GammaMin, screening.GammaMax, c.Display.Gamma)
	}
	if c.Display.MaxPoints < 1 {
		return fmt.Errorf("display.max_points must be positive, got %d", c.Display.MaxPoints)
	}
	if c.Display.TopN < 1 {
		return fmt.Errorf("display.top_n must be positive, got %d", c.Display.TopN)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis.enabled is true")
	}
	return nil
}
