package config

import "time"

// Display defaults matching the screening UI's initial slider positions.
const (
	DefaultGamma         = 1.5
	DefaultMaxPoints     = 16500
	DefaultTopN          = 50
	DefaultHistogramBins = 20
)

// ApplyDefaults fills unset fields with service defaults. Zero values are
// treated as unset except where a zero is meaningful (redis.db).
func ApplyDefaults(c *Config) {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 15 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}

	if c.Dataset.Source == "" {
		c.Dataset.Source = "csv"
	}
	if c.Dataset.CSVPath == "" && c.Dataset.Source == "csv" {
		c.Dataset.CSVPath = "data/model_table.csv"
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxConns == 0 {
		c.Database.MaxConns = 10
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Database.MigrationPath == "" {
		c.Database.MigrationPath = "migrations"
	}

	if c.Redis.DialTimeout == 0 {
		c.Redis.DialTimeout = 5 * time.Second
	}
	if c.Redis.ReadTimeout == 0 {
		c.Redis.ReadTimeout = 3 * time.Second
	}
	if c.Redis.WriteTimeout == 0 {
		c.Redis.WriteTimeout = 3 * time.Second
	}
	if c.Redis.ViewTTL == 0 {
		c.Redis.ViewTTL = 5 * time.Minute
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "solarscreen"
	}

	if c.Display.Gamma == 0 {
		c.Display.Gamma = DefaultGamma
	}
	if c.Display.MaxPoints == 0 {
		c.Display.MaxPoints = DefaultMaxPoints
	}
	if c.Display.TopN == 0 {
		c.Display.TopN = DefaultTopN
	}
	if c.Display.HistogramBins == 0 {
		c.Display.HistogramBins = DefaultHistogramBins
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}
