// Package config loads tabmark settings from defaults, an optional config
// file, TABMARK_ environment variables and command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tsawler/tabmark/layout"
	"github.com/tsawler/tabmark/logging"
	"github.com/tsawler/tabmark/tables"
)

// EnvPrefix prefixes every environment variable, e.g. TABMARK_TABLES_STRATEGY.
const EnvPrefix = "TABMARK"

// Config holds all application configuration.
type Config struct {
	Pages    string
	Password string
	Output   string
	Workers  int

	Tables TablesConfig
	Layout LayoutConfig
	Log    LogConfig
	Server ServerConfig
}

// TablesConfig holds table detection settings.
type TablesConfig struct {
	Enabled       bool    `mapstructure:"enabled"`
	Strategy      string  `mapstructure:"strategy"`
	MinRows       int     `mapstructure:"min_rows"`
	MinCols       int     `mapstructure:"min_cols"`
	MinConfidence float64 `mapstructure:"min_confidence"`
}

// LayoutConfig holds page reconstruction settings.
type LayoutConfig struct {
	OverlapThreshold float64 `mapstructure:"overlap_threshold"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// flagKeys maps configuration keys onto the flag names that override them.
var flagKeys = map[string]string{
	"pages":           "pages",
	"password":        "password",
	"output":          "output",
	"workers":         "workers",
	"tables.strategy": "table-strategy",
	"log.level":       "log-level",
	"server.addr":     "addr",
}

func setDefaults(v *viper.Viper) {
	d := tables.DefaultConfig()

	v.SetDefault("pages", "")
	v.SetDefault("password", "")
	v.SetDefault("output", "")
	v.SetDefault("workers", 1)

	v.SetDefault("tables.enabled", true)
	v.SetDefault("tables.strategy", "lines")
	v.SetDefault("tables.min_rows", d.MinRows)
	v.SetDefault("tables.min_cols", d.MinCols)
	v.SetDefault("tables.min_confidence", d.MinConfidence)

	v.SetDefault("layout.overlap_threshold", layout.DefaultOverlapThreshold)

	v.SetDefault("log.level", "info")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.max_upload_mb", 50)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
}

// Load builds the configuration. configFile may be empty; flags may be nil.
// Only flags that were set on the command line override other sources.
func Load(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{
		Pages:    v.GetString("pages"),
		Password: v.GetString("password"),
		Output:   v.GetString("output"),
		Workers:  v.GetInt("workers"),
		Tables: TablesConfig{
			Enabled:       v.GetBool("tables.enabled"),
			Strategy:      v.GetString("tables.strategy"),
			MinRows:       v.GetInt("tables.min_rows"),
			MinCols:       v.GetInt("tables.min_cols"),
			MinConfidence: v.GetFloat64("tables.min_confidence"),
		},
		Layout: LayoutConfig{
			OverlapThreshold: v.GetFloat64("layout.overlap_threshold"),
		},
		Log: LogConfig{
			Level: v.GetString("log.level"),
		},
		Server: ServerConfig{
			Addr:         v.GetString("server.addr"),
			MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings that cannot work. An unknown table strategy is
// not an error here; conversion degrades to text-only output instead.
func (c *Config) Validate() error {
	var errs []error
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Layout.OverlapThreshold <= 0 || c.Layout.OverlapThreshold > 1 {
		errs = append(errs, fmt.Errorf("layout.overlap_threshold must be within (0, 1], got %v", c.Layout.OverlapThreshold))
	}
	if err := c.TableConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("tables: %w", err))
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	if c.Server.MaxUploadMB <= 0 {
		errs = append(errs, fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB))
	}
	return errors.Join(errs...)
}

// TableConfig returns the detector configuration derived from c.
func (c *Config) TableConfig() tables.Config {
	cfg := tables.DefaultConfig()
	cfg.MinRows = c.Tables.MinRows
	cfg.MinCols = c.Tables.MinCols
	cfg.MinConfidence = c.Tables.MinConfidence
	return cfg
}

// MaxUploadBytes returns the upload limit in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return s.MaxUploadMB << 20
}
