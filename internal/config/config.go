// Package config layers the simulation's Parameters and server settings
// from defaults, an optional YAML file, and PRINTSIM_-prefixed
// environment variables, in that increasing order of precedence, via
// viper. There is no command-line flag layer.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/printshop/printsim/internal/core"
)

// ServerConfig holds the ambient settings around a simulation run: where
// the HTTP/WS front end listens, whether structured logs are console or
// JSON, and where printer labels persist.
type ServerConfig struct {
	ListenAddr  string `mapstructure:"listen_addr"`
	Development bool   `mapstructure:"development"`
	LabelsPath  string `mapstructure:"labels_path"`
}

// Config is the full top-level configuration: the simulation parameters
// plus the ambient server settings.
type Config struct {
	core.Parameters `mapstructure:",squash"`
	Server          ServerConfig `mapstructure:",squash"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("num_jobs", 100)
	v.SetDefault("fixed_arrival", false)
	v.SetDefault("job_arrival_time_us", 200_000)
	v.SetDefault("min_arrival_time_ms", 50)
	v.SetDefault("max_arrival_time_ms", 500)
	v.SetDefault("papers_required_lower", 1)
	v.SetDefault("papers_required_upper", 10)
	v.SetDefault("queue_capacity", -1)
	v.SetDefault("printing_rate", 5.0)
	v.SetDefault("printer_paper_capacity", 200)
	v.SetDefault("refill_rate", 20.0)
	v.SetDefault("consumer_count", 2)
	v.SetDefault("auto_scaling", true)

	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("development", false)
	v.SetDefault("labels_path", "printers.json")
}

// Load reads configuration from (in increasing precedence) built-in
// defaults, configPath if non-empty, and PRINTSIM_-prefixed environment
// variables, then validates the resulting Parameters.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix("PRINTSIM")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if err := cfg.Parameters.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
