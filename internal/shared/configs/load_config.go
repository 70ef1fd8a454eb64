package configs

import (
	"fmt"
	"strings"

	"burnout-chart/internal/shared/validators"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. BURNOUT_LOG_LEVEL=debug.
const EnvPrefix = "BURNOUT"

// LoadConfig reads configuration from defaults, an optional YAML file and the
// environment, then validates it. An empty configPath skips the file.
var LoadConfig = func(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read from file
	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	// Unmarshal into Config
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	validate := validators.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %s", validators.Describe(err))
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("file_storage.root_dir", "htmls")
	v.SetDefault("ingestion.workers", 1)
	v.SetDefault("ingestion.partition_lines", 50000)
	v.SetDefault("ingestion.progress_every", 100000)
	v.SetDefault("ingestion.max_warnings", 100)
	v.SetDefault("ingestion.time_zone", "")
	v.SetDefault("preview.unit", "m")
	v.SetDefault("chart.width", 1600)
	v.SetDefault("chart.height", 600)
	v.SetDefault("chart.format", "svg")
	v.SetDefault("metrics.textfile", "")
}
