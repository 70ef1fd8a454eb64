package configs

// Config holds all configuration for the application.
type Config struct {
	Log         LogConfig         `mapstructure:"log" validate:"required"`
	FileStorage FileStorageConfig `mapstructure:"file_storage" validate:"required"`
	Ingestion   IngestionConfig   `mapstructure:"ingestion" validate:"required"`
	Preview     PreviewConfig     `mapstructure:"preview" validate:"required"`
	Chart       ChartConfig       `mapstructure:"chart" validate:"required"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// FileStorageConfig holds file storage configuration.
type FileStorageConfig struct {
	RootDir string `mapstructure:"root_dir" validate:"required"` // default directory for rendered charts
}

// IngestionConfig holds log parsing configuration.
type IngestionConfig struct {
	Workers        int    `mapstructure:"workers" validate:"required,min=1,max=256"`
	PartitionLines int    `mapstructure:"partition_lines" validate:"required,min=1"`
	ProgressEvery  int    `mapstructure:"progress_every" validate:"required,min=1"` // lines between progress logs
	MaxWarnings    int    `mapstructure:"max_warnings" validate:"min=0"`            // malformed lines kept in the result
	TimeZone       string `mapstructure:"time_zone"`                                // IANA name; empty means the machine's zone
}

// PreviewConfig holds preview configuration.
type PreviewConfig struct {
	Unit string `mapstructure:"unit" validate:"required,oneof=h m s"`
}

// ChartConfig holds chart rendering configuration.
type ChartConfig struct {
	Width  int    `mapstructure:"width" validate:"required,min=200,max=10000"`
	Height int    `mapstructure:"height" validate:"required,min=100,max=10000"`
	Format string `mapstructure:"format" validate:"required,oneof=svg png"`
}

// MetricsConfig holds metrics export configuration.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"` // empty disables the export
}
