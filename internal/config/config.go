package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "github.com/agilsonaraujoo/ProjetoCD-acidentes/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Snapshot  SnapshotConfig  `yaml:"snapshot" envconfig:"SNAPSHOT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Export    ExportConfig    `yaml:"export" envconfig:"EXPORT"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// InputConfig describes where the yearly exports live and how to read them
type InputConfig struct {
	Dirs        []string `yaml:"dirs" envconfig:"DIRS" validate:"required,min=1,dive,required"`
	Years       []int    `yaml:"years" envconfig:"YEARS" validate:"required,min=1,dive,gte=1900,lte=2100"`
	FilePattern string   `yaml:"file_pattern" envconfig:"FILE_PATTERN" validate:"required,contains=%d"`
	Delimiter   string   `yaml:"delimiter" envconfig:"DELIMITER" validate:"required,len=1"`
	Encoding    string   `yaml:"encoding" envconfig:"ENCODING" validate:"required,oneof=latin1 latin-1 iso-8859-1 windows-1252 cp1252 utf-8 utf8"`
	Reader      string   `yaml:"reader" envconfig:"READER" validate:"required"`
	Workers     int      `yaml:"workers" envconfig:"WORKERS" validate:"gte=1,lte=16"`
	DateColumn  string   `yaml:"date_column" envconfig:"DATE_COLUMN" validate:"required"`
}

// SnapshotConfig configures the persisted columnar snapshot
type SnapshotConfig struct {
	Path          string `yaml:"path" envconfig:"PATH" validate:"required"`
	Codec         string `yaml:"codec" envconfig:"CODEC" validate:"required,oneof=zstd snappy gzip uncompressed"`
	FallbackCodec string `yaml:"fallback_codec" envconfig:"FALLBACK_CODEC" validate:"required,oneof=zstd snappy gzip uncompressed"`
}

// OutputConfig configures the dashboard artifacts
type OutputConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	StatsFile  string `yaml:"stats_file" envconfig:"STATS_FILE" validate:"required"`
	SampleCap  int    `yaml:"sample_cap" envconfig:"SAMPLE_CAP" validate:"gt=0"`
	SampleSeed int64  `yaml:"sample_seed" envconfig:"SAMPLE_SEED"`
	Workbook   string `yaml:"workbook" envconfig:"WORKBOOK"`
}

// ExportConfig enables the optional copies of the cleaned dataset.
// Empty paths disable the corresponding export.
type ExportConfig struct {
	CSVPath    string `yaml:"csv_path" envconfig:"CSV_PATH"`
	SQLitePath string `yaml:"sqlite_path" envconfig:"SQLITE_PATH"`
	ReportPath string `yaml:"report_path" envconfig:"REPORT_PATH"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig contains tracing and metrics configuration
type TelemetryConfig struct {
	EnableTracing bool    `yaml:"enable_tracing" envconfig:"ENABLE_TRACING"`
	EnableMetrics bool    `yaml:"enable_metrics" envconfig:"ENABLE_METRICS"`
	TraceExporter string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	SampleRatio   float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
	MetricsFile   string  `yaml:"metrics_file" envconfig:"METRICS_FILE"`
	Environment   string  `yaml:"environment" envconfig:"ENVIRONMENT"`
}

// EnvPrefix namespaces every environment variable, e.g. ACIDENTES_INPUT_YEARS=2024,2025
const EnvPrefix = "ACIDENTES"

// Load builds the configuration from defaults, an optional YAML file, an
// optional .env file and the environment, in increasing precedence.
// An empty configFile searches the usual locations.
func Load(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config file", err).
				WithContext("file", configFile)
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, apperrors.NewConfigError("failed to load .env file", err)
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays the YAML file on top of cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// loadDotEnv loads .env into the process environment without overriding
// variables that are already set
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	return godotenv.Load(".env")
}

// Validate checks the struct tags and the cross-field rules
func (c *Config) Validate() error {
	c.Logging.Level = strings.ToLower(c.Logging.Level)
	c.Input.Encoding = strings.ToLower(c.Input.Encoding)

	if err := validator.New().Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	seen := make(map[int]bool, len(c.Input.Years))
	for _, y := range c.Input.Years {
		if seen[y] {
			return apperrors.NewConfigError(fmt.Sprintf("year %d listed twice", y), nil)
		}
		seen[y] = true
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging.file_path is required when logging to a file", nil)
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"acidentes.yaml",
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Dirs:        []string{"."},
			Years:       []int{2024, 2025},
			FilePattern: "acidentes%d.csv",
			Delimiter:   ";",
			Encoding:    "latin1",
			Reader:      "csv",
			Workers:     2,
			DateColumn:  "data_inversa",
		},
		Snapshot: SnapshotConfig{
			Path:          SnapshotFileName,
			Codec:         "zstd",
			FallbackCodec: "snappy",
		},
		Output: OutputConfig{
			DataDir:    "dashboard/data",
			StatsFile:  "dashboard/analise_estatistica.md",
			SampleCap:  DefaultSampleCap,
			SampleSeed: DefaultSampleSeed,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/acidentes.log",
		},
		Telemetry: TelemetryConfig{
			EnableTracing: false,
			EnableMetrics: true,
			TraceExporter: "none",
			SampleRatio:   1.0,
			Environment:   "development",
		},
	}
}

// Comma returns the configured field delimiter as a rune
func (c *Config) Comma() rune {
	for _, r := range c.Input.Delimiter {
		return r
	}
	return ';'
}
