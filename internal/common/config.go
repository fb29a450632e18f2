package common

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/joseph-ayodele/findoc-reader/constants"
)

// EnvPrefix namespaces environment overrides: FINDOC_SERVER_HTTP_ADDR -> server.http_addr.
const EnvPrefix = "FINDOC_"

const maxConfigFileSize = 1 << 20

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Labeler  LabelerConfig  `koanf:"labeler"`
	Document DocumentConfig `koanf:"document"`
	Batch    BatchConfig    `koanf:"batch"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	HTTPAddr        string        `koanf:"http_addr"`
	GRPCAddr        string        `koanf:"grpc_addr"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// LabelerConfig configures the chat span labeller.
type LabelerConfig struct {
	// LexiconPath points at a YAML gazetteer; empty uses the built-in one.
	LexiconPath string `koanf:"lexicon_path"`
}

// DocumentConfig tunes the term sheet extractor.
type DocumentConfig struct {
	// SplitParties resolves Party A and Party B separately; Counterparty
	// then reports both.
	SplitParties bool `koanf:"split_parties"`
}

// BatchConfig sizes the directory batch worker pool.
type BatchConfig struct {
	Workers        int           `koanf:"workers"`
	QueueSize      int           `koanf:"queue_size"`
	ProcessTimeout time.Duration `koanf:"process_timeout"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// LoadConfig loads defaults, then the YAML file at path (if path is set),
// then FINDOC_* environment variables.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// envKey maps FINDOC_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, field, found := strings.Cut(lower, "_")
	if !found {
		return lower
	}
	return section + "." + field
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.IsDir() {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("config path %s is a directory", path), ErrInvalidInput)
	}
	if info.Size() > maxConfigFileSize {
		return nil, NewAppError("CONFIG_ERROR", fmt.Sprintf("config file %s exceeds %d bytes", path, maxConfigFileSize), ErrInvalidInput)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.HTTPAddr == "" {
		cfg.Server.HTTPAddr = ":8000"
	}
	if cfg.Server.GRPCAddr == "" {
		cfg.Server.GRPCAddr = ":8081"
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = constants.DefaultMaxUploadBytes
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Batch.Workers == 0 {
		cfg.Batch.Workers = 4
	}
	if cfg.Batch.QueueSize == 0 {
		cfg.Batch.QueueSize = 64
	}
	if cfg.Batch.ProcessTimeout == 0 {
		cfg.Batch.ProcessTimeout = 30 * time.Second
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	v := NewValidator().
		Field("server.http_addr", c.Server.HTTPAddr, Required).
		Field("server.grpc_addr", c.Server.GRPCAddr, Required).
		Field("server.max_upload_bytes", c.Server.MaxUploadBytes, Positive).
		Field("server.shutdown_timeout", c.Server.ShutdownTimeout, Positive).
		Field("batch.workers", c.Batch.Workers, Positive).
		Field("batch.queue_size", c.Batch.QueueSize, Positive).
		Field("batch.process_timeout", c.Batch.ProcessTimeout, Positive).
		Field("log.level", c.Log.Level, OneOf("debug", "info", "warn", "error")).
		Field("log.format", c.Log.Format, OneOf("text", "json"))
	if v.HasErrors() {
		return NewAppError("CONFIG_ERROR", v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
