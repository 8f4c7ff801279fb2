package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default values for the server configuration.
const (
	DefaultHTTPPort       = 3000
	DefaultGRPCPort       = 50051
	DefaultStoragePath    = "questions.json"
	DefaultStoragePathEnv = "RESPONDER_STORAGE_PATH"
	DefaultLogLevel       = "info"
	DefaultStreamInterval = 5 * time.Second
	DefaultHealthInterval = 10 * time.Second
)

// Config holds the server-side configuration parsed from the `server:` section
// of config.yaml.
type Config struct {
	Server ServerConfig `yaml:"server"`
}

// ServerConfig holds all server-side settings.
type ServerConfig struct {
	// HTTPPort is the port the REST API, metrics and stream hub listen on.
	HTTPPort int `yaml:"http_port"`

	// GRPCPort is the port the gRPC health service listens on.
	GRPCPort int `yaml:"grpc_port"`

	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Stream  StreamConfig  `yaml:"stream"`
	Health  HealthConfig  `yaml:"health"`
}

// StorageConfig locates the JSON data file.
type StorageConfig struct {
	// Path is the data file. Created on the first added question.
	Path string `yaml:"path"`

	// PathEnv names an environment variable that, when set, overrides Path.
	// Defaults to RESPONDER_STORAGE_PATH.
	PathEnv string `yaml:"path_env"`
}

// EffectivePath returns the data file path, preferring the environment override.
func (s StorageConfig) EffectivePath() string {
	env := s.PathEnv
	if env == "" {
		env = DefaultStoragePathEnv
	}
	if p := os.Getenv(env); p != "" {
		return p
	}
	return s.Path
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of: debug | info | warn | error.
	Level string `yaml:"level"`
}

// SlogLevel converts Level to a slog.Level. Unknown values map to info;
// validate rejects them before this is reached.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// StreamConfig controls the websocket hub.
type StreamConfig struct {
	// Interval is how often the collection is pushed even without changes.
	Interval time.Duration `yaml:"interval"`
}

// HealthConfig controls the gRPC health checker.
type HealthConfig struct {
	// Interval is how often the data file is probed.
	Interval time.Duration `yaml:"interval"`
}

// Load reads and parses the config file at path, returning the server configuration.
// Missing fields are filled with sensible defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("server config: read %q: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("server config: parse yaml: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("server config: %w", err)
	}

	return cfg, nil
}

// Default returns a Config pre-populated with default values. It is what the
// server runs with when no config file is given.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort: DefaultHTTPPort,
			GRPCPort: DefaultGRPCPort,
			Storage: StorageConfig{
				Path:    DefaultStoragePath,
				PathEnv: DefaultStoragePathEnv,
			},
			Log:    LogConfig{Level: DefaultLogLevel},
			Stream: StreamConfig{Interval: DefaultStreamInterval},
			Health: HealthConfig{Interval: DefaultHealthInterval},
		},
	}
}

// validate checks structural constraints on the parsed configuration.
func validate(cfg *Config) error {
	if cfg.Server.HTTPPort <= 0 || cfg.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range [1, 65535]", cfg.Server.HTTPPort)
	}
	if cfg.Server.GRPCPort <= 0 || cfg.Server.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range [1, 65535]", cfg.Server.GRPCPort)
	}
	if cfg.Server.GRPCPort == cfg.Server.HTTPPort {
		return fmt.Errorf("server.grpc_port and server.http_port must differ (both %d)", cfg.Server.HTTPPort)
	}
	if strings.TrimSpace(cfg.Server.Storage.Path) == "" {
		return fmt.Errorf("server.storage.path is required")
	}
	switch strings.ToLower(cfg.Server.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("server.log.level %q unknown: want debug|info|warn|error", cfg.Server.Log.Level)
	}
	if cfg.Server.Stream.Interval <= 0 {
		return fmt.Errorf("server.stream.interval must be positive")
	}
	if cfg.Server.Health.Interval <= 0 {
		return fmt.Errorf("server.health.interval must be positive")
	}
	return nil
}
