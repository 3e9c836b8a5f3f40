package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mdwconfig "github.com/msto63/pratt/foundation/core/config"
	mdwerror "github.com/msto63/pratt/foundation/core/error"
)

// EnvPrefix is the prefix of environment overrides, e.g. PRATT_SERVER_HTTP_PORT
const EnvPrefix = "PRATT"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Grammar GrammarConfig `toml:"grammar" yaml:"grammar"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	History HistoryConfig `toml:"history" yaml:"history"`
	REPL    REPLConfig    `toml:"repl" yaml:"repl"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// GrammarConfig selects the operator table. An empty file means the
// built-in arithmetic grammar.
type GrammarConfig struct {
	File string `toml:"file" yaml:"file"`
}

// ServerConfig holds evaluation service settings
type ServerConfig struct {
	Host           string   `toml:"host" yaml:"host"`
	HTTPPort       int      `toml:"http_port" yaml:"http_port"`
	GRPCPort       int      `toml:"grpc_port" yaml:"grpc_port"`
	ReadTimeout    Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout   Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxInputLength int      `toml:"max_input_length" yaml:"max_input_length"`
	CacheSize      int      `toml:"cache_size" yaml:"cache_size"`
	CacheTTL       Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// HistoryConfig holds evaluation history settings
type HistoryConfig struct {
	Enabled   bool     `toml:"enabled" yaml:"enabled"`
	Path      string   `toml:"path" yaml:"path"`
	Retention Duration `toml:"retention" yaml:"retention"`
}

// REPLConfig holds interactive shell settings
type REPLConfig struct {
	// Mode is "eval" or "tree"
	Mode string `toml:"mode" yaml:"mode"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the configuration used when no file is given
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, then applies
// defaults and environment overrides
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	var cfg Config
	if err := mdwconfig.DecodeFile(path, mdwconfig.FormatAuto, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads path when given, otherwise the first file found in
// the default locations, otherwise the defaults
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if path == "" {
		path = findDefault()
	}
	if path != "" {
		return Load(path)
	}

	cfg := Default()
	cfg.applyEnv()
	cfg.expandEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findDefault() string {
	candidates := []string{
		"./pratt.toml",
		"./pratt.yaml",
		"./configs/pratt.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "pratt", "config.toml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 9090
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 10 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 10 * time.Second
	}
	if c.Server.MaxInputLength == 0 {
		c.Server.MaxInputLength = 4096
	}
	if c.Server.CacheSize == 0 {
		c.Server.CacheSize = 1024
	}
	if c.Server.CacheTTL.Duration == 0 {
		c.Server.CacheTTL.Duration = 10 * time.Minute
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.Retention.Duration == 0 {
		c.History.Retention.Duration = 30 * 24 * time.Hour
	}

	// REPL
	if c.REPL.Mode == "" {
		c.REPL.Mode = "eval"
	}
}

// applyEnv overrides settings from PRATT_* variables
func (c *Config) applyEnv() {
	env := mdwconfig.NewEnv(EnvPrefix)

	env.String("general.log_level", &c.General.LogLevel)
	env.String("general.log_format", &c.General.LogFormat)
	env.String("grammar.file", &c.Grammar.File)
	env.String("server.host", &c.Server.Host)
	env.Int("server.http_port", &c.Server.HTTPPort)
	env.Int("server.grpc_port", &c.Server.GRPCPort)
	env.Int("server.max_input_length", &c.Server.MaxInputLength)
	env.Bool("history.enabled", &c.History.Enabled)
	env.String("history.path", &c.History.Path)
	env.Duration("history.retention", &c.History.Retention.Duration)
	env.String("repl.mode", &c.REPL.Mode)
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Grammar.File = os.ExpandEnv(c.Grammar.File)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate checks value ranges
func (c *Config) Validate() error {
	var errs []error

	if c.Server.HTTPPort < 0 || c.Server.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("server.grpc_port %d out of range", c.Server.GRPCPort))
	}
	if c.Server.MaxInputLength < 0 {
		errs = append(errs, fmt.Errorf("server.max_input_length must not be negative"))
	}
	if c.REPL.Mode != "eval" && c.REPL.Mode != "tree" {
		errs = append(errs, fmt.Errorf("repl.mode %q must be eval or tree", c.REPL.Mode))
	}

	if len(errs) == 0 {
		return nil
	}
	return mdwerror.Wrap(errors.Join(errs...), "invalid configuration").
		WithCode(mdwerror.CodeInvalidConfig).
		WithOperation("config.Validate")
}

// HTTPAddress returns host:port of the HTTP listener
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// GRPCAddress returns host:port of the gRPC listener
func (c *Config) GRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
