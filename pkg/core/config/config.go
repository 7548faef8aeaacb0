// ============================================================================
// Euler - Free-form Calculator
// ============================================================================
//
// Package:     config
// Description: Typed configuration loaded from TOML or YAML files
// Author:      Mike Stoffels
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	eulererr "github.com/msto63/euler/foundation/core/error"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "EULER_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General    GeneralConfig    `toml:"general" yaml:"general"`
	Calculator CalculatorConfig `toml:"calculator" yaml:"calculator"`
	History    HistoryConfig    `toml:"history" yaml:"history"`
	Server     ServerConfig     `toml:"server" yaml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFormat   string `toml:"log_format" yaml:"log_format"`
}

// CalculatorConfig holds evaluation settings
type CalculatorConfig struct {
	AngleMode      string `toml:"angle_mode" yaml:"angle_mode"`
	MaxInputLength int    `toml:"max_input_length" yaml:"max_input_length"`
	MaxDepth       int    `toml:"max_depth" yaml:"max_depth"`
	// CacheSize bounds the result cache, 0 disables it
	CacheSize int      `toml:"cache_size" yaml:"cache_size"`
	CacheTTL  Duration `toml:"cache_ttl" yaml:"cache_ttl"`
}

// HistoryConfig holds history persistence settings
type HistoryConfig struct {
	Backend string `toml:"backend" yaml:"backend"`
	Path    string `toml:"path" yaml:"path"`
	Limit   int    `toml:"limit" yaml:"limit"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	EnableWebSocket *bool    `toml:"enable_websocket" yaml:"enable_websocket"`
	GRPCPort        int      `toml:"grpc_port" yaml:"grpc_port"`
	EnableGRPC      *bool    `toml:"enable_grpc" yaml:"enable_grpc"`
}

// WebSocketEnabled reports whether the websocket endpoint is served (default true)
func (s ServerConfig) WebSocketEnabled() bool {
	return s.EnableWebSocket == nil || *s.EnableWebSocket
}

// GRPCEnabled reports whether the gRPC listener is started (default true)
func (s ServerConfig) GRPCEnabled() bool {
	return s.EnableGRPC == nil || *s.EnableGRPC
}

// Address returns host:port
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
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

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, got %v at line %d", value.Tag, value.Line)
	}
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, eulererr.Newf("config file not found: %s", path).
			WithCode(eulererr.CodeMissingConfig).
			WithDetail("path", path)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, eulererr.Wrap(err, "failed to read config").WithCode(eulererr.CodeConfigError)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, eulererr.Wrap(err, "failed to parse config").WithCode(eulererr.CodeConfigError)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, eulererr.Wrap(err, "failed to parse config").WithCode(eulererr.CodeConfigError)
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultPaths returns the locations searched when EULER_CONFIG is unset
func DefaultPaths() []string {
	paths := []string{
		"./configs/config.toml",
		"./config.toml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "euler", "config.toml"))
	}
	return paths
}

// LoadFromEnv loads configuration from EULER_CONFIG or the default paths
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, eulererr.New("no config file found, set EULER_CONFIG or create configs/config.toml").
			WithCode(eulererr.CodeMissingConfig)
	}

	return Load(path)
}

// LoadOrDefault behaves like LoadFromEnv but falls back to Default when no
// file exists. Parse and validation errors are still returned.
func LoadOrDefault() (*Config, error) {
	cfg, err := LoadFromEnv()
	if eulererr.HasCode(err, eulererr.CodeMissingConfig) {
		return Default(), nil
	}
	return cfg, err
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "Euler"
	}
	if c.General.Environment == "" {
		c.General.Environment = "development"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Calculator
	if c.Calculator.AngleMode == "" {
		c.Calculator.AngleMode = "degrees"
	}
	if c.Calculator.MaxInputLength == 0 {
		c.Calculator.MaxInputLength = 4096
	}
	if c.Calculator.MaxDepth == 0 {
		c.Calculator.MaxDepth = 64
	}

	// History
	if c.History.Backend == "" {
		c.History.Backend = "sqlite"
	}
	if c.History.Path == "" {
		c.History.Path = filepath.Join(c.General.DataDir, "history.db")
	}
	if c.History.Limit == 0 {
		c.History.Limit = 50
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8090
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = 8091
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 15 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 30 * time.Second
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}) error {
		return eulererr.Newf("invalid config value for %s: %v", field, value).
			WithCode(eulererr.CodeInvalidConfig).
			WithDetail("field", field)
	}

	switch strings.ToLower(c.Calculator.AngleMode) {
	case "degrees", "radians":
	default:
		return invalid("calculator.angle_mode", c.Calculator.AngleMode)
	}
	if c.Calculator.MaxInputLength < 0 {
		return invalid("calculator.max_input_length", c.Calculator.MaxInputLength)
	}
	if c.Calculator.MaxDepth < 0 {
		return invalid("calculator.max_depth", c.Calculator.MaxDepth)
	}
	if c.Calculator.CacheSize < 0 {
		return invalid("calculator.cache_size", c.Calculator.CacheSize)
	}

	switch c.History.Backend {
	case "sqlite", "memory":
	default:
		return invalid("history.backend", c.History.Backend)
	}
	if c.History.Limit < 0 || c.History.Limit > 50 {
		return invalid("history.limit", c.History.Limit)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port)
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 {
		return invalid("server.grpc_port", c.Server.GRPCPort)
	}
	return nil
}
