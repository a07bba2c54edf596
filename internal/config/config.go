package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/insightdelivered/statement-flagger/internal/rules"
	"github.com/insightdelivered/statement-flagger/internal/scanner"
)

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Rules   RulesConfig   `yaml:"rules"`
	Scanner ScannerConfig `yaml:"scanner"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// RulesConfig holds the flag rules.
type RulesConfig struct {
	AmountThreshold float64  `yaml:"amount_threshold"`
	Keywords        []string `yaml:"keywords"`
}

// ScannerConfig controls line filtering and output shape.
type ScannerConfig struct {
	SkipMarkers    []string `yaml:"skip_markers"`
	MaxDescription int      `yaml:"max_description"`
	Workers        int      `yaml:"workers"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port          string `yaml:"port"`
	MaxInputBytes int    `yaml:"max_input_bytes"`
}

// LogConfig sets the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

const defaultMaxInputBytes = 10 << 20

// Default returns a Config with the stock rules and limits.
func Default() *Config {
	r := rules.DefaultConfig()
	s := scanner.DefaultOptions()
	return &Config{
		Rules: RulesConfig{
			AmountThreshold: r.AmountThreshold,
			Keywords:        r.Keywords,
		},
		Scanner: ScannerConfig{
			SkipMarkers:    s.SkipMarkers,
			MaxDescription: s.MaxDescription,
			Workers:        s.Workers,
		},
		Server: ServerConfig{
			Port:          "8080",
			MaxInputBytes: defaultMaxInputBytes,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a YAML file on top of the defaults. Keys absent from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Environment overrides applied by FromEnv.
const (
	EnvThreshold   = "FLAGGER_THRESHOLD"
	EnvKeywords    = "FLAGGER_KEYWORDS"
	EnvSkipMarkers = "FLAGGER_SKIP_MARKERS"
	EnvWorkers     = "FLAGGER_WORKERS"
	EnvLogLevel    = "FLAGGER_LOG_LEVEL"
	EnvPort        = "PORT"
)

// LoadDotEnv loads a .env file from the working directory if one exists.
func LoadDotEnv() {
	_ = godotenv.Load()
}

// FromEnv overrides cfg with any FLAGGER_* and PORT variables that are set.
// List variables are comma-separated.
func FromEnv(cfg *Config) error {
	if v, ok := os.LookupEnv(EnvThreshold); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvThreshold, err)
		}
		cfg.Rules.AmountThreshold = f
	}
	if v, ok := os.LookupEnv(EnvKeywords); ok {
		cfg.Rules.Keywords = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvSkipMarkers); ok {
		cfg.Scanner.SkipMarkers = splitList(v)
	}
	if v, ok := os.LookupEnv(EnvWorkers); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvWorkers, err)
		}
		cfg.Scanner.Workers = n
	}
	cfg.Log.Level = getEnv(EnvLogLevel, cfg.Log.Level)
	cfg.Server.Port = getEnv(EnvPort, cfg.Server.Port)
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects configurations the scanner cannot honour.
func (c *Config) Validate() error {
	if err := c.RulesConfig().Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	for i, m := range c.Scanner.SkipMarkers {
		if strings.TrimSpace(m) == "" {
			return fmt.Errorf("scanner: skip marker %d is empty", i)
		}
	}
	if c.Scanner.MaxDescription < 4 {
		return fmt.Errorf("scanner: max_description must be at least 4, got %d", c.Scanner.MaxDescription)
	}
	if c.Scanner.Workers < 1 {
		return fmt.Errorf("scanner: workers must be at least 1, got %d", c.Scanner.Workers)
	}
	if c.Server.MaxInputBytes <= 0 {
		return fmt.Errorf("server: max_input_bytes must be positive, got %d", c.Server.MaxInputBytes)
	}
	return nil
}

// RulesConfig returns a copy of the rule settings for rules.NewEvaluator.
func (c *Config) RulesConfig() rules.Config {
	return rules.Config{
		AmountThreshold: c.Rules.AmountThreshold,
		Keywords:        append([]string(nil), c.Rules.Keywords...),
	}
}

// ScannerOptions returns a copy of the scanner settings for scanner.New.
func (c *Config) ScannerOptions() scanner.Options {
	return scanner.Options{
		SkipMarkers:    append([]string(nil), c.Scanner.SkipMarkers...),
		MaxDescription: c.Scanner.MaxDescription,
		Workers:        c.Scanner.Workers,
	}
}

// NewScanner builds the scanner described by the configuration.
func (c *Config) NewScanner() *scanner.Scanner {
	return scanner.New(c.RulesConfig(), c.ScannerOptions())
}
