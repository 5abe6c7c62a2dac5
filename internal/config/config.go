package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned alongside a usable Config when no report
// source credential is set. It is a warning, not a failure.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY not set; scans will serve the fallback report")

type Config struct {
	Env             string        `yaml:"env"`
	ListenAddr      string        `yaml:"listen_addr"`
	LogLevel        string        `yaml:"log_level"`
	ReportSource    string        `yaml:"report_source"`
	GeminiAPIKey    string        `yaml:"gemini_api_key"`
	GeminiModel     string        `yaml:"gemini_model"`
	GeminiBaseURL   string        `yaml:"gemini_base_url"`
	MinScanDuration time.Duration `yaml:"min_scan_duration"`
	AcquireTimeout  time.Duration `yaml:"acquire_timeout"`
	ScanWorkers     int           `yaml:"scan_workers"`
	ScanQueueSize   int           `yaml:"scan_queue_size"`
}

func Default() Config {
	return Config{
		Env:             "development",
		ListenAddr:      ":8080",
		LogLevel:        "info",
		ReportSource:    "gemini",
		GeminiModel:     "gemini-3-flash-preview",
		MinScanDuration: 3 * time.Second,
		ScanWorkers:     2,
		ScanQueueSize:   64,
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Load builds the config from defaults, the optional YAML file named by
// LEAKWATCH_CONFIG, then the environment. A missing API key yields a usable
// config together with ErrMissingAPIKey so callers can decide.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("LEAKWATCH_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return cfg, err
		}
	}

	cfg.Env = getenv("APP_ENV", cfg.Env)
	cfg.ListenAddr = getenv("LISTEN_ADDR", cfg.ListenAddr)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.ReportSource = getenv("REPORT_SOURCE", cfg.ReportSource)
	cfg.GeminiAPIKey = getenv("GEMINI_API_KEY", getenv("API_KEY", cfg.GeminiAPIKey))
	cfg.GeminiModel = getenv("GEMINI_MODEL", cfg.GeminiModel)
	cfg.GeminiBaseURL = getenv("GEMINI_BASE_URL", cfg.GeminiBaseURL)
	cfg.MinScanDuration = getenvDuration("MIN_SCAN_DURATION", cfg.MinScanDuration)
	cfg.AcquireTimeout = getenvDuration("ACQUIRE_TIMEOUT", cfg.AcquireTimeout)
	cfg.ScanWorkers = getenvInt("SCAN_WORKERS", cfg.ScanWorkers)
	cfg.ScanQueueSize = getenvInt("SCAN_QUEUE_SIZE", cfg.ScanQueueSize)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	if cfg.ReportSource == "gemini" && cfg.GeminiAPIKey == "" {
		return cfg, ErrMissingAPIKey
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	switch c.ReportSource {
	case "gemini", "stub":
	default:
		return fmt.Errorf("unknown REPORT_SOURCE %q (want gemini or stub)", c.ReportSource)
	}
	if c.MinScanDuration < 0 {
		return fmt.Errorf("MIN_SCAN_DURATION must not be negative, got %s", c.MinScanDuration)
	}
	if c.ScanWorkers < 1 {
		return fmt.Errorf("SCAN_WORKERS must be at least 1, got %d", c.ScanWorkers)
	}
	return nil
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if out, err := strconv.Atoi(v); err == nil {
			return out
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
