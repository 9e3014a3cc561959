package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config is the runtime configuration.
type Config struct {
	APIBase        string        `env:"INNKEEP_API_BASE" default:"http://localhost:9080"`
	SessionFile    string        `env:"INNKEEP_SESSION_FILE" default:"~/.config/innkeep/session.toml"`
	RequestTimeout time.Duration `env:"INNKEEP_REQUEST_TIMEOUT" default:"30s"`
	LogFile        string        `env:"INNKEEP_LOG_FILE"`
	LogLevel       string        `env:"LOG_LEVEL" default:"warn"`
	LogFormat      string        `env:"LOG_FORMAT" default:"text"`
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg.APIBase = strings.TrimRight(strings.TrimSpace(cfg.APIBase), "/")

	sessionFile, err := ExpandPath(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("INNKEEP_SESSION_FILE: %w", err)
	}
	cfg.SessionFile = sessionFile

	if strings.TrimSpace(cfg.LogFile) != "" {
		logFile, err := ExpandPath(cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("INNKEEP_LOG_FILE: %w", err)
		}
		cfg.LogFile = logFile
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIBase)
	if err != nil {
		return fmt.Errorf("INNKEEP_API_BASE is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("INNKEEP_API_BASE must use http or https, got %q", cfg.APIBase)
	}
	if u.Host == "" {
		return fmt.Errorf("INNKEEP_API_BASE must include a host, got %q", cfg.APIBase)
	}
	if cfg.RequestTimeout <= 0 {
		return errors.New("INNKEEP_REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// ExpandPath resolves a leading "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
