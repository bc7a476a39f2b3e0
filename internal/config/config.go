package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

// DefaultServerURL is where a stock FastSD server listens.
const DefaultServerURL = "http://localhost:8000"

// Config holds everything the orchestrator needs from the environment.
type Config struct {
	// ServerURL is the base URL of the FastSD server.
	ServerURL string
	// OutputDir is where generated artifacts are written.
	OutputDir string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load() // a .env file is optional

	cfg := &Config{
		ServerURL: os.Getenv("FASTSD_SERVER_URL"),
		OutputDir: os.Getenv("FASTSD_OUTPUT_DIR"),
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = DefaultServerURL
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = os.TempDir()
	}

	u, err := url.Parse(cfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid FASTSD_SERVER_URL %q: %w", cfg.ServerURL, err)
	}
	if u.Scheme == "" || u.Hostname() == "" {
		return nil, fmt.Errorf("invalid FASTSD_SERVER_URL %q: missing scheme or host", cfg.ServerURL)
	}

	return cfg, nil
}
