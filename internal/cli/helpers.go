package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/cperrin88/assetfetch/internal/logger"
	"github.com/cperrin88/assetfetch/pkg/download"
)

// These variables will be set by the main package.
var (
	ConfigPath *string
	Verbose    *bool
)

// Environment variables consulted for credentials that never live in the
// config file.
const (
	envOAuthClientSecret = "ASSETFETCH_OAUTH_CLIENT_SECRET"
	envOAuthClientID     = "ASSETFETCH_OAUTH_CLIENT_ID"
)

// loadConfig assembles the effective download config: a .env file when
// present, then the YAML config, then credentials from the environment.
func loadConfig() (download.Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Debugf("skipping .env: %v", err)
	}

	configPath := ""
	if ConfigPath != nil {
		configPath = *ConfigPath
	}

	cfg := download.DefaultConfig()
	if configPath != "" {
		loaded, err := download.LoadConfig(configPath)
		if err != nil {
			return download.Config{}, err
		}
		cfg = loaded
	}

	if id := os.Getenv(envOAuthClientID); id != "" {
		cfg.Backends.OAuthClientID = id
	}
	if secret := os.Getenv(envOAuthClientSecret); secret != "" {
		cfg.Backends.OAuthClientSecret = secret
	}

	if Verbose != nil && *Verbose {
		logger.InitLogger("debug")
	}
	return cfg, nil
}
