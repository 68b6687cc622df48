// Package config holds the viper-backed configuration singleton.
//
// Precedence: environment variables (TRIAGE_*) > config file > defaults.
// The config file is .triage/config.yaml found by walking up from the
// working directory, falling back to ~/.config/triage/config.yaml.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Mayank-Tripathi32/wp-git-issues-tracker/internal/debug"
)

var v *viper.Viper

// Initialize sets up the configuration singleton. Called once at startup.
func Initialize() error {
	v = viper.New()
	v.SetConfigType("yaml")

	configFileSet := false

	// Walk up from CWD to find a project .triage/config.yaml so commands
	// work from subdirectories of the checkout.
	if cwd, err := os.Getwd(); err == nil {
		for dir := cwd; dir != filepath.Dir(dir); dir = filepath.Dir(dir) {
			configPath := filepath.Join(dir, ".triage", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
				break
			}
		}
	}

	if !configFileSet {
		if configDir, err := os.UserConfigDir(); err == nil {
			configPath := filepath.Join(configDir, "triage", "config.yaml")
			if _, err := os.Stat(configPath); err == nil {
				v.SetConfigFile(configPath)
				configFileSet = true
			}
		}
	}

	// TRIAGE_GITHUB_TOKEN maps to "github-token", and so on.
	v.SetEnvPrefix("TRIAGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("repo", "WordPress/gutenberg")
	v.SetDefault("github-token", "")
	v.SetDefault("anthropic-api-key", "")
	v.SetDefault("model", "")
	v.SetDefault("db", filepath.Join(".triage", "triage.db"))
	v.SetDefault("rules", "")
	v.SetDefault("max-pages", 5)
	v.SetDefault("per-page", 100)
	v.SetDefault("workers", 5)
	v.SetDefault("retries", 2)
	v.SetDefault("body-limit", 2000)
	v.SetDefault("classify-timeout", "60s")
	v.SetDefault("lock-timeout", "30s")
	v.SetDefault("log-file", "")

	if configFileSet {
		if err := v.ReadInConfig(); err != nil {
			return err
		}
		debug.Logf("config: loaded %s", v.ConfigFileUsed())
	}

	debug.SetLogFile(v.GetString("log-file"))
	return nil
}

func ensure() {
	if v == nil {
		_ = Initialize()
	}
}

// GetString returns the string value for key.
func GetString(key string) string {
	ensure()
	return v.GetString(key)
}

// GetInt returns the int value for key.
func GetInt(key string) int {
	ensure()
	return v.GetInt(key)
}

// GetBool returns the bool value for key.
func GetBool(key string) bool {
	ensure()
	return v.GetBool(key)
}

// GetDuration returns the duration value for key.
func GetDuration(key string) time.Duration {
	ensure()
	return v.GetDuration(key)
}

// Set overrides a value for the current process. Used by flag binding and tests.
func Set(key string, value any) {
	ensure()
	v.Set(key, value)
}
