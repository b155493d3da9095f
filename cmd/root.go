package cmd

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"crmdash/internal/mail"
	"crmdash/internal/social"
)

// ErrNoOperator is returned when nobody said who is running the dashboard.
var ErrNoOperator = errors.New("no operator email: pass -user or set CRMDASH_USER")

// Config holds CLI configuration.
type Config struct {
	DBPath      string `env:"CRMDASH_DB"`
	UserEmail   string `env:"CRMDASH_USER"`
	LogPath     string `env:"CRMDASH_LOG"`
	PageSize    int    `env:"CRMDASH_PAGE_SIZE" envDefault:"20"`
	Seed        bool   `env:"CRMDASH_SEED"`
	PrefsPath   string
	ShowVersion bool

	SMTP   mail.SMTPConfig
	Social social.Config
}

// ParseFlags parses command-line flags and returns configuration.
func ParseFlags(version string) (*Config, error) {
	// Load .env files first so env-based defaults work with flag parsing.
	// Missing files are fine.
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	config, err := parse(os.Args[1:], version)
	if err != nil {
		return nil, err
	}
	if config.ShowVersion {
		return config, nil
	}

	home, err := os.UserHomeDir()
	if err != nil && config.DBPath == "" {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}
	configDir, err := resolvePaths(config, home)
	if err != nil {
		return nil, err
	}

	settings, err := loadOnboardingSettings(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load onboarding settings: %w", err)
	}

	if shouldRunOnboarding(settings) {
		settings, err = runOnboarding(configDir, config.UserEmail, config.Social.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to run onboarding: %w", err)
		}
	}

	if err := applySettings(config, settings, configDir); err != nil {
		return nil, err
	}
	return config, nil
}

// parse reads the environment, then flags; flags win.
func parse(args []string, version string) (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	fs := flag.NewFlagSet("crmdash "+version, flag.ContinueOnError)
	fs.StringVar(&config.DBPath, "db", config.DBPath, "Path to SQLite database file (default: ~/.crmdash/crmdash.db)")
	fs.StringVar(&config.UserEmail, "user", config.UserEmail, "Operator email (or set CRMDASH_USER)")
	fs.StringVar(&config.Social.APIKey, "openai-key", config.Social.APIKey, "OpenAI API key for social posts (or set OPENAI_API_KEY)")
	fs.IntVar(&config.PageSize, "page-size", config.PageSize, "Rows per table page")
	fs.BoolVar(&config.Seed, "seed", config.Seed, "Load sample contacts and templates into an empty database")
	fs.BoolVar(&config.ShowVersion, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if config.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be positive, got %d", config.PageSize)
	}
	config.UserEmail = strings.TrimSpace(config.UserEmail)
	config.Social.APIKey = strings.TrimSpace(config.Social.APIKey)
	return config, nil
}

// resolvePaths fills in the database, prefs and log paths and returns the
// directory holding them.
func resolvePaths(config *Config, home string) (string, error) {
	var configDir string
	if config.DBPath == "" {
		configDir = filepath.Join(home, ".crmdash")
		config.DBPath = filepath.Join(configDir, "crmdash.db")
	} else {
		configDir = filepath.Dir(config.DBPath)
	}
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	config.PrefsPath = filepath.Join(configDir, "ui_prefs.json")
	if config.LogPath == "" {
		config.LogPath = filepath.Join(configDir, "debug.log")
	}
	return configDir, nil
}

// applySettings merges onboarding answers into config. Explicit flags and
// environment take precedence.
func applySettings(config *Config, settings OnboardingSettings, configDir string) error {
	if config.UserEmail == "" {
		config.UserEmail = settings.OperatorEmail
	}
	if config.UserEmail == "" {
		return ErrNoOperator
	}

	if config.Social.APIKey == "" && settings.SocialEnabled {
		secureKey, err := loadSecureOpenAIKey(configDir)
		if err != nil {
			return fmt.Errorf("failed to load secure OpenAI API key: %w", err)
		}
		config.Social.APIKey = secureKey
	}
	return nil
}
