package config

import (
	"fmt"
	"os"
	"path/filepath"

	"socseed/internal/elastic"
	"socseed/internal/scenario"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Elastic  elastic.Config
	DataPath string
	LogDir   string
	Profile  Profile
}

// Profile tunes document generation. All fields are optional; zero values
// keep the built-in defaults.
type Profile struct {
	Counts   scenario.Counts `yaml:"counts"`
	Services []string        `yaml:"services"`
	Hosts    []string        `yaml:"hosts"`
}

// Load loads the configuration from .env files, environment variables and an
// optional YAML generation profile.
func Load(profilePath string) (*AppConfig, error) {
	// 1. Try to load .env from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	cfg := &AppConfig{
		Elastic: elastic.Config{
			URL:     getEnv("ELASTICSEARCH_URL", ""),
			APIKey:  getEnv("ELASTICSEARCH_API_KEY", ""),
			CloudID: getEnv("ELASTICSEARCH_CLOUD_ID", ""),
		},
		DataPath: dataPath,
		LogDir:   logDir,
	}

	// 4. Optional generation profile
	if profilePath == "" {
		profilePath = os.Getenv("SOCSEED_PROFILE")
	}
	if profilePath != "" {
		profile, err := loadProfile(profilePath)
		if err != nil {
			return nil, err
		}
		cfg.Profile = *profile
		log.Info().Str("path", profilePath).Msg("Loaded generation profile")
	}

	return cfg, nil
}

func loadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	return &p, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
