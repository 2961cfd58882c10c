package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/Alias1177/CrashSignal/models"
	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// FileEnv names the environment variable pointing at an optional YAML config file.
const FileEnv = "CRASHSIGNAL_CONFIG"

// Load builds configuration from tag defaults, an optional YAML file and
// environment variables, in that order of precedence (environment wins).
func Load() (*models.Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg models.Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("applying config defaults: %w", err)
	}

	if path := os.Getenv(FileEnv); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)
	return &cfg, nil
}

func loadFile(path string, cfg *models.Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *models.Config) {
	cfg.GeminiAPIKey = getEnvWithDefault("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.CommentaryBaseURL = getEnvWithDefault("COMMENTARY_BASE_URL", cfg.CommentaryBaseURL)
	cfg.CommentaryModel = getEnvWithDefault("COMMENTARY_MODEL", cfg.CommentaryModel)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.HTTPAddr = getEnvWithDefault("HTTP_ADDR", cfg.HTTPAddr)
	cfg.MetricsEnabled = getEnvBoolWithDefault("METRICS_ENABLED", cfg.MetricsEnabled)
	cfg.TelegramBotToken = getEnvWithDefault("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.TelegramRPS = getEnvIntWithDefault("TELEGRAM_RPS", cfg.TelegramRPS)

	cfg.Database.Host = getEnvWithDefault("DB_HOST", cfg.Database.Host)
	cfg.Database.Port = getEnvWithDefault("DB_PORT", cfg.Database.Port)
	cfg.Database.User = getEnvWithDefault("DB_USER", cfg.Database.User)
	cfg.Database.Password = getEnvWithDefault("DB_PASSWORD", cfg.Database.Password)
	cfg.Database.DBName = getEnvWithDefault("DB_NAME", cfg.Database.DBName)
	cfg.Database.SSLMode = getEnvWithDefault("DB_SSLMODE", cfg.Database.SSLMode)
}

// SetupLogger points the global zerolog logger at a console writer on stderr.
// Unknown levels fall back to info.
func SetupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).Level(lvl)
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
