package models

import (
	"time"
)

type Config struct {
	GeminiAPIKey      string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	CommentaryBaseURL string `yaml:"commentary_base_url" env:"COMMENTARY_BASE_URL" default:"https://generativelanguage.googleapis.com/v1beta/openai/"`
	CommentaryModel   string `yaml:"commentary_model" env:"COMMENTARY_MODEL" default:"gemini-2.5-flash"`
	LogLevel          string `yaml:"log_level" env:"LOG_LEVEL" default:"info"`
	RequestTimeout    int    `yaml:"request_timeout" env:"REQUEST_TIMEOUT" default:"30"` // seconds
	HTTPAddr          string `yaml:"http_addr" env:"HTTP_ADDR" default:":8080"`
	MetricsEnabled    bool   `yaml:"metrics_enabled" env:"METRICS_ENABLED" default:"true"`
	TelegramBotToken  string `yaml:"telegram_bot_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramRPS       int    `yaml:"telegram_rps" env:"TELEGRAM_RPS" default:"20"`

	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the check journal.
// An empty Host disables the journal.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     string `yaml:"port" env:"DB_PORT" default:"5432"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	DBName   string `yaml:"dbname" env:"DB_NAME" default:"crashsignal"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE" default:"disable"`
}

// Enabled reports whether a journal database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// VerdictKind tags the outcome of a signal evaluation.
type VerdictKind string

const (
	VerdictSignal           VerdictKind = "signal"
	VerdictNoSignal         VerdictKind = "no_signal"
	VerdictInsufficientData VerdictKind = "insufficient_data"
)

// Verdict is the result of evaluating one multiplier history
type Verdict struct {
	Kind      VerdictKind `json:"kind"`
	Message   string      `json:"message"`
	IsSignal  bool        `json:"is_signal"`
	LowStreak int         `json:"low_streak"` // consecutive rounds below the low threshold, counted from the latest
	HighHit   bool        `json:"high_hit"`   // a high multiplier occurred inside the safety window
}

// Commentary status values
const (
	CommentaryGenerated   = "generated"
	CommentaryUnavailable = "unavailable"
	CommentaryFailed      = "failed"
	CommentarySkipped     = "skipped"
)

// Commentary is the AI risk assessment attached to a verdict.
// Text is always displayable, even when Status is not CommentaryGenerated.
type Commentary struct {
	Status string `json:"status"`
	Text   string `json:"text"`
}

// CheckRecord is one journal row. The history values themselves are not stored.
type CheckRecord struct {
	ID               string
	Source           string // cli, web, api, telegram
	Rounds           int
	Verdict          VerdictKind
	IsSignal         bool
	CommentaryStatus string
	CreatedAt        time.Time
}
