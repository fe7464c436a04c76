// Package config loads service settings from planning.yaml and PLANNING_* environment variables.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable.
const EnvPrefix = "PLANNING"

// Configuration errors
var (
	ErrBadHexKey      = errors.New("key must be 64 hex characters (32 bytes)")
	ErrMissingCSRFKey = errors.New("PLANNING_CSRF_KEY is required in production")
)

// Config holds all configuration values.
type Config struct {
	Addr     string `mapstructure:"ADDR"`
	Env      string `mapstructure:"ENV"`
	DBPath   string `mapstructure:"DB_PATH"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	SchoolName string `mapstructure:"SCHOOL_NAME"`

	// Schedule source: a CSV file takes precedence over the spreadsheet.
	SpreadsheetID string `mapstructure:"SPREADSHEET_ID"`
	SheetsAPIKey  string `mapstructure:"SHEETS_API_KEY"`
	ReadRange     string `mapstructure:"READ_RANGE"`
	HeaderRows    int    `mapstructure:"HEADER_ROWS"`
	ScheduleFile  string `mapstructure:"SCHEDULE_FILE"`

	// Booking sheet, written with an OAuth2 refresh token.
	BookingSpreadsheetID string `mapstructure:"BOOKING_SPREADSHEET_ID"`
	GoogleClientID       string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret   string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken   string `mapstructure:"GOOGLE_REFRESH_TOKEN"`

	// Remote submission endpoint; empty records bookings in-process.
	BookingEndpoint string `mapstructure:"BOOKING_ENDPOINT"`
	BookingAction   string `mapstructure:"BOOKING_ACTION"`
	BookingNonce    string `mapstructure:"BOOKING_NONCE"`

	ResendKey string `mapstructure:"RESEND_KEY"`
	EmailFrom string `mapstructure:"EMAIL_FROM"`
	ReplyTo   string `mapstructure:"REPLY_TO"`

	CSRFKey         string        `mapstructure:"CSRF_KEY"`
	CookieHashKey   string        `mapstructure:"COOKIE_HASH_KEY"`
	VisitorTTL      time.Duration `mapstructure:"VISITOR_TTL"`
	MaxVisitors     int           `mapstructure:"MAX_VISITORS"`
	RateLimitPerSec int           `mapstructure:"RATE_LIMIT_PER_SEC"`
	ExposePerf      bool          `mapstructure:"EXPOSE_PERF"`
	SlowRequest     time.Duration `mapstructure:"SLOW_REQUEST"`
	SlowQuery       time.Duration `mapstructure:"SLOW_QUERY"`
}

var defaults = map[string]any{
	"ADDR":                   ":8080",
	"ENV":                    "development",
	"DB_PATH":                "planning.db",
	"LOG_LEVEL":              "info",
	"SCHOOL_NAME":            "En Mouvance",
	"SPREADSHEET_ID":         "",
	"SHEETS_API_KEY":         "",
	"READ_RANGE":             "A1:R60",
	"HEADER_ROWS":            5,
	"SCHEDULE_FILE":          "",
	"BOOKING_SPREADSHEET_ID": "",
	"GOOGLE_CLIENT_ID":       "",
	"GOOGLE_CLIENT_SECRET":   "",
	"GOOGLE_REFRESH_TOKEN":   "",
	"BOOKING_ENDPOINT":       "",
	"BOOKING_ACTION":         "",
	"BOOKING_NONCE":          "",
	"RESEND_KEY":             "",
	"EMAIL_FROM":             "En Mouvance <planning@enmouvance.fr>",
	"REPLY_TO":               "",
	"CSRF_KEY":               "",
	"COOKIE_HASH_KEY":        "",
	"VISITOR_TTL":            "2h",
	"MAX_VISITORS":           10000,
	"RATE_LIMIT_PER_SEC":     10,
	"EXPOSE_PERF":            false,
	"SLOW_REQUEST":           "200ms",
	"SLOW_QUERY":             "50ms",
}

// Load reads the config file (explicit path, or ./planning.yaml when present)
// and overlays PLANNING_* environment variables.
// PRE: path is empty or names a readable YAML file
// POST: Every field has a value; an explicit missing file is an error
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("planning")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		slog.Debug("config_file_absent", "using", "environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// IsProduction reports whether ENV is "production".
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// SlogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DecodeKey decodes a 32-byte key from hex.
// POST: Returns nil, nil for an empty string
func DecodeKey(hexKey string) ([]byte, error) {
	if hexKey == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(hexKey)
	if err != nil || len(key) != 32 {
		return nil, ErrBadHexKey
	}
	return key, nil
}

// Validate checks secrets and numeric settings.
// PRE: Config was produced by Load
// POST: Returns nil if the service can start with this configuration
func (c Config) Validate() error {
	if _, err := DecodeKey(c.CSRFKey); err != nil {
		return fmt.Errorf("CSRF_KEY: %w", err)
	}
	if _, err := DecodeKey(c.CookieHashKey); err != nil {
		return fmt.Errorf("COOKIE_HASH_KEY: %w", err)
	}
	if c.IsProduction() && c.CSRFKey == "" {
		return ErrMissingCSRFKey
	}
	if c.HeaderRows < 0 {
		return fmt.Errorf("HEADER_ROWS must be >= 0, got %d", c.HeaderRows)
	}
	if c.RateLimitPerSec <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_SEC must be > 0, got %d", c.RateLimitPerSec)
	}
	return nil
}

// SheetsCredentialsSet reports whether bookings can be appended to a spreadsheet.
func (c Config) SheetsCredentialsSet() bool {
	return c.BookingSpreadsheetID != "" && c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleRefreshToken != ""
}
