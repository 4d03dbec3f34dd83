package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linesmerrill/dispatch-console/logging"
	"github.com/linesmerrill/dispatch-console/models"
)

// Config holds the project config values
type Config struct {
	URL            string        `env:"DB_URI" validate:"required_if=Store mongo"`
	DatabaseName   string        `env:"DB_NAME" envDefault:"dispatch-console"`
	BaseURL        string        `env:"BASE_URL"`
	Port           string        `env:"PORT" envDefault:"8080" validate:"required,numeric"`
	Store          string        `env:"STORE" envDefault:"memory" validate:"oneof=memory mongo sqlite"`
	SQLitePath     string        `env:"SQLITE_PATH" envDefault:"dispatch-console.db" validate:"required_if=Store sqlite"`
	Environment    string        `env:"ENVIRONMENT" envDefault:"local"`
	AdminPasscode  string        `env:"ADMIN_PASSCODE" envDefault:"Administrator" validate:"required"`
	ClearPolicy    string        `env:"CLEAR_POLICY" envDefault:"defaults" validate:"oneof=defaults empty"`
	TimeZone       string        `env:"TIME_ZONE" envDefault:"America/New_York" validate:"required"`
	CountdownGrace time.Duration `env:"COUNTDOWN_GRACE" envDefault:"5s" validate:"gte=0"`
	SyncInterval   time.Duration `env:"SYNC_INTERVAL" envDefault:"15m" validate:"gt=0"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"10s" validate:"gt=0"`
}

// New loads .env when present, parses the environment into a Config and
// installs the zap logger for the configured environment as the global one
func New() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	}

	c, err := Parse()
	if err != nil {
		return nil, err
	}

	logger, err := setLogger(c.Environment)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	_ = zap.ReplaceGlobals(logger)

	return c, nil
}

// Parse reads and validates the config from the environment only
func Parse() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := validator.New().Struct(c); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &c, nil
}

// Location loads the configured time zone
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.TimeZone)
}

func setLogger(environment string) (*zap.Logger, error) {
	return logging.New(environment)
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	errText := ""
	if err != nil {
		errText = err.Error()
	}
	b, _ := json.Marshal(models.ErrorMessageResponse{
		Response: models.MessageError{Message: message, Error: errText},
	})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatusCode)
	w.Write(b)
}
