package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults matching the reference deployment.
const (
	DefaultSheetName       = "Print Jobs"
	DefaultCredentialsFile = "service_account.json"
	DefaultStatusColumn    = "L"
	DefaultNotesColumn     = "M"
	DefaultCleanupColumns  = "D,E,L,M,O"
	DefaultCleanupDelay    = 5 * time.Minute
)

// PrinterConfig holds the connection settings for one Fiery controller,
// read from FIERY_<KEY>_* environment variables.
type PrinterConfig struct {
	Key      string `validate:"required"`
	IP       string `validate:"required"`
	Username string
	Password string
	APIKey   string `validate:"required"`
}

// Config is the full run configuration, resolved once at startup and passed
// by value into the engine wiring. Nothing downstream reads the environment.
type Config struct {
	Printer         PrinterConfig `validate:"required"`
	SpreadsheetID   string        `validate:"required"`
	SheetName       string        `validate:"required"`
	CredentialsFile string        `validate:"required"`
	StatusColumn    string        `validate:"required"`
	NotesColumn     string        `validate:"required"`
	CleanupColumns  []string      `validate:"min=1,dive,required"`
	CleanupDelay    time.Duration `validate:"gt=0"`
}

var validate = validator.New()

// Load resolves the configuration for the selected printer. An unknown key
// surfaces as missing FIERY_<KEY>_* variables and fails validation.
func Load(printerKey string) (*Config, error) {
	printer, err := LoadPrinter(printerKey)
	if err != nil {
		return nil, err
	}

	delayStr := getEnvWithDefault("CLEANUP_DELAY", DefaultCleanupDelay.String())
	delay, err := time.ParseDuration(delayStr)
	if err != nil {
		return nil, fmt.Errorf("invalid CLEANUP_DELAY %q: %w", delayStr, err)
	}

	cfg := &Config{
		Printer:         printer,
		SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
		SheetName:       getEnvWithDefault("SHEET_NAME", DefaultSheetName),
		CredentialsFile: getEnvWithDefault("SERVICE_ACCOUNT_FILE", DefaultCredentialsFile),
		StatusColumn:    getEnvWithDefault("STATUS_COLUMN", DefaultStatusColumn),
		NotesColumn:     getEnvWithDefault("NOTES_COLUMN", DefaultNotesColumn),
		CleanupColumns:  splitColumns(getEnvWithDefault("CLEANUP_COLUMNS", DefaultCleanupColumns)),
		CleanupDelay:    delay,
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration for printer %q: %w", printerKey, err)
	}
	return cfg, nil
}

// LoadPrinter reads one printer's settings from the environment registry.
func LoadPrinter(printerKey string) (PrinterConfig, error) {
	key := strings.TrimSpace(printerKey)
	if key == "" {
		return PrinterConfig{}, fmt.Errorf("printer key is required")
	}

	envKey := envSafeKey(key)
	cfg := PrinterConfig{
		Key:      key,
		IP:       os.Getenv(fmt.Sprintf("FIERY_%s_IP", envKey)),
		Username: os.Getenv(fmt.Sprintf("FIERY_%s_USERNAME", envKey)),
		Password: os.Getenv(fmt.Sprintf("FIERY_%s_PASSWORD", envKey)),
		APIKey:   os.Getenv(fmt.Sprintf("FIERY_%s_API_KEY", envKey)),
	}

	if err := validate.Struct(cfg); err != nil {
		return PrinterConfig{}, fmt.Errorf("unknown printer %q or incomplete FIERY_%s_* configuration: %w", key, envKey, err)
	}
	return cfg, nil
}

// envSafeKey uppercases a printer key and squashes anything that cannot
// appear in an environment variable name.
func envSafeKey(key string) string {
	upper := strings.ToUpper(key)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, upper)
}

func splitColumns(raw string) []string {
	var cols []string
	for _, col := range strings.Split(raw, ",") {
		col = strings.TrimSpace(col)
		if col != "" {
			cols = append(cols, strings.ToUpper(col))
		}
	}
	return cols
}

func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
