// Package config reads settings from the environment and an optional .env
// file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every tunable of the CLI and web server
type Config struct {
	ListenAddr    string
	MaxUploadMB   int64
	Workers       int
	OCREnabled    bool
	OCRForce      bool
	OCRLanguage   string
	OCRDPI        float64
	OCRTimeout    time.Duration
	MinCaseDigits int
	Addressee     string
	BatchTTL      time.Duration
	LogLevel      string
	LogFormat     string
}

// Load reads the given .env files, or ./.env when none are named, and then
// the environment. Only the implicit ./.env may be missing; a named file must
// exist. Variables already set in the environment win over the file.
func Load(files ...string) (Config, error) {
	err := godotenv.Load(files...)
	if err != nil && (len(files) > 0 || !errors.Is(err, fs.ErrNotExist)) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment alone
func FromEnv() (Config, error) {
	var errs []error
	cfg := Config{
		ListenAddr:    getEnv("RFB_LISTEN_ADDR", ":8082"),
		MaxUploadMB:   int64(getInt("RFB_MAX_UPLOAD_MB", 32, &errs)),
		Workers:       getInt("RFB_WORKERS", 1, &errs),
		OCREnabled:    getBool("RFB_OCR_ENABLED", true, &errs),
		OCRForce:      getBool("RFB_OCR_FORCE", false, &errs),
		OCRLanguage:   getEnv("RFB_OCR_LANGUAGE", "por"),
		OCRDPI:        float64(getInt("RFB_OCR_DPI", 200, &errs)),
		OCRTimeout:    getDuration("RFB_OCR_TIMEOUT", 2*time.Minute, &errs),
		MinCaseDigits: getInt("RFB_MIN_CASE_DIGITS", 7, &errs),
		Addressee:     getEnv("RFB_ADDRESSEE", ""),
		BatchTTL:      getDuration("RFB_BATCH_TTL", 30*time.Minute, &errs),
		LogLevel:      getEnv("RFB_LOG_LEVEL", "info"),
		LogFormat:     getEnv("RFB_LOG_FORMAT", "text"),
	}

	if cfg.Workers < 1 {
		errs = append(errs, fmt.Errorf("RFB_WORKERS must be at least 1, got %d", cfg.Workers))
	}
	if cfg.MinCaseDigits < 1 {
		errs = append(errs, fmt.Errorf("RFB_MIN_CASE_DIGITS must be at least 1, got %d", cfg.MinCaseDigits))
	}
	return cfg, errors.Join(errs...)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getInt(key string, fallback int, errs *[]error) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return n
}

func getBool(key string, fallback bool, errs *[]error) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
		return fallback
	}
	return d
}

// NewLogger builds a logrus logger from a level name and a "text" or "json"
// format
func NewLogger(level, format string) (*logrus.Logger, error) {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	log.SetLevel(lvl)

	switch format {
	case "", "text":
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	return log, nil
}
