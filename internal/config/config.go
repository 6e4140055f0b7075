package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/himanishpuri/StringHarmonics/pkg/harmonics"
	"github.com/himanishpuri/StringHarmonics/pkg/harmonics/pitch"
	"github.com/himanishpuri/StringHarmonics/pkg/logger"
)

const (
	DefaultDBPath      = "harmonics.sqlite3"
	DefaultPort        = "8080"
	DefaultMaxHarmonic = 16
	DefaultLilyPond    = "lilypond"
)

// Config holds the settings shared by the CLI and the server.
type Config struct {
	DBPath         string
	Port           string
	AllowedOrigins []string
	MaxHarmonic    int
	Spelling       pitch.Spelling
	Tie            pitch.Tie
	LilyPond       string
	LogLevel       string
	LogFile        string
}

// Load reads configuration from environment variables, after loading a
// .env file from the working directory or the nearest parent that has one.
// Variables already set in the environment take precedence over .env.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		DBPath:         getEnv("HARMONICS_DB_PATH", DefaultDBPath),
		Port:           getEnv("HARMONICS_PORT", DefaultPort),
		AllowedOrigins: splitList(getEnv("HARMONICS_ORIGINS", "*")),
		LilyPond:       getEnv("HARMONICS_LILYPOND", DefaultLilyPond),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
		LogFile:        getEnv("LOG_FILE", ""),
	}

	maxStr := getEnv("HARMONICS_MAX_HARMONIC", strconv.Itoa(DefaultMaxHarmonic))
	maxN, err := strconv.Atoi(maxStr)
	if err != nil {
		return nil, fmt.Errorf("HARMONICS_MAX_HARMONIC must be a valid integer: %w", err)
	}
	if maxN < 2 || maxN > harmonics.MaxHarmonicLimit {
		return nil, fmt.Errorf("HARMONICS_MAX_HARMONIC must be between 2 and %d, got %d", harmonics.MaxHarmonicLimit, maxN)
	}
	cfg.MaxHarmonic = maxN

	spelling, err := pitch.ParseSpelling(getEnv("HARMONICS_SPELLING", "fifths"))
	if err != nil {
		return nil, fmt.Errorf("HARMONICS_SPELLING: %w", err)
	}
	cfg.Spelling = spelling

	tie, ok := pitch.ParseTie(strings.ToLower(getEnv("HARMONICS_TIE", "down")))
	if !ok {
		return nil, fmt.Errorf("HARMONICS_TIE must be \"down\" or \"up\", got %q", os.Getenv("HARMONICS_TIE"))
	}
	cfg.Tie = tie

	return cfg, nil
}

// ConfigureLogger applies LogLevel and LogFile to the process logger.
func (c *Config) ConfigureLogger() error {
	level, ok := logger.ParseLevel(c.LogLevel)
	if !ok {
		return fmt.Errorf("LOG_LEVEL: unknown level %q", c.LogLevel)
	}
	log := logger.GetLogger()
	log.SetLevel(level)
	if c.LogFile != "" {
		log.SetFile(logger.RotatingFile(c.LogFile))
	}
	return nil
}

func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
