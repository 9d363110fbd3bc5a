package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"wordchain_backend/internal/utils"
)

// Config holds every deployment setting of the game server.
type Config struct {
	Port            string
	MaxPlayers      int
	RememberedWords int
	TurnTime        time.Duration
	MaxStartWordLen int
	WordsFile       string
	AllowedOrigins  []string
	LogLevel        string
	LogPretty       bool
	GinMode         string
}

// Load reads an optional .env file and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using environment variables directly")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function, applying defaults for unset keys.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Port:           withDefault(getenv("PORT"), "8081"),
		WordsFile:      getenv("WORDS_FILE"),
		AllowedOrigins: utils.SplitList(getenv("ALLOWED_ORIGINS")),
		LogLevel:       withDefault(getenv("LOG_LEVEL"), "info"),
		GinMode:        withDefault(getenv("GIN_MODE"), "release"),
	}

	var err error
	if cfg.MaxPlayers, err = positiveInt(getenv, "MAX_PLAYERS", 10); err != nil {
		return Config{}, err
	}
	if cfg.RememberedWords, err = positiveInt(getenv, "REMEMBERED_WORDS", 6); err != nil {
		return Config{}, err
	}
	turnMs, err := positiveInt(getenv, "TURN_TIME_MS", 8000)
	if err != nil {
		return Config{}, err
	}
	cfg.TurnTime = time.Duration(turnMs) * time.Millisecond
	if cfg.MaxStartWordLen, err = positiveInt(getenv, "MAX_START_WORD_LEN", 10); err != nil {
		return Config{}, err
	}
	if cfg.MaxPlayers < 2 {
		return Config{}, fmt.Errorf("MAX_PLAYERS must be at least 2, got %d", cfg.MaxPlayers)
	}

	pretty := withDefault(getenv("LOG_PRETTY"), "true")
	if cfg.LogPretty, err = strconv.ParseBool(pretty); err != nil {
		return Config{}, fmt.Errorf("LOG_PRETTY: %w", err)
	}
	return cfg, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func positiveInt(getenv func(string) string, key string, def int) (int, error) {
	raw := getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
