package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"wordchain_backend/internal/config"
	"wordchain_backend/internal/game"
	"wordchain_backend/internal/logger"
	"wordchain_backend/internal/names"
	"wordchain_backend/internal/server"
	"wordchain_backend/internal/words"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)

	wordList := words.Default()
	if cfg.WordsFile != "" {
		if wordList, err = words.Load(cfg.WordsFile); err != nil {
			log.Fatal().Err(err).Msg("could not load word list")
		}
	} else {
		log.Warn().Int("words", wordList.Len()).Msg("WORDS_FILE not set, using the small built-in list; set it to a full dictionary for real games")
	}
	log.Info().Int("words", wordList.Len()).Msg("word list loaded")

	hub := game.NewHub(game.HubConfig{
		Settings: game.Settings{
			MaxPlayers:      cfg.MaxPlayers,
			RememberedWords: cfg.RememberedWords,
			TurnTime:        cfg.TurnTime,
			MaxStartWordLen: cfg.MaxStartWordLen,
		},
		Source:     wordList,
		Dictionary: wordList,
		Names:      names.Default(),
	})

	router := server.New(hub, cfg.AllowedOrigins)
	log.Info().Str("port", cfg.Port).Msg("word chain server listening")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
