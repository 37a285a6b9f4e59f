package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"thalamusd/internal/config"
)

// setupLogging applies THALAMUS_LOG_LEVEL and THALAMUS_LOG_FORMAT to the
// global zerolog logger. Unknown levels fall back to info.
func setupLogging(s config.Settings) {
	level, err := zerolog.ParseLevel(s.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if s.LogFormat == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
