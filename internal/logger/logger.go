package logger

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// New builds the process logger at the level named by LOG_LEVEL, defaulting
// to info. It runs before config.Load, so it reads .env itself.
func New() zerolog.Logger {
	_ = godotenv.Load()

	level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return SetLevel(level)
}

func SetLevel(level zerolog.Level) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()

	logger = logger.Level(level)

	return logger
}
