package main

import (
	"log/slog"
	"os"

	"github.com/litewave/dnsproof/internal/infrastructure/logger"
	"github.com/litewave/dnsproof/internal/interfaces/cli"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("DNSPROOF_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}

	logger.Init(&logger.Config{
		Level:     logLevel,
		Format:    os.Getenv("DNSPROOF_LOG_FORMAT"),
		AddSource: os.Getenv("DNSPROOF_DEBUG") != "",
	})

	cli.Execute()
}
