package main

import (
	"log/slog"
	"os"

	"auth-fabric/internal/app"
	"auth-fabric/internal/logger"
)

func main() {
	logHandler := logger.NewPrettyHandler(os.Stdout, "resource", &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	application, err := app.NewResource()
	if err != nil {
		slog.Error("failed to initialize resource service", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("resource service run failed", "error", err)
		os.Exit(1)
	}
}
