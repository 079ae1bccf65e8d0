package main

import (
	"log/slog"
	"os"

	"auth-fabric/internal/app"
	"auth-fabric/internal/logger"
)

func main() {
	logHandler := logger.NewPrettyHandler(os.Stdout, "identity", &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(logHandler))

	application, err := app.NewIdentity()
	if err != nil {
		slog.Error("failed to initialize identity service", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("identity service run failed", "error", err)
		os.Exit(1)
	}
}
