package main

import (
	"log/slog"
	"os"

	"kanboard/internal/config"
	"kanboard/internal/database"
	"kanboard/internal/logger"
	"kanboard/internal/routes"
)

func main() {
	cfg := config.Env()

	if err := logger.Init(logger.Config{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogFile,
	}); err != nil {
		slog.Error("failed to initialise logger", "error", err)
		os.Exit(1)
	}

	// Init database
	if err := database.InitDB(cfg.DatabasePath); err != nil {
		slog.Error("failed to open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	if err := database.SeedAdmin(database.GetDB(), cfg.AdminUsername, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed admin user", "error", err)
		os.Exit(1)
	}

	// Setup the routes (public, protected and page routes)
	ginRoutes := routes.SetupRoutes()

	port := ":" + cfg.Port
	slog.Info("server starting", "port", port, "files_dir", cfg.FilesDir)
	slog.Info("board pages", "columns", "/project/:id/columns", "categories", "/project/:id/categories", "file", "/file/:id")

	if err := ginRoutes.Run(port); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}
}
