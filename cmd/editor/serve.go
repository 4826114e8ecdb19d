package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"plan-editor/internal/common/config"
	"plan-editor/internal/common/middleware"
	"plan-editor/internal/editor/handlers"
	"plan-editor/internal/editor/repository"
	"plan-editor/internal/editor/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP editor service",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PORT)")
	serveCmd.Flags().String("db", "", "sqlite database path (overrides EDITOR_DB_PATH)")
	serveCmd.Flags().String("migrations", "", "migration file (overrides EDITOR_MIGRATIONS)")
	rootCmd.AddCommand(serveCmd)
}

// ============================================================
// Editor Service
// ============================================================

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if v, _ := cmd.Flags().GetString("port"); v != "" {
		cfg.Port = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("migrations"); v != "" {
		cfg.MigrationsPath = v
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), cfg.MigrationsPath); err != nil {
		return fmt.Errorf("init db: %w", err)
	}

	sessions := service.NewSessionStore()
	sessionHandler := handlers.NewSessionHandler(sessions, repo, cfg.DefaultScale)
	planHandler := handlers.NewPlanHandler(repo)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Editor Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger("/health"))
	app.Use(middleware.CORS(cfg.CORSOrigins...))

	// ============================================================
	// Health Check Routes
	// ============================================================

	handlers.NewHealthHandler(db, sessions).Register(app)
	handlers.RegisterDocs(app)

	// ============================================================
	// Editor Routes
	// ============================================================

	handlers.RegisterGeometry(app)
	sessionHandler.Register(app)
	planHandler.Register(app)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Editor Service on %s (env: %s, db: %s)", addr, cfg.Environment, cfg.DBPath)

	if err := app.Listen(addr); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
