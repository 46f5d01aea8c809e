package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rsharma/restlab/internal/api"
	"github.com/rsharma/restlab/internal/config"
	"github.com/rsharma/restlab/internal/env"
	"github.com/rsharma/restlab/internal/executor"
	"github.com/rsharma/restlab/internal/history"
	"github.com/rsharma/restlab/internal/mock"
	"github.com/rsharma/restlab/internal/stats"
	"github.com/rsharma/restlab/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the RestLab server",
	Long: `Starts the RestLab server.

The server will:
  - Expose the Admin API at /_api/
  - Answer mock server requests under the mock mount (default /mock/)
  - Stream run results over /_api/results/stream

Configuration is loaded from config.yaml in the current directory,
or specify a custom config file with the --config flag.`,
	RunE: runServe,
}

var portFlag int

func init() {
	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 0, "Override server port")

	// Bind flags to viper
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := configFromViper()

	// Override port if flag was explicitly set
	if portFlag > 0 {
		cfg.Server.Port = portFlag
	}

	// Resolve relative storage path to absolute
	if cfg.Storage.Path != "" && !filepath.IsAbs(cfg.Storage.Path) {
		cwd, err := os.Getwd()
		if err == nil {
			cfg.Storage.Path = filepath.Join(cwd, cfg.Storage.Path)
		}
	}

	// Initialize storage
	var store storage.Storage
	var err error
	if cfg.Storage.Type == "file" {
		log.Printf("Using data directory: %s", cfg.Storage.Path)
		store, err = storage.NewFileStorage(cfg.Storage.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize file storage: %w", err)
		}
	} else {
		store = storage.NewMemoryStorage()
	}

	// Initialize run history and statistics
	historySvc := history.NewService(cfg.History.MaxResults)
	collector := stats.NewCollector()

	// Initialize environment manager and mock router
	envs := env.NewManager(store)
	mockRouter := mock.NewRouter(store)

	// Initialize request executor
	exec := executor.New(envs, mockRouter, historySvc, collector,
		executor.WithMockMount(cfg.Server.MockMount))

	// Setup router
	router := api.NewRouter(cfg, store, envs, mockRouter, exec, historySvc, collector)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting RestLab server on %s", addr)
		log.Printf("Admin API available at http://%s/_api/", addr)
		log.Printf("Mock servers answered under http://%s%s/<token>/", addr, cfg.Server.MockMount)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if err := store.Close(); err != nil {
		log.Printf("Storage close error: %v", err)
	}

	log.Println("Server stopped")
	return nil
}

// configFromViper assembles the runtime configuration from viper's
// merged view of defaults, config file, env vars and flags.
func configFromViper() *config.Config {
	cfg := config.Default()
	cfg.Server.Port = viper.GetInt("server.port")
	cfg.Server.Host = viper.GetString("server.host")
	cfg.Server.MockMount = viper.GetString("server.mockMount")
	cfg.Storage.Type = viper.GetString("storage.type")
	cfg.Storage.Path = viper.GetString("storage.path")
	cfg.History.MaxResults = viper.GetInt("history.maxResults")
	cfg.Identity.Secret = viper.GetString("identity.secret")
	cfg.Identity.Required = viper.GetBool("identity.required")
	cfg.Logging.Level = viper.GetString("logging.level")
	cfg.Logging.Format = viper.GetString("logging.format")
	return cfg
}
