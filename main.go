package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursedash/adapters/excel"
	"coursedash/app"
	"coursedash/internal"
	"coursedash/internal/config"
	"coursedash/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := internal.NewLogger(internal.ParseLogLevel(appConfig.Logging.Level), appConfig.Logging.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	dashboard, err := buildDashboard(appConfig, logger)
	if err != nil {
		logger.Error("failed to initialize catalog: %v", err)
		os.Exit(1)
	}

	server, err := ui.NewServer(dashboard, appConfig.Server, logger)
	if err != nil {
		logger.Error("failed to initialize server: %v", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Warm the cache so the first page view doesn't pay for ingestion
	go func() {
		if _, err := dashboard.Store().Get(ctx); err != nil {
			logger.Warn("initial catalog load failed: %v", err)
		}
	}()

	if appConfig.Data.RefreshInterval > 0 {
		go watchCatalog(ctx, dashboard.Store(), appConfig.Data.RefreshInterval, logger)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(":" + appConfig.Server.Port)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed: %v", err)
		}
	}
}

// buildDashboard wires the semester source, loader, store and dashboard service
func buildDashboard(appConfig *config.Config, logger *internal.Logger) (*app.DashboardService, error) {
	columns, err := excel.LoadColumnMap(appConfig.Data.ColumnMapFile)
	if err != nil {
		return nil, err
	}

	source := excel.NewDirectorySource(excel.ExcelConfig{
		Dir:       appConfig.Data.Dir,
		SheetName: appConfig.Data.SheetName,
		Columns:   columns,
	}, logger)

	loader := app.NewCatalogLoader(source, appConfig.Data.LoadConcurrency, logger)
	store := app.NewCatalogStore(loader, logger)
	logger.Info("serving semester files from %s", source.Dir())
	return app.NewDashboardService(store, appConfig.Data.TopDepartments, logger), nil
}

// watchCatalog polls the data directory and reloads the catalog when the
// semester files change.
func watchCatalog(ctx context.Context, store *app.CatalogStore, interval time.Duration, logger *internal.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := store.Refresh(ctx); err != nil {
				logger.Warn("catalog refresh failed: %v", err)
			}
		}
	}
}
