// Package main is the reviewdesk CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/backend"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/config/file"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/export"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driven/upload"
	"github.com/custodia-labs/reviewdesk/internal/adapters/driving/cli"
	"github.com/custodia-labs/reviewdesk/internal/core/domain"
	"github.com/custodia-labs/reviewdesk/internal/core/services"
	"github.com/custodia-labs/reviewdesk/internal/logger"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	configDir, err := file.DefaultDir()
	if err != nil {
		return err
	}
	store, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}

	settings := services.NewSettingsService(store)
	current, err := settings.Get()
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	client := backend.New(backend.ConfigFromSettings(current.Backend))
	settings.OnChange(func(s domain.AppSettings) {
		client.Reconfigure(backend.ConfigFromSettings(s.Backend))
	})

	db, err := sqlite.NewStore(filepath.Join(configDir, "data"))
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer db.Close()

	history := services.NewHistoryService(db.HistoryStore(), export.NewXLSXExporter())
	documents := services.NewDocumentService(client, upload.NewInspector(0))

	cli.SetServices(cli.Services{
		Company:  services.NewCompanyService(client, documents),
		Document: documents,
		Criteria: services.NewCriteriaService(client),
		Review:   services.NewReviewSession(client, history, settings),
		Chat:     services.NewChatSession(client),
		Chunks:   services.NewChunkEditor(client, settings),
		History:  history,
		Settings: settings,
	})

	reloads := make(chan struct{}, 1)
	go func() {
		err := store.Watch(ctx, func() {
			logger.Info("Config file changed, reloading")
			settings.Reloaded()
			select {
			case reloads <- struct{}{}:
			default:
			}
		})
		if err != nil {
			logger.Warn("config watch stopped: %v", err)
		}
	}()

	exportDir, err := os.Getwd()
	if err != nil {
		exportDir = configDir
	}
	cli.SetTUIConfig(&cli.TUIConfig{
		ExportDir:     exportDir,
		LogPath:       filepath.Join(configDir, "tui.log"),
		ConfigReloads: reloads,
	})
	cli.SetVersion(version)

	return cli.Execute(ctx)
}
