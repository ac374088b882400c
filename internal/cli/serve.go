package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vibecoding/devlog/internal/logger"
	"github.com/vibecoding/devlog/internal/server"
	"github.com/vibecoding/devlog/internal/service"
	"github.com/vibecoding/devlog/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Connect to the database, apply pending migrations, and serve the JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if config.Database.URL == "" {
			return fmt.Errorf("no database URL configured: set database.url in devlog.yaml or pass --url")
		}

		db, err := config.StoreConfig().Connect(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.Migrate(); err != nil {
			return err
		}

		srv := buildServer(config, db)

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-stop:
			logger.CLI().Info("received %s", sig)
			return srv.Shutdown(context.Background())
		}
	},
}

// buildServer wires the stores and services behind the HTTP front end
func buildServer(cfg *Config, db *store.DB) *server.Server {
	projectStore := store.NewProjectStore(db)
	devLogStore := store.NewDevLogStore(db)
	techTagStore := store.NewTechTagStore(db)
	statsStore := store.NewStatsStore(db)

	projects := service.NewProjectService(projectStore)
	logs := service.NewDevLogService(devLogStore, techTagStore)
	tags := service.NewTechTagService(techTagStore)
	stats := service.NewStatisticsService(statsStore, projectStore)

	return server.New(cfg.Server, projects, logs, tags, stats)
}
