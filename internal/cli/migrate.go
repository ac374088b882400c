package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibecoding/devlog/internal/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long:  "Apply the embedded schema migrations to the configured database",
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

		logger.CLI().Info("migrations applied")
		return nil
	},
}
