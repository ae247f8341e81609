package cmd

import (
	"github.com/spf13/cobra"

	"github.com/example/souqly/internal/database"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database if needed and migrate the schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
