package cmd

import (
	"github.com/deppfellow/employes-api/internal/database"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Create or upgrade the employes table.

PostgreSQL migrations are versioned in the schema_version table. SQLite
receives its idempotent schema.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.Migrate(cmd.Context(), &app.log, app.cfg); err != nil {
			app.log.Error().Err(err).Msg("migration failed")
			return err
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
