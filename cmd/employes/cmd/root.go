// Package cmd holds the employes command line: serve runs the API and
// migrate brings the database schema up to date.
package cmd

import (
	"fmt"
	"os"

	"github.com/deppfellow/employes-api/internal/config"
	"github.com/deppfellow/employes-api/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// runtime is what every subcommand receives after PersistentPreRunE.
type runtime struct {
	cfg           *config.Config
	log           zerolog.Logger
	loggerService *logger.LoggerService
}

var app runtime

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "employes",
	Short: "Employes - employee records REST API",
	Long: `Employes serves CRUD operations over employee records stored in
PostgreSQL or SQLite. Configuration is read from EMPLOYES_* environment
variables and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if driver, _ := cmd.Flags().GetString("driver"); driver != "" {
			cfg.Database.Driver = driver
		}
		if path, _ := cmd.Flags().GetString("sqlite-path"); path != "" {
			cfg.Database.SQLitePath = path
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		loggerService := logger.NewLoggerService(cfg.Observability)
		app = runtime{
			cfg:           cfg,
			log:           logger.NewLoggerWithService(cfg.Observability, loggerService),
			loggerService: loggerService,
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		app.loggerService.Shutdown()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("driver", "", "Storage backend overriding EMPLOYES_DATABASE__DRIVER (postgres or sqlite)")
	rootCmd.PersistentFlags().String("sqlite-path", "", "SQLite database file overriding EMPLOYES_DATABASE__SQLITE_PATH")
}
