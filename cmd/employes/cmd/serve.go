package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/employes-api/internal/config"
	"github.com/deppfellow/employes-api/internal/database"
	"github.com/deppfellow/employes-api/internal/handler"
	"github.com/deppfellow/employes-api/internal/middleware"
	"github.com/deppfellow/employes-api/internal/repository"
	"github.com/deppfellow/employes-api/internal/router"
	"github.com/deppfellow/employes-api/internal/server"
	"github.com/deppfellow/employes-api/internal/service"
	"github.com/deppfellow/employes-api/static"
	"github.com/spf13/cobra"
)

// DefaultContextTimeout bounds graceful shutdown.
const DefaultContextTimeout = 30 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the employee REST API.

Examples:
  employes serve
  employes serve --driver=sqlite --sqlite-path=./employes.db --migrate`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := &app.log

		if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
			app.cfg.Database.AutoMigrate = true
		}
		if app.cfg.Database.AutoMigrate && app.cfg.Database.Driver == config.DriverPostgres {
			if err := database.Migrate(cmd.Context(), log, app.cfg); err != nil {
				log.Error().Err(err).Msg("failed to migrate database")
				return err
			}
		}

		srv, err := server.New(app.cfg, log, app.loggerService)
		if err != nil {
			log.Error().Err(err).Msg("failed to initialize server")
			return err
		}

		repos := repository.NewRepositories(srv)
		services, err := service.NewService(srv, repos)
		if err != nil {
			log.Error().Err(err).Msg("could not create services")
			return err
		}

		middlewares := middleware.NewMiddlewares(srv)
		handlers := handler.NewHandlers(srv, services, middlewares.Metrics, static.FS)
		srv.SetupHTTPServer(router.NewRouter(srv, handlers, middlewares))

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		serveErr := make(chan error, 1)
		go func() {
			serveErr <- srv.Start()
		}()

		select {
		case err := <-serveErr:
			if err != nil {
				log.Error().Err(err).Msg("server stopped unexpectedly")
				_ = srv.Shutdown(context.Background())
				return err
			}
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultContextTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server forced to shutdown")
			return err
		}

		log.Info().Msg("server exited properly")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Bool("migrate", false, "Apply database migrations before serving")
}
