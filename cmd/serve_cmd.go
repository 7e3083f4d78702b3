package cmd

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"signal-portfolio/pkg/config"
	"signal-portfolio/pkg/handlers"
	"signal-portfolio/pkg/logging"
	"signal-portfolio/pkg/repository"
	"signal-portfolio/pkg/services"
)

// newServeCmd creates a new command for serving the web application
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long:  `Start the web server to serve the galleries, lightbox pages, contact form and JSON API via HTTP.`,
		Run: func(cmd *cobra.Command, args []string) {
			cfg := mustInitService()
			if err := serveWebsite(cfg); err != nil {
				logging.L().Fatal("Server error", zap.Error(err))
			}
		},
	}
}

// NewHandler wires the services behind the site's router
func NewHandler(cfg *config.Config, db *sql.DB) http.Handler {
	var mailer services.Mailer
	if cfg.MailEnabled() {
		mailer = services.NewSMTPMailer(cfg.SMTP)
	}
	contact := services.NewContactService(repository.NewInquiryRepository(db), mailer, cfg.ContactEmail)

	return handlers.NewRouter(handlers.Deps{
		Config:   cfg,
		Catalog:  services.Default(),
		Contact:  contact,
		Posters:  services.Default(),
		Renderer: handlers.NewPugRenderer(cfg.ViewsDir),
	})
}

// serveWebsite runs the web server until SIGINT or SIGTERM
func serveWebsite(cfg *config.Config) error {
	db, err := repository.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	srv := &http.Server{
		Addr:         cfg.ServerAddress(),
		Handler:      NewHandler(cfg, db),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		cfg.PrintServerStartMessage()
		logging.L().Info("server listening",
			zap.String("addr", srv.Addr),
			zap.Bool("stock", cfg.StockEnabled()),
			zap.Bool("bucket", cfg.BucketEnabled()),
			zap.Bool("mail", cfg.MailEnabled()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	logging.L().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	logging.L().Info("server stopped")
	return nil
}
