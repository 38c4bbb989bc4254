package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/api"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/pdf"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/posts"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/uploads"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the conversion, upload, login and posts API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "listen host (overrides config)")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Auth.AdminPassword == "" {
		logger.Warn().Msg("ADMIN_PASSWORD is not set, /api/login will fail closed")
	}

	uploadStore := uploads.NewStore(cfg.Storage.UploadDir)
	postStore := posts.NewStore(cfg.Storage.PostsFile, uploadStore, logger)
	loader := pdf.NewLoader(logger).WithMaxBytes(cfg.Server.MaxUploadBytes)

	router := api.NewRouter(api.Deps{
		Config:  cfg,
		Loader:  loader,
		Posts:   postStore,
		Uploads: uploadStore,
		Logger:  logger,
	})

	addr := cfg.Addr()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info().
		Str("addr", addr).
		Str("mode", cfg.Conversion.Mode).
		Str("uploads", cfg.Storage.UploadDir).
		Str("posts", cfg.Storage.PostsFile).
		Msg("Starting pdf2pptx API")

	// Start server in goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	// Wait for interrupt or error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("Server error")
			return err
		}
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
	return nil
}
