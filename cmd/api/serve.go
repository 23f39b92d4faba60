package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pet-tag-lookup/internal/adapters/auth/identity"
	"pet-tag-lookup/internal/adapters/capabilities/static"
	"pet-tag-lookup/internal/platform/logger"
	"pet-tag-lookup/internal/platform/tracing"
	"pet-tag-lookup/internal/ports/auth"
	"pet-tag-lookup/internal/router"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Levanta el servidor HTTP.

Backends (DB_DRIVER): memory (default), postgres (DB_DSN), sqlite (SQLITE_PATH).
Sin AUTH_VERIFY_URL corre en modo dev: el usuario se toma de X-Debug-User-ID.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}
}

func newLogger() logger.Logger {
	return logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    cfg.Log.App,
		Writer: os.Stdout,
	})
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := newLogger()

	shutdownTracing, err := tracing.Init(ctx, tracing.Options{
		ServiceName: cfg.Log.App,
		Stdout:      cfg.Tracing.Stdout,
	})
	if err != nil {
		log.Warn("tracing disabled", map[string]any{"error": err})
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown", map[string]any{"error": err})
		}
	}()

	stores, closeStores, err := openStores(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.DB.Driver, err)
	}
	defer closeStores()

	var verifier auth.AuthVerifier
	if cfg.Auth.VerifyURL != "" {
		verifier = identity.NewVerifier(identity.NewClient(identity.Config{
			VerifyURL:    cfg.Auth.VerifyURL,
			APIKey:       cfg.Auth.APIKey,
			APIKeyHeader: cfg.Auth.APIKeyHeader,
			Timeout:      cfg.Auth.Timeout,
		}))
	} else {
		log.Warn("auth verifier not configured, dev mode (X-Debug-User-ID)", nil)
	}
	if cfg.Admin.AllowAll {
		log.Warn("ALLOW_ALL_CAPABILITIES enabled", nil)
	}

	rt := router.NewRouter(router.Options{
		AuthVerifier:    verifier,
		Capabilities:    static.NewResolver(cfg.Admin.UserIDs, cfg.Admin.AllowAll),
		Stores:          stores,
		Logger:          log,
		PublicBaseURL:   cfg.Public.BaseURL,
		LocationTimeout: cfg.Scans.LocationTimeout,
		MaxPendingScans: cfg.Scans.MaxPending,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      rt,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting server", map[string]any{
			"addr":   srv.Addr,
			"driver": cfg.DB.Driver,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", nil)

		sctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(sctx)
		// escaneos pendientes => unavailable
		if cerr := rt.Close(sctx); cerr != nil {
			log.Warn("pending scans not flushed", map[string]any{"error": cerr})
		}
		return err
	})

	return g.Wait()
}
