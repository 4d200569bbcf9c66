package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/spherecast/spherecast/internal/config"
	"github.com/spherecast/spherecast/internal/server"
	"github.com/spherecast/spherecast/web"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the player and its API",
		Long:  "Serve the player page and its API. Build after go generate ./web so the player wasm is embedded.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	cmd.Flags().String("port", "", "listen port")
	lo.Must0(a.v.BindPFlag(config.KeyPort, cmd.Flags().Lookup("port")))
	cmd.Flags().String("base-url", "", "public base URL of the player")
	lo.Must0(a.v.BindPFlag(config.KeyBaseURL, cmd.Flags().Lookup("base-url")))
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg

	startCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	b, err := openBackend(startCtx, cfg.Storage)
	if err != nil {
		return err
	}
	defer b.close()
	slog.Info("storage ready", "backend", cfg.Storage.Backend)

	secret := cfg.SessionSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		slog.Warn("session_secret not set, using a random one; client sessions end on restart")
	}

	webFS, err := fs.Sub(web.DistFS, "dist")
	if err != nil {
		return fmt.Errorf("load embedded player: %w", err)
	}
	if err := web.CheckAssets(webFS); err != nil {
		return fmt.Errorf("%w (run go generate ./web and rebuild)", err)
	}
	slog.Info("embedded player loaded")

	srv := server.New(server.Config{
		Pinger:                b.ping,
		Resolver:              newResolveService(cfg.Resolve),
		Store:                 b.store,
		SessionSecret:         secret,
		WebFS:                 webFS,
		BaseURL:               cfg.BaseURL,
		AllowedFrameAncestors: cfg.FrameAncestors,
		RateLimits: server.RateLimits{
			ResolveRPS:   cfg.RateLimit.ResolveRPS,
			ResolveBurst: cfg.RateLimit.ResolveBurst,
			StorageRPS:   cfg.RateLimit.StorageRPS,
			StorageBurst: cfg.RateLimit.StorageBurst,
		},
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Resolve.Timeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("spherecast listening", "port", cfg.Port, "base_url", cfg.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	slog.Info("shutdown complete")
	return nil
}

func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
