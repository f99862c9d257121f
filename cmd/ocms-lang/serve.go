// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/olegiv/ocms-language/internal/handler"
	"github.com/olegiv/ocms-language/internal/scheduler"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the admin API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.cache.Preload(ctx); err != nil {
				a.logger.Warn("failed to preload language cache", "error", err)
			}

			if a.cfg.RebuildSchedule != "" {
				sched, err := scheduler.New(a.cfg.RebuildSchedule, a.languages, a.logger)
				if err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()
			}

			r := handler.NewRouter(handler.RouterConfig{
				Languages:      a.languages,
				Permissions:    a.permissions,
				Options:        a.options,
				Cache:          a.cache,
				Health:         handler.NewHealthHandler(a.db, a.shared, a.cfg.LanguageDir(), a.cfg.AdminToken, appVersion),
				AdminToken:     a.cfg.AdminToken,
				RateLimit:      a.cfg.AdminRateLimit,
				RateBurst:      a.cfg.AdminRateBurst,
				IsDevelopment:  a.cfg.IsDevelopment(),
				RequestTimeout: a.cfg.RequestTimeoutDuration(),
				Logger:         a.logger,
			})

			srv := &http.Server{
				Addr:              a.cfg.ServerAddr(),
				Handler:           r,
				ReadTimeout:       15 * time.Second,
				ReadHeaderTimeout: 5 * time.Second,
				WriteTimeout:      60 * time.Second, // Language file uploads can be large
				IdleTimeout:       60 * time.Second,
				MaxHeaderBytes:    1 << 20, // 1MB max header size
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("starting server", "addr", srv.Addr, "env", a.cfg.Env)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("server error: %w", err)
				}
			case <-ctx.Done():
			}

			a.logger.Info("shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server shutdown: %w", err)
			}
			a.logger.Info("server stopped")
			return nil
		},
	}
}
