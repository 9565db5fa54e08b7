package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/retroachievements/legacy-redirector/config"
	"github.com/retroachievements/legacy-redirector/handlers"
	"github.com/retroachievements/legacy-redirector/redirector"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve public files and legacy redirects over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	a, err := newApp(ctx, configFile, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	table, err := a.loadTable()
	if err != nil {
		return err
	}

	current := redirector.NewCurrent(a.resolver(table))

	if a.settings.WatchRules && a.settings.RulesFile != "" {
		w, err := config.NewWatcher(a.settings.RulesFile, func(t *redirector.Table) {
			current.Store(a.resolver(t))
			logger.Info("rules reloaded", zap.Int("entries", t.Len()))
		}, func(err error) {
			logger.Error("rules reload failed", zap.Error(err))
		})
		if err != nil {
			return err
		}

		go w.Run(ctx)
	}

	handler, err := newHandler(a.settings, current, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    a.settings.Listen,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", a.settings.Listen),
			zap.Int("entries", table.Len()),
			zap.Strings("rules", current.Load().Rules()),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.settings.ShutdownTimeout)
	defer cancel()

	logger.Info("shutting down")

	return srv.Shutdown(shutdownCtx)
}

func newHandler(s *config.Settings, res handlers.Resolver, logger *zap.Logger) (http.Handler, error) {
	server, err := handlers.ServerMiddleware(s.Hostname)
	if err != nil {
		return nil, err
	}

	var root http.Handler = handlers.RedirectHandler(handlers.RedirectConfig{
		Resolver:   res,
		StatusCode: s.StatusCode,
		Logger:     logger,
	})

	if s.PublicDir != "" {
		root, err = handlers.PublicFilesHandler(handlers.PublicFilesConfig{
			FS:       os.DirFS(s.PublicDir),
			Fallback: root,
		})
		if err != nil {
			return nil, err
		}
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", handlers.HealthHandler())
	mux.Handle("/", root)

	return handlers.Chain(mux,
		handlers.RequestIDMiddleware(handlers.RequestIDConfig{TrustIncoming: true}),
		handlers.RecoveryMiddleware(logger),
		server,
		handlers.AccessLogMiddleware(logger),
	), nil
}
