package main

import (
	"context"
	"fmt"
	"os"

	"github.com/retroachievements/legacy-redirector/config"
	"github.com/retroachievements/legacy-redirector/redirector"
	"github.com/retroachievements/legacy-redirector/store"
	"go.uber.org/zap"
)

// app holds what the commands share: settings, the optional lookup store
// and the inputs needed to rebuild a resolver when the rules change.
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	store    *store.Store
	topics   *redirector.RouteFormatter
}

func newApp(ctx context.Context, settingsFile string, logger *zap.Logger) (*app, error) {
	s, err := config.Load(settingsFile)
	if err != nil {
		return nil, err
	}

	topics, err := redirector.NewRouteFormatter(s.TopicRoute, s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("topic route: %w", err)
	}

	a := &app{settings: s, logger: logger, topics: topics}

	if s.Database.Driver != config.DriverNone {
		a.store, err = store.Open(ctx, s.Database.Driver, s.Database.DSN, store.Options{
			ConnectAttempts: s.Database.ConnectAttempts,
			ConnectDelay:    s.Database.ConnectDelay,
			OnRetry: func(attempt uint, err error) {
				logger.Warn("database not ready", zap.Uint("attempt", attempt+1), zap.Error(err))
			},
		})
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

func (a *app) Close() error {
	if a.store != nil {
		return a.store.Close()
	}

	return nil
}

// loadTable reads the configured rules file. No file means an empty table.
func (a *app) loadTable() (*redirector.Table, error) {
	if a.settings.RulesFile == "" {
		return redirector.NewTable(nil)
	}

	return config.LoadRules(a.settings.RulesFile)
}

// resolver builds a resolver around table.
func (a *app) resolver(table *redirector.Table) *redirector.Resolver {
	cfg := redirector.Config{
		Topics: a.topics,
		Table:  table,
		OnError: func(rule string, err error) {
			a.logger.Warn("legacy redirect failed", zap.String("rule", rule), zap.Error(err))
		},
	}

	if a.settings.PublicDir != "" {
		cfg.Files = redirector.DirChecker{FS: os.DirFS(a.settings.PublicDir)}
	}

	if a.store != nil {
		cfg.Forums = a.store
		cfg.Systems = a.store
	}

	return redirector.New(cfg)
}
