// Package app wires configuration, infrastructure and use cases together
// for the HTTP service and the CLI.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Victor-armando18/vehicle-admin/internal/domain/guard"
	"github.com/Victor-armando18/vehicle-admin/internal/infrastructure"
	"github.com/Victor-armando18/vehicle-admin/internal/infrastructure/restclient"
	"github.com/Victor-armando18/vehicle-admin/internal/infrastructure/watch"
	"github.com/Victor-armando18/vehicle-admin/internal/interfaces"
	"github.com/Victor-armando18/vehicle-admin/internal/platform/config"
	"github.com/Victor-armando18/vehicle-admin/internal/platform/metrics"
	"github.com/Victor-armando18/vehicle-admin/internal/usecase"
	"github.com/Victor-armando18/vehicle-admin/internal/usecase/preview"
	"github.com/Victor-armando18/vehicle-admin/pkg/payload"
)

var (
	_ interfaces.RuleExecutor   = (*infrastructure.JsonLogicExecutor)(nil)
	_ interfaces.RulePackLoader = (*infrastructure.FileRuleLoader)(nil)
	_ interfaces.VehicleAPI     = (*restclient.Client)(nil)
	_ interfaces.UpdateFacade   = (*usecase.UpdateService)(nil)
)

type App struct {
	Config     *config.Config
	Metrics    *metrics.Metrics
	Sanitizer  *payload.Sanitizer
	Reconciler *payload.Reconciler
	Guards     *guard.Engine
	API        interfaces.VehicleAPI
	Updates    interfaces.UpdateFacade
	Preview    *preview.UseCase

	watcher *watch.RuleWatcher
}

// Option overrides a dependency built by New.
type Option func(*options)

type options struct {
	api interfaces.VehicleAPI
}

// WithVehicleAPI replaces the REST client, mostly for tests.
func WithVehicleAPI(api interfaces.VehicleAPI) Option {
	return func(o *options) { o.api = api }
}

func New(cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		Config:    cfg,
		Metrics:   metrics.New(),
		Sanitizer: payload.NewSanitizer(cfg.Reconcile.DeniedKeys...),
	}
	a.Reconciler = payload.NewReconciler(a.Sanitizer)
	a.Guards = guard.NewEngine(infrastructure.NewJsonLogicExecutor(), nil)
	switch {
	case cfg.Guards.File != "":
		if err := a.ReloadGuards(cfg.Guards.File); err != nil {
			return nil, err
		}
	case cfg.Guards.Dir != "":
		if err := a.loadVersion(context.Background(), infrastructure.NewFileRuleLoader(cfg.Guards.Dir), cfg.Guards.Version); err != nil {
			return nil, err
		}
	}

	api := o.api
	if api == nil {
		client, err := restclient.New(restclient.Options{
			BaseURL:      cfg.API.BaseURL,
			Token:        cfg.API.Token,
			Timeout:      cfg.API.Timeout,
			RetryMax:     cfg.API.RetryMax,
			RetryWaitMin: cfg.API.RetryWaitMin,
			RetryWaitMax: cfg.API.RetryWaitMax,
		})
		if err != nil {
			return nil, err
		}
		api = client
	}

	a.API = api
	a.Updates = usecase.NewUpdateService(api, a.Reconciler, a.Guards, a.Metrics)
	a.Preview = &preview.UseCase{Reconciler: a.Reconciler, Guards: a.Guards}
	return a, nil
}

// ReloadGuards reads the guard pack at path and swaps it into the engine.
// On failure the previous pack stays active.
func (a *App) ReloadGuards(path string) error {
	pack, err := infrastructure.LoadRuleFile(path)
	a.Metrics.RecordGuardReload(err == nil)
	if err != nil {
		return fmt.Errorf("load guards: %w", err)
	}
	a.Guards.Load(*pack)
	log.Info().
		Str("path", path).
		Str("rules_version", pack.Version).
		Int("guards", len(pack.Guards)).
		Msg("guard pack loaded")
	return nil
}

func (a *App) loadVersion(ctx context.Context, loader interfaces.RulePackLoader, version string) error {
	pack, err := loader.Load(ctx, version)
	a.Metrics.RecordGuardReload(err == nil)
	if err != nil {
		return fmt.Errorf("load guards %s: %w", version, err)
	}
	a.Guards.Load(*pack)
	log.Info().Str("rules_version", pack.Version).Int("guards", len(pack.Guards)).Msg("guard pack loaded")
	return nil
}

// Start begins watching the guard file when configured to.
func (a *App) Start(ctx context.Context) error {
	if !a.Config.Guards.Watch || a.Config.Guards.File == "" {
		return nil
	}
	w, err := watch.NewRuleWatcher(a.Config.Guards.File, a.ReloadGuards)
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	a.watcher = w
	return nil
}

func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Stop()
}
