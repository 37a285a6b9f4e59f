package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"thalamusd/internal/cache"
	"thalamusd/internal/config"
	"thalamusd/internal/demo"
	"thalamusd/internal/device"
	"thalamusd/internal/fetch"
	"thalamusd/internal/httpapi"
	"thalamusd/internal/manager"
	"thalamusd/internal/registry"
)

const shutdownTimeout = 10 * time.Second

func buildServeCmd() *cobra.Command {
	var addr, configPath string
	var lazy, demoMode bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.LoadSettings()
			if err != nil {
				return err
			}
			if addr != "" {
				settings.Addr = addr
			}
			if configPath != "" {
				settings.DeployConfig = configPath
			}
			if lazy {
				settings.LazyLoad = true
			}
			setupLogging(settings)
			return serve(settings, demoMode)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default THALAMUS_ADDR or :8080)")
	cmd.Flags().StringVar(&configPath, "config", "", "deploy config file (default THALAMUS_DEPLOY_CONFIG)")
	cmd.Flags().BoolVar(&lazy, "lazy", false, "load models on first request instead of at startup")
	cmd.Flags().BoolVar(&demoMode, "demo", false, "register the built-in echo model")
	return cmd
}

func serve(settings config.Settings, demoMode bool) error {
	reg := registry.New()
	if demoMode {
		for _, spec := range demo.Specs() {
			if err := reg.Register(spec); err != nil {
				return err
			}
		}
	}

	var deploy config.Deploy
	if settings.DeployConfig != "" {
		var err error
		deploy, err = config.Load(settings.DeployConfig)
		if err != nil {
			return err
		}
		if missing := config.MissingSecrets(deploy); len(missing) > 0 {
			log.Warn().Strs("env", missing).Msg("serve: secrets missing for configured weight sources")
		}
	}

	c, err := cache.New(settings.CacheDir, settings.CacheMaxGB)
	if err != nil {
		return err
	}
	fetcher := fetch.New(c, fetch.Options{Timeout: settings.FetchTimeout, HubToken: settings.HFToken})
	defer fetcher.Close()
	alloc := device.New(device.Detect(settings.Devices))
	mgr := manager.New(reg, fetcher, alloc, c, deploy)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpapi.SetAPIKey(settings.APIKey)
	httpapi.SetCORSOptions(settings.CORS, nil, nil, nil)
	httpapi.SetBaseContext(ctx)

	if !settings.LazyLoad {
		if err := mgr.LoadAll(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              settings.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", settings.Addr).
			Bool("lazy", settings.LazyLoad).
			Bool("demo", demoMode).
			Msg("serve: listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("serve: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("serve: graceful shutdown failed")
	}
	unloadAll(shutdownCtx, mgr)
	return nil
}

// unloadAll runs the unload hooks for every loaded model so external
// resources are released before exit.
func unloadAll(ctx context.Context, mgr *manager.Manager) {
	seen := map[string]bool{}
	for _, e := range mgr.Registry().All() {
		if seen[e.Spec.ID] {
			continue
		}
		seen[e.Spec.ID] = true
		if _, err := mgr.Unload(ctx, e.Spec.ID, ""); err != nil {
			log.Warn().Err(err).Str("model", e.Spec.ID).Msg("serve: unload on shutdown failed")
		}
	}
}
