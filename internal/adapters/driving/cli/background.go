package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Mg12345-web/IA-Babix/internal/logger"
)

// foreground runs fn together with the work long-running commands share:
// the refresh scheduler when scheduler.enabled is set, and the Prometheus
// endpoint when metricsAddr is not empty. Everything stops when fn returns
// or ctx is cancelled.
func foreground(ctx context.Context, metricsAddr string, fn func(context.Context) error) error {
	if metricsAddr != "" && metricsHandler == nil {
		return errors.New("metrics not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	g.Go(func() error {
		defer cancel()
		return fn(gctx)
	})

	if schedulerEnabled() {
		g.Go(func() error {
			return scheduler.Start(gctx)
		})
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Warn("scheduler stop: %v", err)
			}
		}()
	}

	if metricsAddr != "" {
		srv := newMetricsServer(metricsAddr)
		logger.Info("Metrics on http://%s/metrics", metricsAddr)
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.WithoutCancel(gctx), 5*time.Second)
			defer shutdownCancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func schedulerEnabled() bool {
	return scheduler != nil && settingsService != nil && settingsService.Get().Scheduler.Enabled
}

func newMetricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metricsHandler)
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
