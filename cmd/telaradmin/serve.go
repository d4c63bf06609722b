package main

import (
	"context"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/telar-erp/telar-admin/internal/app"
	"github.com/telar-erp/telar-admin/internal/console"
	"github.com/telar-erp/telar-admin/internal/observability"
	"github.com/telar-erp/telar-admin/internal/rbac"
	"github.com/telar-erp/telar-admin/internal/view"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the operator console HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	templates, err := view.NewEngine()
	if err != nil {
		return err
	}

	metrics := observability.NewMetrics()
	rt.erp.SetObserver(metrics.ObserveUpstream)

	handler := console.NewHandler(rt.logger, templates, rt.store, rt.erp, rt.resolver, metrics)
	guard := rbac.Guard{
		Sessions:      rt.store,
		Logger:        rt.logger,
		RenderWaiting: handler.RenderWaiting,
		Observe:       metrics.ObserveVerdict,
		LoginPath:     "/login",
		DeniedPath:    "/unauthorized",
	}

	router := app.NewRouter(app.RouterParams{
		Logger:  rt.logger,
		Config:  rt.cfg,
		Console: handler,
		Guard:   guard,
		Metrics: metrics,
	})

	// First resolution pass runs in the background; guards render the
	// waiting page until it settles.
	go rt.resolver.Bootstrap(ctx)

	server := &http.Server{
		Addr:         rt.cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  rt.cfg.AppReadTimeout,
		WriteTimeout: rt.cfg.AppWriteTimeout,
	}

	go func() {
		rt.logger.Info("console listening", slog.String("addr", rt.cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			rt.logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		rt.logger.Error("graceful shutdown", slog.Any("error", err))
	}
	return nil
}
