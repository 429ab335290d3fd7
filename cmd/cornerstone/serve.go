package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/BrandonDHaskell/cornerstone/internal/db"
	"github.com/BrandonDHaskell/cornerstone/internal/grpcapi"
	"github.com/BrandonDHaskell/cornerstone/internal/httpapi"
	"github.com/BrandonDHaskell/cornerstone/internal/metrics"
	"github.com/BrandonDHaskell/cornerstone/internal/registry/service"
)

var (
	serveHTTPAddr string
	serveGRPCAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP and gRPC registry servers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if serveHTTPAddr != "" {
			cfg.Server.HTTPAddr = serveHTTPAddr
		}
		if serveGRPCAddr != "" {
			cfg.Server.GRPCAddr = serveGRPCAddr
		}
		return serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHTTPAddr, "http-addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().StringVar(&serveGRPCAddr, "grpc-addr", "", "gRPC listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	logger := zap.L()

	be, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer be.close()

	if cfg.Env == "dev" && be.sqlDB != nil {
		if err := db.SeedDev(ctx, be.sqlDB, db.SeedDevOptions{}); err != nil {
			return err
		}
	}

	docs, err := openArchive(ctx, cfg.Archive)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	registry := service.New(be.store,
		service.WithLogger(logger),
		service.WithMetrics(m),
		service.WithRequireRegistrar(cfg.Registry.RequireRegistrar),
	)

	pruner := service.NewStatusEventPruner(be.store, service.PrunerConfig{
		RetentionDays: cfg.Audit.RetentionDays,
		IntervalHours: cfg.Audit.PruneIntervalHours,
	}, logger, m)

	httpSrv := httpapi.NewServer(httpapi.Dependencies{
		Logger:       logger,
		Addr:         cfg.Server.HTTPAddr,
		Registry:     registry,
		Archive:      docs,
		Metrics:      m,
		Gatherer:     reg,
		Ready:        be.ready,
		RateLimitRPS: cfg.Server.RateLimitRPS,
		RateBurst:    cfg.Server.RateLimitBurst,
	})
	grpcSrv := grpcapi.NewServer(grpcapi.Dependencies{
		Logger:   logger,
		Registry: registry,
		Ready:    be.ready,
	})

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		return eris.Wrapf(err, "grpc listen %s", cfg.Server.GRPCAddr)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", cfg.Server.HTTPAddr))
		if err := httpSrv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return eris.Wrap(err, "http serve")
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("grpc listening", zap.String("addr", cfg.Server.GRPCAddr))
		if err := grpcSrv.Serve(lis); err != nil {
			return eris.Wrap(err, "grpc serve")
		}
		return nil
	})

	g.Go(func() error {
		grpcSrv.WatchReadiness(gctx, 15*time.Second)
		return nil
	})

	pruner.Start(gctx)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		pruner.Stop()
		grpcSrv.Stop()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return eris.Wrap(err, "http shutdown")
		}
		return nil
	})

	return g.Wait()
}
