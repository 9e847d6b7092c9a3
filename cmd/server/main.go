package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/AngelCh415/clinicpulse/internal/config"
	"github.com/AngelCh415/clinicpulse/internal/httpx"
	"github.com/AngelCh415/clinicpulse/internal/ingest"
	"github.com/AngelCh415/clinicpulse/internal/report"
	"github.com/AngelCh415/clinicpulse/internal/scheduler"
	"github.com/AngelCh415/clinicpulse/internal/store"
	"github.com/AngelCh415/clinicpulse/internal/telemetry"
)

func main() {
	cfgFile := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		slog.Error("config", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	tm := telemetry.New(reg)

	cl := ingest.NewHTTPClient(cfg.HTTPTimeout, logger)
	st := store.NewMemoryStore()
	etl := ingest.NewETL(cl, st, logger, cfg, tm)
	reports := report.NewService(st, tm)

	sch := scheduler.New(logger)
	if cfg.SourceURL != "" {
		if err := sch.Add(scheduler.RefreshJob(cfg.RefreshSchedule, etl, 2*cfg.HTTPTimeout)); err != nil {
			logger.Error("scheduler", slog.String("err", err.Error()))
			os.Exit(1)
		}
		if err := sch.RunNow("ingest-refresh"); err != nil {
			logger.Warn("initial ingest failed", slog.String("err", err.Error()))
		}
	}
	if err := sch.Add(scheduler.NotifyJob(cfg.NotifySchedule, reports, logger)); err != nil {
		logger.Error("scheduler", slog.String("err", err.Error()))
		os.Exit(1)
	}
	sch.Start()
	defer sch.Stop()

	r := httpx.NewRouter(httpx.Deps{Log: logger, ETL: etl, Reports: reports, Store: st, Gatherer: reg})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting server", slog.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
