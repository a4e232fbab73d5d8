package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/mohammed-shakir/location-geocoder/internal/app"
	"github.com/mohammed-shakir/location-geocoder/internal/core/config"
	"github.com/mohammed-shakir/location-geocoder/internal/core/observability"
	"github.com/mohammed-shakir/location-geocoder/internal/core/server"
	"github.com/mohammed-shakir/location-geocoder/internal/logger"
	"github.com/mohammed-shakir/location-geocoder/internal/metrics"
)

var Version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// overriding backend via flag
	backendFlag := flag.String("backend", "", "geocoder backend (location|geoplaces)")
	envFile := flag.String("env", ".env", "optional dotenv file")
	flag.Parse()

	cfg := config.Load(*envFile)
	if b := strings.ToLower(strings.TrimSpace(*backendFlag)); b != "" {
		cfg.Geocoder.Backend = b
	}

	zl := logger.Build(logger.Config{
		Level:     cfg.LogLevel,
		Console:   cfg.LogConsole,
		SampleN:   cfg.LogSampleN,
		Backend:   cfg.Geocoder.Backend,
		Component: "geocoder-server",
	}, os.Stdout)
	appLog := logger.NewSlog(&zl)

	if err := cfg.Validate(); err != nil {
		appLog.Error("invalid configuration", "err", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		p := metrics.Init(metrics.Config{
			Enabled: true,
			Addr:    cfg.Metrics.Addr,
			Path:    cfg.Metrics.Path,
			Build: metrics.BuildInfo{
				Version:   Version,
				Revision:  os.Getenv("BUILD_REVISION"),
				Branch:    os.Getenv("BUILD_BRANCH"),
				BuildDate: os.Getenv("BUILD_DATE"),
			},
		})
		observability.Init(p.Registerer(), true)
		if err := p.Serve(ctx, appLog); err != nil {
			appLog.Error("metrics listener failed", "err", err)
			return 1
		}
	} else {
		observability.Init(nil, false)
	}
	observability.SetBackend(cfg.Geocoder.Backend)
	observability.ExposeBuildInfo(Version)

	g, err := app.NewGeocoder(ctx, cfg, appLog)
	if err != nil {
		appLog.Error("geocoder setup failed", "err", err)
		return 1
	}

	appLog.Info("starting geocoder server",
		"addr", cfg.Addr,
		"version", Version,
		"backend", cfg.Geocoder.Backend,
		"service", g.ServiceID(),
		"region", cfg.AWS.Region,
		"operations", g.Operations())

	if err := server.Run(ctx, cfg, appLog, g); err != nil {
		appLog.Error("server exited with error", "err", err)
		return 1
	}
	appLog.Info("server stopped")
	return 0
}
