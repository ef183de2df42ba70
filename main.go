package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/adred-codev/rusticokv/internal/monitoring"
	"github.com/adred-codev/rusticokv/internal/types"
	"github.com/prometheus/client_golang/prometheus"

	_ "go.uber.org/automaxprocs"
)

func main() {
	var (
		debug = flag.Bool("debug", false, "enable debug logging (overrides LOG_LEVEL)")
	)
	flag.Parse()

	// Create basic logger for startup, before config is loaded.
	startupLog := log.New(os.Stdout, "[rusticokv] ", log.LstdFlags)

	// automaxprocs sets GOMAXPROCS based on container CPU limits; it rounds
	// down (e.g. 1.5 cores -> GOMAXPROCS=1), which is correct for the Go
	// scheduler. The CPU reject threshold is unrelated to this value: it is
	// compared against host-wide CPU usage.
	maxProcs := runtime.GOMAXPROCS(0)
	startupLog.Printf("GOMAXPROCS: %d (via automaxprocs)", maxProcs)

	cfg, err := LoadConfig(nil)
	if err != nil {
		startupLog.Fatalf("failed to load configuration: %v", err)
	}

	if *debug {
		cfg.LogLevel = "debug"
		startupLog.Printf("debug mode enabled via flag")
	}

	cfg.Print()

	logger := monitoring.NewLogger(monitoring.LoggerConfig{
		Level:  types.LogLevel(cfg.LogLevel),
		Format: types.LogFormat(cfg.LogFormat),
	})
	cfg.LogConfig(logger)

	monitoring.RegisterMetrics(prometheus.DefaultRegisterer)

	if limit, err := getMemoryLimit(); err != nil {
		logger.Warn().Err(err).Msg("failed to detect cgroup memory limit")
	} else if limit > 0 {
		logger.Info().Int64("memory_limit_bytes", limit).Msg("detected container memory limit")
		monitoring.MemoryLimitBytes.Set(float64(limit))
	}

	serverConfig := types.ServerConfig{
		Addr:               cfg.Addr,
		IdleTimeout:        cfg.IdleTimeout,
		DBFilename:         cfg.DBFilename,
		SnapshotInterval:   cfg.SnapshotInterval,
		MaxConnections:     cfg.MaxConnections,
		MaxCommandsPerSec:  cfg.MaxCommandsPerSec,
		CPURejectThreshold: cfg.CPURejectThreshold,
		MetricsAddr:        cfg.MetricsAddr,
		MetricsInterval:    cfg.MetricsInterval,
		LogLevel:           types.LogLevel(cfg.LogLevel),
		LogFormat:          types.LogFormat(cfg.LogFormat),
	}

	server, err := NewServer(serverConfig, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create server")
	}

	if err := server.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info().Msg("shutting down server")
	if err := server.Shutdown(); err != nil {
		logger.Error().Err(err).Msg("error during shutdown")
	}
}
