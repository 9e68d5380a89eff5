package main

import (
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dealchain/config"
	"dealchain/core"
	"dealchain/core/events"
	"dealchain/core/state"
	"dealchain/observability/logging"
	"dealchain/storage"
)

// logEmitter forwards committed transition events to the structured log.
type logEmitter struct {
	logger *slog.Logger
}

func (l *logEmitter) Emit(evt events.Event) {
	if l == nil || l.logger == nil || evt == nil {
		return
	}
	l.logger.Info("transition event", slog.String("type", evt.EventType()))
}

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := logging.Setup("dealchaind", cfg.LogEnv)
	logger.Info("starting", slog.String("network", cfg.NetworkName), slog.String("dataDir", cfg.DataDir))

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	manager := state.NewManager(db)
	opts := []core.ProcessorOption{
		core.WithEmitter(&logEmitter{logger: logger}),
	}
	if cfg.PlatformWallet != "" {
		wallet, err := cfg.PlatformWalletAddress()
		if err != nil {
			logger.Error("invalid platform wallet", slog.Any("error", err))
			os.Exit(1)
		}
		opts = append(opts, core.WithPlatformWallet(wallet))
	}
	processor := core.NewProcessor(manager, opts...)
	if pool, ok, err := processor.GetRewardsPool(); err != nil {
		logger.Error("failed to read rewards pool", slog.Any("error", err))
		os.Exit(1)
	} else if ok {
		logger.Info("rewards pool loaded", slog.Uint64("totalStaked", pool.TotalStaked))
	} else {
		logger.Info("rewards pool not initialized")
	}

	if cfg.MetricsAddress != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.MetricsAddress, mux); err != nil {
				logger.Error("metrics server stopped", slog.Any("error", err))
			}
		}()
		logger.Info("metrics listening", slog.String("address", cfg.MetricsAddress))
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")
}
