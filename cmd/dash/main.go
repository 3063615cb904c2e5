package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rpi-dashboard/pkg/alert"
	"rpi-dashboard/pkg/api"
	"rpi-dashboard/pkg/config"
	"rpi-dashboard/pkg/feedback"
	"rpi-dashboard/pkg/health"
	"rpi-dashboard/pkg/telemetry"
	"rpi-dashboard/pkg/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg == nil {
		return // help or version was shown
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	out, closeLog, err := logOutput(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	logger := log.New(out, "[dash] ", log.LstdFlags)

	if cfg.ConfigFile != "" {
		logger.Printf("Using config file %s", cfg.ConfigFile)
	}

	agg := telemetry.NewAggregator(telemetry.RealClock{}, telemetry.DefaultConfig())
	agg.Start(ctx)
	defer agg.Stop()

	prom := telemetry.NewPrometheusPublisher()
	publisher := telemetry.FanOut{agg, prom}

	if cfg.MetricsAddr != "" {
		srv := telemetry.NewServer(cfg.MetricsAddr, agg, prom, log.New(out, "[metrics] ", log.LstdFlags))
		if err := srv.Start(); err != nil {
			return fmt.Errorf("metrics server: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Printf("Metrics server shutdown: %v", err)
			}
		}()
	}

	client := api.NewClient(cfg.APIURL, cfg.HTTP.Timeout(), log.New(out, "[api] ", log.LstdFlags))

	var notifier *alert.Notifier
	if cfg.Alert.Enabled() {
		notifier, err = alert.NewNotifier(alert.Config{
			RelayURL:    cfg.Alert.RelayURL,
			SecretKey:   cfg.Alert.SecretKey,
			DeviceLabel: cfg.Alert.DeviceLabel,
		}, nil, log.New(out, "[alert] ", log.LstdFlags), publisher)
		if err != nil {
			return fmt.Errorf("alerts: %w", err)
		}
		notifier.Start()
		defer notifier.Stop()
		logger.Printf("Publishing alerts to %s as %s", cfg.Alert.RelayURL, notifier.PublicKey())
	}

	newPoller := func() *health.Poller {
		p := health.NewPoller(client, pollerConfig(cfg), logger, publisher)
		if notifier != nil {
			p.Subscribe(notifier.Observe)
		}
		return p
	}
	newFetcher := func() *feedback.Fetcher {
		return feedback.NewFetcher(client, cfg.HTTP.Timeout(), logger, publisher)
	}

	if cfg.UI.Mode == config.UIQuiet {
		return NewCLI(agg, cfg, logger, newPoller, newFetcher).Run(ctx)
	}

	app := tui.New(tui.Config{
		InitialScreen: cfg.UI.Screen,
		NewPoller:     newPoller,
		NewFetcher:    newFetcher,
		Logger:        logger,
	})
	return app.Run(ctx)
}

func pollerConfig(cfg *config.Config) health.PollerConfig {
	return health.PollerConfig{
		Interval:    cfg.Refresh.Interval(),
		AutoRefresh: cfg.Refresh.AutoRefresh,
		RecentLimit: cfg.Refresh.RecentLimit,
		StatsHours:  cfg.Refresh.StatsHours,
		Timeout:     cfg.HTTP.Timeout(),
	}
}

// logOutput picks the log destination. The terminal UI owns the screen, so
// without a log file its logs are dropped.
func logOutput(cfg *config.Config) (io.Writer, func(), error) {
	if cfg.UI.LogFile != "" {
		f, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if cfg.UI.Mode == config.UIQuiet {
		return os.Stderr, func() {}, nil
	}
	return io.Discard, func() {}, nil
}
