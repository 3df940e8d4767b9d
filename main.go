package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/coreos/go-systemd/v22/daemon"

	"github.com/l1na-forever/mpris-notifier/art"
	"github.com/l1na-forever/mpris-notifier/bus"
	"github.com/l1na-forever/mpris-notifier/config"
	"github.com/l1na-forever/mpris-notifier/logger"
	"github.com/l1na-forever/mpris-notifier/notifier"
)

func main() {
	cfg, err := config.New()
	if err != nil {
		logger.Fatal("[%s] Failed to load config: %v", config.AppName, err)
	}

	// Set log level from config
	logger.SetLevel(cfg.LogLevel)
	logger.SetComponentLevels(cfg.ComponentLevels)

	// Global context for the entire application
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Session bus transport; connection loss is fatal
	session, err := bus.Connect(ctx)
	if err != nil {
		logger.Fatal("[%s] Failed to connect to session bus: %v", config.AppName, err)
	}

	if err := session.Start(); err != nil {
		logger.Fatal("[%s] Failed to subscribe to player signals: %v", config.AppName, err)
	}

	n := notifier.New(cfg, session, art.NewFetcher())

	// Live-reload format and policy options on config file changes
	config.Watch(func(cfg *config.Config) {
		logger.SetLevel(cfg.LogLevel)
		logger.SetComponentLevels(cfg.ComponentLevels)
		n.SetConfig(cfg)
	})

	// Goroutine for signal handling
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		logger.Info("[%s] Shutdown signal received, stopping...", config.AppName)
		daemon.SdNotify(false, daemon.SdNotifyStopping)

		// Cancel the global context and close the bus; in-flight art
		// fetches are abandoned, not drained
		cancel()
		session.Close()
	}()

	daemon.SdNotify(false, daemon.SdNotifyReady)
	logger.Info("[%s] started", config.AppName)

	// Blocks until the event stream closes (shutdown or connection lost)
	n.Run(session.Events())

	logger.Info("[%s] stopped", config.AppName)
}
