package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"nextcal/internal/capture"
	"nextcal/internal/config"
	appLog "nextcal/internal/log"
	"nextcal/internal/web"
)

type flagConfig struct {
	configPath string
	listen     string
	once       bool
	renderOnly bool
	debug      bool
}

func main() {
	appLog.Info("nextcal starting", "version", "0.1.0")

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI --listen overrides the config file if provided.
	if flags.listen != "" {
		conf.Listen = flags.listen
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"refresh", conf.RefreshCron,
		"horizon_days", conf.HorizonDays,
		"feed_count", len(conf.Feeds),
		"once", flags.once,
		"render_only", flags.renderOnly,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	// HTTP server: board API, ICS export, preview, static UI.
	go func() {
		if err := web.StartServer(ctx, conf, flags.debug); err != nil {
			appLog.Error("HTTP server exited", err)
			cancel()
		}
	}()

	previewPath := "/var/lib/nextcal/preview.png"
	if flags.debug {
		previewPath = "./cache/preview.png"
	}

	runCapture := func() {
		if flags.renderOnly {
			return
		}
		if err := os.MkdirAll(filepath.Dir(previewPath), 0o755); err != nil {
			appLog.Error("failed to create preview directory", err, "path", previewPath)
			return
		}
		opts := capture.Options{
			URL:        "http://" + conf.Listen + "/",
			OutputPath: previewPath,
		}
		if err := capture.BoardPNG(ctx, opts); err != nil {
			appLog.Error("preview capture failed", err, "url", opts.URL)
			return
		}
		appLog.Info("preview captured", "path", previewPath)
	}

	if flags.once {
		// Give the HTTP server a moment to bind before capturing.
		time.Sleep(500 * time.Millisecond)
		runCapture()
		appLog.Info("nextcal exiting (once)")
		return
	}

	// Periodic preview refresh.
	c := cron.New()
	if _, err := c.AddFunc(conf.RefreshCron, runCapture); err != nil {
		appLog.Error("invalid refresh schedule", err, "refresh", conf.RefreshCron)
		os.Exit(1)
	}
	c.Start()
	defer c.Stop()

	<-ctx.Done()

	// Give in-flight work a moment before exiting.
	time.Sleep(100 * time.Millisecond)
	appLog.Info("nextcal exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/nextcal/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.BoolVar(&cfg.once, "once", false, "Run one capture cycle and exit")
	flag.BoolVar(&cfg.renderOnly, "render-only", false, "Serve the board only; skip preview capture")
	flag.BoolVar(&cfg.debug, "debug", false, "Use working-directory cache paths")

	flag.Parse()

	return cfg
}
