package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"user-grid/console/internal/config"
	"user-grid/console/internal/logger"
	"user-grid/network"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run owns every resource of the console; main only maps its error to an
// exit status.
func run(args []string) error {
	fs := flag.NewFlagSet("console", flag.ContinueOnError)
	var (
		cfgPath = fs.String("config", "config/console.yaml", "Path to configuration file")
		apiURL  = fs.String("api", "", "Users API base URL (overrides config)")
		timeout = fs.Duration("timeout", 0, "Per-request timeout (overrides config)")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *timeout > 0 {
		cfg.APITimeout = *timeout
	}

	closer, err := logger.Init(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer closer.Close()
	logger.Infof("using users API at %s (timeout %v)", cfg.APIBaseURL, cfg.APITimeout)

	client := network.NewClient(cfg.APIBaseURL,
		network.WithTimeout(cfg.APITimeout),
		network.WithLogger(logger.L),
	)
	probe(client)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := NewApp(ctx, client, logger.L, tea.WithAltScreen())
	defer app.Close()
	if err := app.Run(); err != nil {
		logger.Errorf("console exited: %v", err)
		return err
	}
	return nil
}

// probe records whether the API answers before the UI takes the terminal.
func probe(client *network.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	h, err := client.Health(ctx)
	if err != nil {
		logger.Errorf("health check against %s failed: %v", client.BaseURL(), err)
		return
	}
	logger.Infof("API healthy, version %s", h.Version)
}
