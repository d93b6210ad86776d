package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/sortable/internal/config"
	"github.com/vango-dev/sortable/internal/errors"
	"github.com/vango-dev/sortable/pkg/server"
	"github.com/vango-dev/sortable/pkg/store"
)

type serveOptions struct {
	configPath string
	port       int
	host       string
	driver     string
	noRefresh  bool
	verbose    bool
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the sortable server",
		Long: `Start the sortable server.

Configuration is read from --config, or from sortable.json or
sortable.toml in the working directory. Without either the defaults
are used: port 8080 and an in-memory store.

Examples:
  sortable serve
  sortable serve --config=deploy/sortable.toml
  sortable serve --port=9000 --store=sqlite`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "Config file (JSON or TOML)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&opts.host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().StringVar(&opts.driver, "store", "", "Store driver: memory, sqlite, redis or s3")
	cmd.Flags().BoolVar(&opts.noRefresh, "no-refresh", false, "Disable idle auto-refresh")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log at debug level")

	return cmd
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	cfg, err := config.Load(".")
	if err != nil {
		if se := errors.FromError(err, ""); se.Code == "E100" {
			warn("No config file found, using defaults")
			return config.New(), nil
		}
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, opts serveOptions) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.port > 0 {
		cfg.Server.Port = opts.port
	}
	if opts.host != "" {
		cfg.Server.Host = opts.host
	}
	if opts.driver != "" {
		cfg.Store.Driver = opts.driver
	}
	if opts.noRefresh {
		cfg.Refresh.Disabled = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := server.Seed(ctx, st, cfg.Seed); err != nil {
		return err
	}

	printBanner()
	success("Listening on %s", cfg.URL())
	info("Store: %s", cfg.Store.Driver)
	for typ := range cfg.Seed {
		info("Sort %s at %s/admin/%s", typ, cfg.URL(), typ)
	}
	if cfg.Metrics.Enabled {
		info("Metrics at %s%s", cfg.URL(), cfg.Metrics.Path)
	}

	return server.New(cfg, st).ListenAndServe(ctx)
}
