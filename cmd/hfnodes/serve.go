package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/hvppyflow/hfnodes/api"
	"github.com/hvppyflow/hfnodes/builtin"
	"github.com/hvppyflow/hfnodes/internal/logging"
	"github.com/hvppyflow/hfnodes/invoke"
	"github.com/hvppyflow/hfnodes/middleware"
	"github.com/hvppyflow/hfnodes/ui"
)

// ServeConfig holds configuration for the serve command.
type ServeConfig struct {
	Addr         string
	RedisAddr    string
	RedisPrefix  string
	HistoryLimit int
	WebDirectory string
	Quiet        bool
}

var serveFlags ServeConfig

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the node registry over HTTP",
	Long: `Start an HTTP server publishing node schemas and single-node invocation.

UI payloads of output nodes are kept in memory for /history, drawn on the
terminal unless --quiet is set, and published to Redis when --redis is given.`,
	Example: `  # Serve on the default port
  hfnodes serve

  # Publish UI events to a local Redis
  hfnodes serve --redis localhost:6379`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		config := serveFlags
		return runServe(ctx, cmd, logger, &config)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.Addr, "addr", ":8188", "Address to listen on")
	serveCmd.Flags().StringVar(&serveFlags.RedisAddr, "redis", "", "Redis address for UI event publishing")
	serveCmd.Flags().StringVar(&serveFlags.RedisPrefix, "redis-prefix", ui.DefaultChannelPrefix, "Redis channel prefix")
	serveCmd.Flags().IntVar(&serveFlags.HistoryLimit, "history", 1000, "UI events kept for /history (0 for unbounded)")
	serveCmd.Flags().StringVar(&serveFlags.WebDirectory, "web", "", "Directory served under /extensions (defaults to the registry's)")
	serveCmd.Flags().BoolVarP(&serveFlags.Quiet, "quiet", "q", false, "Do not draw UI events on the terminal")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cmd *cobra.Command, logger *logging.Logger, config *ServeConfig) error {
	history := ui.NewRecorder(config.HistoryLimit)
	sinks := []ui.Sink{history}

	if !config.Quiet {
		terminal, err := ui.NewTerminal(cmd.OutOrStdout(), ui.WithNoColor(noColor))
		if err != nil {
			return fmt.Errorf("create terminal: %w", err)
		}
		sinks = append(sinks, terminal)
	}

	if config.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddr})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("connect to redis at %s: %w", config.RedisAddr, err)
		}
		sinks = append(sinks, ui.NewRedis(client, config.RedisPrefix))
		logger.Info(ctx, "publishing ui events", "redis", config.RedisAddr, "prefix", config.RedisPrefix)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector())
	collector, err := middleware.NewPrometheusCollector(promRegistry)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	registry := builtin.NewRegistry(logger)
	if config.WebDirectory != "" {
		registry.WebDirectory = config.WebDirectory
	}

	inv := invoke.New(registry,
		invoke.WithSink(ui.Multi(sinks...)),
		invoke.WithLogger(logger),
		invoke.WithMiddleware(
			middleware.Recover(),
			middleware.Metrics(collector),
			middleware.Logging(logger),
		),
	)

	srv := &http.Server{
		Addr:              config.Addr,
		Handler:           api.NewServer(inv, api.WithHistory(history), api.WithGatherer(promRegistry), api.WithLogger(logger)).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Slog().Handler(), slog.LevelError),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "serving nodes", "addr", config.Addr, "nodes", registry.Len())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
