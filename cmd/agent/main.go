package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	apiserver "hyperion-agent/internal/api"
	configapp "hyperion-agent/internal/config/application"
	"hyperion-agent/internal/infrastructure/logger"
	metricsapp "hyperion-agent/internal/metrics/application"
	metricsinfra "hyperion-agent/internal/metrics/infrastructure"
	"hyperion-agent/pkg/agentclient"
)

var version = "dev"

const shutdownTimeout = 5 * time.Second

func newApp() *cli.App {
	return &cli.App{
		Name:    "hyperion-agent",
		Usage:   "serve per-node CPU, memory and GPU utilization over HTTP",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "env-file", Usage: "path to a .env file (default: ./.env)"},
			&cli.StringFlag{Name: "addr", Usage: "listen address (overrides HYPERION_LISTEN_ADDR)"},
			&cli.StringFlag{Name: "node-name", Usage: "node identity (overrides MY_NODE_NAME)"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error (overrides HYPERION_LOG_LEVEL)"},
			&cli.StringFlag{Name: "log-format", Usage: "text or json (overrides HYPERION_LOG_FORMAT)"},
			&cli.StringFlag{Name: "log-output", Usage: "stdout, stderr or a file path (overrides HYPERION_LOG_OUTPUT)"},
			&cli.BoolFlag{Name: "dev", Usage: "enable Swagger UI (overrides HYPERION_DEV_MODE)"},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the agent HTTP server (default)",
				Action: serve,
			},
			{
				Name:  "probe",
				Usage: "fetch and print the snapshot of a running agent",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "host", Usage: "agent host", Required: true},
					&cli.IntFlag{Name: "port", Usage: "agent port", Value: agentclient.DefaultPort},
					&cli.DurationFlag{Name: "timeout", Usage: "request timeout", Value: agentclient.DefaultTimeout},
				},
				Action: probe,
			},
		},
	}
}

func serve(cCtx *cli.Context) error {
	bootLogger := logger.DefaultLogger()
	configapp.LoadEnvFile(bootLogger, cCtx.String("env-file"))

	cfg, err := configapp.LoadRuntimeConfig(configapp.Overrides{
		NodeName:   cCtx.String("node-name"),
		ListenAddr: cCtx.String("addr"),
		LogLevel:   cCtx.String("log-level"),
		LogFormat:  cCtx.String("log-format"),
		LogOutput:  cCtx.String("log-output"),
		DevMode:    cCtx.Bool("dev"),
	})
	if err != nil {
		return fmt.Errorf("failed to load runtime config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	appLogger := logger.NewLogger(cfg.LoggerOptions())
	logger.SetDefaultLogger(appLogger)

	sigCtx, cancel := signal.NotifyContext(cCtx.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	reader := metricsinfra.NewSystemMetricsReader(metricsinfra.DefaultPaths())
	metricsService := metricsapp.NewService(appLogger, reader, cfg.NodeName)

	apiServer, err := apiserver.NewServer(appLogger, cfg, metricsService)
	if err != nil {
		return fmt.Errorf("failed to create API server: %w", err)
	}
	if err := apiServer.Listen(); err != nil {
		return err
	}

	appLogger.Info("Hyperion agent listening",
		"addr", apiServer.Addr(),
		"node", cfg.NodeName,
		"version", version,
	)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := apiServer.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	select {
	case <-sigCtx.Done():
		appLogger.Info("Shutdown signal received, starting graceful shutdown")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("API server shutdown error: %w", err)
		}
		appLogger.Info("Graceful shutdown completed")
		return nil
	case err := <-serverErrChan:
		return err
	}
}

func probe(cCtx *cli.Context) error {
	client := agentclient.New(
		agentclient.WithPort(cCtx.Int("port")),
		agentclient.WithTimeout(cCtx.Duration("timeout")),
		agentclient.WithCacheTTL(0),
	)

	metrics, err := client.Get(cCtx.Context, cCtx.String("host"))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(metrics, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode metrics: %w", err)
	}
	_, err = fmt.Fprintln(cCtx.App.Writer, string(out))
	return err
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.DefaultLogger().Error("Application error", "err", err)
		os.Exit(1)
	}
}
