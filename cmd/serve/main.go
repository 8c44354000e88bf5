package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-loglens/internal/logger"
	"github.com/rxtech-lab/argo-loglens/pkg/analyzer"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// serveAction starts the REST API server and blocks until interrupted.
func serveAction(ctx context.Context, cmd *cli.Command) error {
	address := cmd.String("address")
	configPath := cmd.String("config")

	config := analyzer.DefaultConfig()

	if configPath != "" {
		loaded, err := analyzer.LoadConfig(configPath)
		if err != nil {
			return err
		}

		config = *loaded
	}

	appLogger, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	a, err := analyzer.NewAnalyzer(config, appLogger)
	if err != nil {
		return err
	}

	server := NewServer(a, appLogger)
	if err := server.Start(address); err != nil {
		return err
	}

	appLogger.Info("server started", zap.String("url", server.URL()))

	// Block until interrupted
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	appLogger.Info("shutting down")

	return server.Stop()
}

func main() {
	cmd := &cli.Command{
		Name:  "serve",
		Usage: "Serve trading bot log analysis over a REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"l"},
				Usage:   "Listen address (host:port)",
				Value:   ":8080",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML analyzer config (defaults to built-in settings)",
			},
		},
		Action: serveAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
