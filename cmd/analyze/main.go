package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rxtech-lab/argo-loglens/internal/export"
	"github.com/rxtech-lab/argo-loglens/internal/logger"
	"github.com/rxtech-lab/argo-loglens/internal/store"
	"github.com/rxtech-lab/argo-loglens/pkg/analyzer"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// analyzeAction is the core logic executed by the CLI command.
// It loads the log file, runs the analysis pipeline, and writes the report.
func analyzeAction(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.String("file")
	if filePath == "" {
		return fmt.Errorf("missing required flag: --file")
	}

	filter := cmd.String("filter")
	configPath := cmd.String("config")
	outputPath := cmd.String("output")
	parquetDir := cmd.String("parquet")

	// Load analyzer configuration, falling back to the built-in defaults
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
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLogger.Sync()

	a, err := analyzer.NewAnalyzer(config, appLogger)
	if err != nil {
		return err
	}

	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read log file: %w", err)
	}

	result, err := a.Analyze(filePath, string(content))
	if err != nil {
		return err
	}

	// Print a short summary to stdout
	stats := result.Stats(filter)
	fmt.Printf("Assets: %v\n", result.Assets)
	fmt.Printf("Sessions: %d\n", len(result.SessionsFor(filter)))
	fmt.Printf("Spread triggers: %d\n", stats.SpreadTriggers)
	fmt.Printf("Orders: %d total, %d accepted, %d rejected (%s)\n",
		stats.Orders.Total, stats.Orders.Accepted, stats.Orders.Rejected,
		export.FormatPercent(stats.Orders.AcceptRate()))
	fmt.Printf("Fills: %d total (%d partial), avg latency %s\n",
		stats.Fills.Total, stats.Fills.Partial,
		export.FormatLatency(stats.Orders.AverageLatency()))

	// Write the JSON report
	report := result.Report(filter)
	if err := report.Save(outputPath); err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n", outputPath)

	// Optionally export the result tables to Parquet
	if parquetDir != "" {
		if err := exportParquet(result, filter, parquetDir, appLogger); err != nil {
			return err
		}

		fmt.Printf("Parquet files written to %s\n", parquetDir)
	}

	return nil
}

// exportParquet records the filtered sessions and orders in the result store
// and writes them out as Parquet files.
func exportParquet(result *analyzer.Result, filter, dir string, appLogger *logger.Logger) error {
	resultStore, err := store.NewResultStore(appLogger)
	if err != nil {
		return err
	}
	defer resultStore.Close()

	sessions := result.SessionsFor(filter)

	bar := progressbar.NewOptions(len(sessions), progressbar.OptionSetDescription("Recording sessions"), progressbar.OptionShowCount())

	for _, session := range sessions {
		if err := resultStore.RecordEvents(session.ID, session.Events); err != nil {
			return err
		}

		bar.Add(1)
	}

	if err := resultStore.RecordOrders(result.Orders(filter)); err != nil {
		return err
	}

	return resultStore.Write(dir)
}

func main() {
	// Define the CLI application
	cmd := &cli.Command{
		Name:  "analyze",
		Usage: "Analyze a trading bot log file and export a JSON report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Path to the log file",
			},
			&cli.StringFlag{
				Name:     "filter",
				Aliases:  []string{"a"},
				Usage:    "Asset filter (ticker symbol or \"all\")",
				Value:    analyzer.FilterAll,
				Required: false,
			},
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to a YAML analyzer config (defaults to built-in settings)",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Usage:    "Path of the JSON report to write",
				Value:    "report.json",
				Required: false,
			},
			&cli.StringFlag{
				Name:     "parquet",
				Aliases:  []string{"p"},
				Usage:    "Directory to export events and orders as Parquet files",
				Required: false,
			},
		},
		Action: analyzeAction,
		Commands: []*cli.Command{
			{
				Name:  "schema",
				Usage: "Print the JSON schema of the report document",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					schema, err := export.ReportSchema()
					if err != nil {
						return err
					}

					fmt.Println(schema)

					return nil
				},
			},
		},
	}

	// Run the CLI application
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
