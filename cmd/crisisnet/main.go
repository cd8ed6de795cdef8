package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"crisisnet/internal/config"
	"crisisnet/internal/engine"
	"crisisnet/internal/live"
)

// version is overridden at build time via -ldflags
var version = "dev"

func main() {
	// Load .env if present; real environment takes precedence
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "crisisnet",
	})
	if cfg.Log.Debug {
		logger.SetLevel(log.DebugLevel)
	}

	root := &cobra.Command{
		Use:           "crisisnet",
		Short:         "Crisis text network analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newAnalyzeCmd(cfg, logger))
	root.AddCommand(newLiveCmd(cfg, logger))
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		logger.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// newAnalyzeCmd runs the batch pipeline over a CSV file and writes the
// full analysis report as JSON
func newAnalyzeCmd(cfg config.Config, logger *log.Logger) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "analyze <csv-file>",
		Short: "Ingest a CSV dataset and run the full batch analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open dataset: %w", err)
			}
			defer f.Close()

			eng := engine.New(cfg, engine.Dependencies{}, logger)
			if _, err := eng.Ingest(f); err != nil {
				return fmt.Errorf("ingest failed: %w", err)
			}

			session, err := eng.Analyze(cmd.Context())
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			report := engine.BuildReport(session)
			out := os.Stdout
			if output != "" {
				out, err = os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output file: %w", err)
				}
				defer out.Close()
			}

			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON report to a file instead of stdout")
	return cmd
}

// newVersionCmd prints the build version
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the crisisnet version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "crisisnet "+version)
		},
	}
}

// newLiveCmd attaches the live pipeline to the configured NATS subject
// and prints rolling summaries until interrupted
func newLiveCmd(cfg config.Config, logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "live",
		Short: "Consume live events from NATS and print rolling summaries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			source := live.NewNATSSource(live.NATSSourceConfig{
				URL:            cfg.Live.NATS.URL,
				Subject:        cfg.Live.NATS.Subject,
				MaxReconnects:  cfg.Live.NATS.MaxReconnects,
				ReconnectWait:  cfg.Live.NATS.ReconnectWait,
				ConnectTimeout: cfg.Live.NATS.ConnectTimeout,
			}, logger)

			pipeline := live.NewPipeline(source, live.Config{
				BufferSize:      cfg.Live.BufferSize,
				SubscriberQueue: cfg.Live.SubscriberQueue,
			}, logger)

			if err := pipeline.Start(ctx); err != nil {
				return err
			}

			sub := pipeline.Subscribe()
			defer pipeline.Unsubscribe(sub.ID())

			shutdown := make(chan os.Signal, 1)
			signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

			enc := json.NewEncoder(os.Stdout)
			for {
				select {
				case <-shutdown:
					logger.Info("shutting down")
					return pipeline.Stop()
				case msg, ok := <-sub.Messages():
					if !ok {
						return pipeline.Stop()
					}
					if err := enc.Encode(msg); err != nil {
						return err
					}
				}
			}
		},
	}
}
