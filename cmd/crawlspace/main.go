// Package main implements the crawlspace CLI for searching Slack exports.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/matheus3301/crawlspace/internal/app"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var (
	// configPath overrides ~/.crawlspace/config.toml
	configPath string
	// verbose mirrors the log file to stderr
	verbose bool
	// archiveFlag is the export folder for commands that read one
	archiveFlag string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "crawlspace",
	Short: "Search Slack export archives",
	Long: `crawlspace searches a Slack workspace export for sentences matching groups
of words, reconstructs conversations, and keeps an audit history of every search.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: ~/.crawlspace/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "also log to stderr")
}

// withService starts the application graph, runs fn and stops the graph.
// fn receives a context cancelled on SIGINT/SIGTERM.
func withService(noHistory bool, fn func(ctx context.Context, svc *app.Service) error) error {
	var svc *app.Service
	fxApp := fx.New(
		app.Module(app.Params{
			Binary:     "crawlspace",
			ConfigPath: configPath,
			Console:    verbose,
			NoHistory:  noHistory,
		}),
		fx.Populate(&svc),
		fx.NopLogger,
	)
	if err := fxApp.Err(); err != nil {
		return fmt.Errorf("initialize: %w", err)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelStart()
	if err := fxApp.Start(startCtx); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	defer func() {
		stopCtx, cancelStop := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelStop()
		_ = fxApp.Stop(stopCtx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, svc)
}
