package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Brownie44l1/ai-dashboard/internal/config"
)

// Version is the application version.
const Version = "0.1.0"

var (
	// cfg is loaded once before any subcommand runs
	cfg *config.Config
	// envFile is the dotenv file read before the process environment
	envFile string
)

var rootCmd = &cobra.Command{
	Use:     "ai-dashboard",
	Short:   "Image and text tools for exploring how neural networks see their input",
	Version: Version,

	// Running without a subcommand starts the dashboard.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		return nil
	},
}

func Execute() {
	// Ctrl+C and SIGTERM cancel the command context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load before reading the environment")
	addServeFlags(rootCmd)
}
