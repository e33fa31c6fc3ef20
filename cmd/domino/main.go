package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"domino/internal/app"
	"domino/internal/config"
	"domino/internal/domain"
	"domino/internal/logging"
	"domino/internal/ports/console"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "domino",
	Short:        "Play one two-player domino game and print the transcript",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile, cmd.Flags())
		if err != nil {
			return err
		}
		logger := logging.New(os.Stderr, "domino", cfg.LogLevel)

		seed := cfg.ResolveSeed()
		logger.Info("starting", "seed", seed, "hand_size", cfg.HandSize, "draw_when_blocked", cfg.DrawWhenBlocked)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		printer := console.NewPrinter(os.Stdout)
		svc := app.NewService(rand.New(rand.NewSource(seed)), cfg.Rules())
		runner := app.NewRunner(svc, printer, logger)

		if _, err := runner.Run(ctx, [domain.Seats]string{"player-1", "player-2"}); err != nil {
			return err
		}
		if err := printer.Err(); err != nil {
			return fmt.Errorf("write transcript: %w", err)
		}
		return nil
	},
}

func init() {
	def := config.Default()
	rootCmd.Flags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.Flags().Int64("seed", 0, "shuffle seed; when omitted one is picked from the clock and logged")
	rootCmd.Flags().String("log-level", def.LogLevel, "log level: debug, info, warn, error")
	rootCmd.Flags().Int("hand-size", def.HandSize, "tiles dealt to each player")
	rootCmd.Flags().Bool("draw-when-blocked", def.DrawWhenBlocked, "draw instead of ending the game when the active player is blocked")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
