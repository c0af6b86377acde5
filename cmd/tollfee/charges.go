package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/goodtune/tollfee/internal/config"
	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/goodtune/tollfee/internal/ledger"
	"github.com/goodtune/tollfee/internal/storage"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var chargesCmd = &cobra.Command{
	Use:   "charges [flags] PLATE [DATE]",
	Short: "Show a vehicle's recorded daily charge",
	Long:  `Read the passages recorded for a vehicle from storage and print how its daily charge was reached. DATE defaults to today in the configured timezone.`,
	Example: `  tollfee -c config.yaml charges ABC123
  tollfee charges ABC123 2024-03-12`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runCharges,
}

func init() {
	rootCmd.AddCommand(chargesCmd)
}

func runCharges(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	loc, err := cfg.Tolls.Location()
	if err != nil {
		return err
	}

	// Quiet logger for one-off lookups
	logger := zerolog.New(os.Stderr).Level(zerolog.ErrorLevel).With().Timestamp().Logger()

	store, err := openStorage(cfg.Storage, 0)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()

	l := ledger.New(store, nil, ledger.Config{Location: loc}, logger)

	date := l.Today()
	if len(args) == 2 {
		if date, err = holiday.ParseDate(args[1]); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := l.Statement(ctx, args[0], date)
	if errors.Is(err, storage.ErrNotFound) {
		_, _ = color.New(color.FgYellow).Fprintf(cmd.OutOrStdout(), "No passages recorded for %s on %s\n", args[0], date)
		return nil
	}
	if err != nil {
		return err
	}

	printStatement(cmd.OutOrStdout(), st)
	return nil
}
