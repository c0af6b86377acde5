package main

import (
	"fmt"

	"github.com/goodtune/tollfee/internal/api"
	"github.com/goodtune/tollfee/internal/config"
	"github.com/spf13/cobra"
)

var (
	tokenGantry     string
	tokenExpiration string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a gantry token",
	Long:  `Issue a signed JWT that a toll gantry presents when recording passages. Uses auth.jwt_secret from the configuration.`,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenGantry, "gantry", "", "Gantry identifier (required)")
	tokenCmd.Flags().StringVar(&tokenExpiration, "expiration", "", "Token lifetime (defaults to auth.token_expiration)")
	_ = tokenCmd.MarkFlagRequired("gantry")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	expiration := parseDuration(cfg.Auth.TokenExpiration, api.DefaultTokenExpiration)
	if tokenExpiration != "" {
		expiration = parseDuration(tokenExpiration, expiration)
	}

	auth := api.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.Issuer, expiration)
	token, err := auth.GenerateToken(tokenGantry)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
