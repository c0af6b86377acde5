package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goodtune/tollfee/internal/api"
	"github.com/goodtune/tollfee/internal/config"
	"github.com/goodtune/tollfee/internal/holiday"
	"github.com/goodtune/tollfee/internal/ledger"
	"github.com/goodtune/tollfee/internal/metrics"
	"github.com/goodtune/tollfee/internal/storage"
	"github.com/goodtune/tollfee/internal/storage/redis"
	"github.com/goodtune/tollfee/internal/systemd"
	"github.com/goodtune/tollfee/internal/toll"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start tollfee server",
	Long:  `Start the tollfee server with the fee and passage API, the retention scheduler, and the metrics endpoint.`,
	RunE:  runServer,
}

func init() {
	rootCmd.AddCommand(serverCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup logger
	logger := setupLogger(cfg.Logging)
	log.Logger = logger

	logger.Info().
		Str("version", version).
		Str("config", configPath).
		Msg("Starting tollfee")

	// Check for systemd socket activation
	sdListeners, err := systemd.GetListeners()
	if err != nil {
		return fmt.Errorf("failed to get systemd listeners: %w", err)
	}
	if sdListeners.Activated {
		logger.Info().Msg("Running with systemd socket activation")
	}

	location, err := cfg.Tolls.Location()
	if err != nil {
		return fmt.Errorf("failed to load timezone: %w", err)
	}

	// Keys outlive the retention horizon by a day so the scheduler, not
	// expiry, decides when a day disappears.
	ttl := time.Duration(cfg.Retention.Days+1) * 24 * time.Hour

	// Initialize storage
	store, err := openStorage(cfg.Storage, ttl)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close storage")
		}
	}()

	logger.Info().
		Str("type", cfg.Storage.Type).
		Str("redis_host", cfg.Storage.Redis.Host).
		Int("redis_port", cfg.Storage.Redis.Port).
		Msg("Storage initialized")

	// Initialize fee calculation
	calendar, err := holiday.NewCalendar(cfg.Tolls.HolidayCacheSize)
	if err != nil {
		return fmt.Errorf("failed to initialize holiday calendar: %w", err)
	}

	feeLedger := ledger.New(store, toll.New(calendar), ledger.Config{Location: location}, logger)

	logger.Info().
		Str("timezone", location.String()).
		Int("holiday_cache_size", cfg.Tolls.HolidayCacheSize).
		Msg("Ledger initialized")

	// Initialize Retention Scheduler
	retentionScheduler, err := ledger.NewRetentionScheduler(
		feeLedger,
		cfg.Retention.Days,
		cfg.Retention.CleanupTime,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize Retention Scheduler: %w", err)
	}
	retentionScheduler.Start()

	// Initialize API Server
	auth := api.NewAuthService(
		cfg.Auth.JWTSecret,
		cfg.Auth.Issuer,
		parseDuration(cfg.Auth.TokenExpiration, api.DefaultTokenExpiration),
	)
	if !auth.Enabled() {
		logger.Warn().Msg("auth.jwt_secret is not set, passage recording is disabled")
	}

	apiAddr := fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.HTTPPort)
	apiServer := api.NewServer(api.Config{ListenAddr: apiAddr}, &api.Deps{
		Ledger:   feeLedger,
		Calendar: calendar,
		Auth:     auth,
		Logger:   logger,
	})

	// Use systemd socket-activated listener if available
	if sdListeners.Activated && sdListeners.HTTP != nil {
		apiServer.SetListener(sdListeners.HTTP)
	}

	if err := apiServer.Start(); err != nil {
		return fmt.Errorf("failed to start API Server: %w", err)
	}

	// Initialize Metrics Server
	metricsAddr := fmt.Sprintf("%s:%d", cfg.Server.BindAddress, cfg.Server.MetricsPort)
	metricsServer := metrics.NewServer(metricsAddr, logger)

	if sdListeners.Activated && sdListeners.Metrics != nil {
		metricsServer.SetListener(sdListeners.Metrics)
	}

	if err := metricsServer.Start(); err != nil {
		return fmt.Errorf("failed to start Metrics Server: %w", err)
	}

	logger.Info().Msg("tollfee startup complete")
	logger.Info().Msgf("API: http://%s/api/v1", apiAddr)
	logger.Info().Msgf("Metrics: http://%s/metrics", metricsAddr)

	// Notify systemd that we're ready to serve requests
	if err := systemd.NotifyReady(); err != nil {
		logger.Warn().Err(err).Msg("Failed to send systemd ready notification")
	} else {
		logger.Debug().Msg("Sent systemd ready notification")
	}

	stopWatchdog := make(chan struct{})
	go systemd.RunWatchdog(stopWatchdog, func(err error) {
		logger.Warn().Err(err).Msg("systemd watchdog notification failed")
	})

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received, gracefully stopping...")

	// Notify systemd that we're stopping
	if err := systemd.NotifyStopping(); err != nil {
		logger.Warn().Err(err).Msg("Failed to send systemd stopping notification")
	}
	close(stopWatchdog)

	// Stop servers
	retentionScheduler.Stop()

	if err := apiServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping API Server")
	}

	if err := metricsServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping Metrics Server")
	}

	logger.Info().Msg("tollfee stopped")

	return nil
}

func openStorage(cfg config.StorageConfig, ttl time.Duration) (storage.Store, error) {
	storageType := cfg.Type
	if storageType == "" {
		storageType = "redis"
	}

	switch storageType {
	case "redis":
		return redis.Open(cfg.Redis, ttl)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s (only 'redis' is supported)", storageType)
	}
}

// setupLogger configures the logger based on configuration
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Set output format
	if cfg.Format == "text" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}

	// Default to JSON
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

// parseDuration parses a duration string with a fallback
func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
