package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/log"
)

var (
	configName string
	logFile    string
)

// bootstrap loads the config with a stdout logger and then switches to the
// configured logger, since the log level depends on the environment.
func bootstrap(c context.Context, appName string) (context.Context, *config.Config, zerolog.Logger) {
	bootLogger := zerolog.New(os.Stdout).With().Timestamp().Str(constants.KEY_APP_NAME, appName).Logger()
	cfg := config.Get(bootLogger.WithContext(c), configName)

	logger := log.Get(logFile, cfg.Application).
		With().
		Str(constants.KEY_APP_NAME, appName).
		Logger()
	return logger.WithContext(c), cfg, logger
}

func Start() {
	logger := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str(constants.KEY_APP_NAME, constants.APP_STOREFRONT).
		Str(constants.KEY_TAG, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger.Info().Msg("added listener for SIGINT and SIGTERM")

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.APP_STOREFRONT}
	rootCmd.PersistentFlags().StringVar(&configName, "config", constants.APP_STOREFRONT, "config file name under ./env")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "rotated log file, stdout only when empty")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}
	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigration(cmd.Context(), MIGRATION_UP)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Revert all migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigration(cmd.Context(), MIGRATION_DOWN)
			},
		},
	)

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "api",
			Short: "Run storefront api",
			RunE: func(cmd *cobra.Command, args []string) error {
				return runApi(cmd.Context())
			},
		},
		migrateCmd,
	)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
