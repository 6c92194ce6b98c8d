package cmd

import (
	"context"
	"fmt"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/infra"
)

const (
	MIGRATION_UP   = infra.MIGRATION_UP
	MIGRATION_DOWN = infra.MIGRATION_DOWN
)

func runMigration(c context.Context, direction string) error {
	c, cfg, logger := bootstrap(c, constants.APP_MIGRATION)
	logger = logger.With().Str(constants.KEY_TAG, "main runMigration").Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	pool, err := infra.NewDatabaseClient(logger.WithContext(c), cfg.Database)
	if err != nil {
		err = fmt.Errorf("failed initializing database with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer pool.Close()
	logger.Info().Msg("initialized database")

	logger = logger.With().Str(constants.KEY_PROCESS, "migration "+direction).Logger()
	logger.Info().Msgf("running migration %s", direction)
	if err := infra.RunMigration(logger.WithContext(c), pool, cfg.Database, direction); err != nil {
		return err
	}
	logger.Info().Msgf("ran migration %s", direction)

	return nil
}
