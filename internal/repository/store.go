package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/Alturino/storefront/internal/constants"
	"github.com/Alturino/storefront/internal/otel"
)

type Store interface {
	Querier
	ExecTx(c context.Context, fn func(Querier) error) error
}

type PgStore struct {
	*Queries
	pool *pgxpool.Pool
}

var _ Store = (*PgStore)(nil)

func NewStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{Queries: New(pool), pool: pool}
}

func (s *PgStore) ExecTx(c context.Context, fn func(Querier) error) error {
	c, span := otel.Tracer.Start(c, "PgStore ExecTx")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(constants.KEY_TAG, "PgStore ExecTx").
		Logger()

	logger = logger.With().Str(constants.KEY_PROCESS, "initializing transaction").Logger()
	logger.Trace().Msg("initializing transaction")
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		err = fmt.Errorf("failed initializing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("initialized transaction")
	defer func() {
		logger := logger.With().Str(constants.KEY_PROCESS, "rolling back transaction").Logger()
		logger.Trace().Msg("rolling back transaction")
		err := tx.Rollback(c)
		if err != nil {
			if errors.Is(err, pgx.ErrTxClosed) {
				return
			}
			err = fmt.Errorf("failed rolling back transaction with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return
		}
		logger.Trace().Msg("rolled back transaction")
	}()

	err = fn(s.WithTx(tx))
	if err != nil {
		otel.RecordError(err, span)
		return err
	}

	logger = logger.With().Str(constants.KEY_PROCESS, "committing transaction").Logger()
	logger.Trace().Msg("committing transaction")
	err = tx.Commit(c)
	if err != nil {
		err = fmt.Errorf("failed committing transaction with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Trace().Msg("committed transaction")

	return nil
}
