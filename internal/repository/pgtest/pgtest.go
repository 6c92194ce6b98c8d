// Package pgtest starts a migrated postgres container for tests that need the
// real locking and constraint behavior of the database.
package pgtest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/infra"
	"github.com/Alturino/storefront/internal/repository"
)

const (
	image    = "postgres:16.6-alpine3.21"
	database = "storefront"
	username = "postgres"
	password = "postgres"
)

func migrationPath() string {
	_, file, _, _ := runtime.Caller(0)
	return "file://" + filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
}

// NewStore skips the test when docker is unavailable. The container and pool
// are released through t.Cleanup.
func NewStore(t *testing.T) (*repository.PgStore, *pgxpool.Pool) {
	t.Helper()
	testcontainers.SkipIfProviderIsNotHealthy(t)
	c := zerolog.Nop().WithContext(context.Background())

	pgContainer, err := postgres.Run(
		c,
		image,
		postgres.WithUsername(username),
		postgres.WithPassword(password),
		postgres.WithDatabase(database),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(context.Background()); err != nil {
			t.Errorf("failed to terminate container: %s", err)
		}
	})

	host, err := pgContainer.Host(c)
	if err != nil {
		t.Fatalf("failed getting postgres host with error: %s", err)
	}
	port, err := pgContainer.MappedPort(c, "5432/tcp")
	if err != nil {
		t.Fatalf("failed getting postgres port with error: %s", err)
	}

	dbConfig := config.Database{
		Name:           database,
		Host:           host,
		MigrationPath:  migrationPath(),
		Password:       password,
		Username:       username,
		MaxConnections: 20,
		MinConnections: 1,
		Port:           uint16(port.Int()),
	}
	pool, err := infra.NewDatabaseClient(c, dbConfig)
	if err != nil {
		t.Fatalf("failed connecting to postgres with error: %s", err)
	}
	t.Cleanup(pool.Close)

	if err := infra.RunMigration(c, pool, dbConfig, infra.MIGRATION_UP); err != nil {
		t.Fatalf("failed migrating postgres with error: %s", err)
	}

	return repository.NewStore(pool), pool
}
