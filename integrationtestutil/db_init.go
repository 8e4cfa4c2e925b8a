// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package integrationtestutil

import (
	"context"
	"log"
	"testing"

	"github.com/l3montree-dev/fixcurator/database"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

// InitSQLiteDB returns a migrated in-memory database together with a serializing guard.
func InitSQLiteDB(t testing.TB) (shared.DB, *database.Guard) {
	t.Helper()
	db, err := database.NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("could not open sqlite database: %s", err)
	}
	if err := database.RunMigrationsWithDB(db); err != nil {
		t.Fatalf("could not migrate sqlite database: %s", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db, database.NewGuard(db, true)
}

// InitPostgresDB starts a postgres container and runs the embedded migrations.
// It is skipped in short mode.
func InitPostgresDB(t testing.TB) (shared.DB, *database.Guard) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	dbName := "fixcurator"
	dbUser := "user"
	dbPassword := "password"

	postgresC, err := postgres.Run(ctx,
		"postgres:17-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(postgresC); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	})
	if err != nil {
		t.Skipf("could not start postgres container: %s", err)
	}

	host, _ := postgresC.Host(ctx)
	port, _ := postgresC.MappedPort(ctx, "5432")

	pool, err := database.NewPgxConnPool(database.PoolConfig{
		User:     dbUser,
		Password: dbPassword,
		Host:     host,
		Port:     port.Port(),
		DBName:   dbName,

		MaxConns: 10,
		MinConns: 1,
	})
	if err != nil {
		t.Fatalf("could not create pool: %s", err)
	}
	t.Cleanup(pool.Close)

	db, err := database.NewGormDB(pool)
	if err != nil {
		t.Fatalf("could not open database: %s", err)
	}
	if err := database.RunMigrationsWithDB(db); err != nil {
		t.Fatalf("failed to run migrations: %s", err)
	}
	return db, database.NewGuard(db, false)
}
