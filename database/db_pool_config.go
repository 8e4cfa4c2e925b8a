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

package database

import (
	"time"

	"github.com/l3montree-dev/fixcurator/shared"
)

// connections kept beside the ingestion workers for api requests and the vcs sync
const apiConns = 4

type PoolConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	DBName   string

	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

// NewPoolConfig sizes the pool after the worker count. Every ingestion worker
// holds one connection for the length of its persist transaction.
func NewPoolConfig(cfg shared.Config) PoolConfig {
	return PoolConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		DBName:   cfg.PostgresDB,

		MaxConns:        int32(cfg.IngestionWorkers + apiConns),
		MinConns:        1,
		ConnMaxLifetime: time.Hour,
	}
}
