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
	"context"
	"log/slog"
	"sync"

	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type txContextKey struct{}

// Guard wraps every statement and transaction.
//
// In serializing mode (single sqlite handle) statements and transactions
// are executed one after another. Otherwise the guard is a pass-through and
// the connection pool handles concurrency.
//
// A context returned into a Transaction callback carries the open
// transaction. Statements executed with that context join the transaction
// and never acquire the guard a second time. Work inside a transaction must
// therefore always pass the callback context along, otherwise it blocks
// behind its own transaction when serializing.
type Guard struct {
	db        *gorm.DB
	serialize bool
	mu        sync.Mutex
}

var _ shared.TxRunner = (*Guard)(nil)

func NewGuard(db *gorm.DB, serialize bool) *Guard {
	return &Guard{db: db, serialize: serialize}
}

func NewGuardFromConfig(db shared.DB, cfg shared.Config) *Guard {
	return NewGuard(db, cfg.ShouldSerializeDB())
}

func (g *Guard) Serializing() bool {
	return g.serialize
}

func (g *Guard) DB() *gorm.DB {
	return g.db
}

func txFromContext(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok && tx != nil
}

// InTransaction reports whether ctx carries an open transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := txFromContext(ctx)
	return ok
}

func (g *Guard) acquire() func() {
	if !g.serialize {
		return func() {}
	}
	g.mu.Lock()
	return g.mu.Unlock
}

// Do executes fn with the transaction carried by ctx or with a fresh session.
func (g *Guard) Do(ctx context.Context, fn func(db *gorm.DB) error) error {
	if tx, ok := txFromContext(ctx); ok {
		return fn(tx)
	}
	release := g.acquire()
	defer release()
	return fn(g.db.WithContext(ctx))
}

// Transaction runs fn inside a transaction. Nested calls join the outer transaction.
func (g *Guard) Transaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if InTransaction(ctx) {
		return fn(ctx)
	}

	release := g.acquire()
	defer release()

	tx := g.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "could not begin transaction")
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// covers errors and panics alike
		if rbErr := tx.Rollback().Error; rbErr != nil {
			slog.Error("could not rollback transaction", "err", rbErr)
		}
	}()

	if err := fn(context.WithValue(ctx, txContextKey{}, tx)); err != nil {
		return err
	}

	// a failed commit ends the transaction as well
	committed = true
	return errors.Wrap(tx.Commit().Error, "could not commit transaction")
}
