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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type guardTestRow struct {
	ID   int64 `gorm:"primaryKey;autoIncrement"`
	Name string
}

func newTestGuard(t *testing.T, serialize bool) *Guard {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&guardTestRow{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return NewGuard(db, serialize)
}

func countRows(t *testing.T, g *Guard) int64 {
	t.Helper()
	var count int64
	require.NoError(t, g.Do(context.Background(), func(db *gorm.DB) error {
		return db.Model(&guardTestRow{}).Count(&count).Error
	}))
	return count
}

func insertRow(ctx context.Context, g *Guard, name string) error {
	return g.Do(ctx, func(db *gorm.DB) error {
		return db.Create(&guardTestRow{Name: name}).Error
	})
}

func TestGuardTransaction(t *testing.T) {
	t.Run("should commit all statements of the callback", func(t *testing.T) {
		g := newTestGuard(t, true)
		err := g.Transaction(context.Background(), func(ctx context.Context) error {
			if err := insertRow(ctx, g, "a"); err != nil {
				return err
			}
			return insertRow(ctx, g, "b")
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), countRows(t, g))
	})

	t.Run("should rollback if the callback fails", func(t *testing.T) {
		g := newTestGuard(t, true)
		failure := errors.New("boom")
		err := g.Transaction(context.Background(), func(ctx context.Context) error {
			require.NoError(t, insertRow(ctx, g, "a"))
			return failure
		})
		assert.ErrorIs(t, err, failure)
		assert.Equal(t, int64(0), countRows(t, g))
	})

	t.Run("should rollback and release the guard if the callback panics", func(t *testing.T) {
		g := newTestGuard(t, true)
		assert.Panics(t, func() {
			_ = g.Transaction(context.Background(), func(ctx context.Context) error {
				require.NoError(t, insertRow(ctx, g, "a"))
				panic("boom")
			})
		})
		assert.Equal(t, int64(0), countRows(t, g))
	})

	t.Run("nested transactions should join the outer one", func(t *testing.T) {
		g := newTestGuard(t, true)
		err := g.Transaction(context.Background(), func(ctx context.Context) error {
			err := g.Transaction(ctx, func(inner context.Context) error {
				assert.True(t, InTransaction(inner))
				return insertRow(inner, g, "inner")
			})
			require.NoError(t, err)
			return errors.New("outer fails")
		})
		assert.Error(t, err)
		assert.Equal(t, int64(0), countRows(t, g))
	})

	t.Run("statements inside a transaction should not acquire the guard again", func(t *testing.T) {
		g := newTestGuard(t, true)
		done := make(chan error, 1)
		go func() {
			done <- g.Transaction(context.Background(), func(ctx context.Context) error {
				for i := 0; i < 5; i++ {
					if err := insertRow(ctx, g, "row"); err != nil {
						return err
					}
				}
				return nil
			})
		}()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("transaction deadlocked on its own guard")
		}
		assert.Equal(t, int64(5), countRows(t, g))
	})
}

func TestGuardSerialization(t *testing.T) {
	t.Run("should never run two transactions at once when serializing", func(t *testing.T) {
		g := newTestGuard(t, true)

		var active, maxActive atomic.Int32
		wg := sync.WaitGroup{}
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := g.Transaction(context.Background(), func(ctx context.Context) error {
					current := active.Add(1)
					for {
						seen := maxActive.Load()
						if current <= seen || maxActive.CompareAndSwap(seen, current) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					err := insertRow(ctx, g, "row")
					active.Add(-1)
					return err
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), maxActive.Load())
		assert.Equal(t, int64(8), countRows(t, g))
	})

	t.Run("should be a pass-through when not serializing", func(t *testing.T) {
		g := NewGuard(nil, false)
		assert.False(t, g.Serializing())

		releaseA := g.acquire()
		releaseB := g.acquire()
		releaseA()
		releaseB()
	})

	t.Run("serializing mode should follow the configuration", func(t *testing.T) {
		assert.True(t, NewGuard(nil, true).Serializing())
	})
}
