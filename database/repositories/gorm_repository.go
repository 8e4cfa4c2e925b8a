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

package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/l3montree-dev/fixcurator/database"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// keeps a single statement below the bind parameter limits of both drivers
const insertBatchSize = 500

type GormRepository[ID comparable, T any] struct {
	guard *database.Guard
}

func newGormRepository[ID comparable, T any](guard *database.Guard) *GormRepository[ID, T] {
	return &GormRepository[ID, T]{
		guard: guard,
	}
}

func (g *GormRepository[ID, T]) do(ctx context.Context, fn func(db *gorm.DB) error) error {
	return g.guard.Do(ctx, fn)
}

func (g *GormRepository[ID, T]) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return g.guard.Transaction(ctx, fn)
}

func (g *GormRepository[ID, T]) All(ctx context.Context) ([]T, error) {
	var ts []T
	err := g.do(ctx, func(db *gorm.DB) error {
		return db.Find(&ts).Error
	})
	return ts, err
}

func (g *GormRepository[ID, T]) Create(ctx context.Context, t *T) error {
	return g.do(ctx, func(db *gorm.DB) error {
		return db.Omit(clause.Associations).Create(t).Error
	})
}

// CreateBatch inserts all rows and writes the generated primary keys back into ts.
func (g *GormRepository[ID, T]) CreateBatch(ctx context.Context, ts []T) error {
	if len(ts) == 0 {
		return nil
	}
	return g.do(ctx, func(db *gorm.DB) error {
		return db.Omit(clause.Associations).CreateInBatches(ts, insertBatchSize).Error
	})
}

// CreateBatchIgnoreConflicts skips rows violating a unique constraint.
func (g *GormRepository[ID, T]) CreateBatchIgnoreConflicts(ctx context.Context, ts []T) error {
	if len(ts) == 0 {
		return nil
	}
	return g.do(ctx, func(db *gorm.DB) error {
		return db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(ts, insertBatchSize).Error
	})
}

func (g *GormRepository[ID, T]) Save(ctx context.Context, t *T) error {
	return g.do(ctx, func(db *gorm.DB) error {
		return db.Omit(clause.Associations).Save(t).Error
	})
}

func (g *GormRepository[ID, T]) Read(ctx context.Context, id ID) (T, error) {
	var t T
	err := g.do(ctx, func(db *gorm.DB) error {
		return db.Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).First(&t).Error
	})
	return t, notFound(err)
}

func (g *GormRepository[ID, T]) Delete(ctx context.Context, id ID) error {
	var t T
	return g.do(ctx, func(db *gorm.DB) error {
		res := db.Where(clause.Eq{Column: clause.PrimaryColumn, Value: id}).Delete(&t)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (g *GormRepository[ID, T]) List(ctx context.Context, ids []ID) ([]T, error) {
	if len(ids) == 0 {
		return []T{}, nil
	}
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}

	var ts []T
	err := g.do(ctx, func(db *gorm.DB) error {
		return db.Where(clause.IN{Column: clause.PrimaryColumn, Values: values}).Find(&ts).Error
	})
	return ts, err
}

// notFound maps the gorm error to the shared sentinel.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
