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
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/fixcurator/database"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"gorm.io/gorm"
)

type IngestionJobRepository struct {
	*GormRepository[uuid.UUID, models.IngestionJob]
}

var _ shared.IngestionJobRepository = (*IngestionJobRepository)(nil)

func NewIngestionJobRepository(guard *database.Guard) *IngestionJobRepository {
	return &IngestionJobRepository{
		GormRepository: newGormRepository[uuid.UUID, models.IngestionJob](guard),
	}
}

func (r *IngestionJobRepository) Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	var claimed bool
	err := r.do(ctx, func(db *gorm.DB) error {
		res := db.Model(&models.IngestionJob{}).
			Where("id = ? AND status = ?", id, models.JobStatusPending).
			Updates(map[string]any{
				"status":     models.JobStatusRunning,
				"started_at": now,
			})
		claimed = res.RowsAffected == 1
		return res.Error
	})
	return claimed, err
}

func (r *IngestionJobRepository) FindByStatus(ctx context.Context, statuses ...models.JobStatus) ([]models.IngestionJob, error) {
	jobs := []models.IngestionJob{}
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("status IN ?", statuses).Order("created_at").Find(&jobs).Error
	})
	return jobs, err
}

func (r *IngestionJobRepository) ResetRunning(ctx context.Context) (int64, error) {
	var reset int64
	err := r.do(ctx, func(db *gorm.DB) error {
		res := db.Model(&models.IngestionJob{}).
			Where("status = ?", models.JobStatusRunning).
			Updates(map[string]any{
				"status":     models.JobStatusPending,
				"started_at": nil,
			})
		reset = res.RowsAffected
		return res.Error
	})
	return reset, err
}
