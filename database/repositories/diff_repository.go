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

	"github.com/l3montree-dev/fixcurator/database"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"gorm.io/gorm"
)

type DiffRepository struct {
	*GormRepository[int64, models.Diff]
}

var _ shared.DiffRepository = (*DiffRepository)(nil)

func NewDiffRepository(guard *database.Guard) *DiffRepository {
	return &DiffRepository{
		GormRepository: newGormRepository[int64, models.Diff](guard),
	}
}

func (r *DiffRepository) ReadInProject(ctx context.Context, projectID, diffID int64) (models.Diff, error) {
	var diff models.Diff
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.
			Joins("JOIN commits c ON c.id = diffs.commit_id").
			Where("diffs.id = ? AND c.project_id = ?", diffID, projectID).
			First(&diff).Error
	})
	return diff, notFound(err)
}

func (r *DiffRepository) ListSuitableByCommit(ctx context.Context, commitID int64) ([]models.Diff, error) {
	diffs := []models.Diff{}
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("commit_id = ? AND suitable = ?", commitID, true).Order("id").Find(&diffs).Error
	})
	return diffs, err
}

// Reflag keeps suitable == (extension == "" || filter is empty || extension in filter).
func (r *DiffRepository) Reflag(ctx context.Context, projectID int64, extensions []string) (int64, error) {
	var changed int64
	err := r.do(ctx, func(db *gorm.DB) error {
		inProject := db.Model(&models.Commit{}).Select("id").Where("project_id = ?", projectID)
		base := db.Model(&models.Diff{}).Where("commit_id IN (?)", inProject).Session(&gorm.Session{})

		var res *gorm.DB
		if len(extensions) == 0 {
			res = base.Where("suitable = ?", false).Update("suitable", true)
			changed = res.RowsAffected
			return res.Error
		}

		res = base.
			Where("suitable = ?", false).
			Where("(extension = '' OR extension IN ?)", extensions).
			Update("suitable", true)
		if res.Error != nil {
			return res.Error
		}
		changed = res.RowsAffected

		res = base.
			Where("suitable = ?", true).
			Where("extension <> '' AND extension NOT IN ?", extensions).
			Update("suitable", false)
		changed += res.RowsAffected
		return res.Error
	})
	return changed, err
}

// ContentsByIDs returns the requested diffs ordered by id. Unknown ids are ignored.
func (r *DiffRepository) ContentsByIDs(ctx context.Context, ids []int64) ([]shared.DiffContent, error) {
	contents := []shared.DiffContent{}
	if len(ids) == 0 {
		return contents, nil
	}
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Model(&models.Diff{}).
			Select("diffs.id AS id, c.hash AS commit_hash, diffs.content AS content").
			Joins("JOIN commits c ON c.id = diffs.commit_id").
			Where("diffs.id IN ?", ids).
			Order("diffs.id").
			Scan(&contents).Error
	})
	return contents, err
}
