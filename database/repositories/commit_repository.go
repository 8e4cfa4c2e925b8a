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
	"gorm.io/gorm/clause"
)

type CommitRepository struct {
	*GormRepository[int64, models.Commit]
}

var _ shared.CommitRepository = (*CommitRepository)(nil)

func NewCommitRepository(guard *database.Guard) *CommitRepository {
	return &CommitRepository{
		GormRepository: newGormRepository[int64, models.Commit](guard),
	}
}

func (r *CommitRepository) CreateCVELinks(ctx context.Context, links []models.CommitCVE) error {
	if len(links) == 0 {
		return nil
	}
	return r.do(ctx, func(db *gorm.DB) error {
		return db.Omit(clause.Associations).
			Clauses(clause.OnConflict{DoNothing: true}).
			CreateInBatches(links, insertBatchSize).Error
	})
}

func (r *CommitRepository) ReadInProject(ctx context.Context, projectID, commitID int64) (models.Commit, error) {
	var commit models.Commit
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("id = ? AND project_id = ?", commitID, projectID).First(&commit).Error
	})
	return commit, notFound(err)
}

func (r *CommitRepository) ListByProjectPaged(ctx context.Context, projectID int64, pageInfo shared.PageInfo) (shared.Paged[models.Commit], error) {
	commits := []models.Commit{}
	var total int64
	err := r.do(ctx, func(db *gorm.DB) error {
		q := db.Model(&models.Commit{}).Where("project_id = ?", projectID).Session(&gorm.Session{})
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		return pageInfo.ApplyOnDB(q).Order("authored_at DESC, id").Find(&commits).Error
	})
	if err != nil {
		return shared.Paged[models.Commit]{}, err
	}
	return shared.NewPaged(pageInfo, total, commits), nil
}

func (r *CommitRepository) ListByProject(ctx context.Context, projectID int64) ([]models.Commit, error) {
	commits := []models.Commit{}
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("project_id = ?", projectID).Order("id").Find(&commits).Error
	})
	return commits, err
}

// DeleteByIDs removes the commits of the project together with their diffs, votes and cve links.
func (r *CommitRepository) DeleteByIDs(ctx context.Context, projectID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.do(ctx, func(db *gorm.DB) error {
		return db.Where("project_id = ? AND id IN ?", projectID, ids).Delete(&models.Commit{}).Error
	})
}

func (r *CommitRepository) CVEIDsByCommit(ctx context.Context, commitIDs []int64) (map[int64][]string, error) {
	res := make(map[int64][]string, len(commitIDs))
	if len(commitIDs) == 0 {
		return res, nil
	}

	var links []models.CommitCVE
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("commit_id IN ?", commitIDs).Order("commit_id, cve_id").Find(&links).Error
	})
	if err != nil {
		return nil, err
	}
	for _, l := range links {
		res[l.CommitID] = append(res[l.CommitID], l.CVEID)
	}
	return res, nil
}

type UnmatchedCommitRepository struct {
	*GormRepository[int64, models.UnmatchedCommit]
}

var _ shared.UnmatchedCommitRepository = (*UnmatchedCommitRepository)(nil)

func NewUnmatchedCommitRepository(guard *database.Guard) *UnmatchedCommitRepository {
	return &UnmatchedCommitRepository{
		GormRepository: newGormRepository[int64, models.UnmatchedCommit](guard),
	}
}

func (r *UnmatchedCommitRepository) ListByProject(ctx context.Context, projectID int64) ([]models.UnmatchedCommit, error) {
	commits := []models.UnmatchedCommit{}
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("project_id = ?", projectID).Order("id").Find(&commits).Error
	})
	return commits, err
}

func (r *UnmatchedCommitRepository) DeleteByIDs(ctx context.Context, projectID int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.do(ctx, func(db *gorm.DB) error {
		return db.Where("project_id = ? AND id IN ?", projectID, ids).Delete(&models.UnmatchedCommit{}).Error
	})
}
