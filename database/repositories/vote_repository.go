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

type VoteRepository struct {
	*GormRepository[int64, models.Vote]
}

var _ shared.VoteRepository = (*VoteRepository)(nil)

func NewVoteRepository(guard *database.Guard) *VoteRepository {
	return &VoteRepository{
		GormRepository: newGormRepository[int64, models.Vote](guard),
	}
}

// Upsert replaces the choice of an existing vote of the same user on the same diff.
func (r *VoteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	return r.do(ctx, func(db *gorm.DB) error {
		err := db.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "diff_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"choice", "updated_at"}),
		}).Create(vote).Error
		if err != nil {
			return err
		}
		// the generated id is unreliable if the conflict branch was taken
		var stored models.Vote
		if err := db.Where("user_id = ? AND diff_id = ?", vote.UserID, vote.DiffID).First(&stored).Error; err != nil {
			return err
		}
		*vote = stored
		return nil
	})
}

func (r *VoteRepository) ChoicesOfUser(ctx context.Context, userID string, diffIDs []int64) (map[int64]models.VoteChoice, error) {
	res := make(map[int64]models.VoteChoice, len(diffIDs))
	if len(diffIDs) == 0 {
		return res, nil
	}
	var votes []models.Vote
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("user_id = ? AND diff_id IN ?", userID, diffIDs).Find(&votes).Error
	})
	if err != nil {
		return nil, err
	}
	for _, v := range votes {
		res[v.DiffID] = v.Choice
	}
	return res, nil
}

func (r *VoteRepository) TalliesByProject(ctx context.Context, projectID int64) ([]shared.DiffTally, error) {
	tallies := []shared.DiffTally{}
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Raw(`SELECT d.id AS diff_id, c.hash AS commit_hash,
		SUM(CASE WHEN v.choice = ? THEN 1 ELSE 0 END) AS positive,
		SUM(CASE WHEN v.choice = ? THEN 1 ELSE 0 END) AS neutral,
		SUM(CASE WHEN v.choice = ? THEN 1 ELSE 0 END) AS negative
	FROM votes v
	JOIN diffs d ON d.id = v.diff_id
	JOIN commits c ON c.id = d.commit_id
	WHERE c.project_id = ? AND d.suitable = ?
	GROUP BY d.id, c.hash
	ORDER BY d.id`, models.VotePositive, models.VoteNeutral, models.VoteNegative, projectID, true).Scan(&tallies).Error
	})
	return tallies, err
}
