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

type CVERepository struct {
	*GormRepository[string, models.CVE]
}

var _ shared.CVERepository = (*CVERepository)(nil)

func NewCVERepository(guard *database.Guard) *CVERepository {
	return &CVERepository{
		GormRepository: newGormRepository[string, models.CVE](guard),
	}
}

var bareCVECondition = clause.Where{Exprs: []clause.Expression{
	clause.Expr{SQL: "COALESCE(cves.description, '') = '' AND COALESCE(cves.summary, '') = '' AND cves.cvss IS NULL"},
}}

func (r *CVERepository) UpsertBatch(ctx context.Context, cves []models.CVE) error {
	// a single statement must not touch the same row twice
	seen := make(map[string]int, len(cves))
	unique := make([]models.CVE, 0, len(cves))
	for _, c := range cves {
		if i, ok := seen[c.CVE]; ok {
			if unique[i].IsBare() {
				unique[i] = c
			}
			continue
		}
		seen[c.CVE] = len(unique)
		unique = append(unique, c)
	}
	if len(unique) == 0 {
		return nil
	}

	return r.do(ctx, func(db *gorm.DB) error {
		return db.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cve"}},
			DoUpdates: clause.AssignmentColumns([]string{"summary", "description", "cvss", "vector", "weaknesses", "updated_at"}),
			Where:     bareCVECondition,
		}).CreateInBatches(unique, insertBatchSize).Error
	})
}

func (r *CVERepository) FindByIDs(ctx context.Context, ids []string) ([]models.CVE, error) {
	cves := []models.CVE{}
	if len(ids) == 0 {
		return cves, nil
	}
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("cve IN ?", ids).Order("cve").Find(&cves).Error
	})
	return cves, err
}
