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

type ProjectRepository struct {
	*GormRepository[int64, models.Project]
}

var _ shared.ProjectRepository = (*ProjectRepository)(nil)

func NewProjectRepository(guard *database.Guard) *ProjectRepository {
	return &ProjectRepository{
		GormRepository: newGormRepository[int64, models.Project](guard),
	}
}

func (r *ProjectRepository) ListByUser(ctx context.Context, userID string) ([]models.Project, error) {
	projects := []models.Project{}
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.
			Joins("JOIN project_members pm ON pm.project_id = projects.id").
			Where("pm.user_id = ?", userID).
			Order("projects.id").
			Find(&projects).Error
	})
	return projects, err
}

type ProjectMemberRepository struct {
	*GormRepository[string, models.ProjectMember]
}

var _ shared.ProjectMemberRepository = (*ProjectMemberRepository)(nil)

func NewProjectMemberRepository(guard *database.Guard) *ProjectMemberRepository {
	return &ProjectMemberRepository{
		GormRepository: newGormRepository[string, models.ProjectMember](guard),
	}
}

// Create reports shared.ErrAlreadyMember if the user is a member already.
func (r *ProjectMemberRepository) Create(ctx context.Context, member *models.ProjectMember) error {
	err := r.GormRepository.Create(ctx, member)
	if isUniqueViolation(err) {
		return shared.ErrAlreadyMember
	}
	return err
}

func (r *ProjectMemberRepository) Find(ctx context.Context, projectID int64, userID string) (models.ProjectMember, error) {
	var member models.ProjectMember
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&member).Error
	})
	return member, notFound(err)
}

func (r *ProjectMemberRepository) ListByProject(ctx context.Context, projectID int64) ([]models.ProjectMember, error) {
	members := []models.ProjectMember{}
	err := r.do(ctx, func(db *gorm.DB) error {
		return db.Where("project_id = ?", projectID).Order("created_at").Find(&members).Error
	})
	return members, err
}
