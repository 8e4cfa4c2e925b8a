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

package models

import (
	"time"

	"gorm.io/datatypes"
)

type FilterMode string

const (
	FilterModeExtension FilterMode = "extension"
	FilterModeGlob      FilterMode = "glob"
)

type Project struct {
	Model
	Name          string     `json:"name" gorm:"type:text;not null"`
	Slug          string     `json:"slug" gorm:"type:text;not null"`
	RepositoryURL string     `json:"repositoryUrl" gorm:"type:text;not null"`
	Repository    string     `json:"-" gorm:"type:text;not null"`
	FilterMode    FilterMode `json:"filterMode" gorm:"type:text;not null"`
	// Extensions are stored normalized, lower case and without the leading dot.
	Extensions   datatypes.JSONSlice[string] `json:"extensions"`
	GlobPatterns datatypes.JSONSlice[string] `json:"globPatterns"`
	CommitCount  int                         `json:"commitCount" gorm:"not null"`
}

func (m Project) TableName() string {
	return "projects"
}

type ProjectRole string

const (
	RoleOwner       ProjectRole = "owner"
	RoleContributor ProjectRole = "contributor"
)

type ProjectMember struct {
	UserID    string      `json:"userId" gorm:"primaryKey;type:text"`
	ProjectID int64       `json:"projectId" gorm:"primaryKey"`
	Project   Project     `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Role      ProjectRole `json:"role" gorm:"type:text;not null"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (m ProjectMember) TableName() string {
	return "project_members"
}
