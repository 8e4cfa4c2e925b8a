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
)

type Commit struct {
	Model
	ProjectID  int64     `json:"projectId" gorm:"not null;uniqueIndex:idx_commits_project_hash"`
	Project    Project   `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Hash       string    `json:"hash" gorm:"type:text;not null;uniqueIndex:idx_commits_project_hash"`
	Message    string    `json:"message" gorm:"type:text"`
	AuthoredAt time.Time `json:"authoredAt"`
}

func (m Commit) TableName() string {
	return "commits"
}

type CommitCVE struct {
	CommitID int64  `json:"commitId" gorm:"primaryKey"`
	Commit   Commit `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	CVEID    string `json:"cveId" gorm:"primaryKey;type:text"`
	CVE      CVE    `json:"-" gorm:"foreignKey:CVEID;references:CVE"`
}

func (m CommitCVE) TableName() string {
	return "commit_cves"
}

// UnmatchedCommit is a candidate whose changed paths matched no glob pattern.
// It moves to commits once the patterns of the project match it.
type UnmatchedCommit struct {
	Model
	ProjectID  int64     `json:"projectId" gorm:"not null;uniqueIndex:idx_unmatched_commits_project_hash"`
	Project    Project   `json:"-" gorm:"constraint:OnDelete:CASCADE;"`
	Hash       string    `json:"hash" gorm:"type:text;not null;uniqueIndex:idx_unmatched_commits_project_hash"`
	Message    string    `json:"message" gorm:"type:text"`
	AuthoredAt time.Time `json:"authoredAt"`
}

func (m UnmatchedCommit) TableName() string {
	return "unmatched_commits"
}
