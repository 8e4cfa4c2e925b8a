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

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

type IngestionJob struct {
	ID            uuid.UUID                   `json:"id" gorm:"primaryKey;type:uuid"`
	UserID        string                      `json:"userId" gorm:"type:text;not null;index"`
	RepositoryURL string                      `json:"repositoryUrl" gorm:"type:text;not null"`
	Name          string                      `json:"name" gorm:"type:text;not null"`
	FilterMode    FilterMode                  `json:"filterMode" gorm:"type:text;not null"`
	Extensions    datatypes.JSONSlice[string] `json:"extensions"`
	GlobPatterns  datatypes.JSONSlice[string] `json:"globPatterns"`
	Status        JobStatus                   `json:"status" gorm:"type:text;not null;index"`
	Error         *string                     `json:"error" gorm:"type:text"`
	ProjectID     *int64                      `json:"projectId"`
	StartedAt     *time.Time                  `json:"startedAt"`
	FinishedAt    *time.Time                  `json:"finishedAt"`
	CreatedAt     time.Time                   `json:"createdAt"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

func (m IngestionJob) TableName() string {
	return "ingestion_jobs"
}

func (m IngestionJob) IsFinished() bool {
	return m.Status == JobStatusSucceeded || m.Status == JobStatusFailed
}
