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

package dtos

import (
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/l3montree-dev/fixcurator/utils"
	"github.com/pkg/errors"
)

type ProjectCreateRequest struct {
	RepositoryURL string            `json:"repositoryUrl" validate:"required,url"`
	Name          string            `json:"name" validate:"required"`
	FilterMode    models.FilterMode `json:"filterMode" validate:"omitempty,oneof=extension glob"`
	Extensions    []string          `json:"extensions"`
	// only used in glob mode
	GlobPatterns []string `json:"globPatterns" validate:"dive,required"`
}

// Validate checks what the struct tags cannot express.
func (r ProjectCreateRequest) Validate() error {
	if err := shared.V.Struct(r); err != nil {
		return err
	}
	if r.FilterMode == models.FilterModeGlob && len(r.GlobPatterns) == 0 {
		return errors.New("glob mode requires at least one pattern")
	}
	return nil
}

func (r ProjectCreateRequest) ToIngestionRequest(userID string) shared.IngestionRequest {
	return shared.IngestionRequest{
		UserID:        userID,
		RepositoryURL: r.RepositoryURL,
		Name:          r.Name,
		FilterMode:    r.FilterMode,
		Extensions:    r.Extensions,
		GlobPatterns:  r.GlobPatterns,
	}
}

type ProjectCreatedResponse struct {
	JobID uuid.UUID `json:"jobId"`
}

type FilterUpdateRequest struct {
	Extensions []string `json:"extensions" validate:"required"`
}

type FilterUpdateResponse struct {
	Project models.Project `json:"project"`
	// Changed is the number of diffs whose suitability flipped.
	Changed int64 `json:"changed"`
}

type GlobPatternsUpdateRequest struct {
	GlobPatterns []string `json:"globPatterns" validate:"required,min=1,dive,required"`
}

type GlobPatternsUpdateResponse struct {
	Project models.Project `json:"project"`
	shared.Redistribution
}

type VoteRequest struct {
	// pointer so that a neutral vote passes the required check
	Choice *models.VoteChoice `json:"choice" validate:"required"`
}

type InvitationDTO struct {
	Token     uuid.UUID `json:"token"`
	ProjectID int64     `json:"projectId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

func InvitationToDTO(invitation models.Invitation) InvitationDTO {
	return InvitationDTO{
		Token:     invitation.Token,
		ProjectID: invitation.ProjectID,
		ExpiresAt: invitation.ExpiresAt,
	}
}

type VoteTallyDTO struct {
	DiffID     int64  `json:"diffId"`
	CommitHash string `json:"commitHash"`
	Positive   int    `json:"positive"`
	Neutral    int    `json:"neutral"`
	Negative   int    `json:"negative"`
}

func TalliesToDTO(tallies []shared.DiffTally) []VoteTallyDTO {
	return utils.Map(tallies, func(t shared.DiffTally) VoteTallyDTO { return VoteTallyDTO(t) })
}
