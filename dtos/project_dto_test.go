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
	"testing"

	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/stretchr/testify/assert"
)

func TestProjectCreateRequestValidate(t *testing.T) {
	valid := ProjectCreateRequest{RepositoryURL: "https://github.com/org/repo", Name: "repo", Extensions: []string{"py"}}
	assert.NoError(t, valid.Validate())

	cases := map[string]ProjectCreateRequest{
		"missing name":       {RepositoryURL: "https://github.com/org/repo"},
		"invalid url":        {RepositoryURL: "not a url", Name: "repo"},
		"unknown mode":       {RepositoryURL: "https://github.com/org/repo", Name: "repo", FilterMode: "regex"},
		"glob without globs": {RepositoryURL: "https://github.com/org/repo", Name: "repo", FilterMode: models.FilterModeGlob},
		"empty glob":         {RepositoryURL: "https://github.com/org/repo", Name: "repo", FilterMode: models.FilterModeGlob, GlobPatterns: []string{""}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, req.Validate())
		})
	}
}

func TestToIngestionRequest(t *testing.T) {
	req := ProjectCreateRequest{RepositoryURL: "https://github.com/org/repo", Name: "repo", FilterMode: models.FilterModeGlob, GlobPatterns: []string{"src/**"}}
	ingestion := req.ToIngestionRequest("alice")
	assert.Equal(t, "alice", ingestion.UserID)
	assert.Equal(t, models.FilterModeGlob, ingestion.FilterMode)
	assert.Equal(t, []string{"src/**"}, ingestion.GlobPatterns)
}

func TestTalliesToDTO(t *testing.T) {
	dtos := TalliesToDTO([]shared.DiffTally{{DiffID: 1, CommitHash: "aaa", Positive: 2}, {DiffID: 2, CommitHash: "bbb", Negative: 1}})
	assert.Len(t, dtos, 2)
	assert.Equal(t, VoteTallyDTO{DiffID: 1, CommitHash: "aaa", Positive: 2}, dtos[0])
	assert.Equal(t, 1, dtos[1].Negative)
}
