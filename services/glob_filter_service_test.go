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


package services

import (
	"testing"
	"time"

	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ingestGlobDemo ingests aaa touching src/ and bbb touching docs/ with the pattern "src/*".
func ingestGlobDemo(t *testing.T, env *testEnv, authoredAt time.Time) models.Project {
	t.Helper()
	env.expectRepository(testRepoURL, testRepoDir, map[string]string{
		"aaa": commitPatch("src/a.c"),
		"bbb": commitPatch("docs/readme.md"),
	})
	env.vcs.On("ChangedFiles", mock.Anything, testRepoDir, "aaa").Return([]string{"src/a.c"}, nil)
	env.vcs.On("ChangedFiles", mock.Anything, testRepoDir, "bbb").Return([]string{"docs/readme.md"}, nil)
	env.finder.On("Find", mock.Anything, testRepoDir).Return([]shared.VulnCommit{
		{Hash: "aaa", Message: "fix overflow", AuthoredAt: authoredAt},
		{Hash: "bbb", Message: "document fix for CVE-2024-0009", AuthoredAt: authoredAt},
	}, []string{}, nil)

	projectID, err := env.ingestionService().Ingest(t.Context(), shared.IngestionRequest{
		UserID:        "u",
		RepositoryURL: testRepoURL,
		Name:          "demo",
		FilterMode:    models.FilterModeGlob,
		GlobPatterns:  []string{"src/*"},
	})
	require.NoError(t, err)
	project, err := env.projects.Read(t.Context(), projectID)
	require.NoError(t, err)
	return project
}

func TestUpdatePatterns(t *testing.T) {
	t.Run("should move commits between matched and unmatched", func(t *testing.T) {
		env := newTestEnv(t)
		authoredAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		project := ingestGlobDemo(t, env, authoredAt)

		var diff models.Diff
		require.NoError(t, env.db.Where("filepath = ?", "src/a.c").First(&diff).Error)
		require.NoError(t, env.votes.Upsert(t.Context(), &models.Vote{UserID: "u", DiffID: diff.ID, Choice: models.VotePositive}))

		updated, res, err := env.globFilterService().UpdatePatterns(t.Context(), project, []string{"docs/*"})
		require.NoError(t, err)
		assert.Equal(t, shared.Redistribution{Promoted: 1, Demoted: 1}, res)
		assert.Equal(t, []string{"docs/*"}, []string(updated.GlobPatterns))
		assert.Equal(t, 1, updated.CommitCount)

		assert.Equal(t, map[string]map[string]bool{
			"bbb": {"docs/readme.md": true},
		}, suitableByPath(t, env, project.ID))

		unmatched, err := env.unmatched.ListByProject(t.Context(), project.ID)
		require.NoError(t, err)
		require.Len(t, unmatched, 1)
		assert.Equal(t, "aaa", unmatched[0].Hash)
		assert.True(t, authoredAt.Equal(unmatched[0].AuthoredAt))

		var votes int64
		require.NoError(t, env.db.Model(&models.Vote{}).Count(&votes).Error)
		assert.Zero(t, votes)

		// the promoted commit is linked to the cve of its message
		commits, err := env.commits.ListByProject(t.Context(), project.ID)
		require.NoError(t, err)
		require.Len(t, commits, 1)
		links, err := env.commits.CVEIDsByCommit(t.Context(), []int64{commits[0].ID})
		require.NoError(t, err)
		assert.Equal(t, []string{"CVE-2024-0009"}, links[commits[0].ID])

		stored, err := env.projects.Read(t.Context(), project.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"docs/*"}, []string(stored.GlobPatterns))
		assert.Equal(t, 1, stored.CommitCount)
	})

	t.Run("should keep commits which still match together with their votes", func(t *testing.T) {
		env := newTestEnv(t)
		project := ingestGlobDemo(t, env, time.Now())

		var diff models.Diff
		require.NoError(t, env.db.Where("filepath = ?", "src/a.c").First(&diff).Error)
		require.NoError(t, env.votes.Upsert(t.Context(), &models.Vote{UserID: "u", DiffID: diff.ID, Choice: models.VotePositive}))

		updated, res, err := env.globFilterService().UpdatePatterns(t.Context(), project, []string{"src/*", "docs/*"})
		require.NoError(t, err)
		assert.Equal(t, shared.Redistribution{Promoted: 1}, res)
		assert.Equal(t, 2, updated.CommitCount)

		unmatched, err := env.unmatched.ListByProject(t.Context(), project.ID)
		require.NoError(t, err)
		assert.Empty(t, unmatched)

		var votes int64
		require.NoError(t, env.db.Model(&models.Vote{}).Count(&votes).Error)
		assert.Equal(t, int64(1), votes)
	})

	t.Run("should leave commits in place whose files cannot be listed", func(t *testing.T) {
		env := newTestEnv(t)
		project := models.Project{Name: "demo", Slug: "demo", RepositoryURL: testRepoURL, Repository: testRepoDir, FilterMode: models.FilterModeGlob, GlobPatterns: []string{"src/*"}, CommitCount: 1}
		require.NoError(t, env.projects.Create(t.Context(), &project))
		require.NoError(t, env.commits.CreateBatch(t.Context(), []models.Commit{{ProjectID: project.ID, Hash: "aaa", Message: "fix"}}))
		env.vcs.On("ChangedFiles", mock.Anything, testRepoDir, "aaa").Return(nil, errors.New("bad object"))

		updated, res, err := env.globFilterService().UpdatePatterns(t.Context(), project, []string{"lib/*"})
		require.NoError(t, err)
		assert.Equal(t, shared.Redistribution{}, res)
		assert.Equal(t, 1, updated.CommitCount)
	})

	t.Run("should reject extension projects and empty patterns", func(t *testing.T) {
		env := newTestEnv(t)
		s := env.globFilterService()

		_, _, err := s.UpdatePatterns(t.Context(), models.Project{FilterMode: models.FilterModeExtension}, []string{"src/*"})
		assert.ErrorIs(t, err, shared.ErrFilterLocked)

		_, _, err = s.UpdatePatterns(t.Context(), models.Project{FilterMode: models.FilterModeGlob}, []string{" "})
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
