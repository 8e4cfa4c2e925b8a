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
	"github.com/l3montree-dev/fixcurator/patch"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func suitableByPath(t *testing.T, env *testEnv, projectID int64) map[string]map[string]bool {
	t.Helper()
	type row struct {
		Hash     string
		Filepath string
		Suitable bool
	}
	rows := []row{}
	require.NoError(t, env.db.Raw(`SELECT c.hash AS hash, d.filepath AS filepath, d.suitable AS suitable
		FROM diffs d JOIN commits c ON c.id = d.commit_id WHERE c.project_id = ?`, projectID).Scan(&rows).Error)

	res := map[string]map[string]bool{}
	for _, r := range rows {
		if res[r.Hash] == nil {
			res[r.Hash] = map[string]bool{}
		}
		res[r.Hash][r.Filepath] = r.Suitable
	}
	return res
}

func TestIngest(t *testing.T) {
	t.Run("should flag only the diffs matching the extension filter", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectRepository(testRepoURL, testRepoDir, map[string]string{
			"aaa": commitPatch("a.py"),
			"bbb": commitPatch("b.js"),
			"ccc": commitPatch("c.py", "c.js"),
		})
		now := time.Now()
		env.finder.On("Find", mock.Anything, testRepoDir).Return([]shared.VulnCommit{
			{Hash: "aaa", Message: "fix CVE-2024-0001", AuthoredAt: now, CVEs: []string{"CVE-2024-0001"}},
			{Hash: "bbb", Message: "security fix", AuthoredAt: now},
			{Hash: "ccc", Message: "fix CVE-2024-0001 and CVE-2024-0002", AuthoredAt: now, CVEs: []string{"CVE-2024-0001", "CVE-2024-0002"}},
		}, []string{"CVE-2024-0001", "CVE-2024-0002"}, nil)
		env.enrich.On("Enrich", mock.Anything, "demo", []string{"CVE-2024-0001", "CVE-2024-0002"}).Return(map[string]shared.CVEInfo{
			"CVE-2024-0001": {Description: "overflow", Score: shared.Ptr(float32(7.5)), Weaknesses: []string{"CWE-787"}},
		}, nil)

		projectID, err := env.ingestionService().Ingest(t.Context(), shared.IngestionRequest{
			UserID:        "owner",
			RepositoryURL: testRepoURL,
			Name:          "Demo Project",
			FilterMode:    models.FilterModeExtension,
			Extensions:    []string{".PY"},
		})
		require.NoError(t, err)

		assert.Equal(t, map[string]map[string]bool{
			"aaa": {"a.py": true},
			"bbb": {"b.js": false},
			"ccc": {"c.py": true, "c.js": false},
		}, suitableByPath(t, env, projectID))

		project, err := env.projects.Read(t.Context(), projectID)
		require.NoError(t, err)
		assert.Equal(t, "demo-project", project.Slug)
		assert.Equal(t, []string{"py"}, []string(project.Extensions))
		assert.Equal(t, 3, project.CommitCount)
		assert.Equal(t, testRepoDir, project.Repository)

		member, err := env.members.Find(t.Context(), projectID, "owner")
		require.NoError(t, err)
		assert.Equal(t, models.RoleOwner, member.Role)

		page, err := env.commits.ListByProjectPaged(t.Context(), projectID, shared.PageInfo{Page: 1, PageSize: 10})
		require.NoError(t, err)
		ids := []int64{}
		for _, c := range page.Data {
			ids = append(ids, c.ID)
		}
		links, err := env.commits.CVEIDsByCommit(t.Context(), ids)
		require.NoError(t, err)
		linked := 0
		for _, l := range links {
			linked += len(l)
		}
		assert.Equal(t, 3, linked)

		// the diff content survives the compression
		var diff models.Diff
		require.NoError(t, env.db.Where("filepath = ?", "a.py").First(&diff).Error)
		content, err := patch.Decompress(diff.Content)
		require.NoError(t, err)
		assert.Equal(t, filePatch("a.py"), content)

		// the unresolved id still gets a row
		cves, err := env.cves.FindByIDs(t.Context(), []string{"CVE-2024-0001", "CVE-2024-0002"})
		require.NoError(t, err)
		require.Len(t, cves, 2)
	})

	t.Run("should create exactly one cve row per id across projects", func(t *testing.T) {
		env := newTestEnv(t)
		otherURL := "https://example.com/acme/other.git"
		otherDir := "/repos/example.com/acme/other"
		env.expectRepository(testRepoURL, testRepoDir, map[string]string{"aaa": commitPatch("a.py")})
		env.expectRepository(otherURL, otherDir, map[string]string{"bbb": commitPatch("b.py")})

		env.finder.On("Find", mock.Anything, testRepoDir).Return([]shared.VulnCommit{
			{Hash: "aaa", Message: "fix", CVEs: []string{"CVE-2024-0001", "CVE-2024-0002"}},
		}, []string{"CVE-2024-0001", "CVE-2024-0002"}, nil)
		env.finder.On("Find", mock.Anything, otherDir).Return([]shared.VulnCommit{
			{Hash: "bbb", Message: "fix", CVEs: []string{"CVE-2024-0002", "CVE-2024-0003"}},
		}, []string{"CVE-2024-0002", "CVE-2024-0003"}, nil)
		env.enrich.On("Enrich", mock.Anything, mock.Anything, mock.Anything).Return(map[string]shared.CVEInfo{}, nil)

		s := env.ingestionService()
		_, err := s.Ingest(t.Context(), shared.IngestionRequest{UserID: "u", RepositoryURL: testRepoURL, Name: "demo"})
		require.NoError(t, err)
		_, err = s.Ingest(t.Context(), shared.IngestionRequest{UserID: "u", RepositoryURL: otherURL, Name: "other"})
		require.NoError(t, err)

		var count int64
		require.NoError(t, env.db.Model(&models.CVE{}).Count(&count).Error)
		assert.Equal(t, int64(3), count)
	})

	t.Run("should skip commits without file sections", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectRepository(testRepoURL, testRepoDir, map[string]string{
			"aaa": commitPatch("a.py"),
			"bbb": "",
		})
		env.finder.On("Find", mock.Anything, testRepoDir).Return([]shared.VulnCommit{
			{Hash: "aaa", Message: "fix"},
			{Hash: "bbb", Message: "rename only"},
		}, []string{}, nil)

		projectID, err := env.ingestionService().Ingest(t.Context(), shared.IngestionRequest{UserID: "u", RepositoryURL: testRepoURL, Name: "demo"})
		require.NoError(t, err)

		project, err := env.projects.Read(t.Context(), projectID)
		require.NoError(t, err)
		assert.Equal(t, 1, project.CommitCount)
		unmatched, err := env.unmatched.ListByProject(t.Context(), projectID)
		require.NoError(t, err)
		assert.Empty(t, unmatched)
	})

	t.Run("should record commits matching no glob pattern as unmatched", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectRepository(testRepoURL, testRepoDir, map[string]string{"aaa": commitPatch("src/a.c")})
		env.vcs.On("ChangedFiles", mock.Anything, testRepoDir, "aaa").Return([]string{"src/a.c"}, nil)
		env.vcs.On("ChangedFiles", mock.Anything, testRepoDir, "bbb").Return([]string{"docs/readme.md"}, nil)
		env.finder.On("Find", mock.Anything, testRepoDir).Return([]shared.VulnCommit{
			{Hash: "aaa", Message: "fix overflow"},
			{Hash: "bbb", Message: "document fix"},
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
		assert.Equal(t, models.FilterModeGlob, project.FilterMode)
		assert.Equal(t, []string{"src/*"}, []string(project.GlobPatterns))
		assert.Equal(t, 1, project.CommitCount)

		unmatched, err := env.unmatched.ListByProject(t.Context(), projectID)
		require.NoError(t, err)
		require.Len(t, unmatched, 1)
		assert.Equal(t, "bbb", unmatched[0].Hash)
		env.vcs.AssertNotCalled(t, "Diff", mock.Anything, testRepoDir, "bbb", mock.Anything)
	})

	t.Run("should not create a project if the transaction fails", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectRepository(testRepoURL, testRepoDir, map[string]string{"aaa": commitPatch("a.py")})
		// the second commit violates the unique index on (project, hash)
		env.finder.On("Find", mock.Anything, testRepoDir).Return([]shared.VulnCommit{
			{Hash: "aaa", Message: "fix"},
			{Hash: "aaa", Message: "fix again"},
		}, []string{}, nil)

		_, err := env.ingestionService().Ingest(t.Context(), shared.IngestionRequest{UserID: "u", RepositoryURL: testRepoURL, Name: "demo"})
		require.Error(t, err)

		var count int64
		require.NoError(t, env.db.Model(&models.Project{}).Count(&count).Error)
		assert.Zero(t, count)
		require.NoError(t, env.db.Model(&models.Commit{}).Count(&count).Error)
		assert.Zero(t, count)
	})

	t.Run("should keep going if the enrichment fails", func(t *testing.T) {
		env := newTestEnv(t)
		env.expectRepository(testRepoURL, testRepoDir, map[string]string{"aaa": commitPatch("a.py")})
		env.finder.On("Find", mock.Anything, testRepoDir).Return([]shared.VulnCommit{
			{Hash: "aaa", Message: "fix", CVEs: []string{"CVE-2024-0001"}},
		}, []string{"CVE-2024-0001"}, nil)
		env.enrich.On("Enrich", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("nvd is down"))

		_, err := env.ingestionService().Ingest(t.Context(), shared.IngestionRequest{UserID: "u", RepositoryURL: testRepoURL, Name: "demo"})
		require.NoError(t, err)

		cves, err := env.cves.FindByIDs(t.Context(), []string{"CVE-2024-0001"})
		require.NoError(t, err)
		require.Len(t, cves, 1)
		assert.True(t, cves[0].IsBare())
	})

	t.Run("should reject invalid requests before touching the repository", func(t *testing.T) {
		env := newTestEnv(t)
		s := env.ingestionService()

		_, err := s.Ingest(t.Context(), shared.IngestionRequest{UserID: "u", Name: "demo"})
		assert.ErrorIs(t, err, ErrInvalidIngestionRequest)

		_, err = s.Ingest(t.Context(), shared.IngestionRequest{UserID: "u", RepositoryURL: testRepoURL, Name: "demo", FilterMode: models.FilterModeGlob})
		assert.ErrorIs(t, err, ErrInvalidIngestionRequest)

		_, err = s.Ingest(t.Context(), shared.IngestionRequest{UserID: "u", RepositoryURL: testRepoURL, Name: "demo", FilterMode: "regex"})
		assert.ErrorIs(t, err, ErrInvalidIngestionRequest)
	})
}
