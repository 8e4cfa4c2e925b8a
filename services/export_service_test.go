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
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type exportedDocument []struct {
	CommitHash string `json:"commit_hash"`
	ParentHash string `json:"parent_hash"`
	Files      []struct {
		OldFilepath   *string        `json:"old_filepath"`
		RemovedRanges []string       `json:"removed_ranges"`
		AddedRanges   []string       `json:"added_ranges"`
		Votes         map[string]int `json:"votes"`
	} `json:"files"`
}

func readDocument(t *testing.T, path string) exportedDocument {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc exportedDocument
	require.NoError(t, json.Unmarshal(b, &doc))
	return doc
}

// ingestDemo creates a project from commits without cve ids.
func ingestDemo(t *testing.T, env *testEnv, commits []shared.VulnCommit, patches map[string]string) int64 {
	t.Helper()
	env.expectRepository(testRepoURL, testRepoDir, patches)
	env.finder.On("Find", mock.Anything, testRepoDir).Return(commits, []string{}, nil)
	projectID, err := env.ingestionService().Ingest(t.Context(), shared.IngestionRequest{
		UserID:        "owner",
		RepositoryURL: testRepoURL,
		Name:          "Demo Project",
		Extensions:    []string{"py"},
	})
	require.NoError(t, err)
	return projectID
}

func diffIDs(t *testing.T, env *testEnv, projectID int64) []int64 {
	t.Helper()
	ids := []int64{}
	require.NoError(t, env.db.Raw(`SELECT d.id FROM diffs d JOIN commits c ON c.id = d.commit_id WHERE c.project_id = ? ORDER BY d.id`, projectID).Scan(&ids).Error)
	return ids
}

func vote(t *testing.T, env *testEnv, projectID, diffID int64, userID string, choice models.VoteChoice) {
	t.Helper()
	_, err := NewVoteService(env.diffs, env.votes).Vote(t.Context(), projectID, diffID, userID, choice)
	require.NoError(t, err)
}

func TestExport(t *testing.T) {
	t.Run("should carry the vote tallies of a diff", func(t *testing.T) {
		env := newTestEnv(t)
		projectID := ingestDemo(t, env, []shared.VulnCommit{{Hash: "aaa", Message: "fix"}}, map[string]string{"aaa": commitPatch("a.py")})
		ids := diffIDs(t, env, projectID)
		require.Len(t, ids, 1)

		vote(t, env, projectID, ids[0], "alice", models.VotePositive)
		vote(t, env, projectID, ids[0], "bob", models.VotePositive)
		vote(t, env, projectID, ids[0], "carol", models.VoteNegative)

		env.vcs.On("ParentHashes", mock.Anything, testRepoDir, []string{"aaa"}).Return(map[string]string{"aaa": "parent-of-aaa"}, nil)

		path, err := env.exportService(t, time.Minute).Export(t.Context(), projectID)
		require.NoError(t, err)
		assert.Regexp(t, regexp.MustCompile(`^demo-project_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}_[0-9a-f]{8}\.json$`), filepath.Base(path))

		doc := readDocument(t, path)
		require.Len(t, doc, 1)
		assert.Equal(t, "aaa", doc[0].CommitHash)
		assert.Equal(t, "parent-of-aaa", doc[0].ParentHash)
		require.Len(t, doc[0].Files, 1)
		assert.Equal(t, map[string]int{"positive": 2, "negative": 1, "neutral": 0}, doc[0].Files[0].Votes)
		assert.Equal(t, []string{"2"}, doc[0].Files[0].RemovedRanges)
		assert.Equal(t, []string{"2"}, doc[0].Files[0].AddedRanges)
	})

	t.Run("should group the diffs of many batches by commit", func(t *testing.T) {
		env := newTestEnv(t)
		names := make([]string, 0, 55)
		for i := range 55 {
			names = append(names, fmt.Sprintf("f%02d.py", i))
		}
		projectID := ingestDemo(t, env, []shared.VulnCommit{
			{Hash: "aaa", Message: "fix"},
			{Hash: "bbb", Message: "fix"},
		}, map[string]string{
			"aaa": commitPatch(names...),
			"bbb": commitPatch("b.py", "b.md"),
		})
		ids := diffIDs(t, env, projectID)
		require.Len(t, ids, 57)
		for _, id := range ids {
			// the markdown diff is unsuitable and cannot be voted on
			if _, err := NewVoteService(env.diffs, env.votes).Vote(t.Context(), projectID, id, "alice", models.VoteNeutral); err != nil {
				assert.ErrorIs(t, err, shared.ErrNotFound)
			}
		}

		env.vcs.On("ParentHashes", mock.Anything, testRepoDir, mock.Anything).Return(map[string]string{"aaa": "p1", "bbb": "p2"}, nil)

		path, err := env.exportService(t, time.Minute).Export(t.Context(), projectID)
		require.NoError(t, err)

		doc := readDocument(t, path)
		require.Len(t, doc, 2)
		assert.Equal(t, "aaa", doc[0].CommitHash)
		assert.Len(t, doc[0].Files, 55)
		assert.Equal(t, "bbb", doc[1].CommitHash)
		assert.Len(t, doc[1].Files, 1)
		assert.Equal(t, 1, doc[1].Files[0].Votes["neutral"])
	})

	t.Run("should write an empty array without votes", func(t *testing.T) {
		env := newTestEnv(t)
		projectID := ingestDemo(t, env, []shared.VulnCommit{{Hash: "aaa", Message: "fix"}}, map[string]string{"aaa": commitPatch("a.py")})
		env.vcs.On("ParentHashes", mock.Anything, testRepoDir, []string{}).Return(map[string]string{}, nil)

		path, err := env.exportService(t, time.Minute).Export(t.Context(), projectID)
		require.NoError(t, err)
		assert.Empty(t, readDocument(t, path))
	})

	t.Run("should return not found for a missing project", func(t *testing.T) {
		env := newTestEnv(t)
		s := env.exportService(t, time.Minute)

		_, err := s.Export(t.Context(), 4711)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		entries, err := os.ReadDir(s.exportsDir)
		if err == nil {
			assert.Empty(t, entries)
		}
	})
}

func TestExportRegistry(t *testing.T) {
	env := newTestEnv(t)
	projectID := ingestDemo(t, env, []shared.VulnCommit{{Hash: "aaa", Message: "fix"}}, map[string]string{"aaa": commitPatch("a.py")})
	env.vcs.On("ParentHashes", mock.Anything, testRepoDir, mock.Anything).Return(map[string]string{}, nil)

	s := env.exportService(t, 200*time.Millisecond)
	first, err := s.CreateExport(t.Context(), projectID)
	require.NoError(t, err)
	second, err := s.CreateExport(t.Context(), projectID)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, first.Filename, second.Filename)

	r, handle, err := s.Open(first.ID)
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.JSONEq(t, `[]`, string(b))
	assert.Equal(t, first.Filename, handle.Filename)

	path := filepath.Join(s.exportsDir, first.Filename)
	assert.Eventually(t, func() bool {
		_, _, err := s.Open(first.ID)
		_, statErr := os.Stat(path)
		return err == shared.ErrNotFound && os.IsNotExist(statErr)
	}, 5*time.Second, 20*time.Millisecond)
}
