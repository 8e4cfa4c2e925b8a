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
	"strings"
	"testing"
	"time"

	"github.com/l3montree-dev/fixcurator/database"
	"github.com/l3montree-dev/fixcurator/database/repositories"
	"github.com/l3montree-dev/fixcurator/integrationtestutil"
	"github.com/l3montree-dev/fixcurator/mocks"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/stretchr/testify/mock"
)

const (
	testRepoURL = "https://example.com/acme/demo.git"
	testRepoDir = "/repos/example.com/acme/demo"
)

// filePatch is a single file section replacing line 2.
func filePatch(name string) string {
	return "diff --git a/" + name + " b/" + name + "\n" +
		"index 1111111..2222222 100644\n" +
		"--- a/" + name + "\n" +
		"+++ b/" + name + "\n" +
		"@@ -1,3 +1,3 @@\n" +
		" line1\n" +
		"-old\n" +
		"+new\n" +
		" line3\n"
}

func commitPatch(names ...string) string {
	var sb strings.Builder
	for _, n := range names {
		sb.WriteString(filePatch(n))
	}
	return sb.String()
}

type testEnv struct {
	db     shared.DB
	guard  *database.Guard
	vcs    *mocks.VCSClient
	finder *mocks.VulnFinder
	enrich *mocks.CVEEnricher

	projects    *repositories.ProjectRepository
	members     *repositories.ProjectMemberRepository
	commits     *repositories.CommitRepository
	unmatched   *repositories.UnmatchedCommitRepository
	diffs       *repositories.DiffRepository
	cves        *repositories.CVERepository
	votes       *repositories.VoteRepository
	invitations *repositories.InvitationRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, guard := integrationtestutil.InitSQLiteDB(t)
	return &testEnv{
		db:          db,
		guard:       guard,
		vcs:         mocks.NewVCSClient(t),
		finder:      mocks.NewVulnFinder(t),
		enrich:      mocks.NewCVEEnricher(t),
		projects:    repositories.NewProjectRepository(guard),
		members:     repositories.NewProjectMemberRepository(guard),
		commits:     repositories.NewCommitRepository(guard),
		unmatched:   repositories.NewUnmatchedCommitRepository(guard),
		diffs:       repositories.NewDiffRepository(guard),
		cves:        repositories.NewCVERepository(guard),
		votes:       repositories.NewVoteRepository(guard),
		invitations: repositories.NewInvitationRepository(guard),
	}
}

func (e *testEnv) ingestionService() *IngestionService {
	return NewIngestionService(e.guard, e.projects, e.members, e.commits, e.diffs, e.cves, e.unmatched, e.vcs, e.finder, e.enrich)
}

func (e *testEnv) projectService() *ProjectService {
	return NewProjectService(e.guard, e.projects, e.commits, e.diffs, e.votes)
}

func (e *testEnv) globFilterService() *GlobFilterService {
	return NewGlobFilterService(e.guard, e.projects, e.commits, e.unmatched, e.diffs, e.cves, e.vcs)
}

func (e *testEnv) exportService(t *testing.T, lifetime time.Duration) *ExportService {
	s := NewExportService(e.projects, e.votes, e.diffs, e.vcs, t.TempDir(), lifetime)
	t.Cleanup(s.Close)
	return s
}

// expectRepository makes the vcs mock serve the given patches per commit hash.
func (e *testEnv) expectRepository(url, dir string, patches map[string]string) {
	e.vcs.On("LocalPath", url).Return(dir, nil)
	e.vcs.On("CloneOrPull", mock.Anything, url, dir).Return(nil)
	for hash, p := range patches {
		e.vcs.On("Diff", mock.Anything, dir, hash, mock.Anything).Return(p, nil)
	}
}
