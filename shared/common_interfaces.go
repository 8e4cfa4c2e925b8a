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

package shared

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/patch"
)

// TxRunner runs fn inside a transaction. Repository calls with the callback context join it.
type TxRunner interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type ProjectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	Read(ctx context.Context, id int64) (models.Project, error)
	Save(ctx context.Context, project *models.Project) error
	Delete(ctx context.Context, id int64) error
	ListByUser(ctx context.Context, userID string) ([]models.Project, error)
}

type ProjectMemberRepository interface {
	Create(ctx context.Context, member *models.ProjectMember) error
	Find(ctx context.Context, projectID int64, userID string) (models.ProjectMember, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.ProjectMember, error)
}

type CommitRepository interface {
	// CreateBatch fills the generated ids into commits.
	CreateBatch(ctx context.Context, commits []models.Commit) error
	CreateCVELinks(ctx context.Context, links []models.CommitCVE) error
	ReadInProject(ctx context.Context, projectID, commitID int64) (models.Commit, error)
	ListByProjectPaged(ctx context.Context, projectID int64, pageInfo PageInfo) (Paged[models.Commit], error)
	CVEIDsByCommit(ctx context.Context, commitIDs []int64) (map[int64][]string, error)
	ListByProject(ctx context.Context, projectID int64) ([]models.Commit, error)
	DeleteByIDs(ctx context.Context, projectID int64, ids []int64) error
}

// DiffContent is a diff joined with the hash of its commit.
type DiffContent struct {
	ID         int64
	CommitHash string
	Content    []byte
}

type DiffRepository interface {
	// CreateBatch fills the generated ids into diffs.
	CreateBatch(ctx context.Context, diffs []models.Diff) error
	ReadInProject(ctx context.Context, projectID, diffID int64) (models.Diff, error)
	ListSuitableByCommit(ctx context.Context, commitID int64) ([]models.Diff, error)
	// Reflag recomputes the suitability of every diff of the project and returns the number of changed rows.
	Reflag(ctx context.Context, projectID int64, extensions []string) (int64, error)
	ContentsByIDs(ctx context.Context, ids []int64) ([]DiffContent, error)
}

type CVERepository interface {
	// UpsertBatch inserts missing rows and fills bare ones. Populated rows are left untouched.
	UpsertBatch(ctx context.Context, cves []models.CVE) error
	FindByIDs(ctx context.Context, ids []string) ([]models.CVE, error)
}

// DiffTally aggregates the votes of a single diff.
type DiffTally struct {
	DiffID     int64
	CommitHash string
	Positive   int
	Neutral    int
	Negative   int
}

type VoteRepository interface {
	Upsert(ctx context.Context, vote *models.Vote) error
	ChoicesOfUser(ctx context.Context, userID string, diffIDs []int64) (map[int64]models.VoteChoice, error)
	// TalliesByProject returns the tallies of all voted, suitable diffs ordered by diff id.
	TalliesByProject(ctx context.Context, projectID int64) ([]DiffTally, error)
}

type UnmatchedCommitRepository interface {
	CreateBatch(ctx context.Context, commits []models.UnmatchedCommit) error
	ListByProject(ctx context.Context, projectID int64) ([]models.UnmatchedCommit, error)
	DeleteByIDs(ctx context.Context, projectID int64, ids []int64) error
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	Read(ctx context.Context, token uuid.UUID) (models.Invitation, error)
	Save(ctx context.Context, invitation *models.Invitation) error
}

type IngestionJobRepository interface {
	Create(ctx context.Context, job *models.IngestionJob) error
	Read(ctx context.Context, id uuid.UUID) (models.IngestionJob, error)
	Save(ctx context.Context, job *models.IngestionJob) error
	// Claim moves a pending job to running. It reports false if another worker was faster.
	Claim(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	FindByStatus(ctx context.Context, statuses ...models.JobStatus) ([]models.IngestionJob, error)
	// ResetRunning moves all running jobs back to pending.
	ResetRunning(ctx context.Context) (int64, error)
}

// VCSClient wraps the version control operations the pipelines need.
type VCSClient interface {
	// LocalPath maps a repository url to its checkout directory.
	LocalPath(repositoryURL string) (string, error)
	CloneOrPull(ctx context.Context, repositoryURL, dir string) error
	// Diff returns the first parent patch of hash, limited to pathspecs if given.
	Diff(ctx context.Context, dir, hash string, pathspecs []string) (string, error)
	ChangedFiles(ctx context.Context, dir, hash string) ([]string, error)
	// ParentHashes resolves the first parent of every hash in one call.
	ParentHashes(ctx context.Context, dir string, hashes []string) (map[string]string, error)
}

type VulnCommit struct {
	Hash       string
	Message    string
	AuthoredAt time.Time
	CVEs       []string
}

type VulnFinder interface {
	// Find returns the candidate commits in log order and the union of their cve ids.
	Find(ctx context.Context, dir string) ([]VulnCommit, []string, error)
}

type CVEInfo struct {
	Description string
	Score       *float32
	Vector      string
	Summary     string
	Weaknesses  []string
}

type CVEEnricher interface {
	// Enrich resolves the given ids. Unresolvable ids are absent from the result.
	Enrich(ctx context.Context, hint string, ids []string) (map[string]CVEInfo, error)
}

// CVESearchSource is a keyword searchable vulnerability database.
type CVESearchSource interface {
	Search(ctx context.Context, keyword string, wanted map[string]struct{}) (map[string]CVEInfo, error)
}

// CVELookupSource resolves single ids and summaries.
type CVELookupSource interface {
	Lookup(ctx context.Context, id string) (CVEInfo, error)
	Summaries(ctx context.Context, ids []string) (map[string]string, error)
}

type IngestionRequest struct {
	UserID        string
	RepositoryURL string
	Name          string
	FilterMode    models.FilterMode
	Extensions    []string
	GlobPatterns  []string
}

type IngestionService interface {
	Ingest(ctx context.Context, req IngestionRequest) (int64, error)
}

type IngestionQueue interface {
	Submit(ctx context.Context, req IngestionRequest) (models.IngestionJob, error)
	Job(ctx context.Context, id uuid.UUID) (models.IngestionJob, error)
}

type ExportHandle struct {
	ID        uuid.UUID `json:"id"`
	Filename  string    `json:"filename"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExportService interface {
	// Export writes the document of the project and returns its path.
	Export(ctx context.Context, projectID int64) (string, error)
	// CreateExport exports and registers the document until its lifetime ends.
	CreateExport(ctx context.Context, projectID int64) (ExportHandle, error)
	// Open returns the registered document. The caller closes the reader.
	Open(id uuid.UUID) (io.ReadCloser, ExportHandle, error)
}

type CommitWithCVEs struct {
	models.Commit
	CVEs []string `json:"cves"`
}

type DiffView struct {
	ID         int64                `json:"id"`
	Filepath   string               `json:"filepath"`
	Extension  string               `json:"extension"`
	Content    string               `json:"content"`
	Annotation *patch.FileAnnotation `json:"annotation"`
	OwnVote    *models.VoteChoice   `json:"ownVote"`
}

type ProjectService interface {
	ListForUser(ctx context.Context, userID string) ([]models.Project, error)
	Delete(ctx context.Context, projectID int64) error
	// UpdateFilter stores the new extension filter and re-flags all diffs.
	UpdateFilter(ctx context.Context, project models.Project, extensions []string) (models.Project, int64, error)
	ListCommits(ctx context.Context, projectID int64, pageInfo PageInfo) (Paged[CommitWithCVEs], error)
	ListDiffs(ctx context.Context, projectID, commitID int64, userID string) ([]DiffView, error)
}

// Redistribution counts the commits moved by a glob pattern change.
type Redistribution struct {
	// Promoted unmatched commits now match and carry diffs.
	Promoted int `json:"promoted"`
	// Demoted commits no longer match. Their diffs and votes are gone.
	Demoted int `json:"demoted"`
}

type GlobFilterService interface {
	// UpdatePatterns stores the patterns of a glob project and moves commits between matched and unmatched.
	UpdatePatterns(ctx context.Context, project models.Project, patterns []string) (models.Project, Redistribution, error)
}

type VoteService interface {
	Vote(ctx context.Context, projectID, diffID int64, userID string, choice models.VoteChoice) (models.Vote, error)
}

type InvitationService interface {
	Invite(ctx context.Context, projectID int64, createdBy string) (models.Invitation, error)
	Accept(ctx context.Context, token uuid.UUID, userID string) (models.ProjectMember, error)
}

type Object string

const (
	ObjectProject Object = "project"
	ObjectCommit  Object = "commit"
	ObjectVote    Object = "vote"
	ObjectInvite  Object = "invite"
	ObjectExport  Object = "export"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type AccessControl interface {
	IsAllowed(role models.ProjectRole, object Object, action Action) (bool, error)
}

type DaemonRunner interface {
	Start()
	Stop()
}
