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
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/monitoring"
	"github.com/l3montree-dev/fixcurator/patch"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/l3montree-dev/fixcurator/vulnfinder"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidIngestionRequest = errors.Wrap(shared.ErrInvalidInput, "invalid ingestion request")

// parallel git diff processes per ingestion
const diffConcurrency = 4

type IngestionService struct {
	txRunner                  shared.TxRunner
	projectRepository         shared.ProjectRepository
	projectMemberRepository   shared.ProjectMemberRepository
	commitRepository          shared.CommitRepository
	diffRepository            shared.DiffRepository
	cveRepository             shared.CVERepository
	unmatchedCommitRepository shared.UnmatchedCommitRepository
	vcs                       shared.VCSClient
	finder                    shared.VulnFinder
	enricher                  shared.CVEEnricher
}

var _ shared.IngestionService = (*IngestionService)(nil)

func NewIngestionService(
	txRunner shared.TxRunner,
	projectRepository shared.ProjectRepository,
	projectMemberRepository shared.ProjectMemberRepository,
	commitRepository shared.CommitRepository,
	diffRepository shared.DiffRepository,
	cveRepository shared.CVERepository,
	unmatchedCommitRepository shared.UnmatchedCommitRepository,
	vcs shared.VCSClient,
	finder shared.VulnFinder,
	enricher shared.CVEEnricher,
) *IngestionService {
	return &IngestionService{
		txRunner:                  txRunner,
		projectRepository:         projectRepository,
		projectMemberRepository:   projectMemberRepository,
		commitRepository:          commitRepository,
		diffRepository:            diffRepository,
		cveRepository:             cveRepository,
		unmatchedCommitRepository: unmatchedCommitRepository,
		vcs:                       vcs,
		finder:                    finder,
		enricher:                  enricher,
	}
}

// candidate is a discovered commit together with its classified sections.
type candidate struct {
	commit   shared.VulnCommit
	sections []patch.Section
	// unmatched commits are kept for review in glob mode
	unmatched bool
	skipped   bool
}

type ingestionFilter struct {
	mode       models.FilterMode
	extensions []string
	globs      patch.GlobMatcher
}

func newIngestionFilter(req shared.IngestionRequest) (ingestionFilter, error) {
	switch req.FilterMode {
	case models.FilterModeExtension, "":
		return ingestionFilter{
			mode:       models.FilterModeExtension,
			extensions: patch.NormalizeExtensions(req.Extensions),
		}, nil
	case models.FilterModeGlob:
		m, err := patch.NewGlobMatcher(req.GlobPatterns)
		if err != nil {
			return ingestionFilter{}, errors.Wrap(ErrInvalidIngestionRequest, err.Error())
		}
		if m.Empty() {
			return ingestionFilter{}, errors.Wrap(ErrInvalidIngestionRequest, "glob mode requires at least one pattern")
		}
		return ingestionFilter{mode: models.FilterModeGlob, globs: m}, nil
	default:
		return ingestionFilter{}, errors.Wrapf(ErrInvalidIngestionRequest, "unknown filter mode %q", req.FilterMode)
	}
}

func (s *IngestionService) Ingest(ctx context.Context, req shared.IngestionRequest) (int64, error) {
	start := time.Now()
	defer func() {
		monitoring.IngestionDuration.Observe(time.Since(start).Minutes())
	}()

	if strings.TrimSpace(req.RepositoryURL) == "" || strings.TrimSpace(req.Name) == "" || req.UserID == "" {
		return 0, errors.Wrap(ErrInvalidIngestionRequest, "repository url, name and user are required")
	}
	filter, err := newIngestionFilter(req)
	if err != nil {
		return 0, err
	}

	dir, err := s.vcs.LocalPath(req.RepositoryURL)
	if err != nil {
		return 0, errors.Wrap(ErrInvalidIngestionRequest, err.Error())
	}
	if err := s.vcs.CloneOrPull(ctx, req.RepositoryURL, dir); err != nil {
		return 0, errors.Wrap(err, "could not sync repository")
	}

	vulnCommits, cveIDs, err := s.finder.Find(ctx, dir)
	if err != nil {
		return 0, errors.Wrap(err, "could not discover vulnerability commits")
	}
	slog.Info("discovered candidate commits", "repository", req.RepositoryURL, "commits", len(vulnCommits), "cves", len(cveIDs))

	// diffs and cve metadata are independent of each other
	candidates := make([]candidate, len(vulnCommits))
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.upsertCVEs(gctx, vulnfinder.Hint(filepath.Base(dir)), cveIDs)
	})
	g.Go(func() error {
		return s.classifyCandidates(gctx, dir, filter, vulnCommits, candidates)
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var projectID int64
	err = s.txRunner.Transaction(ctx, func(ctx context.Context) error {
		projectID, err = s.persist(ctx, req, dir, filter, candidates)
		return err
	})
	if err != nil {
		return 0, errors.Wrap(err, "could not persist project")
	}

	slog.Info("ingested repository", "projectID", projectID, "repository", req.RepositoryURL, "duration", time.Since(start))
	return projectID, nil
}

func (s *IngestionService) classifyCandidates(ctx context.Context, dir string, filter ingestionFilter, vulnCommits []shared.VulnCommit, candidates []candidate) error {
	classifier := patch.NewClassifier(filter.extensions)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(diffConcurrency)
	for i, vc := range vulnCommits {
		g.Go(func() error {
			c := candidate{commit: vc}
			defer func() { candidates[i] = c }()

			var pathspecs []string
			if filter.mode == models.FilterModeGlob {
				files, err := s.vcs.ChangedFiles(ctx, dir, vc.Hash)
				if err != nil {
					if ctx.Err() != nil {
						return ctx.Err()
					}
					slog.Warn("could not list changed files, skipping commit", "hash", vc.Hash, "err", err)
					c.skipped = true
					return nil
				}
				if !filter.globs.MatchAny(files) {
					c.unmatched = true
					return nil
				}
				pathspecs = filter.globs.Patterns()
			}

			diff, err := s.vcs.Diff(ctx, dir, vc.Hash, pathspecs)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				slog.Warn("could not diff commit, skipping commit", "hash", vc.Hash, "err", err)
				c.skipped = true
				return nil
			}

			c.sections = classifier.Classify(diff)
			if len(c.sections) == 0 {
				// renames and deletions only
				c.unmatched = filter.mode == models.FilterModeGlob
				c.skipped = !c.unmatched
			}
			return nil
		})
	}
	return g.Wait()
}

// upsertCVEs stores every discovered id. Ids no source could resolve get a bare row, a later ingestion may fill it.
func (s *IngestionService) upsertCVEs(ctx context.Context, hint string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	info, err := s.enricher.Enrich(ctx, hint, ids)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		monitoring.Alert("could not enrich cves", err)
		info = map[string]shared.CVEInfo{}
	}

	cves := make([]models.CVE, 0, len(ids))
	for _, id := range ids {
		cve := models.CVE{CVE: id}
		if i, ok := info[id]; ok {
			cve.Summary = i.Summary
			cve.Description = i.Description
			cve.CVSS = i.Score
			cve.Vector = i.Vector
			cve.Weaknesses = i.Weaknesses
		}
		cves = append(cves, cve)
	}
	return errors.Wrap(s.cveRepository.UpsertBatch(ctx, cves), "could not store cves")
}

func (s *IngestionService) persist(ctx context.Context, req shared.IngestionRequest, dir string, filter ingestionFilter, candidates []candidate) (int64, error) {
	matched := []candidate{}
	unmatched := []models.UnmatchedCommit{}
	for _, c := range candidates {
		switch {
		case c.unmatched:
			unmatched = append(unmatched, models.UnmatchedCommit{Hash: c.commit.Hash, Message: c.commit.Message, AuthoredAt: c.commit.AuthoredAt})
		case c.skipped || len(c.sections) == 0:
			continue
		default:
			matched = append(matched, c)
		}
	}

	project := models.Project{
		Name:          strings.TrimSpace(req.Name),
		Slug:          slug.Make(req.Name),
		RepositoryURL: req.RepositoryURL,
		Repository:    dir,
		FilterMode:    filter.mode,
		Extensions:    filter.extensions,
		GlobPatterns:  filter.globs.Patterns(),
		CommitCount:   len(matched),
	}
	if err := s.projectRepository.Create(ctx, &project); err != nil {
		return 0, errors.Wrap(err, "could not create project")
	}
	if err := s.projectMemberRepository.Create(ctx, &models.ProjectMember{
		UserID:    req.UserID,
		ProjectID: project.ID,
		Role:      models.RoleOwner,
	}); err != nil {
		return 0, errors.Wrap(err, "could not create owner membership")
	}

	if err := storeCandidates(ctx, s.commitRepository, s.diffRepository, project.ID, matched); err != nil {
		return 0, err
	}

	for i := range unmatched {
		unmatched[i].ProjectID = project.ID
	}
	if err := s.unmatchedCommitRepository.CreateBatch(ctx, unmatched); err != nil {
		return 0, errors.Wrap(err, "could not create unmatched commits")
	}

	monitoring.CommitsIngestedAmount.Add(float64(len(matched)))
	return project.ID, nil
}

// storeCandidates inserts the commits with their diffs and cve links. The cve rows must exist.
func storeCandidates(ctx context.Context, commitRepository shared.CommitRepository, diffRepository shared.DiffRepository, projectID int64, matched []candidate) error {
	commits := make([]models.Commit, 0, len(matched))
	for _, c := range matched {
		commits = append(commits, models.Commit{
			ProjectID:  projectID,
			Hash:       c.commit.Hash,
			Message:    c.commit.Message,
			AuthoredAt: c.commit.AuthoredAt,
		})
	}
	if err := commitRepository.CreateBatch(ctx, commits); err != nil {
		return errors.Wrap(err, "could not create commits")
	}

	// the ids are filled in insertion order
	diffs := []models.Diff{}
	links := []models.CommitCVE{}
	for i, c := range matched {
		commitID := commits[i].ID
		for _, section := range c.sections {
			content, err := patch.Compress(section.Raw)
			if err != nil {
				return errors.Wrap(err, "could not compress diff")
			}
			diffs = append(diffs, models.Diff{
				CommitID:  commitID,
				Filepath:  section.Filepath,
				Extension: section.Extension,
				Suitable:  section.Suitable,
				Content:   content,
			})
		}
		for _, cve := range c.commit.CVEs {
			links = append(links, models.CommitCVE{CommitID: commitID, CVEID: cve})
		}
	}
	if err := diffRepository.CreateBatch(ctx, diffs); err != nil {
		return errors.Wrap(err, "could not create diffs")
	}
	return errors.Wrap(commitRepository.CreateCVELinks(ctx, links), "could not link cves")
}
