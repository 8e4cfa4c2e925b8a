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

	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/patch"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/l3montree-dev/fixcurator/utils"
	"github.com/l3montree-dev/fixcurator/vulnfinder"
	"github.com/pkg/errors"
)

// GlobFilterService changes the patterns of glob projects. Commits the new
// patterns match are diffed and promoted, commits they no longer match are
// demoted to unmatched commits.
type GlobFilterService struct {
	txRunner                  shared.TxRunner
	projectRepository         shared.ProjectRepository
	commitRepository          shared.CommitRepository
	unmatchedCommitRepository shared.UnmatchedCommitRepository
	diffRepository            shared.DiffRepository
	cveRepository             shared.CVERepository
	vcs                       shared.VCSClient
}

var _ shared.GlobFilterService = (*GlobFilterService)(nil)

func NewGlobFilterService(
	txRunner shared.TxRunner,
	projectRepository shared.ProjectRepository,
	commitRepository shared.CommitRepository,
	unmatchedCommitRepository shared.UnmatchedCommitRepository,
	diffRepository shared.DiffRepository,
	cveRepository shared.CVERepository,
	vcs shared.VCSClient,
) *GlobFilterService {
	return &GlobFilterService{
		txRunner:                  txRunner,
		projectRepository:         projectRepository,
		commitRepository:          commitRepository,
		unmatchedCommitRepository: unmatchedCommitRepository,
		diffRepository:            diffRepository,
		cveRepository:             cveRepository,
		vcs:                       vcs,
	}
}

// UpdatePatterns keeps commits which still match untouched, including their votes.
func (s *GlobFilterService) UpdatePatterns(ctx context.Context, project models.Project, patterns []string) (models.Project, shared.Redistribution, error) {
	if project.FilterMode != models.FilterModeGlob {
		return models.Project{}, shared.Redistribution{}, shared.ErrFilterLocked
	}
	matcher, err := patch.NewGlobMatcher(patterns)
	if err != nil {
		return models.Project{}, shared.Redistribution{}, errors.Wrap(shared.ErrInvalidInput, err.Error())
	}
	if matcher.Empty() {
		return models.Project{}, shared.Redistribution{}, errors.Wrap(shared.ErrInvalidInput, "at least one glob pattern is required")
	}

	commits, err := s.commitRepository.ListByProject(ctx, project.ID)
	if err != nil {
		return models.Project{}, shared.Redistribution{}, errors.Wrap(err, "could not list commits")
	}
	unmatched, err := s.unmatchedCommitRepository.ListByProject(ctx, project.ID)
	if err != nil {
		return models.Project{}, shared.Redistribution{}, errors.Wrap(err, "could not list unmatched commits")
	}

	// git runs before the transaction is opened
	demoted := []models.Commit{}
	for _, c := range commits {
		matches, listed, err := s.matches(ctx, project.Repository, c.Hash, matcher)
		if err != nil {
			return models.Project{}, shared.Redistribution{}, err
		}
		if listed && !matches {
			demoted = append(demoted, c)
		}
	}

	classifier := patch.NewClassifier(project.Extensions)
	promoted := []candidate{}
	promotedIDs := []int64{}
	for _, u := range unmatched {
		matches, _, err := s.matches(ctx, project.Repository, u.Hash, matcher)
		if err != nil {
			return models.Project{}, shared.Redistribution{}, err
		}
		if !matches {
			continue
		}
		diff, err := s.vcs.Diff(ctx, project.Repository, u.Hash, matcher.Patterns())
		if err != nil {
			if ctx.Err() != nil {
				return models.Project{}, shared.Redistribution{}, ctx.Err()
			}
			slog.Warn("could not diff unmatched commit, keeping it", "hash", u.Hash, "err", err)
			continue
		}
		sections := classifier.Classify(diff)
		if len(sections) == 0 {
			continue
		}
		promoted = append(promoted, candidate{
			commit: shared.VulnCommit{
				Hash:       u.Hash,
				Message:    u.Message,
				AuthoredAt: u.AuthoredAt,
				CVEs:       vulnfinder.CVEIDs(u.Message),
			},
			sections: sections,
		})
		promotedIDs = append(promotedIDs, u.ID)
	}

	project.GlobPatterns = matcher.Patterns()
	project.CommitCount += len(promoted) - len(demoted)
	err = s.txRunner.Transaction(ctx, func(ctx context.Context) error {
		if err := s.unmatchedCommitRepository.DeleteByIDs(ctx, project.ID, promotedIDs); err != nil {
			return errors.Wrap(err, "could not remove promoted commits")
		}
		if err := s.commitRepository.DeleteByIDs(ctx, project.ID, utils.Map(demoted, func(c models.Commit) int64 { return c.ID })); err != nil {
			return errors.Wrap(err, "could not remove demoted commits")
		}
		if err := s.unmatchedCommitRepository.CreateBatch(ctx, utils.Map(demoted, func(c models.Commit) models.UnmatchedCommit {
			return models.UnmatchedCommit{ProjectID: project.ID, Hash: c.Hash, Message: c.Message, AuthoredAt: c.AuthoredAt}
		})); err != nil {
			return errors.Wrap(err, "could not store demoted commits")
		}

		// the ids of unmatched commits were never stored
		cves := []models.CVE{}
		for _, c := range promoted {
			for _, id := range c.commit.CVEs {
				cves = append(cves, models.CVE{CVE: id})
			}
		}
		if err := s.cveRepository.UpsertBatch(ctx, cves); err != nil {
			return errors.Wrap(err, "could not store cves")
		}
		if err := storeCandidates(ctx, s.commitRepository, s.diffRepository, project.ID, promoted); err != nil {
			return err
		}
		return errors.Wrap(s.projectRepository.Save(ctx, &project), "could not save project")
	})
	if err != nil {
		return models.Project{}, shared.Redistribution{}, err
	}

	res := shared.Redistribution{Promoted: len(promoted), Demoted: len(demoted)}
	slog.Info("updated glob patterns", "projectID", project.ID, "patterns", project.GlobPatterns, "promoted", res.Promoted, "demoted", res.Demoted)
	return project, res, nil
}

// matches reports listed=false if the changed files of the commit could not be listed.
func (s *GlobFilterService) matches(ctx context.Context, dir, hash string, matcher patch.GlobMatcher) (matches bool, listed bool, err error) {
	files, err := s.vcs.ChangedFiles(ctx, dir, hash)
	if err != nil {
		if ctx.Err() != nil {
			return false, false, ctx.Err()
		}
		slog.Warn("could not list changed files, leaving commit in place", "hash", hash, "err", err)
		return false, false, nil
	}
	return matcher.MatchAny(files), true, nil
}
