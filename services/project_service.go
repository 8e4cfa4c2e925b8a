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
	"github.com/l3montree-dev/fixcurator/monitoring"
	"github.com/l3montree-dev/fixcurator/patch"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/l3montree-dev/fixcurator/utils"
	"github.com/pkg/errors"
)

type ProjectService struct {
	txRunner          shared.TxRunner
	projectRepository shared.ProjectRepository
	commitRepository  shared.CommitRepository
	diffRepository    shared.DiffRepository
	voteRepository    shared.VoteRepository
}

var _ shared.ProjectService = (*ProjectService)(nil)

func NewProjectService(txRunner shared.TxRunner, projectRepository shared.ProjectRepository, commitRepository shared.CommitRepository, diffRepository shared.DiffRepository, voteRepository shared.VoteRepository) *ProjectService {
	return &ProjectService{
		txRunner:          txRunner,
		projectRepository: projectRepository,
		commitRepository:  commitRepository,
		diffRepository:    diffRepository,
		voteRepository:    voteRepository,
	}
}

func (s *ProjectService) ListForUser(ctx context.Context, userID string) ([]models.Project, error) {
	return s.projectRepository.ListByUser(ctx, userID)
}

// Delete cascades onto commits, diffs, links and votes. CVE rows are kept.
func (s *ProjectService) Delete(ctx context.Context, projectID int64) error {
	if err := s.projectRepository.Delete(ctx, projectID); err != nil {
		return err
	}
	slog.Info("deleted project", "projectID", projectID)
	return nil
}

func (s *ProjectService) UpdateFilter(ctx context.Context, project models.Project, extensions []string) (models.Project, int64, error) {
	if project.FilterMode == models.FilterModeGlob {
		return models.Project{}, 0, shared.ErrFilterLocked
	}

	project.Extensions = patch.NormalizeExtensions(extensions)
	var changed int64
	err := s.txRunner.Transaction(ctx, func(ctx context.Context) error {
		if err := s.projectRepository.Save(ctx, &project); err != nil {
			return errors.Wrap(err, "could not save project")
		}
		var err error
		changed, err = s.diffRepository.Reflag(ctx, project.ID, project.Extensions)
		return errors.Wrap(err, "could not reflag diffs")
	})
	if err != nil {
		return models.Project{}, 0, err
	}

	slog.Info("updated project filter", "projectID", project.ID, "extensions", project.Extensions, "changed", changed)
	return project, changed, nil
}

func (s *ProjectService) ListCommits(ctx context.Context, projectID int64, pageInfo shared.PageInfo) (shared.Paged[shared.CommitWithCVEs], error) {
	page, err := s.commitRepository.ListByProjectPaged(ctx, projectID, pageInfo)
	if err != nil {
		return shared.Paged[shared.CommitWithCVEs]{}, err
	}

	ids := utils.Map(page.Data, func(c models.Commit) int64 { return c.ID })
	cves, err := s.commitRepository.CVEIDsByCommit(ctx, ids)
	if err != nil {
		return shared.Paged[shared.CommitWithCVEs]{}, errors.Wrap(err, "could not fetch cves of commits")
	}

	data := make([]shared.CommitWithCVEs, 0, len(page.Data))
	for _, c := range page.Data {
		linked := cves[c.ID]
		if linked == nil {
			linked = []string{}
		}
		data = append(data, shared.CommitWithCVEs{Commit: c, CVEs: linked})
	}
	return shared.NewPaged(page.PageInfo, page.Total, data), nil
}

// ListDiffs returns the suitable diffs of a commit. A diff which cannot be parsed is returned without annotation.
func (s *ProjectService) ListDiffs(ctx context.Context, projectID, commitID int64, userID string) ([]shared.DiffView, error) {
	if _, err := s.commitRepository.ReadInProject(ctx, projectID, commitID); err != nil {
		return nil, err
	}

	diffs, err := s.diffRepository.ListSuitableByCommit(ctx, commitID)
	if err != nil {
		return nil, err
	}
	ids := utils.Map(diffs, func(d models.Diff) int64 { return d.ID })
	choices, err := s.voteRepository.ChoicesOfUser(ctx, userID, ids)
	if err != nil {
		return nil, errors.Wrap(err, "could not fetch votes")
	}

	views := make([]shared.DiffView, 0, len(diffs))
	for _, d := range diffs {
		content, err := patch.Decompress(d.Content)
		if err != nil {
			monitoring.Alert("could not decompress diff", err)
			continue
		}
		view := shared.DiffView{
			ID:        d.ID,
			Filepath:  d.Filepath,
			Extension: d.Extension,
			Content:   content,
		}
		if annotation, err := patch.ParseHunks(content); err != nil {
			monitoring.DiffParseErrorsAmount.Inc()
			slog.Warn("could not parse diff", "diffID", d.ID, "err", err)
		} else {
			view.Annotation = &annotation
		}
		if choice, ok := choices[d.ID]; ok {
			view.OwnVote = &choice
		}
		views = append(views, view)
	}
	return views, nil
}
