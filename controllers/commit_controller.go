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

package controllers

import (
	"net/http"

	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/labstack/echo/v4"
)

type CommitController struct {
	projectService            shared.ProjectService
	unmatchedCommitRepository shared.UnmatchedCommitRepository
}

func NewCommitController(projectService shared.ProjectService, unmatchedCommitRepository shared.UnmatchedCommitRepository) *CommitController {
	return &CommitController{
		projectService:            projectService,
		unmatchedCommitRepository: unmatchedCommitRepository,
	}
}

func (c *CommitController) ListPaged(ctx shared.Context) error {
	project := shared.GetProject(ctx)
	paged, err := c.projectService.ListCommits(ctx.Request().Context(), project.ID, shared.GetPageInfo(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list commits").WithInternal(err)
	}
	return ctx.JSON(http.StatusOK, paged)
}

// Diffs lists the suitable diffs of a commit together with the vote of the caller.
func (c *CommitController) Diffs(ctx shared.Context) error {
	commitID, err := shared.GetCommitID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	project := shared.GetProject(ctx)
	diffs, err := c.projectService.ListDiffs(ctx.Request().Context(), project.ID, commitID, shared.GetSession(ctx).GetUserID())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, diffs)
}

// Unmatched lists the candidate commits of a glob project no pattern matches.
func (c *CommitController) Unmatched(ctx shared.Context) error {
	commits, err := c.unmatchedCommitRepository.ListByProject(ctx.Request().Context(), shared.GetProject(ctx).ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list unmatched commits").WithInternal(err)
	}
	return ctx.JSON(http.StatusOK, commits)
}
