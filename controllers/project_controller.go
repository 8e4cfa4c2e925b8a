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
	"fmt"
	"net/http"

	"github.com/l3montree-dev/fixcurator/dtos"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/labstack/echo/v4"
)

type ProjectController struct {
	ingestionQueue    shared.IngestionQueue
	projectService    shared.ProjectService
	globFilterService shared.GlobFilterService
	memberRepository  shared.ProjectMemberRepository
}

func NewProjectController(ingestionQueue shared.IngestionQueue, projectService shared.ProjectService, globFilterService shared.GlobFilterService, memberRepository shared.ProjectMemberRepository) *ProjectController {
	return &ProjectController{
		ingestionQueue:    ingestionQueue,
		projectService:    projectService,
		globFilterService: globFilterService,
		memberRepository:  memberRepository,
	}
}

// Create starts the ingestion of a repository. The project exists once the returned job succeeded.
func (c *ProjectController) Create(ctx shared.Context) error {
	var req dtos.ProjectCreateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to process request").WithInternal(err)
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	userID := shared.GetSession(ctx).GetUserID()
	job, err := c.ingestionQueue.Submit(ctx.Request().Context(), req.ToIngestionRequest(userID))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not start ingestion").WithInternal(err)
	}
	return ctx.JSON(http.StatusAccepted, dtos.ProjectCreatedResponse{JobID: job.ID})
}

func (c *ProjectController) List(ctx shared.Context) error {
	projects, err := c.projectService.ListForUser(ctx.Request().Context(), shared.GetSession(ctx).GetUserID())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list projects").WithInternal(err)
	}
	return ctx.JSON(http.StatusOK, projects)
}

func (c *ProjectController) Read(ctx shared.Context) error {
	return ctx.JSON(http.StatusOK, shared.GetProject(ctx))
}

func (c *ProjectController) Delete(ctx shared.Context) error {
	if err := c.projectService.Delete(ctx.Request().Context(), shared.GetProject(ctx).ID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (c *ProjectController) UpdateFilter(ctx shared.Context) error {
	var req dtos.FilterUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to process request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	project, changed, err := c.projectService.UpdateFilter(ctx.Request().Context(), shared.GetProject(ctx), req.Extensions)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dtos.FilterUpdateResponse{Project: project, Changed: changed})
}

// UpdateGlobPatterns re-evaluates every commit of a glob project against the new patterns.
func (c *ProjectController) UpdateGlobPatterns(ctx shared.Context) error {
	var req dtos.GlobPatternsUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to process request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	project, res, err := c.globFilterService.UpdatePatterns(ctx.Request().Context(), shared.GetProject(ctx), req.GlobPatterns)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, dtos.GlobPatternsUpdateResponse{Project: project, Redistribution: res})
}

func (c *ProjectController) Members(ctx shared.Context) error {
	members, err := c.memberRepository.ListByProject(ctx.Request().Context(), shared.GetProject(ctx).ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list members").WithInternal(err)
	}
	return ctx.JSON(http.StatusOK, members)
}
