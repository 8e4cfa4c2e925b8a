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

type VoteController struct {
	voteService    shared.VoteService
	voteRepository shared.VoteRepository
}

func NewVoteController(voteService shared.VoteService, voteRepository shared.VoteRepository) *VoteController {
	return &VoteController{
		voteService:    voteService,
		voteRepository: voteRepository,
	}
}

func (c *VoteController) Put(ctx shared.Context) error {
	diffID, err := shared.GetDiffID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req dtos.VoteRequest
	if err := ctx.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "unable to process request").WithInternal(err)
	}
	if err := shared.V.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("could not validate request: %s", err.Error()))
	}

	vote, err := c.voteService.Vote(ctx.Request().Context(), shared.GetProject(ctx).ID, diffID, shared.GetSession(ctx).GetUserID(), *req.Choice)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, vote)
}

func (c *VoteController) Tallies(ctx shared.Context) error {
	tallies, err := c.voteRepository.TalliesByProject(ctx.Request().Context(), shared.GetProject(ctx).ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not count votes").WithInternal(err)
	}
	return ctx.JSON(http.StatusOK, dtos.TalliesToDTO(tallies))
}
