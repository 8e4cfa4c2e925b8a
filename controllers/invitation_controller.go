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

	"github.com/google/uuid"
	"github.com/l3montree-dev/fixcurator/dtos"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/labstack/echo/v4"
)

type InvitationController struct {
	invitationService shared.InvitationService
}

func NewInvitationController(invitationService shared.InvitationService) *InvitationController {
	return &InvitationController{invitationService: invitationService}
}

func (c *InvitationController) Create(ctx shared.Context) error {
	invitation, err := c.invitationService.Invite(ctx.Request().Context(), shared.GetProject(ctx).ID, shared.GetSession(ctx).GetUserID())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create invitation").WithInternal(err)
	}
	return ctx.JSON(http.StatusCreated, dtos.InvitationToDTO(invitation))
}

func (c *InvitationController) Accept(ctx shared.Context) error {
	token, err := uuid.Parse(shared.SanitizeParam(ctx.Param("token")))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid invitation token")
	}

	member, err := c.invitationService.Accept(ctx.Request().Context(), token, shared.GetSession(ctx).GetUserID())
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, member)
}
