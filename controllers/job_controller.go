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
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/labstack/echo/v4"
)

type JobController struct {
	ingestionQueue shared.IngestionQueue
}

func NewJobController(ingestionQueue shared.IngestionQueue) *JobController {
	return &JobController{ingestionQueue: ingestionQueue}
}

// Read only returns jobs submitted by the caller.
func (c *JobController) Read(ctx shared.Context) error {
	id, err := uuid.Parse(shared.SanitizeParam(ctx.Param("jobID")))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid job id")
	}

	job, err := c.ingestionQueue.Job(ctx.Request().Context(), id)
	if err != nil {
		return err
	}
	if job.UserID != shared.GetSession(ctx).GetUserID() {
		return echo.NewHTTPError(http.StatusNotFound, "could not find job")
	}
	return ctx.JSON(http.StatusOK, job)
}
