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
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/labstack/echo/v4"
)

type ExportController struct {
	exportService shared.ExportService
}

func NewExportController(exportService shared.ExportService) *ExportController {
	return &ExportController{exportService: exportService}
}

func (c *ExportController) Create(ctx shared.Context) error {
	handle, err := c.exportService.CreateExport(ctx.Request().Context(), shared.GetProject(ctx).ID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, handle)
}

// Download streams a registered export until its lifetime ends.
func (c *ExportController) Download(ctx shared.Context) error {
	id, err := uuid.Parse(shared.SanitizeParam(ctx.Param("exportID")))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid export id")
	}

	file, handle, err := c.exportService.Open(id)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			slog.Warn("could not close export", "exportID", id, "err", err)
		}
	}()

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", handle.Filename))
	return ctx.Stream(http.StatusOK, echo.MIMEApplicationJSON, file)
}
