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

package middlewares

import (
	"log/slog"
	"net/http"

	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProjectAccessMiddleware loads the project of the route and the membership of the caller.
// Non members get a 404 so the existence of a project is not leaked.
func ProjectAccessMiddleware(projectRepository shared.ProjectRepository, memberRepository shared.ProjectMemberRepository) shared.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx shared.Context) error {
			projectID, err := shared.GetProjectID(ctx)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			project, err := projectRepository.Read(ctx.Request().Context(), projectID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return echo.NewHTTPError(http.StatusNotFound, "could not find project")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "could not read project").WithInternal(err)
			}

			userID := shared.GetSession(ctx).GetUserID()
			member, err := memberRepository.Find(ctx.Request().Context(), projectID, userID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					slog.Warn("access denied, user is no member of the project", "user", userID, "projectID", projectID)
					return echo.NewHTTPError(http.StatusNotFound, "could not find project")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "could not read membership").WithInternal(err)
			}

			shared.SetProject(ctx, project)
			shared.SetMembership(ctx, member)
			return next(ctx)
		}
	}
}

// NeedsPermission checks the role of the membership set by ProjectAccessMiddleware.
func NeedsPermission(rbac shared.AccessControl, object shared.Object, action shared.Action) shared.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx shared.Context) error {
			member := shared.GetMembership(ctx)
			allowed, err := rbac.IsAllowed(member.Role, object, action)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "could not determine if the user has access").WithInternal(err)
			}
			if !allowed {
				slog.Warn("access denied", "user", member.UserID, "role", member.Role, "object", object, "action", action)
				return echo.NewHTTPError(http.StatusForbidden, "forbidden")
			}
			return next(ctx)
		}
	}
}
