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

package router

import (
	"github.com/l3montree-dev/fixcurator/controllers"
	"github.com/l3montree-dev/fixcurator/middlewares"
	"github.com/labstack/echo/v4"
)

type SessionRouter struct {
	*echo.Group
}

// NewSessionRouter registers the routes that need a user but no project membership.
func NewSessionRouter(
	apiV1Router APIV1Router,
	issuer *middlewares.TokenIssuer,
	projectController *controllers.ProjectController,
	jobController *controllers.JobController,
	invitationController *controllers.InvitationController,
	exportController *controllers.ExportController,
) SessionRouter {
	sessionRouter := apiV1Router.Group.Group("", middlewares.SessionMiddleware(issuer))

	sessionRouter.GET("/projects/", projectController.List)
	sessionRouter.POST("/projects/", projectController.Create)
	sessionRouter.GET("/jobs/:jobID/", jobController.Read)
	sessionRouter.POST("/invites/:token/accept/", invitationController.Accept)
	// export ids are random and short lived, knowing one is enough
	sessionRouter.GET("/exports/:exportID/", exportController.Download)

	return SessionRouter{Group: sessionRouter}
}
