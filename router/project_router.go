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
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/labstack/echo/v4"
)

type ProjectRouter struct {
	*echo.Group
}

func NewProjectRouter(
	sessionRouter SessionRouter,
	rbac shared.AccessControl,
	projectRepository shared.ProjectRepository,
	memberRepository shared.ProjectMemberRepository,
	projectController *controllers.ProjectController,
	commitController *controllers.CommitController,
	voteController *controllers.VoteController,
	invitationController *controllers.InvitationController,
	exportController *controllers.ExportController,
) ProjectRouter {
	/**
	Project scoped router
	All routes below this line are scoped to a project the caller is a member of.
	*/
	projectRouter := sessionRouter.Group.Group("/projects/:projectID",
		middlewares.ProjectAccessMiddleware(projectRepository, memberRepository),
		middlewares.NeedsPermission(rbac, shared.ObjectProject, shared.ActionRead),
	)

	projectRouter.GET("/", projectController.Read)
	projectRouter.GET("/members/", projectController.Members)
	projectRouter.GET("/unmatched-commits/", commitController.Unmatched, middlewares.NeedsPermission(rbac, shared.ObjectCommit, shared.ActionRead))
	projectRouter.GET("/commits/", commitController.ListPaged, middlewares.NeedsPermission(rbac, shared.ObjectCommit, shared.ActionRead))
	projectRouter.GET("/commits/:commitID/diffs/", commitController.Diffs, middlewares.NeedsPermission(rbac, shared.ObjectCommit, shared.ActionRead))
	projectRouter.GET("/tallies/", voteController.Tallies, middlewares.NeedsPermission(rbac, shared.ObjectCommit, shared.ActionRead))
	projectRouter.PUT("/diffs/:diffID/vote/", voteController.Put, middlewares.NeedsPermission(rbac, shared.ObjectVote, shared.ActionCreate))

	projectRouter.DELETE("/", projectController.Delete, middlewares.NeedsPermission(rbac, shared.ObjectProject, shared.ActionDelete))
	projectRouter.PATCH("/filter/", projectController.UpdateFilter, middlewares.NeedsPermission(rbac, shared.ObjectProject, shared.ActionUpdate))
	projectRouter.PATCH("/globs/", projectController.UpdateGlobPatterns, middlewares.NeedsPermission(rbac, shared.ObjectProject, shared.ActionUpdate))
	projectRouter.POST("/invites/", invitationController.Create, middlewares.NeedsPermission(rbac, shared.ObjectInvite, shared.ActionCreate))
	projectRouter.POST("/exports/", exportController.Create, middlewares.NeedsPermission(rbac, shared.ObjectExport, shared.ActionCreate))

	return ProjectRouter{Group: projectRouter}
}
