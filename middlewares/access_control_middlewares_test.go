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
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/database/repositories"
	"github.com/l3montree-dev/fixcurator/integrationtestutil"
	"github.com/l3montree-dev/fixcurator/mocks"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func projectContext(userID string, projectID any) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	c.SetParamNames("projectID")
	c.SetParamValues(fmt.Sprint(projectID))
	shared.SetSession(c, shared.NewSession(userID))
	return c
}

func TestProjectAccessMiddleware(t *testing.T) {
	_, guard := integrationtestutil.InitSQLiteDB(t)
	projects := repositories.NewProjectRepository(guard)
	members := repositories.NewProjectMemberRepository(guard)

	project := models.Project{Name: "demo", Slug: "demo", RepositoryURL: "https://example.com/demo.git", Repository: "/repos/demo", FilterMode: models.FilterModeExtension}
	require.NoError(t, projects.Create(t.Context(), &project))
	require.NoError(t, members.Create(t.Context(), &models.ProjectMember{UserID: "owner", ProjectID: project.ID, Role: models.RoleOwner}))

	mw := ProjectAccessMiddleware(projects, members)

	t.Run("should set project and membership for members", func(t *testing.T) {
		c := projectContext("owner", project.ID)
		var called bool
		err := mw(func(ctx echo.Context) error {
			called = true
			assert.Equal(t, project.ID, shared.GetProject(ctx).ID)
			assert.Equal(t, models.RoleOwner, shared.GetMembership(ctx).Role)
			return nil
		})(c)
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("should answer with 404 for non members", func(t *testing.T) {
		err := mw(func(ctx echo.Context) error {
			t.Fatal("next handler must not be called")
			return nil
		})(projectContext("stranger", project.ID))
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("should answer with 404 for unknown projects", func(t *testing.T) {
		err := mw(func(ctx echo.Context) error { return nil })(projectContext("owner", project.ID+100))
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("should answer with 400 for malformed ids", func(t *testing.T) {
		err := mw(func(ctx echo.Context) error { return nil })(projectContext("owner", "abc"))
		assertStatus(t, err, http.StatusBadRequest)
	})
}

func TestNeedsPermission(t *testing.T) {
	withMembership := func(role models.ProjectRole) echo.Context {
		c := projectContext("user", 1)
		shared.SetMembership(c, models.ProjectMember{UserID: "user", ProjectID: 1, Role: role})
		return c
	}

	t.Run("should call the next handler if the role is allowed", func(t *testing.T) {
		rbac := mocks.NewAccessControl(t)
		rbac.On("IsAllowed", models.RoleOwner, shared.ObjectProject, shared.ActionDelete).Return(true, nil)

		var called bool
		err := NeedsPermission(rbac, shared.ObjectProject, shared.ActionDelete)(func(ctx echo.Context) error {
			called = true
			return nil
		})(withMembership(models.RoleOwner))
		require.NoError(t, err)
		assert.True(t, called)
	})

	t.Run("should answer with 403 if the role is not allowed", func(t *testing.T) {
		rbac := mocks.NewAccessControl(t)
		rbac.On("IsAllowed", models.RoleContributor, shared.ObjectProject, shared.ActionDelete).Return(false, nil)

		err := NeedsPermission(rbac, shared.ObjectProject, shared.ActionDelete)(func(ctx echo.Context) error {
			t.Fatal("next handler must not be called")
			return nil
		})(withMembership(models.RoleContributor))
		assertStatus(t, err, http.StatusForbidden)
	})

	t.Run("should answer with 500 if the check fails", func(t *testing.T) {
		rbac := mocks.NewAccessControl(t)
		rbac.On("IsAllowed", models.RoleContributor, shared.ObjectExport, shared.ActionCreate).Return(false, errors.New("broken"))

		err := NeedsPermission(rbac, shared.ObjectExport, shared.ActionCreate)(func(ctx echo.Context) error { return nil })(withMembership(models.RoleContributor))
		assertStatus(t, err, http.StatusInternalServerError)
	})
}

func TestToHTTPError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{shared.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("choice 7: %w", shared.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("reading: %w", shared.ErrNotFound), http.StatusNotFound},
		{shared.ErrForbidden, http.StatusForbidden},
		{shared.ErrFilterLocked, http.StatusConflict},
		{shared.ErrAlreadyMember, http.StatusConflict},
		{shared.ErrInviteUsed, http.StatusGone},
		{echo.NewHTTPError(http.StatusTeapot, "tea"), http.StatusTeapot},
		{errors.New("database is on fire"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, ToHTTPError(c.err).Code, c.err.Error())
	}

	t.Run("should not leak internal error messages", func(t *testing.T) {
		he := ToHTTPError(errors.New("database is on fire"))
		assert.Equal(t, http.StatusText(http.StatusInternalServerError), he.Message)
	})
}
