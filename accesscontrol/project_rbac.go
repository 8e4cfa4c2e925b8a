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

package accesscontrol

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type permission struct {
	object shared.Object
	action shared.Action
}

var contributorPermissions = []permission{
	{shared.ObjectProject, shared.ActionRead},
	{shared.ObjectCommit, shared.ActionRead},
	{shared.ObjectVote, shared.ActionCreate},
}

// owners inherit everything a contributor may do
var ownerPermissions = []permission{
	{shared.ObjectProject, shared.ActionUpdate},
	{shared.ObjectProject, shared.ActionDelete},
	{shared.ObjectInvite, shared.ActionCreate},
	{shared.ObjectExport, shared.ActionCreate},
}

func roleSubject(role models.ProjectRole) string {
	return "role::" + string(role)
}

// ProjectRBAC answers permission checks for the roles of a project membership.
// The policy is static, memberships themselves live in the database.
type ProjectRBAC struct {
	enforcer *casbin.SyncedEnforcer
}

var _ shared.AccessControl = (*ProjectRBAC)(nil)

func NewProjectRBAC() (*ProjectRBAC, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, errors.Wrap(err, "could not parse rbac model")
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, errors.Wrap(err, "could not create enforcer")
	}

	if err := allow(e, models.RoleContributor, contributorPermissions); err != nil {
		return nil, err
	}
	if err := allow(e, models.RoleOwner, ownerPermissions); err != nil {
		return nil, err
	}
	if _, err := e.AddGroupingPolicy(roleSubject(models.RoleOwner), roleSubject(models.RoleContributor)); err != nil {
		return nil, errors.Wrap(err, "could not let owners inherit contributor permissions")
	}
	return &ProjectRBAC{enforcer: e}, nil
}

func allow(e *casbin.SyncedEnforcer, role models.ProjectRole, permissions []permission) error {
	for _, p := range permissions {
		if _, err := e.AddPolicy(roleSubject(role), string(p.object), string(p.action)); err != nil {
			return errors.Wrapf(err, "could not allow %s to %s %s", role, p.action, p.object)
		}
	}
	return nil
}

func (r *ProjectRBAC) IsAllowed(role models.ProjectRole, object shared.Object, action shared.Action) (bool, error) {
	return r.enforcer.Enforce(roleSubject(role), string(object), string(action))
}

var AccessControlModule = fx.Options(
	fx.Provide(fx.Annotate(NewProjectRBAC, fx.As(new(shared.AccessControl)))),
)
