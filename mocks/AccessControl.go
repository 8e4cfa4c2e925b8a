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

package mocks

import (
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	mock "github.com/stretchr/testify/mock"
)

// AccessControl is a mock type for the AccessControl type
type AccessControl struct {
	mock.Mock
}

// IsAllowed provides a mock function with given fields: role, object, action
func (_m *AccessControl) IsAllowed(role models.ProjectRole, object shared.Object, action shared.Action) (bool, error) {
	ret := _m.Called(role, object, action)

	if len(ret) == 0 {
		panic("no return value specified for IsAllowed")
	}

	if rf, ok := ret.Get(0).(func(models.ProjectRole, shared.Object, shared.Action) (bool, error)); ok {
		return rf(role, object, action)
	}
	return ret.Bool(0), ret.Error(1)
}

// NewAccessControl creates a new instance of AccessControl. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewAccessControl(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccessControl {
	m := &AccessControl{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
