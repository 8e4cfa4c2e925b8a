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
	"context"

	"github.com/l3montree-dev/fixcurator/shared"
	mock "github.com/stretchr/testify/mock"
)

// VulnFinder is a mock type for the VulnFinder type
type VulnFinder struct {
	mock.Mock
}

// Find provides a mock function with given fields: ctx, dir
func (_m *VulnFinder) Find(ctx context.Context, dir string) ([]shared.VulnCommit, []string, error) {
	ret := _m.Called(ctx, dir)

	if len(ret) == 0 {
		panic("no return value specified for Find")
	}

	var r0 []shared.VulnCommit
	var r1 []string
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]shared.VulnCommit, []string, error)); ok {
		return rf(ctx, dir)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]shared.VulnCommit)
	}
	if ret.Get(1) != nil {
		r1 = ret.Get(1).([]string)
	}
	return r0, r1, ret.Error(2)
}

// NewVulnFinder creates a new instance of VulnFinder. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewVulnFinder(t interface {
	mock.TestingT
	Cleanup(func())
}) *VulnFinder {
	m := &VulnFinder{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
