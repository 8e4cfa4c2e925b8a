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

// CVESearchSource is a mock type for the CVESearchSource type
type CVESearchSource struct {
	mock.Mock
}

// Search provides a mock function with given fields: ctx, keyword, wanted
func (_m *CVESearchSource) Search(ctx context.Context, keyword string, wanted map[string]struct{}) (map[string]shared.CVEInfo, error) {
	ret := _m.Called(ctx, keyword, wanted)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 map[string]shared.CVEInfo
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, map[string]struct{}) (map[string]shared.CVEInfo, error)); ok {
		return rf(ctx, keyword, wanted)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]shared.CVEInfo)
	}
	r1 = ret.Error(1)
	return r0, r1
}

// NewCVESearchSource creates a new instance of CVESearchSource. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewCVESearchSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *CVESearchSource {
	m := &CVESearchSource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
