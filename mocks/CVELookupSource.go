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

// CVELookupSource is a mock type for the CVELookupSource type
type CVELookupSource struct {
	mock.Mock
}

// Lookup provides a mock function with given fields: ctx, id
func (_m *CVELookupSource) Lookup(ctx context.Context, id string) (shared.CVEInfo, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Lookup")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string) (shared.CVEInfo, error)); ok {
		return rf(ctx, id)
	}
	return ret.Get(0).(shared.CVEInfo), ret.Error(1)
}

// Summaries provides a mock function with given fields: ctx, ids
func (_m *CVELookupSource) Summaries(ctx context.Context, ids []string) (map[string]string, error) {
	ret := _m.Called(ctx, ids)

	if len(ret) == 0 {
		panic("no return value specified for Summaries")
	}

	var r0 map[string]string
	if rf, ok := ret.Get(0).(func(context.Context, []string) (map[string]string, error)); ok {
		return rf(ctx, ids)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]string)
	}
	return r0, ret.Error(1)
}

// NewCVELookupSource creates a new instance of CVELookupSource. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewCVELookupSource(t interface {
	mock.TestingT
	Cleanup(func())
}) *CVELookupSource {
	m := &CVELookupSource{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
