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

// CVEEnricher is a mock type for the CVEEnricher type
type CVEEnricher struct {
	mock.Mock
}

// Enrich provides a mock function with given fields: ctx, hint, ids
func (_m *CVEEnricher) Enrich(ctx context.Context, hint string, ids []string) (map[string]shared.CVEInfo, error) {
	ret := _m.Called(ctx, hint, ids)

	if len(ret) == 0 {
		panic("no return value specified for Enrich")
	}

	var r0 map[string]shared.CVEInfo
	if rf, ok := ret.Get(0).(func(context.Context, string, []string) (map[string]shared.CVEInfo, error)); ok {
		return rf(ctx, hint, ids)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]shared.CVEInfo)
	}
	return r0, ret.Error(1)
}

// NewCVEEnricher creates a new instance of CVEEnricher. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewCVEEnricher(t interface {
	mock.TestingT
	Cleanup(func())
}) *CVEEnricher {
	m := &CVEEnricher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
