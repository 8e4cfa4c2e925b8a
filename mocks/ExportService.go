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
	"io"

	"github.com/google/uuid"
	"github.com/l3montree-dev/fixcurator/shared"
	mock "github.com/stretchr/testify/mock"
)

// ExportService is a mock type for the ExportService type
type ExportService struct {
	mock.Mock
}

// Export provides a mock function with given fields: ctx, projectID
func (_m *ExportService) Export(ctx context.Context, projectID int64) (string, error) {
	ret := _m.Called(ctx, projectID)

	if len(ret) == 0 {
		panic("no return value specified for Export")
	}

	if rf, ok := ret.Get(0).(func(context.Context, int64) (string, error)); ok {
		return rf(ctx, projectID)
	}
	return ret.String(0), ret.Error(1)
}

// CreateExport provides a mock function with given fields: ctx, projectID
func (_m *ExportService) CreateExport(ctx context.Context, projectID int64) (shared.ExportHandle, error) {
	ret := _m.Called(ctx, projectID)

	if len(ret) == 0 {
		panic("no return value specified for CreateExport")
	}

	if rf, ok := ret.Get(0).(func(context.Context, int64) (shared.ExportHandle, error)); ok {
		return rf(ctx, projectID)
	}
	return ret.Get(0).(shared.ExportHandle), ret.Error(1)
}

// Open provides a mock function with given fields: id
func (_m *ExportService) Open(id uuid.UUID) (io.ReadCloser, shared.ExportHandle, error) {
	ret := _m.Called(id)

	if len(ret) == 0 {
		panic("no return value specified for Open")
	}

	if rf, ok := ret.Get(0).(func(uuid.UUID) (io.ReadCloser, shared.ExportHandle, error)); ok {
		return rf(id)
	}
	var r0 io.ReadCloser
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(io.ReadCloser)
	}
	return r0, ret.Get(1).(shared.ExportHandle), ret.Error(2)
}

// NewExportService creates a new instance of ExportService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewExportService(t interface {
	mock.TestingT
	Cleanup(func())
}) *ExportService {
	m := &ExportService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
