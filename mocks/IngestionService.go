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

// IngestionService is a mock type for the IngestionService type
type IngestionService struct {
	mock.Mock
}

// Ingest provides a mock function with given fields: ctx, req
func (_m *IngestionService) Ingest(ctx context.Context, req shared.IngestionRequest) (int64, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for Ingest")
	}

	if rf, ok := ret.Get(0).(func(context.Context, shared.IngestionRequest) (int64, error)); ok {
		return rf(ctx, req)
	}
	return ret.Get(0).(int64), ret.Error(1)
}

// NewIngestionService creates a new instance of IngestionService. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewIngestionService(t interface {
	mock.TestingT
	Cleanup(func())
}) *IngestionService {
	m := &IngestionService{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
