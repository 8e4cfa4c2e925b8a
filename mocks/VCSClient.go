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

	mock "github.com/stretchr/testify/mock"
)

// VCSClient is a mock type for the VCSClient type
type VCSClient struct {
	mock.Mock
}

// LocalPath provides a mock function with given fields: repositoryURL
func (_m *VCSClient) LocalPath(repositoryURL string) (string, error) {
	ret := _m.Called(repositoryURL)

	if len(ret) == 0 {
		panic("no return value specified for LocalPath")
	}

	if rf, ok := ret.Get(0).(func(string) (string, error)); ok {
		return rf(repositoryURL)
	}
	return ret.String(0), ret.Error(1)
}

// CloneOrPull provides a mock function with given fields: ctx, repositoryURL, dir
func (_m *VCSClient) CloneOrPull(ctx context.Context, repositoryURL string, dir string) error {
	ret := _m.Called(ctx, repositoryURL, dir)

	if len(ret) == 0 {
		panic("no return value specified for CloneOrPull")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string) error); ok {
		return rf(ctx, repositoryURL, dir)
	}
	return ret.Error(0)
}

// Diff provides a mock function with given fields: ctx, dir, hash, pathspecs
func (_m *VCSClient) Diff(ctx context.Context, dir string, hash string, pathspecs []string) (string, error) {
	ret := _m.Called(ctx, dir, hash, pathspecs)

	if len(ret) == 0 {
		panic("no return value specified for Diff")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, string, []string) (string, error)); ok {
		return rf(ctx, dir, hash, pathspecs)
	}
	return ret.String(0), ret.Error(1)
}

// ChangedFiles provides a mock function with given fields: ctx, dir, hash
func (_m *VCSClient) ChangedFiles(ctx context.Context, dir string, hash string) ([]string, error) {
	ret := _m.Called(ctx, dir, hash)

	if len(ret) == 0 {
		panic("no return value specified for ChangedFiles")
	}

	var r0 []string
	if rf, ok := ret.Get(0).(func(context.Context, string, string) ([]string, error)); ok {
		return rf(ctx, dir, hash)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]string)
	}
	return r0, ret.Error(1)
}

// ParentHashes provides a mock function with given fields: ctx, dir, hashes
func (_m *VCSClient) ParentHashes(ctx context.Context, dir string, hashes []string) (map[string]string, error) {
	ret := _m.Called(ctx, dir, hashes)

	if len(ret) == 0 {
		panic("no return value specified for ParentHashes")
	}

	var r0 map[string]string
	if rf, ok := ret.Get(0).(func(context.Context, string, []string) (map[string]string, error)); ok {
		return rf(ctx, dir, hashes)
	}
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(map[string]string)
	}
	return r0, ret.Error(1)
}

// NewVCSClient creates a new instance of VCSClient. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewVCSClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *VCSClient {
	m := &VCSClient{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
