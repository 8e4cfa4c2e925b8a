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

package shared

import (
	"strconv"

	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/pkg/errors"
)

type Session interface {
	GetUserID() string
}

type session struct {
	userID string
}

func (s session) GetUserID() string {
	return s.userID
}

func NewSession(userID string) Session {
	return session{userID: userID}
}

func GetSession(ctx Context) Session {
	return ctx.Get("session").(Session)
}

func SetSession(ctx Context, s Session) {
	ctx.Set("session", s)
}

func GetProject(ctx Context) models.Project {
	return ctx.Get("project").(models.Project)
}

func SetProject(ctx Context, project models.Project) {
	ctx.Set("project", project)
}

func GetMembership(ctx Context) models.ProjectMember {
	return ctx.Get("membership").(models.ProjectMember)
}

func SetMembership(ctx Context, member models.ProjectMember) {
	ctx.Set("membership", member)
}

func parseIDParam(ctx Context, name string) (int64, error) {
	raw := SanitizeParam(ctx.Param(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

func GetProjectID(ctx Context) (int64, error) {
	return parseIDParam(ctx, "projectID")
}

func GetCommitID(ctx Context) (int64, error) {
	return parseIDParam(ctx, "commitID")
}

func GetDiffID(ctx Context) (int64, error) {
	return parseIDParam(ctx, "diffID")
}

type PageInfo struct {
	PageSize int `json:"pageSize"`
	Page     int `json:"page"`
}

func (p PageInfo) ApplyOnDB(db DB) DB {
	return db.Offset((p.Page - 1) * p.PageSize).Limit(p.PageSize)
}

type Paged[T any] struct {
	PageInfo
	Total int64 `json:"total"`
	Data  []T   `json:"data"`
}

func NewPaged[T any](pageInfo PageInfo, total int64, data []T) Paged[T] {
	return Paged[T]{
		PageInfo: pageInfo,
		Total:    total,
		Data:     data,
	}
}

func GetPageInfo(ctx Context) PageInfo {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(ctx.QueryParam("pageSize"))
	switch {
	case pageSize > 100:
		pageSize = 100
	case pageSize <= 0:
		pageSize = 20
	}

	return PageInfo{
		Page:     page,
		PageSize: pageSize,
	}
}
