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

package commands

import (
	"testing"

	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/stretchr/testify/assert"
)

func TestParseProjectID(t *testing.T) {
	id, err := parseProjectID("42")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-1", "abc"} {
		_, err := parseProjectID(raw)
		assert.Error(t, err, raw)
	}
}

func TestRenderProjects(t *testing.T) {
	projects := []models.Project{
		{Model: models.Model{ID: 1}, Name: "demo", RepositoryURL: "https://example.com/demo.git", FilterMode: models.FilterModeExtension, Extensions: []string{"js", "py"}, CommitCount: 3},
		{Model: models.Model{ID: 2}, Name: "paths", RepositoryURL: "https://example.com/paths.git", FilterMode: models.FilterModeGlob, GlobPatterns: []string{"src/**"}},
		{Model: models.Model{ID: 3}, Name: "all", RepositoryURL: "https://example.com/all.git", FilterMode: models.FilterModeExtension},
	}

	assert.Equal(t, "js, py", filterDescription(projects[0]))
	assert.Equal(t, "src/**", filterDescription(projects[1]))
	assert.Equal(t, "*", filterDescription(projects[2]))

	out := renderProjects(projects)
	assert.Contains(t, out, "demo")
	assert.Contains(t, out, "src/**")
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := GetRootCmd()
	root.AddCommand(NewIngestCommand(), NewTokenCommand(), NewReflagCommand())

	ingest, _, err := root.Find([]string{"ingest"})
	assert.NoError(t, err)
	assert.NotNil(t, ingest.Flags().Lookup("glob"))

	token, _, err := root.Find([]string{"token"})
	assert.NoError(t, err)
	assert.NotNil(t, token.Flags().Lookup("ttl"))

	reflag, _, err := root.Find([]string{"reflag"})
	assert.NoError(t, err)
	assert.NotNil(t, reflag.Flags().Lookup("glob"))
}
