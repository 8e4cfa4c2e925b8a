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
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func filterDescription(project models.Project) string {
	if project.FilterMode == models.FilterModeGlob {
		return strings.Join(project.GlobPatterns, ", ")
	}
	if len(project.Extensions) == 0 {
		return "*"
	}
	return strings.Join(project.Extensions, ", ")
}

func renderProjects(projects []models.Project) string {
	tw := table.NewWriter()
	tw.AppendHeader(table.Row{"ID", "Name", "Repository", "Mode", "Filter", "Commits"})
	for _, p := range projects {
		tw.AppendRow(table.Row{p.ID, p.Name, text.FgBlue.Sprint(p.RepositoryURL), p.FilterMode, filterDescription(p), p.CommitCount})
	}
	return tw.Render()
}

func NewProjectsCommand() *cobra.Command {
	projects := &cobra.Command{
		Use:   "projects",
		Short: "Will list the projects of a user",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, _ := cmd.Flags().GetString("user")

			var projectService shared.ProjectService
			return withServices(cmd.Context(), func() error {
				projects, err := projectService.ListForUser(cmd.Context(), user)
				if err != nil {
					return errors.Wrap(err, "could not list projects")
				}
				if len(projects) == 0 {
					color.Yellow("no projects found for %s", user)
					return nil
				}
				fmt.Println(renderProjects(projects))
				return nil
			}, &projectService)
		},
	}
	projects.Flags().String("user", "cli", "user id whose projects are listed")
	return projects
}
