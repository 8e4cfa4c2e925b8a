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
	"github.com/fatih/color"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewReflagCommand() *cobra.Command {
	reflag := &cobra.Command{
		Use:   "reflag <project-id>",
		Short: "Will replace the filter of a project and recompute which diffs are suitable",
		Long:  `Extension projects take --extensions. Glob projects take --glob and move commits between matched and unmatched.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseProjectID(args[0])
			if err != nil {
				return err
			}
			extensions, _ := cmd.Flags().GetStringSlice("extensions")
			globs, _ := cmd.Flags().GetStringSlice("glob")

			var projectRepository shared.ProjectRepository
			var projectService shared.ProjectService
			var globFilterService shared.GlobFilterService
			return withServices(cmd.Context(), func() error {
				project, err := projectRepository.Read(cmd.Context(), projectID)
				if err != nil {
					return errors.Wrap(err, "could not read project")
				}

				if len(globs) > 0 {
					project, res, err := globFilterService.UpdatePatterns(cmd.Context(), project, globs)
					if err != nil {
						return errors.Wrap(err, "could not update glob patterns")
					}
					color.Green("patterns of %s are now %v, %d commits promoted, %d demoted", project.Name, []string(project.GlobPatterns), res.Promoted, res.Demoted)
					return nil
				}

				project, changed, err := projectService.UpdateFilter(cmd.Context(), project, extensions)
				if err != nil {
					return errors.Wrap(err, "could not update filter")
				}
				color.Green("filter of %s is now %v, %d diffs changed", project.Name, []string(project.Extensions), changed)
				return nil
			}, &projectRepository, &projectService, &globFilterService)
		},
	}
	reflag.Flags().StringSlice("extensions", nil, "new file extensions, empty keeps everything")
	reflag.Flags().StringSlice("glob", nil, "new glob patterns of a glob project")
	return reflag
}
