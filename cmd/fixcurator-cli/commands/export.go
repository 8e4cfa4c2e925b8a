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
	"strconv"

	"github.com/fatih/color"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func parseProjectID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid project id %q", raw)
	}
	return id, nil
}

func NewExportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "export <project-id>",
		Short: "Will write the voted diffs of a project to EXPORTS_DIR",
		Long:  `Exports written by the cli are not registered for download and are not removed automatically.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := parseProjectID(args[0])
			if err != nil {
				return err
			}

			var exports shared.ExportService
			return withServices(cmd.Context(), func() error {
				path, err := exports.Export(cmd.Context(), projectID)
				if err != nil {
					return errors.Wrap(err, "could not export project")
				}
				color.Green("wrote %s", path)
				return nil
			}, &exports)
		},
	}
}
