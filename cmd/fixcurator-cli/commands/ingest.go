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
	"time"

	"github.com/fatih/color"
	"github.com/l3montree-dev/fixcurator/database/models"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func NewIngestCommand() *cobra.Command {
	ingest := &cobra.Command{
		Use:   "ingest <repository-url>",
		Short: "Will clone a repository and store its vulnerability fixing commits as a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			owner, _ := cmd.Flags().GetString("owner")
			extensions, _ := cmd.Flags().GetStringSlice("extensions")
			globs, _ := cmd.Flags().GetStringSlice("glob")

			req := shared.IngestionRequest{
				UserID:        owner,
				RepositoryURL: args[0],
				Name:          name,
				FilterMode:    models.FilterModeExtension,
				Extensions:    extensions,
			}
			if len(globs) > 0 {
				req.FilterMode = models.FilterModeGlob
				req.GlobPatterns = globs
			}

			var ingestion shared.IngestionService
			return withServices(cmd.Context(), func() error {
				start := time.Now()
				projectID, err := ingestion.Ingest(cmd.Context(), req)
				if err != nil {
					color.Red("ingestion failed: %s", err)
					return errors.Wrap(err, "could not ingest repository")
				}
				color.Green("created project %s in %s", strconv.FormatInt(projectID, 10), time.Since(start).Round(time.Millisecond))
				return nil
			}, &ingestion)
		},
	}

	ingest.Flags().String("name", "", "name of the project")
	ingest.Flags().String("owner", "cli", "user id of the project owner")
	ingest.Flags().StringSlice("extensions", nil, "file extensions to keep, e.g. py,js. Empty keeps everything")
	ingest.Flags().StringSlice("glob", nil, "glob patterns of the paths to keep. Switches the project to glob mode")
	ingest.MarkFlagRequired("name") // nolint: errcheck
	return ingest
}
