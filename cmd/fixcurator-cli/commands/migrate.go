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
	"log/slog"

	"github.com/fatih/color"
	"github.com/l3montree-dev/fixcurator/database"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/spf13/cobra"
)

func NewMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Will run the database migrations",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.NewConfig()
			if err != nil {
				return err
			}
			db, err := database.NewDB(cfg)
			if err != nil {
				slog.Error("could not connect to database", "err", err)
				return err
			}
			if err := database.RunMigrationsWithDB(db); err != nil {
				return err
			}

			if version, dirty, err := database.GetMigrationVersionWithDB(db); err == nil {
				color.Green("database migrated to version %d (dirty: %t)", version, dirty)
			} else {
				color.Green("database migrated")
			}
			return nil
		},
	}
}
