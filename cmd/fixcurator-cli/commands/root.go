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
	"context"

	"github.com/l3montree-dev/fixcurator/database"
	"github.com/l3montree-dev/fixcurator/database/repositories"
	"github.com/l3montree-dev/fixcurator/services"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/l3montree-dev/fixcurator/vulndb"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var rootCmd = &cobra.Command{
	Use:   "fixcurator-cli",
	Short: "Management cli",
	Long:  `The fixcurator cli ingests repositories and exports curated datasets without running the server.`,
}

func GetRootCmd() *cobra.Command {
	return rootCmd
}

// withServices starts the service graph without http server and daemons, populates targets and runs fn.
func withServices(ctx context.Context, fn func() error, targets ...any) error {
	app := fx.New(
		fx.NopLogger,
		fx.Provide(shared.NewConfig),
		fx.Provide(database.NewDB),
		repositories.Module,
		vulndb.Module,
		services.ServiceModule,
		fx.Populate(targets...),
	)
	if err := app.Err(); err != nil {
		return errors.Wrap(err, "could not build application")
	}
	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "could not start application")
	}
	defer app.Stop(context.Background()) // nolint: errcheck

	return fn()
}
