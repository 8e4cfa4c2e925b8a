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

package daemons

import (
	"context"

	"github.com/l3montree-dev/fixcurator/shared"
	"go.uber.org/fx"
)

var Module = fx.Module("daemons",
	fx.Provide(fx.Annotate(NewIngestionRunnerFromConfig, fx.As(new(shared.IngestionQueue)), fx.As(new(shared.DaemonRunner)))),
	fx.Invoke(func(lc fx.Lifecycle, runner shared.DaemonRunner) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error {
				runner.Start()
				return nil
			},
			OnStop: func(context.Context) error {
				runner.Stop()
				return nil
			},
		})
	}),
)
