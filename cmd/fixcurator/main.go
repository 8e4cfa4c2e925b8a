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

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/l3montree-dev/fixcurator/accesscontrol"
	"github.com/l3montree-dev/fixcurator/controllers"
	"github.com/l3montree-dev/fixcurator/daemons"
	"github.com/l3montree-dev/fixcurator/database"
	"github.com/l3montree-dev/fixcurator/database/repositories"
	"github.com/l3montree-dev/fixcurator/middlewares"
	"github.com/l3montree-dev/fixcurator/monitoring"
	"github.com/l3montree-dev/fixcurator/router"
	"github.com/l3montree-dev/fixcurator/services"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/l3montree-dev/fixcurator/vulndb"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var release string // Will be filled at build time

func newServer(lc fx.Lifecycle, cfg shared.Config) *echo.Echo {
	e := middlewares.Server(cfg)
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				addr := fmt.Sprintf(":%d", cfg.Port)
				slog.Info("starting server", "addr", addr)
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					monitoring.Alert("server stopped unexpectedly", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
	return e
}

func main() {
	shared.LoadConfig() // nolint: errcheck
	shared.InitLogger()

	cfg, err := shared.NewConfig()
	if err != nil {
		slog.Error("could not load configuration", "err", err)
		os.Exit(1)
	}

	if err := monitoring.InitSentry(cfg.ErrorTrackingDSN, cfg.Environment, release); err != nil {
		slog.Error("could not initialize error tracking", "err", err)
	}
	defer monitoring.Flush()
	defer func() {
		if r := recover(); r != nil {
			monitoring.RecoverAndAlert("fixcurator panicked", r)
			monitoring.Flush()
			panic(r)
		}
	}()

	db, err := database.NewDB(cfg)
	if err != nil {
		slog.Error(err.Error())
		panic(errors.New("Failed to setup database connection"))
	}

	if os.Getenv("DISABLE_AUTOMIGRATE") != "true" {
		slog.Info("running database migrations...")
		if err := database.RunMigrationsWithDB(db); err != nil {
			slog.Error("failed to run database migrations", "error", err)
			panic(errors.New("Failed to run database migrations"))
		}
	} else {
		slog.Info("automatic migrations disabled via DISABLE_AUTOMIGRATE=true")
	}

	fx.New(
		fx.Supply(cfg),
		fx.Supply(db),
		fx.Provide(newServer),
		repositories.Module,
		vulndb.Module,
		services.ServiceModule,
		accesscontrol.AccessControlModule,
		daemons.Module,
		controllers.ControllerModule,
		router.RouterModule,

		// we need to invoke all routers to register their routes
		fx.Invoke(func(SessionRouter router.SessionRouter) {}),
		fx.Invoke(func(ProjectRouter router.ProjectRouter) {}),
		fx.Invoke(func(server *echo.Echo) {}),
	).Run()
}
