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

package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/l3montree-dev/fixcurator/monitoring"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
)

func allowedOrigins(raw string) []string {
	origins := []string{}
	for origin := range strings.SplitSeq(raw, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func recoverMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					monitoring.RecoverAndAlert("request handler panicked", r)
					err = echo.NewHTTPError(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)).WithInternal(fmt.Errorf("%v", r))
				}
			}()
			return next(ctx)
		}
	}
}

// ToHTTPError maps the domain errors to their status codes.
// Errors which are already http errors pass through unchanged.
func ToHTTPError(err error) *echo.HTTPError {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, shared.ErrInvalidInput):
		code = http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, shared.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, shared.ErrFilterLocked), errors.Is(err, shared.ErrAlreadyMember):
		code = http.StatusConflict
	case errors.Is(err, shared.ErrInviteUsed):
		code = http.StatusGone
	}

	message := http.StatusText(code)
	if code != http.StatusInternalServerError {
		message = err.Error()
	}
	return echo.NewHTTPError(code, message).WithInternal(err)
}

func registerMiddlewares(e *echo.Echo, cfg shared.Config) {
	e.Pre(middleware.AddTrailingSlash())
	e.Use(middleware.CORSWithConfig(
		middleware.CORSConfig{
			AllowOrigins:     allowedOrigins(cfg.AllowedOrigins),
			AllowHeaders:     middleware.DefaultCORSConfig.AllowHeaders,
			AllowMethods:     middleware.DefaultCORSConfig.AllowMethods,
			AllowCredentials: true,
		},
	))

	e.Use(logger())

	e.Use(recoverMiddleware())

	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		// do the logging straight inside the error handler
		// this keeps controller methods clean
		slog.Error(err.Error(), "method", ctx.Request().Method, "path", ctx.Request().URL)

		if ctx.Response().Committed {
			return
		}

		he := ToHTTPError(err)
		message := he.Message
		if m, ok := message.(string); ok {
			message = echo.Map{"message": m}
		}

		if ctx.Request().Method == http.MethodHead {
			if err := ctx.NoContent(he.Code); err != nil {
				slog.Error("could not send error response", "error", err)
			}
			return
		}
		if err := ctx.JSON(he.Code, message); err != nil {
			slog.Error("could not send error response", "error", err)
		}
	}
}

func Server(cfg shared.Config) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(99)
	registerMiddlewares(e, cfg)
	return e
}
