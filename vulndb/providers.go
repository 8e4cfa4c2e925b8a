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

package vulndb

import (
	"net/http"

	"github.com/l3montree-dev/fixcurator/shared"
	"go.uber.org/fx"
)

// NewHTTPClient returns the client shared by all vulnerability sources.
// Responses are cached for HTTP_CACHE_TTL unless it is zero.
func NewHTTPClient(cfg shared.Config) *http.Client {
	var transport http.RoundTripper = &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: 3, // only allow 3 concurrent connections to the same host
	}
	if cfg.HTTPCacheTTL > 0 {
		transport = NewCachingTransport(transport, 512, cfg.HTTPCacheTTL)
	}
	return &http.Client{Transport: transport}
}

var Module = fx.Module("vulndb",
	fx.Provide(NewHTTPClient),
	fx.Provide(fx.Annotate(NewNVDServiceFromConfig, fx.As(new(shared.CVESearchSource)))),
	fx.Provide(fx.Annotate(NewRedHatServiceFromConfig, fx.As(new(shared.CVELookupSource)))),
	fx.Provide(fx.Annotate(NewEnrichmentClientFromConfig, fx.As(new(shared.CVEEnricher)))),
)
