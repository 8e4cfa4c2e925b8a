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
	"context"
	"log/slog"

	"github.com/l3montree-dev/fixcurator/shared"
)

// EnrichmentClient combines a keyword search with per id lookups and a summary source.
type EnrichmentClient struct {
	search            shared.CVESearchSource
	lookup            shared.CVELookupSource
	fallbackThreshold int
}

var _ shared.CVEEnricher = (*EnrichmentClient)(nil)

func NewEnrichmentClient(search shared.CVESearchSource, lookup shared.CVELookupSource, fallbackThreshold int) *EnrichmentClient {
	return &EnrichmentClient{
		search:            search,
		lookup:            lookup,
		fallbackThreshold: fallbackThreshold,
	}
}

func NewEnrichmentClientFromConfig(cfg shared.Config, search shared.CVESearchSource, lookup shared.CVELookupSource) *EnrichmentClient {
	return NewEnrichmentClient(search, lookup, cfg.FallbackThreshold)
}

func (c *EnrichmentClient) Enrich(ctx context.Context, hint string, ids []string) (map[string]shared.CVEInfo, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return map[string]shared.CVEInfo{}, nil
	}

	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	res, err := c.search.Search(ctx, hint, wanted)
	if err != nil {
		return nil, err
	}

	unresolved := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := res[id]; !ok {
			unresolved = append(unresolved, id)
		}
	}

	// the per id endpoint is slow, only use it for a handful of leftovers
	if len(unresolved) > 0 && len(unresolved) <= c.fallbackThreshold {
		slog.Info("resolving leftover cves one by one", "count", len(unresolved))
		for _, id := range unresolved {
			info, err := c.lookup.Lookup(ctx, id)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				slog.Debug("could not resolve cve", "cve", id, "err", err)
				continue
			}
			res[id] = info
		}
	}

	summaries, err := c.lookup.Summaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, info := range res {
		if summary, ok := summaries[id]; ok {
			info.Summary = summary
			res[id] = info
		}
	}

	slog.Info("enriched cves", "hint", hint, "requested", len(ids), "resolved", len(res))
	return res, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
