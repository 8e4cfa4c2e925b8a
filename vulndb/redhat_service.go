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
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/l3montree-dev/fixcurator/monitoring"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var aliasRegex = regexp.MustCompile(`(?i)^CVE-\d{4}-\d{4,7}(?:[^:]*:)?\s*`)
var cweRegex = regexp.MustCompile(`CWE-\d+`)

// StripAlias removes a leading "CVE-xxxx-xxxx[ title]:" prefix from a bugzilla summary.
// Only the text up to the first colon is cut.
func StripAlias(summary string) string {
	if loc := aliasRegex.FindStringIndex(summary); loc != nil {
		return summary[loc[1]:]
	}
	return summary
}

type RedHatService struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	batchSize  int
	retryDelay time.Duration
	maxRetries int
}

var _ shared.CVELookupSource = (*RedHatService)(nil)

func NewRedHatService(httpClient *http.Client, baseURL string, requestDelay time.Duration, batchSize int, retryDelay time.Duration, maxRetries int) *RedHatService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &RedHatService{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		limiter:    newLimiter(requestDelay),
		batchSize:  batchSize,
		retryDelay: retryDelay,
		maxRetries: maxRetries,
	}
}

// NewRedHatServiceFromConfig shares the retry settings with the nvd client.
func NewRedHatServiceFromConfig(cfg shared.Config, httpClient *http.Client) *RedHatService {
	return NewRedHatService(httpClient, cfg.RedHatBaseURL, cfg.RedHatRequestDelay, cfg.RedHatBatchSize, cfg.NVDRetryDelay, cfg.NVDMaxRetries)
}

// Lookup resolves a single id. It does not retry.
func (s *RedHatService) Lookup(ctx context.Context, id string) (shared.CVEInfo, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return shared.CVEInfo{}, err
	}

	var data redhatCVE
	if err := s.getJSON(ctx, fmt.Sprintf("%s/cve/%s.json", s.baseURL, url.PathEscape(id)), &data); err != nil {
		monitoring.EnrichmentRequestsTotal.WithLabelValues("redhat", "error").Inc()
		return shared.CVEInfo{}, err
	}
	monitoring.EnrichmentRequestsTotal.WithLabelValues("redhat", "success").Inc()

	info := shared.CVEInfo{
		Description: strings.TrimSpace(strings.Join(data.Details, "\n")),
		Weaknesses:  []string{},
	}
	if data.Bugzilla != nil {
		info.Summary = StripAlias(data.Bugzilla.Description)
	}

	cvss := data.CVSS3
	if cvss == nil {
		cvss = data.CVSS
	}
	if cvss != nil {
		info.Vector = firstNonEmpty(cvss.ScoringVector, cvss.LegacyVector)
		base, _ := strconv.ParseFloat(firstNonEmpty(cvss.BaseScore, cvss.LegacyScore), 64)
		info.Score = resolveScore(base, info.Vector)
	}

	for _, cwe := range cweRegex.FindAllString(data.CWE, -1) {
		if !slices.Contains(info.Weaknesses, cwe) {
			info.Weaknesses = append(info.Weaknesses, cwe)
		}
	}
	return info, nil
}

// Summaries queries the list endpoint in batches. A batch which still fails after all retries is skipped.
func (s *RedHatService) Summaries(ctx context.Context, ids []string) (map[string]string, error) {
	res := make(map[string]string, len(ids))
	for batch := range slices.Chunk(ids, s.batchSize) {
		entries, err := s.fetchSummaryBatch(ctx, batch)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			slog.Warn("could not fetch redhat summaries", "ids", len(batch), "err", err)
			continue
		}
		for _, e := range entries {
			if e.BugzillaDescription != "" {
				res[e.CVE] = StripAlias(e.BugzillaDescription)
			}
		}
	}
	return res, nil
}

func (s *RedHatService) fetchSummaryBatch(ctx context.Context, ids []string) ([]redhatCVEListEntry, error) {
	u := fmt.Sprintf("%s/cve.json?%s", s.baseURL, url.Values{"ids": {strings.Join(ids, ",")}}.Encode())

	var lastErr error
	for try := 0; try <= s.maxRetries; try++ {
		if try > 0 {
			if err := sleep(ctx, s.retryDelay); err != nil {
				return nil, err
			}
		}
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		var entries []redhatCVEListEntry
		err := s.getJSON(ctx, u, &entries)
		if err == nil {
			monitoring.EnrichmentRequestsTotal.WithLabelValues("redhat", "success").Inc()
			return entries, nil
		}
		monitoring.EnrichmentRequestsTotal.WithLabelValues("redhat", "error").Inc()
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
	}
	return nil, lastErr
}

func (s *RedHatService) getJSON(ctx context.Context, u string, target any) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "could not create request")
	}
	res, err := s.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not fetch from redhat")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("could not fetch from redhat. Status code: %d", res.StatusCode)
	}
	return errors.Wrap(json.NewDecoder(res.Body).Decode(target), "could not decode redhat response")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
