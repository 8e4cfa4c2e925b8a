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
	"slices"
	"strings"
	"time"

	"github.com/l3montree-dev/fixcurator/monitoring"
	"github.com/l3montree-dev/fixcurator/shared"
	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

var errNVDNotFound = errors.New("nvd returned 404")

type NVDService struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	// one page per tick
	limiter    *rate.Limiter
	retryDelay time.Duration
	maxRetries int
}

var _ shared.CVESearchSource = (*NVDService)(nil)

func NewNVDService(httpClient *http.Client, baseURL, apiKey string, pageDelay, retryDelay time.Duration, maxRetries int) *NVDService {
	return &NVDService{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		limiter:    newLimiter(pageDelay),
		retryDelay: retryDelay,
		maxRetries: maxRetries,
	}
}

func NewNVDServiceFromConfig(cfg shared.Config, httpClient *http.Client) *NVDService {
	return NewNVDService(httpClient, cfg.NVDBaseURL, cfg.NVDAPIKey, cfg.NVDPageDelay, cfg.NVDRetryDelay, cfg.NVDMaxRetries)
}

func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// Search pages through the keyword search and keeps the wanted entries.
// A page which still fails after all retries ends the search; the ids not seen so far stay unresolved.
func (s *NVDService) Search(ctx context.Context, keyword string, wanted map[string]struct{}) (map[string]shared.CVEInfo, error) {
	res := make(map[string]shared.CVEInfo)
	if keyword == "" || len(wanted) == 0 {
		return res, nil
	}

	startIndex := 0
	for {
		if err := s.limiter.Wait(ctx); err != nil {
			return res, err
		}

		resp, err := s.fetchPage(ctx, keyword, startIndex)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			if !errors.Is(err, errNVDNotFound) {
				slog.Warn("giving up on nvd keyword search", "keyword", keyword, "startIndex", startIndex, "err", err)
			}
			return res, nil
		}

		for _, v := range resp.Vulnerabilities {
			if _, ok := wanted[v.Cve.ID]; ok {
				res[v.Cve.ID] = fromNVDCVE(v.Cve)
			}
		}

		if resp.ResultsPerPage == 0 {
			return res, nil
		}
		startIndex = resp.StartIndex + resp.ResultsPerPage
		if startIndex >= resp.TotalResults || len(res) == len(wanted) {
			return res, nil
		}
		slog.Debug("fetching next nvd page", "keyword", keyword, "startIndex", startIndex, "totalResults", resp.TotalResults)
	}
}

// fetchPage retries up to maxRetries times with a fixed delay. A 404 is never retried.
func (s *NVDService) fetchPage(ctx context.Context, keyword string, startIndex int) (nistResponse, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nistResponse{}, errors.Wrap(err, "invalid nvd base url")
	}
	q := u.Query()
	q.Set("keywordSearch", keyword)
	q.Set("startIndex", fmt.Sprint(startIndex))
	u.RawQuery = q.Encode()

	var lastErr error
	for try := 0; try <= s.maxRetries; try++ {
		if try > 0 {
			slog.Warn("could not fetch from nvd, retrying", "try", try, "err", lastErr)
			if err := sleep(ctx, s.retryDelay); err != nil {
				return nistResponse{}, err
			}
		}

		resp, err := s.doRequest(ctx, u.String())
		if err == nil {
			monitoring.EnrichmentRequestsTotal.WithLabelValues("nvd", "success").Inc()
			return resp, nil
		}
		if errors.Is(err, errNVDNotFound) {
			monitoring.EnrichmentRequestsTotal.WithLabelValues("nvd", "not_found").Inc()
			return nistResponse{}, err
		}
		monitoring.EnrichmentRequestsTotal.WithLabelValues("nvd", "error").Inc()
		if ctx.Err() != nil {
			return nistResponse{}, ctx.Err()
		}
		lastErr = err
	}
	return nistResponse{}, lastErr
}

func (s *NVDService) doRequest(ctx context.Context, u string) (nistResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nistResponse{}, errors.Wrap(err, "could not create request before fetching from NVD")
	}
	if s.apiKey != "" {
		req.Header.Set("apiKey", s.apiKey)
	}

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nistResponse{}, errors.Wrap(err, "could not fetch from NVD")
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return nistResponse{}, errNVDNotFound
	case res.StatusCode != http.StatusOK:
		return nistResponse{}, fmt.Errorf("could not fetch from NVD. Status code: %d", res.StatusCode)
	}

	var resp nistResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nistResponse{}, errors.Wrap(err, "could not decode response from NVD")
	}
	return resp, nil
}

func pickCVSSMetric(nvdCVE nvdCVE) nvdCvssData {
	for _, metrics := range [][]nvdCvssMetric{
		nvdCVE.Metrics.CvssMetricV40,
		nvdCVE.Metrics.CvssMetricV31,
		nvdCVE.Metrics.CvssMetricV30,
		nvdCVE.Metrics.CvssMetricV2,
	} {
		if len(metrics) > 0 {
			return metrics[0].CvssData
		}
	}
	return nvdCvssData{}
}

func fromNVDCVE(nistCVE nvdCVE) shared.CVEInfo {
	description := ""
	for _, d := range nistCVE.Descriptions {
		if d.Lang == "en" {
			description = d.Value
			break
		}
	}
	if description == "" && len(nistCVE.Descriptions) > 0 {
		description = nistCVE.Descriptions[0].Value
	}

	weaknesses := []string{}
	for _, w := range nistCVE.Weaknesses {
		for _, d := range w.Description {
			// the nist might give us other weaknesses like NVD-CWE-Other
			if !strings.HasPrefix(d.Value, "CWE-") {
				continue
			}
			if !slices.Contains(weaknesses, d.Value) {
				weaknesses = append(weaknesses, d.Value)
			}
		}
	}

	metric := pickCVSSMetric(nistCVE)
	return shared.CVEInfo{
		Description: description,
		Score:       resolveScore(metric.BaseScore, metric.VectorString),
		Vector:      metric.VectorString,
		Weaknesses:  weaknesses,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
