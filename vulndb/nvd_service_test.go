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
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nvdEntry(id string, score float64, vector string, cwes ...string) map[string]any {
	weaknesses := []map[string]any{}
	for _, cwe := range cwes {
		weaknesses = append(weaknesses, map[string]any{
			"source":      "nvd@nist.gov",
			"type":        "Primary",
			"description": []map[string]string{{"lang": "en", "value": cwe}},
		})
	}
	metrics := map[string]any{}
	if vector != "" {
		metrics["cvssMetricV31"] = []map[string]any{{
			"source":   "nvd@nist.gov",
			"type":     "Primary",
			"cvssData": map[string]any{"version": "3.1", "vectorString": vector, "baseScore": score},
		}}
	}
	return map[string]any{"cve": map[string]any{
		"id":           id,
		"descriptions": []map[string]string{{"lang": "es", "value": "otro"}, {"lang": "en", "value": "description of " + id}},
		"metrics":      metrics,
		"weaknesses":   weaknesses,
	}}
}

func writePage(w http.ResponseWriter, startIndex, perPage, total int, entries ...map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"resultsPerPage":  perPage,
		"startIndex":      startIndex,
		"totalResults":    total,
		"vulnerabilities": entries,
	})
}

func wantedSet(ids ...string) map[string]struct{} {
	res := map[string]struct{}{}
	for _, id := range ids {
		res[id] = struct{}{}
	}
	return res
}

func TestNVDServiceSearch(t *testing.T) {
	t.Run("should page through all results and keep only the wanted ids", func(t *testing.T) {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			assert.Equal(t, "my repo", r.URL.Query().Get("keywordSearch"))
			start, _ := strconv.Atoi(r.URL.Query().Get("startIndex"))
			switch start {
			case 0:
				writePage(w, 0, 2, 3,
					nvdEntry("CVE-2024-0001", 7.5, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:N/A:N", "CWE-79", "NVD-CWE-Other", "CWE-79"),
					nvdEntry("CVE-2024-9999", 1, ""))
			case 2:
				writePage(w, 2, 2, 3, nvdEntry("CVE-2024-0002", 0, ""))
			default:
				t.Errorf("unexpected start index %d", start)
			}
		}))
		defer srv.Close()

		s := NewNVDService(srv.Client(), srv.URL, "", 0, 0, 3)
		res, err := s.Search(t.Context(), "my repo", wantedSet("CVE-2024-0001", "CVE-2024-0002", "CVE-2024-0003"))
		require.NoError(t, err)

		assert.Equal(t, int32(2), requests.Load())
		require.Len(t, res, 2)
		first := res["CVE-2024-0001"]
		assert.Equal(t, "description of CVE-2024-0001", first.Description)
		require.NotNil(t, first.Score)
		assert.InDelta(t, 7.5, *first.Score, 0.001)
		assert.Equal(t, []string{"CWE-79"}, first.Weaknesses)
		assert.Nil(t, res["CVE-2024-0002"].Score)
	})

	t.Run("should retry a failing page with a bounded number of tries", func(t *testing.T) {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requests.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			writePage(w, 0, 1, 1, nvdEntry("CVE-2024-0001", 5, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:L/I:N/A:N"))
		}))
		defer srv.Close()

		s := NewNVDService(srv.Client(), srv.URL, "", 0, 0, 3)
		res, err := s.Search(t.Context(), "repo", wantedSet("CVE-2024-0001"))
		require.NoError(t, err)
		assert.Equal(t, int32(3), requests.Load())
		assert.Contains(t, res, "CVE-2024-0001")
	})

	t.Run("should give up after the retries are exhausted", func(t *testing.T) {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusForbidden)
		}))
		defer srv.Close()

		s := NewNVDService(srv.Client(), srv.URL, "", 0, 0, 3)
		res, err := s.Search(t.Context(), "repo", wantedSet("CVE-2024-0001"))
		require.NoError(t, err)
		assert.Empty(t, res)
		assert.Equal(t, int32(4), requests.Load())
	})

	t.Run("should stop immediately on a 404", func(t *testing.T) {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		s := NewNVDService(srv.Client(), srv.URL, "", 0, 0, 3)
		res, err := s.Search(t.Context(), "repo", wantedSet("CVE-2024-0001"))
		require.NoError(t, err)
		assert.Empty(t, res)
		assert.Equal(t, int32(1), requests.Load())
	})

	t.Run("should send the api key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "secret", r.Header.Get("apiKey"))
			writePage(w, 0, 0, 0)
		}))
		defer srv.Close()

		s := NewNVDService(srv.Client(), srv.URL, "secret", 0, 0, 0)
		_, err := s.Search(t.Context(), "repo", wantedSet("CVE-2024-0001"))
		require.NoError(t, err)
	})

	t.Run("should not query without keyword or ids", func(t *testing.T) {
		s := NewNVDService(http.DefaultClient, "http://127.0.0.1:0", "", 0, 0, 0)
		res, err := s.Search(t.Context(), "", wantedSet("CVE-2024-0001"))
		require.NoError(t, err)
		assert.Empty(t, res)
		res, err = s.Search(t.Context(), "repo", nil)
		require.NoError(t, err)
		assert.Empty(t, res)
	})
}

func TestScoreFromVector(t *testing.T) {
	cases := []struct {
		vector string
		score  float64
	}{
		{"CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 9.8},
		{"CVSS:3.0/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H", 9.8},
		{"AV:N/AC:L/Au:N/C:P/I:P/A:P", 7.5},
	}
	for _, c := range cases {
		t.Run(c.vector, func(t *testing.T) {
			score, ok := ScoreFromVector(c.vector)
			require.True(t, ok)
			assert.InDelta(t, c.score, score, 0.001)
		})
	}

	_, ok := ScoreFromVector("garbage")
	assert.False(t, ok)
	_, ok = ScoreFromVector("")
	assert.False(t, ok)

	s := resolveScore(0, "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H")
	require.NotNil(t, s)
	assert.Equal(t, "9.8", fmt.Sprintf("%.1f", *s))
}
