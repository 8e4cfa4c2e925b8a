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
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripAlias(t *testing.T) {
	assert.Equal(t, "buffer overflow in parser", StripAlias("CVE-2024-1234 libfoo: buffer overflow in parser"))
	assert.Equal(t, "heap overflow", StripAlias("cve-2024-12345 heap overflow"))
	assert.Equal(t, "no alias here", StripAlias("no alias here"))
	assert.Equal(t, "heartbleed read overrun", StripAlias("CVE-2014-0160: heartbleed read overrun"))
	assert.Equal(t, "use-after-free: in foo", StripAlias("CVE-2024-1234 kernel: use-after-free: in foo"))
	assert.Equal(t, "kernel: CVE-2024-1234 x", StripAlias("kernel: CVE-2024-1234 x"))
}

func TestRedHatLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/cve/CVE-2024-0001.json":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"name":     "CVE-2024-0001",
				"details":  []string{"A flaw was found."},
				"bugzilla": map[string]string{"description": "CVE-2024-0001 libfoo: use after free"},
				"cvss3": map[string]string{
					"cvss3_base_score":     "8.1",
					"cvss3_scoring_vector": "CVSS:3.1/AV:N/AC:H/PR:N/UI:N/S:U/C:H/I:H/A:H",
				},
				"cwe": "(CWE-416|CWE-20)",
			})
		case "/cve/CVE-2024-0002.json":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"name":    "CVE-2024-0002",
				"details": []string{"Legacy scored flaw."},
				"cvss":    map[string]string{"cvss_scoring_vector": "AV:N/AC:L/Au:N/C:P/I:P/A:P"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	s := NewRedHatService(srv.Client(), srv.URL, 0, 100, 0, 0)

	info, err := s.Lookup(t.Context(), "CVE-2024-0001")
	require.NoError(t, err)
	assert.Equal(t, "A flaw was found.", info.Description)
	assert.Equal(t, "use after free", info.Summary)
	require.NotNil(t, info.Score)
	assert.InDelta(t, 8.1, *info.Score, 0.001)
	assert.Equal(t, []string{"CWE-416", "CWE-20"}, info.Weaknesses)

	// the score is computed from the vector if it is missing
	info, err = s.Lookup(t.Context(), "CVE-2024-0002")
	require.NoError(t, err)
	require.NotNil(t, info.Score)
	assert.InDelta(t, 7.5, *info.Score, 0.001)
	assert.Empty(t, info.Summary)

	_, err = s.Lookup(t.Context(), "CVE-2024-0404")
	assert.Error(t, err)
}

func TestRedHatSummaries(t *testing.T) {
	t.Run("should query in batches", func(t *testing.T) {
		var mu sync.Mutex
		var batches []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/cve.json", r.URL.Path)
			ids := r.URL.Query().Get("ids")
			mu.Lock()
			batches = append(batches, ids)
			mu.Unlock()
			entries := []map[string]string{}
			for _, id := range strings.Split(ids, ",") {
				entries = append(entries, map[string]string{"CVE": id, "bugzilla_description": id + " pkg: summary of " + id})
			}
			// entries without a description are ignored
			entries = append(entries, map[string]string{"CVE": "CVE-2000-0000"})
			_ = json.NewEncoder(w).Encode(entries)
		}))
		defer srv.Close()

		s := NewRedHatService(srv.Client(), srv.URL, 0, 2, 0, 0)
		res, err := s.Summaries(t.Context(), []string{"CVE-2024-0001", "CVE-2024-0002", "CVE-2024-0003"})
		require.NoError(t, err)

		mu.Lock()
		assert.Equal(t, []string{"CVE-2024-0001,CVE-2024-0002", "CVE-2024-0003"}, batches)
		mu.Unlock()
		assert.Equal(t, map[string]string{
			"CVE-2024-0001": "summary of CVE-2024-0001",
			"CVE-2024-0002": "summary of CVE-2024-0002",
			"CVE-2024-0003": "summary of CVE-2024-0003",
		}, res)
	})

	t.Run("should retry a failing batch and skip it afterwards", func(t *testing.T) {
		var requests atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		s := NewRedHatService(srv.Client(), srv.URL, 0, 100, 0, 2)
		res, err := s.Summaries(t.Context(), []string{"CVE-2024-0001"})
		require.NoError(t, err)
		assert.Empty(t, res)
		assert.Equal(t, int32(3), requests.Load())
	})
}
