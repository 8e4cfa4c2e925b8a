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
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

type cachedResponse struct {
	status int
	header http.Header
	body   []byte
}

// CachingTransport remembers vulnerability lookups for a fixed lifetime.
// Projects of the same repository name search NVD with the same keyword, and
// concurrent identical lookups from several ingestion workers share one request.
// A 404 is kept as well, asking again within the lifetime gives the same answer.
type CachingTransport struct {
	next     http.RoundTripper
	lookups  *expirable.LRU[string, cachedResponse]
	inflight singleflight.Group
}

func NewCachingTransport(next http.RoundTripper, size int, ttl time.Duration) *CachingTransport {
	if next == nil {
		next = http.DefaultTransport
	}
	return &CachingTransport{
		next:    next,
		lookups: expirable.NewLRU[string, cachedResponse](size, nil, ttl),
	}
}

func (c *CachingTransport) Len() int {
	return c.lookups.Len()
}

func (c *CachingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.next.RoundTrip(req)
	}

	key := lookupKey(req)
	if cached, ok := c.lookups.Get(key); ok {
		slog.Debug("lookup served from cache", "url", req.URL.Redacted())
		return cached.response(req), nil
	}

	v, err, _ := c.inflight.Do(key, func() (any, error) {
		res, err := c.next.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		defer res.Body.Close()
		body, err := io.ReadAll(res.Body)
		if err != nil {
			return nil, err
		}
		cached := cachedResponse{status: res.StatusCode, header: res.Header.Clone(), body: body}
		if isCacheable(res.StatusCode) {
			c.lookups.Add(key, cached)
		}
		return cached, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(cachedResponse).response(req), nil
}

func isCacheable(status int) bool {
	return (status >= 200 && status < 300) || status == http.StatusNotFound
}

func (c cachedResponse) response(req *http.Request) *http.Response {
	return &http.Response{
		Status:        http.StatusText(c.status),
		StatusCode:    c.status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        c.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(c.body)),
		ContentLength: int64(len(c.body)),
		Request:       req,
	}
}

// lookupKey keeps the NVD api key out of the cache while separating its quota.
func lookupKey(req *http.Request) string {
	apiKey := req.Header.Get("apiKey")
	if apiKey == "" {
		return req.URL.String()
	}
	sum := sha256.Sum256([]byte(apiKey))
	return hex.EncodeToString(sum[:8]) + " " + req.URL.String()
}
