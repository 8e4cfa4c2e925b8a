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

package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var IngestionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "fixcurator_ingestion_duration_minutes",
	Help:    "Duration of repository ingestions in minutes",
	Buckets: prometheus.DefBuckets,
})

var IngestionJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fixcurator_ingestion_jobs_total",
	Help: "The total number of finished ingestion jobs by status",
}, []string{"status"})

var CommitsIngestedAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "fixcurator_commits_ingested_amount",
	Help: "The total number of ingested vulnerability fixing commits",
})

var DiffParseErrorsAmount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "fixcurator_diff_parse_errors_amount",
	Help: "The total number of diffs which could not be parsed",
})

var EnrichmentRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "fixcurator_enrichment_requests_total",
	Help: "The total number of requests against vulnerability databases",
}, []string{"source", "outcome"})

var ExportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Name:    "fixcurator_export_duration_seconds",
	Help:    "Duration of export document generation in seconds",
	Buckets: prometheus.DefBuckets,
})

var ExportsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "fixcurator_exports_active",
	Help: "The number of export documents which did not expire yet",
})
