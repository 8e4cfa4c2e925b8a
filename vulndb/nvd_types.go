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

type nvdCvssData struct {
	Version      string  `json:"version"`
	VectorString string  `json:"vectorString"`
	BaseScore    float64 `json:"baseScore"`
}

type nvdCvssMetric struct {
	Source   string      `json:"source"`
	Type     string      `json:"type"`
	CvssData nvdCvssData `json:"cvssData"`
}

type nvdCVE struct {
	ID           string `json:"id"`
	Published    string `json:"published"`
	LastModified string `json:"lastModified"`
	VulnStatus   string `json:"vulnStatus"`
	Descriptions []struct {
		Lang  string `json:"lang"`
		Value string `json:"value"`
	} `json:"descriptions"`
	Metrics struct {
		CvssMetricV40 []nvdCvssMetric `json:"cvssMetricV40"`
		CvssMetricV31 []nvdCvssMetric `json:"cvssMetricV31"`
		CvssMetricV30 []nvdCvssMetric `json:"cvssMetricV30"`
		CvssMetricV2  []nvdCvssMetric `json:"cvssMetricV2"`
	} `json:"metrics"`
	Weaknesses []struct {
		Source      string `json:"source"`
		Type        string `json:"type"`
		Description []struct {
			Lang  string `json:"lang"`
			Value string `json:"value"`
		} `json:"description"`
	} `json:"weaknesses"`
}

// this is the response from the NIST API
// https://services.nvd.nist.gov/rest/json/cves/2.0
type nistResponse struct {
	ResultsPerPage  int    `json:"resultsPerPage"`
	StartIndex      int    `json:"startIndex"`
	TotalResults    int    `json:"totalResults"`
	Format          string `json:"format"`
	Version         string `json:"version"`
	Timestamp       string `json:"timestamp"`
	Vulnerabilities []struct {
		Cve nvdCVE `json:"cve"`
	} `json:"vulnerabilities"`
}

// the two shapes of the redhat security data api
// https://access.redhat.com/hydra/rest/securitydata
type redhatCVEListEntry struct {
	CVE                 string `json:"CVE"`
	BugzillaDescription string `json:"bugzilla_description"`
}

type redhatCVS struct {
	BaseScore     string `json:"cvss3_base_score"`
	LegacyScore   string `json:"cvss_base_score"`
	ScoringVector string `json:"cvss3_scoring_vector"`
	LegacyVector  string `json:"cvss_scoring_vector"`
}

type redhatCVE struct {
	Name     string   `json:"name"`
	Details  []string `json:"details"`
	Bugzilla *struct {
		Description string `json:"description"`
	} `json:"bugzilla"`
	CVSS3 *redhatCVS `json:"cvss3"`
	CVSS  *redhatCVS `json:"cvss"`
	CWE   string     `json:"cwe"`
}
