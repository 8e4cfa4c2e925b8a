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
	"log/slog"
	"strings"

	gocvss20 "github.com/pandatix/go-cvss/20"
	gocvss30 "github.com/pandatix/go-cvss/30"
	gocvss31 "github.com/pandatix/go-cvss/31"
	gocvss40 "github.com/pandatix/go-cvss/40"
)

// ScoreFromVector computes the base score of a cvss vector of any version.
func ScoreFromVector(vector string) (float64, bool) {
	var (
		score float64
		err   error
	)
	switch {
	case vector == "":
		return 0, false
	case strings.HasPrefix(vector, "CVSS:4.0"):
		var c *gocvss40.CVSS40
		if c, err = gocvss40.ParseVector(vector); err == nil {
			score = c.Score()
		}
	case strings.HasPrefix(vector, "CVSS:3.1"):
		var c *gocvss31.CVSS31
		if c, err = gocvss31.ParseVector(vector); err == nil {
			score = c.BaseScore()
		}
	case strings.HasPrefix(vector, "CVSS:3.0"):
		var c *gocvss30.CVSS30
		if c, err = gocvss30.ParseVector(vector); err == nil {
			score = c.BaseScore()
		}
	default:
		var c *gocvss20.CVSS20
		if c, err = gocvss20.ParseVector(vector); err == nil {
			score = c.BaseScore()
		}
	}
	if err != nil {
		slog.Warn("could not parse cvss vector", "vector", vector, "err", err)
		return 0, false
	}
	return score, true
}

// resolveScore prefers the published base score and falls back to the vector.
func resolveScore(baseScore float64, vector string) *float32 {
	if baseScore > 0 {
		s := float32(baseScore)
		return &s
	}
	if s, ok := ScoreFromVector(vector); ok {
		f := float32(s)
		return &f
	}
	return nil
}
